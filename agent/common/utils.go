package common

import (
	"net"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// StripAll strips all whitespace and newline chars
func StripAll(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\n")
	s = strings.Trim(s, "\r")
	return s
}

// KillProc kills a process and all of its descendants
func KillProc(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}

	// Collect the tree first, killed children get reparented
	tree := descendants(p)

	if err := p.Kill(); err != nil {
		return err
	}
	for _, child := range tree {
		if err := child.Kill(); err != nil {
			continue
		}
	}
	return nil
}

func descendants(p *process.Process) []*process.Process {
	children, err := p.Children()
	if err != nil {
		return nil
	}
	all := make([]*process.Process, 0, len(children))
	for _, child := range children {
		all = append(all, child)
		all = append(all, descendants(child)...)
	}
	return all
}

// TestTCP dials addr once. Used as an advisory reachability probe for the console.
func TestTCP(addr string) error {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()
	return nil
}
