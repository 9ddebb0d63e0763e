package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

// ExecRunner runs commands on the local host
type ExecRunner struct {
	Logger *logrus.Logger

	// Shell is prepended to every command, e.g. cmd.exe /C on Windows
	Shell []string

	// Prepare is called on each *exec.Cmd before it starts
	Prepare func(cmd *exec.Cmd)

	// WaitDelay bounds how long Run waits for output pipes once the process
	// has exited or been killed, EXEC_WAIT_DELAY when zero
	WaitDelay time.Duration
}

// Run executes c and waits for it. Cancelling ctx kills the whole process tree.
func (r *ExecRunner) Run(ctx context.Context, c Command) (output [2]string, e error) {
	name := c.Path
	args := c.Args
	if len(r.Shell) > 0 {
		name = r.Shell[0]
		args = append(append(append([]string{}, r.Shell[1:]...), c.Path), c.Args...)
	}

	var outb, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = c.Dir
	cmd.Stdout = &outb
	cmd.Stderr = &errb
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return KillProc(int32(cmd.Process.Pid))
	}
	// Descendants left running with our stdout/stderr must not hold up Wait
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = EXEC_WAIT_DELAY * time.Second
	}
	if r.Prepare != nil {
		r.Prepare(cmd)
	}

	if r.Logger != nil {
		r.Logger.Debugln("Running:", c.Redacted())
	}

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return [2]string{outb.String(), errb.String()}, fmt.Errorf("%s: %w", c.Path, ctx.Err())
	}
	if errors.Is(err, exec.ErrWaitDelay) {
		if r.Logger != nil {
			r.Logger.Debugf("%s exited, left background processes holding its output", c.Path)
		}
		err = nil
	}
	if err != nil {
		return [2]string{outb.String(), errb.String()}, fmt.Errorf("%s: %w: %s", c.Path, err, StripAll(errb.String()))
	}

	return [2]string{outb.String(), errb.String()}, nil
}
