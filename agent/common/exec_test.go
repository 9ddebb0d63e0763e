//go:build !windows

package common

import (
	"context"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	r := &ExecRunner{Logger: testLogger()}

	out, err := r.Run(context.Background(), Command{Path: "sh", Args: []string{"-c", "pwd; echo oops >&2"}, Dir: "/"})
	require.NoError(t, err)
	assert.Equal(t, "/", StripAll(out[0]))
	assert.Equal(t, "oops", StripAll(out[1]))
}

func TestExecRunnerFailure(t *testing.T) {
	r := &ExecRunner{Logger: testLogger()}

	_, err := r.Run(context.Background(), Command{Path: "sh", Args: []string{"-c", "echo denied >&2; exit 3"}})
	assert.ErrorContains(t, err, "exit status 3")
	assert.ErrorContains(t, err, "denied")
}

func TestExecRunnerShell(t *testing.T) {
	r := &ExecRunner{Logger: testLogger(), Shell: []string{"sh", "-c"}}

	out, err := r.Run(context.Background(), Command{Path: "echo $0-$1", Args: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "a-b", StripAll(out[0]))
}

func TestExecRunnerTimeout(t *testing.T) {
	r := &ExecRunner{Logger: testLogger()}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, Command{Path: "sleep", Args: []string{"10"}})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecRunnerTimeoutKillsGrandchildren(t *testing.T) {
	r := &ExecRunner{Logger: testLogger(), WaitDelay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, Command{Path: "sh", Args: []string{"-c", "sh -c 'sleep 6; true' & wait"}})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecRunnerBackgroundChildHoldingOutput(t *testing.T) {
	r := &ExecRunner{Logger: testLogger(), WaitDelay: 500 * time.Millisecond}

	start := time.Now()
	out, err := r.Run(context.Background(), Command{Path: "sh", Args: []string{"-c", "echo started; sleep 5 &"}})

	require.NoError(t, err)
	assert.Equal(t, "started", StripAll(out[0]))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestKillProcTree(t *testing.T) {
	// process.Children shells out to pgrep
	if _, err := exec.LookPath("pgrep"); err != nil {
		t.Skip("pgrep not available")
	}

	r := &ExecRunner{Logger: testLogger(), WaitDelay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	out, err := r.Run(ctx, Command{Path: "sh", Args: []string{"-c", "sh -c 'echo $$ >&2; sleep 6; true' & wait"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	pid, err := strconv.Atoi(StripAll(out[1]))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		p, err := process.NewProcess(int32(pid))
		if err != nil {
			return true
		}
		status, err := p.Status()
		if err != nil {
			return true
		}
		return len(status) > 0 && status[0] == process.Zombie
	}, 3*time.Second, 50*time.Millisecond)
}
