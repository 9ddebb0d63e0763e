//go:build windows

package windows

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jetrmm/teagent/agent"
	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/internal/registry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sys/windows"
)

func init() {
	registry.Register(windowsHost{})
}

type windowsHost struct{}

func (windowsHost) Host(ctx context.Context, logger *logrus.Logger) (*agent.Host, error) {
	plat, err := agent.DetectPlatform(ctx)
	if err != nil {
		return nil, err
	}
	plat.Kind = agent.KindWindows

	fs := afero.NewOsFs()
	return &agent.Host{
		Platform:   plat,
		Fs:         fs,
		Downloader: common.NewDownloader(fs, logger),
		Runner:     &windowsRunner{Logger: logger},
		Services:   common.ServiceController{},
		Packages:   &softwareProber{Logger: logger},
	}, nil
}

// windowsRunner hands CreateProcess a prebuilt command line. Go's default
// argument quoting suits neither msiexec properties nor cmd.exe.
type windowsRunner struct {
	Logger *logrus.Logger
}

func (r *windowsRunner) Run(ctx context.Context, c common.Command) ([2]string, error) {
	var cmdLine string
	runner := &common.ExecRunner{Logger: r.Logger}

	switch {
	case isScript(c.Path):
		runner.Shell = []string{SHELL_CMD}
		cmdLine = common.ShellCmdLine(SHELL_CMD, c)
	case strings.EqualFold(filepath.Base(c.Path), common.MSIEXEC):
		cmdLine = common.MsiCmdLine(c)
	}

	runner.Prepare = func(cmd *exec.Cmd) {
		cmd.SysProcAttr = &windows.SysProcAttr{
			CmdLine:       cmdLine,
			CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
		}
	}
	return runner.Run(ctx, c)
}

func isScript(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".cmd" || ext == ".bat"
}
