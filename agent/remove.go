package agent

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/agent/config"
	"github.com/kardianos/service"
	"github.com/spf13/afero"
)

// Remove stops the agent service and runs the uninstaller when the agent
// daemon is present in the install directory.
//
// The existence check looks at the filesystem rather than the package
// database, which is not refreshed reliably right after an install.
func (a *Installer) Remove(ctx context.Context, req *config.Request) (err error) {
	report := a.newReport(common.ACTION_REMOVE)
	defer func() { a.finish(report, err) }()

	prof := a.Platform.Profile()
	installDir := a.Platform.ResolveInstallDir(req.InstallDirectory)

	if err := a.stopService(prof.ServiceName); err != nil {
		return err
	}

	present, err := a.daemonPresent(installDir)
	if err != nil {
		return err
	}

	if present {
		cmd := BuildUninstallCommand(req, a.Platform)
		report.Command = cmd.Redacted()
		if req.RemoveAll {
			a.Logger.Infoln("Removing all files from agent install directory")
		} else {
			a.Logger.Infoln("Uninstall will leave some files on the system")
		}

		runCtx, cancel := context.WithTimeout(ctx, a.Timeout)
		defer cancel()
		if _, err := a.Runner.Run(runCtx, cmd); err != nil {
			return fmt.Errorf("uninstaller failed: %w", err)
		}
	} else {
		a.Logger.Infoln("Tripwire Enterprise agent not found in", installDir)
		report.Skipped = true
	}

	if a.Platform.NeedsDaemonReload() {
		a.Logger.Debugln("Reloading systemd units")
		if _, err := a.Runner.Run(ctx, DaemonReloadCommand()); err != nil {
			return fmt.Errorf("systemctl daemon-reload failed: %w", err)
		}
	}
	return nil
}

func (a *Installer) stopService(name string) error {
	status, err := a.Services.Status(name)
	switch {
	case common.IsNotInstalled(err):
		a.Logger.Debugf("Service %s is not installed", name)
		return nil
	case err == nil && status == service.StatusStopped:
		a.Logger.Debugf("Service %s is already stopped", name)
		return nil
	}

	a.Logger.Infoln("Stopping service", name)
	if err := a.Services.Stop(name); err != nil {
		return fmt.Errorf("could not stop service %s: %w", name, err)
	}
	return nil
}

func (a *Installer) daemonPresent(installDir string) (bool, error) {
	probe := filepath.Join(installDir, "bin", a.Platform.Profile().DaemonProbe)
	ok, err := afero.Exists(a.Fs, probe)
	if err != nil {
		return false, fmt.Errorf("could not check %s: %w", probe, err)
	}
	return ok, nil
}

// StatusReport describes what is currently on the host
type StatusReport struct {
	Platform      Platform
	InstallDir    string
	Installed     bool // Package registered with the OS
	DaemonPresent bool // Agent daemon found in the install directory
	Service       string
}

// Status inspects the host without changing anything
func (a *Installer) Status(ctx context.Context, req *config.Request) (*StatusReport, error) {
	prof := a.Platform.Profile()
	s := &StatusReport{
		Platform:   a.Platform,
		InstallDir: a.Platform.ResolveInstallDir(req.InstallDirectory),
	}

	var err error
	if s.Installed, err = a.Packages.IsInstalled(ctx, prof.PackageName); err != nil {
		return nil, fmt.Errorf("could not query package %s: %w", prof.PackageName, err)
	}
	if s.DaemonPresent, err = a.daemonPresent(s.InstallDir); err != nil {
		return nil, err
	}
	s.Service = common.StatusString(a.Services.Status(prof.ServiceName))
	return s, nil
}
