package agent

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/agent/config"
	"github.com/jetrmm/teagent/shared"
	"github.com/kardianos/service"
)

// Install downloads and runs the TE agent installer, writes the optional
// tags and proxy configuration, then starts the agent service.
// An existing installation skips only the installer run.
func (a *Installer) Install(ctx context.Context, req *config.Request) (err error) {
	report := a.newReport(common.ACTION_INSTALL)
	defer func() { a.finish(report, err) }()

	prof := a.Platform.Profile()
	installDir := a.Platform.ResolveInstallDir(req.InstallDirectory)

	if err := req.ValidateInstall(); err != nil {
		return err
	}
	if err := CheckInstallDir(req, a.Platform); err != nil {
		return err
	}

	a.preflight(req)

	installed, err := a.Packages.IsInstalled(ctx, prof.PackageName)
	if err != nil {
		return fmt.Errorf("could not query package %s: %w", prof.PackageName, err)
	}
	a.Logger.Debugf("Package %s installed: %v", prof.PackageName, installed)

	localInstaller := a.LocalInstaller()
	var mode os.FileMode
	if !a.Platform.IsWindows() {
		mode = 0744
	}
	source := common.InstallerSource(req.Installer)
	a.Logger.Infoln("Downloading installer from", source)
	if err := a.Downloader.Download(ctx, source, localInstaller, mode); err != nil {
		return fmt.Errorf("could not download installer: %w", err)
	}

	cmd, err := BuildInstallCommand(req, a.Platform, localInstaller)
	if err != nil {
		return err
	}
	report.Command = cmd.Redacted()

	if installed {
		a.Logger.Infoln("Tripwire Enterprise agent is already installed, skipping installer")
		report.Skipped = true
	} else {
		a.Logger.Infoln("Installing Tripwire Enterprise Java agent")
		runCtx, cancel := context.WithTimeout(ctx, a.Timeout)
		defer cancel()
		out, err := a.Runner.Run(runCtx, cmd)
		if err != nil {
			return fmt.Errorf("installer failed: %w", err)
		}
		a.Logger.Debugln("Installer output:", common.StripAll(out[0]))
	}
	report.Installed = true

	if len(req.Tags) > 0 {
		path := TagsPath(installDir)
		a.Logger.Infoln("Writing agent tags to", path)
		if err := writeTagsFile(a.Fs, path, req.Tags); err != nil {
			return err
		}
	}

	if req.ProxyAgent {
		path := PropertiesPath(installDir)
		changed, err := editPropertiesFile(a.Fs, path, req.ProxyPort)
		if err != nil {
			return err
		}
		if changed {
			a.Logger.Infoln("Added proxy settings to", path)
		}
	}

	if !req.StartService {
		a.Logger.Warnln("Agent service has not been started per configuration.")
		return nil
	}
	return a.startService(prof.ServiceName)
}

func (a *Installer) startService(name string) error {
	status, err := a.Services.Status(name)
	if err == nil && status == service.StatusRunning {
		a.Logger.Debugf("Service %s is already running", name)
		return nil
	}

	a.Logger.Infoln("Starting service", name)
	if err := a.Services.Start(name); err != nil {
		return fmt.Errorf("could not start service %s: %w", name, err)
	}
	return nil
}

// preflight only warns, the installer itself reports enrollment failures
func (a *Installer) preflight(req *config.Request) {
	if a.Preflight == nil {
		return
	}
	addr := net.JoinHostPort(req.Console, strconv.Itoa(req.ConsolePort))
	if err := a.Preflight(addr); err != nil {
		a.Logger.Warnf("TE console %s is not reachable: %v", addr, err)
	}
}

func (a *Installer) newReport(action string) *shared.RunReport {
	r := shared.NewRunReport(action, a.Version)
	if id, err := common.GenerateRunID(); err == nil {
		r.RunID = id.String()
	}
	r.Hostname = a.Platform.Hostname
	r.Platform = a.Platform.String()
	return r
}

func (a *Installer) finish(r *shared.RunReport, err error) {
	r.Finish(err)
	if a.Reporter == nil {
		return
	}
	if rerr := a.Reporter.Report(r); rerr != nil {
		a.Logger.Warnln("Could not publish run report:", rerr)
	}
}
