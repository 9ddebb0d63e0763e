package agent

import (
	"path/filepath"
	"strconv"

	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/agent/config"
)

// BuildInstallCommand assembles the installer invocation for the platform.
// Windows runs msiexec with KEY=value properties, Unix takes GNU style long options.
func BuildInstallCommand(req *config.Request, p Platform, localInstaller string) (common.Command, error) {
	if err := CheckInstallDir(req, p); err != nil {
		return common.Command{}, err
	}
	if p.IsWindows() {
		return windowsInstallCommand(req, p, localInstaller), nil
	}
	return unixInstallCommand(req, p, localInstaller), nil
}

// CheckInstallDir rejects a relocated agent on Debian and Ubuntu
func CheckInstallDir(req *config.Request, p Platform) error {
	if p.IsWindows() || !p.IsDebian() {
		return nil
	}
	if isCustomDir(req, p) {
		return ErrCustomInstallDir
	}
	return nil
}

func isCustomDir(req *config.Request, p Platform) bool {
	return req.InstallDirectory != "" && req.InstallDirectory != p.Profile().DefaultInstallDir
}

func windowsInstallCommand(req *config.Request, p Platform, localInstaller string) common.Command {
	args := []string{
		"/i", localInstaller,
		"/qn",
		"ACCEPT_EULA=true",
		"TE_SERVER_HOSTNAME=" + req.Console,
		"TE_SERVER_PORT=" + strconv.Itoa(req.ConsolePort),
		"SERVICES_PASSWORD=" + req.ServicesPassword,
		"INSTALL_RTM=" + strconv.FormatBool(req.InstallRTM),
	}

	if isCustomDir(req, p) {
		args = append(args, "INSTALLDIR="+req.InstallDirectory)
	}
	if req.ProxyHostname != "" {
		args = append(args, "TE_PROXY_HOSTNAME="+req.ProxyHostname)
		if req.ProxyPort != config.DEFAULT_PROXY_PORT {
			args = append(args, "TE_PROXY_PORT="+strconv.Itoa(req.ProxyPort))
		}
	}
	if req.InstallRTM && req.RTMPort != config.DEFAULT_RTM_PORT {
		args = append(args, "RTMPORT="+strconv.Itoa(req.RTMPort))
	}
	if req.FIPS {
		args = append(args, "INSTALL_FIPS=true")
		if req.IntegrationPort != config.DEFAULT_INTEGRATION_PORT {
			args = append(args, "TE_SERVER_HTTP_PORT="+strconv.Itoa(req.IntegrationPort))
		}
	}
	// The service is started separately, after the config files are in place
	args = append(args, "START_AGENT=false")

	return common.Command{
		Path:    common.MSIEXEC,
		Args:    args,
		Secrets: []string{req.ServicesPassword},
	}
}

func unixInstallCommand(req *config.Request, p Platform, localInstaller string) common.Command {
	args := []string{
		"--silent",
		"--eula", "accept",
		"--server-host", req.Console,
		"--server-port", strconv.Itoa(req.ConsolePort),
		"--passphrase", req.ServicesPassword,
		"--install-rtm", strconv.FormatBool(req.InstallRTM),
	}

	if isCustomDir(req, p) {
		args = append(args, "--install-dir", req.InstallDirectory)
	}
	if req.ProxyHostname != "" {
		args = append(args, "--proxy-host", req.ProxyHostname)
		if req.ProxyPort != config.DEFAULT_PROXY_PORT {
			args = append(args, "--proxy-port", strconv.Itoa(req.ProxyPort))
		}
	}
	if req.InstallRTM && req.RTMPort != config.DEFAULT_RTM_PORT {
		args = append(args, "--rtmport", strconv.Itoa(req.RTMPort))
	}
	if req.FIPS {
		args = append(args, "--enable-fips")
		if req.IntegrationPort != config.DEFAULT_INTEGRATION_PORT {
			args = append(args, "--http-port", strconv.Itoa(req.IntegrationPort))
		}
	}

	return common.Command{
		Path:    localInstaller,
		Args:    args,
		Secrets: []string{req.ServicesPassword},
	}
}

// BuildUninstallCommand runs the uninstaller shipped in <install dir>/bin
func BuildUninstallCommand(req *config.Request, p Platform) common.Command {
	prof := p.Profile()
	bin := filepath.Join(p.ResolveInstallDir(req.InstallDirectory), "bin")

	var args []string
	if req.RemoveAll {
		args = []string{"--removeall", "--force"}
	}

	return common.Command{
		Path: filepath.Join(bin, filepath.Base(prof.Uninstaller)),
		Args: args,
		Dir:  bin,
	}
}

// DaemonReloadCommand reloads systemd unit files
func DaemonReloadCommand() common.Command {
	return common.Command{
		Path: "systemctl",
		Args: []string{"daemon-reload"},
	}
}
