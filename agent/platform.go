package agent

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/shirou/gopsutil/v3/host"
)

type Kind int

const (
	KindUnix Kind = iota
	KindWindows
)

func (k Kind) String() string {
	if k == KindWindows {
		return "windows"
	}
	return "unix"
}

// Platform identifies the host the agent is installed on
type Platform struct {
	Kind     Kind
	Name     string // e.g. "ubuntu", "redhat", "centos", "Microsoft Windows Server 2019"
	Family   string // e.g. "debian", "rhel", "suse", "Server"
	Version  string // e.g. "22.04", "7.9.2009"
	Hostname string
}

// Profile carries the per-platform constants of the TE agent
type Profile struct {
	Ext               string
	DefaultInstallDir string
	ServiceName       string
	PackageName       string
	Uninstaller       string
	DaemonProbe       string // relative to <install dir>/bin
}

var (
	windowsProfile = Profile{
		Ext:               ".msi",
		DefaultInstallDir: `C:\Program Files\Tripwire\TE\Agent`,
		ServiceName:       "teagent",
		PackageName:       "Tripwire Enterprise Agent",
		Uninstaller:       "uninstall.cmd",
		DaemonProbe:       "twdaemon.cmd",
	}
	unixProfile = Profile{
		Ext:               ".bin",
		DefaultInstallDir: "/usr/local/tripwire/te/agent",
		ServiceName:       "twdaemon",
		PackageName:       "TWeagent",
		Uninstaller:       "./uninstall.sh",
		DaemonProbe:       "twdaemon",
	}

	minSystemdRHEL = version.Must(version.NewVersion("7.0"))
)

func (p Platform) Profile() Profile {
	if p.Kind == KindWindows {
		return windowsProfile
	}
	return unixProfile
}

func (p Platform) IsWindows() bool { return p.Kind == KindWindows }

// IsDebian is true on Debian and Ubuntu, where the agent cannot be relocated
func (p Platform) IsDebian() bool {
	return p.Name == "debian" || p.Name == "ubuntu"
}

// NeedsDaemonReload reports whether systemd must be reloaded after removal
// so that the twrtmd unit disappears
func (p Platform) NeedsDaemonReload() bool {
	if p.Kind == KindWindows {
		return false
	}
	switch p.Family {
	case "debian":
		return true
	case "rhel":
		v, err := version.NewVersion(p.Version)
		if err != nil {
			return false
		}
		return v.GreaterThanOrEqual(minSystemdRHEL)
	}
	return false
}

func (p Platform) String() string {
	return fmt.Sprintf("%s %s (%s)", p.Name, p.Version, p.Family)
}

// ResolveInstallDir returns dir, or the platform default when dir is empty
func (p Platform) ResolveInstallDir(dir string) string {
	if dir == "" {
		return p.Profile().DefaultInstallDir
	}
	return dir
}

// DetectPlatform reads the host's platform information
func DetectPlatform(ctx context.Context) (Platform, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Platform{}, fmt.Errorf("failed to get host info: %w", err)
	}

	p := Platform{
		Kind:     KindUnix,
		Name:     strings.ToLower(info.Platform),
		Family:   strings.ToLower(info.PlatformFamily),
		Version:  info.PlatformVersion,
		Hostname: info.Hostname,
	}
	if info.OS == "windows" || runtime.GOOS == "windows" {
		p.Kind = KindWindows
	}
	return p, nil
}
