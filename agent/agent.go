package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/shared"
	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	// ErrCustomInstallDir is returned on platforms where the agent must use its default path
	ErrCustomInstallDir = errors.New("remove custom install directory, agent must use the default install path on this platform")
)

type Downloader interface {
	Download(ctx context.Context, source, dest string, mode os.FileMode) error
}

type Runner interface {
	Run(ctx context.Context, c common.Command) ([2]string, error)
}

type ServiceManager interface {
	Start(name string) error
	Stop(name string) error
	Status(name string) (service.Status, error)
}

// PackageProber answers whether the TE agent package is registered with the OS
type PackageProber interface {
	IsInstalled(ctx context.Context, name string) (bool, error)
}

// Reporter receives a summary of every install or remove run
type Reporter interface {
	Report(r *shared.RunReport) error
}

// Host bundles the OS collaborators for the current platform
type Host struct {
	Platform   Platform
	Fs         afero.Fs
	Downloader Downloader
	Runner     Runner
	Services   ServiceManager
	Packages   PackageProber
}

type Options struct {
	CacheDir string        // Where the installer is downloaded to
	Timeout  time.Duration // Upper bound for the installer and uninstaller
	Version  string
}

// DefaultCacheDir mirrors a config management file cache
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), "teagent")
}

type Installer struct {
	*Host
	Options
	Logger   *logrus.Logger
	Reporter Reporter

	// Preflight probes console reachability, nil disables it
	Preflight func(addr string) error
}

func New(logger *logrus.Logger, host *Host, opts Options) *Installer {
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir()
	}
	if opts.Timeout == 0 {
		opts.Timeout = common.DEFAULT_INSTALL_TIMEOUT * time.Minute
	}
	return &Installer{
		Host:    host,
		Options: opts,
		Logger:  logger,
	}
}

// LocalInstaller is the cache path the installer is downloaded to
func (a *Installer) LocalInstaller() string {
	return filepath.Join(a.CacheDir, common.CACHE_INSTALLER_NAME+a.Platform.Profile().Ext)
}
