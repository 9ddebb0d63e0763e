//go:build !windows

package unix

import (
	"context"

	"github.com/jetrmm/teagent/agent"
	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/internal/registry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func init() {
	registry.Register(unixHost{})
}

type unixHost struct{}

func (unixHost) Host(ctx context.Context, logger *logrus.Logger) (*agent.Host, error) {
	plat, err := agent.DetectPlatform(ctx)
	if err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()
	runner := &common.ExecRunner{Logger: logger}
	return &agent.Host{
		Platform:   plat,
		Fs:         fs,
		Downloader: common.NewDownloader(fs, logger),
		Runner:     runner,
		Services:   common.ServiceController{},
		Packages:   NewPackageQuery(plat.Family, runner, logger),
	}, nil
}
