package unix

import (
	"context"
	"os/exec"
	"strings"

	"github.com/jetrmm/teagent/agent"
	"github.com/jetrmm/teagent/agent/common"
	"github.com/sirupsen/logrus"
)

const DPKG_INSTALLED = "install ok installed"

// PackageQuery asks the native package database whether a package is installed
type PackageQuery struct {
	Family string
	Runner agent.Runner
	Logger *logrus.Logger

	// LookPath finds the query tool, exec.LookPath by default
	LookPath func(file string) (string, error)
}

func NewPackageQuery(family string, runner agent.Runner, logger *logrus.Logger) *PackageQuery {
	return &PackageQuery{
		Family:   family,
		Runner:   runner,
		Logger:   logger,
		LookPath: exec.LookPath,
	}
}

// QueryCommand returns the package query for the family and the tool it needs
func QueryCommand(family, name string) common.Command {
	if family == "debian" {
		return common.Command{
			Path: "dpkg-query",
			Args: []string{"-W", "-f=${Status}", name},
		}
	}
	return common.Command{
		Path: "rpm",
		Args: []string{"-q", name},
	}
}

// IsInstalled treats a failing query as "not installed": both dpkg-query and
// rpm exit non-zero for unknown packages.
func (q *PackageQuery) IsInstalled(ctx context.Context, name string) (bool, error) {
	cmd := QueryCommand(q.Family, name)
	if _, err := q.LookPath(cmd.Path); err != nil {
		q.Logger.Debugf("%s not found, assuming %s is not installed", cmd.Path, name)
		return false, nil
	}

	out, err := q.Runner.Run(ctx, cmd)
	if err != nil {
		q.Logger.Debugln("Package query:", err)
		return false, nil
	}

	if cmd.Path == "dpkg-query" {
		return strings.Contains(out[0], DPKG_INSTALLED), nil
	}
	return true, nil
}
