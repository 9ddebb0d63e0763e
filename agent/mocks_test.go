package agent

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/agent/config"
	"github.com/jetrmm/teagent/shared"
	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
)

var (
	ubuntu  = Platform{Kind: KindUnix, Name: "ubuntu", Family: "debian", Version: "22.04", Hostname: "web01"}
	centos7 = Platform{Kind: KindUnix, Name: "centos", Family: "rhel", Version: "7.9.2009", Hostname: "db01"}
	centos6 = Platform{Kind: KindUnix, Name: "centos", Family: "rhel", Version: "6.10", Hostname: "legacy01"}
	sles    = Platform{Kind: KindUnix, Name: "sles", Family: "suse", Version: "15.4", Hostname: "sap01"}
	win2019 = Platform{Kind: KindWindows, Name: "microsoft windows server 2019 datacenter", Family: "server", Version: "10.0.17763", Hostname: "DC01"}
)

type mockDownloader struct {
	mock.Mock
}

func (m *mockDownloader) Download(ctx context.Context, source, dest string, mode os.FileMode) error {
	return m.Called(source, dest, mode).Error(0)
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, c common.Command) ([2]string, error) {
	args := m.Called(c)
	return args.Get(0).([2]string), args.Error(1)
}

// commands returns every command passed to Run, in order
func (m *mockRunner) commands() []common.Command {
	var cmds []common.Command
	for _, call := range m.Calls {
		if call.Method == "Run" {
			cmds = append(cmds, call.Arguments.Get(0).(common.Command))
		}
	}
	return cmds
}

type mockServices struct {
	mock.Mock
}

func (m *mockServices) Start(name string) error { return m.Called(name).Error(0) }
func (m *mockServices) Stop(name string) error  { return m.Called(name).Error(0) }

func (m *mockServices) Status(name string) (service.Status, error) {
	args := m.Called(name)
	return args.Get(0).(service.Status), args.Error(1)
}

type mockPackages struct {
	mock.Mock
}

func (m *mockPackages) IsInstalled(ctx context.Context, name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

type recordingReporter struct {
	reports []*shared.RunReport
}

func (r *recordingReporter) Report(report *shared.RunReport) error {
	r.reports = append(r.reports, report)
	return nil
}

func (r *recordingReporter) last() *shared.RunReport {
	if len(r.reports) == 0 {
		return nil
	}
	return r.reports[len(r.reports)-1]
}

type fixture struct {
	a        *Installer
	fs       afero.Fs
	dl       *mockDownloader
	run      *mockRunner
	svc      *mockServices
	pkgs     *mockPackages
	reporter *recordingReporter
}

func newFixture(t *testing.T, p Platform) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		fs:       afero.NewMemMapFs(),
		dl:       &mockDownloader{},
		run:      &mockRunner{},
		svc:      &mockServices{},
		pkgs:     &mockPackages{},
		reporter: &recordingReporter{},
	}
	f.a = New(logger, &Host{
		Platform:   p,
		Fs:         f.fs,
		Downloader: f.dl,
		Runner:     f.run,
		Services:   f.svc,
		Packages:   f.pkgs,
	}, Options{CacheDir: "/var/cache/te", Version: "test"})
	f.a.Reporter = f.reporter

	t.Cleanup(func() {
		f.dl.AssertExpectations(t)
		f.run.AssertExpectations(t)
		f.svc.AssertExpectations(t)
		f.pkgs.AssertExpectations(t)
	})
	return f
}

func testRequest() *config.Request {
	r := config.Default()
	r.Installer = "/opt/pkgs/te_agent.bin"
	r.Console = "console.example.com"
	r.ServicesPassword = "s3cret"
	return r
}
