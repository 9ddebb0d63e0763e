package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jetrmm/teagent/agent"
	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/agent/config"
	"github.com/jetrmm/teagent/internal/registry"

	_ "github.com/jetrmm/teagent/agent/unix"
	_ "github.com/jetrmm/teagent/agent/windows"

	"github.com/sirupsen/logrus"
)

var (
	version = "0.1.0"
	log     = logrus.New()
	logFile *os.File
)

const (
	AGENT_LOG_FILE = "teagent.log"

	MODE_INSTALL = "install"
	MODE_REMOVE  = "remove"
	MODE_STATUS  = "status"
	MODE_FLAGS   = "flags"
)

// tagFlags collects repeated -tag tagset:tag values
type tagFlags []string

func (t *tagFlags) String() string     { return strings.Join(*t, ",") }
func (t *tagFlags) Set(v string) error { *t = append(*t, v); return nil }

func main() {
	ver := flag.Bool("version", false, "Prints version and exits")
	mode := flag.String("m", MODE_INSTALL, "The mode to run: install, remove, status, flags")

	logLevel := flag.String("log", "INFO", "Log level: INFO*, WARN, ERROR, DEBUG")
	logTo := flag.String("logto", "stdout", "Log destination: file, stdout")

	requestFile := flag.String("config", "", "JSON file with the installation properties")
	envFile := flag.String("env", "", "Env file with TE_* overrides")
	cacheDir := flag.String("cache", agent.DefaultCacheDir(), "Installer download directory")
	timeout := flag.Duration("timeout", common.DEFAULT_INSTALL_TIMEOUT*time.Minute, "Installer timeout")
	natsURL := flag.String("nats", "", "NATS server to publish run reports to")
	preflight := flag.Bool("preflight", true, "Warn when the TE console is not reachable")

	// Properties. Only flags given on the command line override the config file and env.
	installer := flag.String("installer", "", "Installer path or http(s) URL")
	console := flag.String("console", "", "TE console hostname")
	consolePort := flag.Int("console-port", config.DEFAULT_CONSOLE_PORT, "TE console port")
	password := flag.String("password", "", "Services password (prefer TE_SERVICES_PASSWORD)")
	installDir := flag.String("install-dir", "", "Install directory (default: platform default)")
	installRTM := flag.Bool("install-rtm", true, "Install real-time monitoring")
	rtmPort := flag.Int("rtm-port", config.DEFAULT_RTM_PORT, "RTM port")
	proxyAgent := flag.Bool("proxy-agent", false, "Configure this agent as a socks proxy")
	proxyHost := flag.String("proxy-host", "", "Proxy hostname")
	proxyPort := flag.Int("proxy-port", config.DEFAULT_PROXY_PORT, "Proxy port")
	fips := flag.Bool("fips", false, "Enable FIPS mode")
	integrationPort := flag.Int("integration-port", config.DEFAULT_INTEGRATION_PORT, "HTTP integration port")
	startService := flag.Bool("start-service", true, "Start the agent service after install")
	removeAll := flag.Bool("removeall", true, "Remove all files on uninstall")
	var tags tagFlags
	flag.Var(&tags, "tag", "Agent tag as tagset:tag, repeatable")

	flag.Parse()

	if *ver {
		showVersionInfo(version)
		return
	}

	setupLogging(logLevel, logTo)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		log.Fatalln("Could not load env file:", err)
	}
	req, err := config.Load(*requestFile)
	if err != nil {
		log.Fatalln(err)
	}
	if err := config.ApplyEnv(req, os.LookupEnv); err != nil {
		log.Fatalln(err)
	}

	var tagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "installer":
			req.Installer = *installer
		case "console":
			req.Console = *console
		case "console-port":
			req.ConsolePort = *consolePort
		case "password":
			req.ServicesPassword = *password
		case "install-dir":
			req.InstallDirectory = *installDir
		case "install-rtm":
			req.InstallRTM = *installRTM
		case "rtm-port":
			req.RTMPort = *rtmPort
		case "proxy-agent":
			req.ProxyAgent = *proxyAgent
		case "proxy-host":
			req.ProxyHostname = *proxyHost
		case "proxy-port":
			req.ProxyPort = *proxyPort
		case "fips":
			req.FIPS = *fips
		case "integration-port":
			req.IntegrationPort = *integrationPort
		case "start-service":
			req.StartService = *startService
		case "removeall":
			req.RemoveAll = *removeAll
		case "tag":
			req.Tags, tagErr = config.ParseTags(tags)
		}
	})
	if tagErr != nil {
		log.Fatalln(tagErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	host, err := registry.Host(ctx, log)
	if err != nil {
		log.Fatalln(err)
	}
	log.Debugln("Platform:", host.Platform)

	a := agent.New(log, host, agent.Options{
		CacheDir: *cacheDir,
		Timeout:  *timeout,
		Version:  version,
	})
	if *preflight {
		a.Preflight = common.TestTCP
	}

	if *natsURL != "" {
		r, err := agent.ConnectReporter(*natsURL, host.Platform.Hostname, log)
		if err != nil {
			log.Warnln("Run reports disabled, NATS connection failed:", err)
		} else {
			defer r.Close()
			a.Reporter = r
		}
	}

	switch *mode {
	case MODE_INSTALL:
		err = a.Install(ctx, req)
	case MODE_REMOVE:
		err = a.Remove(ctx, req)
	case MODE_STATUS:
		err = showStatus(ctx, a, req)
	case MODE_FLAGS:
		err = showFlags(a, req)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Errorln(err)
		os.Exit(1)
	}
}

func setupLogging(level, to *string) {
	ll, err := logrus.ParseLevel(*level)
	if err != nil {
		ll = logrus.InfoLevel
	}
	log.SetLevel(ll)

	if *to == "stdout" {
		log.SetOutput(os.Stdout)
		return
	}

	var path string
	switch runtime.GOOS {
	case "windows":
		path = filepath.Join(os.Getenv("ProgramData"), "Tripwire", AGENT_LOG_FILE)
	default:
		path = filepath.Join("/var/log", AGENT_LOG_FILE)
	}
	logFile, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		log.SetOutput(os.Stdout)
		log.Warnln("Logging to stdout, could not open", path)
		return
	}
	log.SetOutput(logFile)
}

func showStatus(ctx context.Context, a *agent.Installer, req *config.Request) error {
	s, err := a.Status(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println("Platform:         ", s.Platform)
	fmt.Println("Install directory:", s.InstallDir)
	fmt.Println("Package installed:", s.Installed)
	fmt.Println("Daemon present:   ", s.DaemonPresent)
	fmt.Println("Service:          ", s.Service)
	return nil
}

// showFlags prints the installer command line without running anything
func showFlags(a *agent.Installer, req *config.Request) error {
	cmd, err := agent.BuildInstallCommand(req, a.Platform, a.LocalInstaller())
	if err != nil {
		return err
	}
	fmt.Println(cmd.Redacted())
	return nil
}

// showVersionInfo prints basic debugging info
func showVersionInfo(ver string) {
	fmt.Println(common.AGENT_NAME_LONG, ver, runtime.GOARCH, runtime.Version())
}
