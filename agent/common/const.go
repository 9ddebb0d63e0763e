package common

const (
	AGENT_NAME_LONG = "Tripwire Enterprise Agent Installer"

	// Base name of the cached installer, extension comes from the platform profile
	CACHE_INSTALLER_NAME = "te_agent"

	DEFAULT_INSTALL_TIMEOUT = 20 // minutes
	DOWNLOAD_TIMEOUT        = 15 // minutes
	EXEC_WAIT_DELAY         = 10 // seconds

	NATS_SUBJECT_PREFIX  = "teagent"
	NATS_CLIENT_NAME_FMT = "teagent-installer-%s"
)

const (
	ACTION_INSTALL = "install"
	ACTION_REMOVE  = "remove"
)
