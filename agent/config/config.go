package config

import (
	"errors"
	"fmt"
)

const (
	DEFAULT_CONSOLE_PORT     = 9898
	DEFAULT_RTM_PORT         = 1169
	DEFAULT_PROXY_PORT       = 1080
	DEFAULT_INTEGRATION_PORT = 8080
)

// ErrMissingField is returned when a property required by the action is empty
var ErrMissingField = errors.New("missing required property")

// Request is the declarative description of a TE agent installation.
// It lives for a single install or remove run.
type Request struct {
	Installer        string            `json:"installer"`         // Path or http(s) URL of the installer
	Console          string            `json:"console"`           // TE console hostname
	ConsolePort      int               `json:"console_port"`      // TE console port
	ServicesPassword string            `json:"services_password"` // Enrollment passphrase
	InstallDirectory string            `json:"install_directory"` // Empty means the platform default
	InstallRTM       bool              `json:"install_rtm"`       // Real-time monitoring
	RTMPort          int               `json:"rtm_port"`
	ProxyAgent       bool              `json:"proxy_agent"` // Turn this agent into a socks proxy
	ProxyHostname    string            `json:"proxy_hostname"`
	ProxyPort        int               `json:"proxy_port"`
	FIPS             bool              `json:"fips"`
	IntegrationPort  int               `json:"integration_port"` // HTTP integration port
	StartService     bool              `json:"start_service"`
	Tags             map[string]string `json:"tags"` // Tag set -> tag
	RemoveAll        bool              `json:"removeall"`
}

// Default returns a Request populated with the resource defaults
func Default() *Request {
	return &Request{
		ConsolePort:     DEFAULT_CONSOLE_PORT,
		InstallRTM:      true,
		RTMPort:         DEFAULT_RTM_PORT,
		ProxyPort:       DEFAULT_PROXY_PORT,
		IntegrationPort: DEFAULT_INTEGRATION_PORT,
		StartService:    true,
		Tags:            map[string]string{},
		RemoveAll:       true,
	}
}

// ValidateInstall checks the properties every install needs
func (r *Request) ValidateInstall() error {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	switch {
	case r.Installer == "":
		return missing("installer")
	case r.Console == "":
		return missing("console")
	case r.ServicesPassword == "":
		return missing("services_password")
	}

	for name, port := range map[string]int{
		"console_port":     r.ConsolePort,
		"rtm_port":         r.RTMPort,
		"proxy_port":       r.ProxyPort,
		"integration_port": r.IntegrationPort,
	} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid %s: %d", name, port)
		}
	}
	return nil
}
