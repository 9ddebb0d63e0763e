package common

import (
	"strings"
)

const redactedValue = "********"

// Command is an installer, uninstaller or helper invocation
type Command struct {
	Path string   // Executable or script
	Args []string // Arguments in order
	Dir  string   // Working directory, empty for the current one

	// Secrets are argument values masked by Redacted()
	Secrets []string
}

// String returns the full command line with arguments joined by single spaces
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Redacted is String() with every secret value masked, safe for logs and reports
func (c Command) Redacted() string {
	s := c.String()
	for _, secret := range c.Secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, redactedValue)
	}
	return s
}

// HasArg reports whether arg appears as a standalone argument
func (c Command) HasArg(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}
