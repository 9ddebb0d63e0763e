package common

import (
	"strings"
)

const MSIEXEC = "msiexec.exe"

// MsiCmdLine renders c as a raw Windows command line for msiexec.
//
// Switches (/i, /qn...) pass through, KEY=value properties become
// KEY="value" and any other argument is quoted whole. Embedded quotes are
// doubled, which is how msiexec unescapes them.
func MsiCmdLine(c Command) string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteMsi(c.Path))
	for _, arg := range c.Args {
		switch {
		case strings.HasPrefix(arg, "/"):
			parts = append(parts, arg)
		case isProperty(arg):
			key, value, _ := strings.Cut(arg, "=")
			parts = append(parts, key+"="+quoteMsi(value))
		default:
			parts = append(parts, quoteMsi(arg))
		}
	}
	return strings.Join(parts, " ")
}

// ShellCmdLine renders c as a raw command line run through cmd.exe.
// /S makes cmd strip only the outer quotes, so a quoted script path with
// spaces survives.
func ShellCmdLine(shell string, c Command) string {
	inner := make([]string, 0, len(c.Args)+1)
	inner = append(inner, `"`+c.Path+`"`)
	for _, arg := range c.Args {
		if strings.ContainsAny(arg, " \t&|^<>()") {
			arg = `"` + arg + `"`
		}
		inner = append(inner, arg)
	}
	return shell + ` /S /C "` + strings.Join(inner, " ") + `"`
}

func quoteMsi(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// isProperty matches public MSI properties, upper case KEY=value
func isProperty(arg string) bool {
	key, _, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return false
	}
	for _, r := range key {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '.') {
			return false
		}
	}
	return true
}
