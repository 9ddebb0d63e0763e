// Package windows registers the Windows host provider: SCM services,
// installed-software lookups and cmd.exe command execution.
package windows
