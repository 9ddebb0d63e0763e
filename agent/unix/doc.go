// Package unix registers the host provider for Linux and other Unix-like systems.
package unix
