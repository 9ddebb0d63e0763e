package common

import (
	"errors"
	"math/rand"
	"time"

	"github.com/kardianos/service"
	"github.com/oklog/ulid/v2"
)

// program satisfies service.Interface. Services driven from here belong to
// the TE agent and are never run in-process.
type program struct{}

func (p *program) Start(s service.Service) error { return nil }
func (p *program) Stop(s service.Service) error  { return nil }

// ServiceController starts and stops existing OS services by name through
// the platform's service manager (SCM, systemd, SysV, upstart...)
type ServiceController struct{}

func (c ServiceController) open(name string) (service.Service, error) {
	return service.New(&program{}, &service.Config{Name: name})
}

func (c ServiceController) Start(name string) error {
	s, err := c.open(name)
	if err != nil {
		return err
	}
	return s.Start()
}

func (c ServiceController) Stop(name string) error {
	s, err := c.open(name)
	if err != nil {
		return err
	}
	return s.Stop()
}

// Status returns service.ErrNotInstalled when the service does not exist
func (c ServiceController) Status(name string) (service.Status, error) {
	s, err := c.open(name)
	if err != nil {
		return service.StatusUnknown, err
	}
	return s.Status()
}

// IsNotInstalled reports whether err means the service is unknown to the OS
func IsNotInstalled(err error) bool {
	return errors.Is(err, service.ErrNotInstalled)
}

// StatusString formats a service status for humans
func StatusString(status service.Status, err error) string {
	if IsNotInstalled(err) {
		return "not installed"
	}
	if err != nil {
		return "unknown (" + err.Error() + ")"
	}
	switch status {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	}
	return "unknown"
}

// GenerateRunID creates and returns a unique ULID for an install or remove run
func GenerateRunID() (ulid.ULID, error) {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	ms := ulid.Timestamp(time.Now())
	return ulid.New(ms, entropy)
}
