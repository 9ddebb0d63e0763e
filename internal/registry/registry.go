package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jetrmm/teagent/agent"
	"github.com/sirupsen/logrus"
)

var (
	hostProvider HostProvider

	ErrNoProvider = errors.New("no host provider registered for this platform")
)

// HostProvider builds the OS collaborators for the running platform.
// Platform packages register one from init().
type HostProvider interface {
	Host(ctx context.Context, logger *logrus.Logger) (*agent.Host, error)
}

func Register(provider interface{}) {
	if p, ok := provider.(HostProvider); ok {
		if hostProvider != nil {
			panic(fmt.Sprintf("HostProvider already registered: %v", hostProvider))
		}
		hostProvider = p
	}
}

func GetHostProvider() HostProvider { return hostProvider }

// Host returns the registered provider's collaborators
func Host(ctx context.Context, logger *logrus.Logger) (*agent.Host, error) {
	if hostProvider == nil {
		return nil, ErrNoProvider
	}
	return hostProvider.Host(ctx, logger)
}
