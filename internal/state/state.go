package state

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/danielawaser/devops-project/internal/server/state"
	"github.com/danielawaser/devops-project/internal/state/dev"
)

const (
	backendDev = "dev"
)

type Config struct {
	Backend string
}

func DefaultConfig() *Config {
	return &Config{
		Backend: backendDev,
	}
}

func (c *Config) Merge(other *Config) *Config {
	if c == nil {
		return other
	}

	result := *c

	if other.Backend != "" {
		result.Backend = other.Backend
	}

	return &result
}

func NewBackend(cfg *Config, log *zap.Logger) (state.State, error) {
	switch cfg.Backend {
	case backendDev, "":
		return dev.New(log), nil
	default:
		return nil, fmt.Errorf("unsupported state backend: %q", cfg.Backend)
	}
}
