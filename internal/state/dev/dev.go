package dev

import (
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/danielawaser/devops-project/internal/pkg/logger"
	"github.com/danielawaser/devops-project/internal/pkg/state"
	serverstate "github.com/danielawaser/devops-project/internal/server/state"
)

// State is the in-memory backend. Sessions do not survive a restart,
// which matches the ephemeral nature of the service instances.
type State struct {
	logger *zap.Logger

	sessions     map[ulid.ULID]*state.Session
	sessionsLock sync.RWMutex
}

func New(log *zap.Logger) serverstate.State {
	return &State{
		logger:   log.Named(logger.ComponentNameState),
		sessions: make(map[ulid.ULID]*state.Session),
	}
}
