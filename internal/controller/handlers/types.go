package handlers

import (
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/state"
	"go.uber.org/zap"
)

// Handlers serves slash commands and the text steps of dialogs
type Handlers struct {
	deps         *callbacktypes.Handler
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers shares deps with the callback handlers so commands and buttons draw the same screens
func NewHandlers(deps *callbacktypes.Handler, stateManager *state.Manager, logger *zap.Logger) *Handlers {
	return &Handlers{
		deps:         deps,
		stateManager: stateManager,
		logger:       logger,
	}
}
