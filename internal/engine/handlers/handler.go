package handlers

import (
	"net/http"

	"github.com/questforge/questforge-backend/internal/engine/completion"
	"github.com/questforge/questforge-backend/internal/engine/types"
	"github.com/questforge/questforge-backend/pkg/database"
	"github.com/questforge/questforge-backend/pkg/logging"
)

type Handler struct {
	orchestrator *completion.Orchestrator
	db           *database.Connection
	logger       logging.Logger
}

func NewHandler(orchestrator *completion.Orchestrator, db *database.Connection, logger logging.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		db:           db,
		logger:       logger,
	}
}

// statusForCode maps engine error codes to HTTP statuses. Verification
// failures are client errors: the proof was insufficient, not the server.
func statusForCode(code types.ErrorCode) int {
	switch code {
	case types.CodeNotFound:
		return http.StatusNotFound
	case types.CodeForbidden:
		return http.StatusForbidden
	case types.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
