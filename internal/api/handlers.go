package api

import (
	"errors"
	"net/http"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// respondServiceError maps service failures onto the HTTP taxonomy the ACARS
// client understands: 404 unknown pilot, 403 blacklist, 400 business rule,
// 500 everything else with details kept server-side.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrPilotNotFound):
		common.RespondError(w, http.StatusNotFound, "Pilot not found")
	case errors.Is(err, services.ErrBlacklisted):
		common.RespondError(w, http.StatusForbidden, "Account access revoked")
	default:
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			common.RespondError(w, http.StatusBadRequest, verr.Message, verr.Extra)
			return
		}
		logging.Error("Request failed", "error", err.Error())
		common.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
