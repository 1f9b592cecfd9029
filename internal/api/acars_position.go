package api

import (
	"encoding/json"
	"net/http"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/models/dtos"
)

// PositionHandler handles POST /api/acars/position, the ~5s telemetry tick.
func (h *Handlers) PositionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report dtos.PositionReport
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if report.PilotID == "" || report.Callsign == "" {
			common.RespondError(w, http.StatusBadRequest, "pilotId and callsign are required")
			return
		}

		if _, err := h.deps.Services.Session.UpsertPosition(r.Context(), &report); err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
