package api

import (
	"encoding/json"
	"net/http"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/models/dtos"
)

// StartHandler handles POST /api/acars/start.
func (h *Handlers) StartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.FlightStartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.PilotID == "" || req.Callsign == "" {
			common.RespondError(w, http.StatusBadRequest, "pilotId and callsign are required")
			return
		}

		flight, err := h.deps.Services.Session.StartFlight(r.Context(), &req)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"flightId": flight.ID,
		})
	}
}

// EndHandler handles POST /api/acars/end.
func (h *Handlers) EndHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.FlightEndRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.PilotID == "" {
			common.RespondError(w, http.StatusBadRequest, "pilotId is required")
			return
		}

		ended, err := h.deps.Services.Session.EndFlight(r.Context(), &req)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "ended": ended})
	}
}

// PingHandler handles POST /api/acars/ping, the 30s keep-alive.
func (h *Handlers) PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.PingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.PilotID == "" {
			common.RespondError(w, http.StatusBadRequest, "pilotId is required")
			return
		}

		if err := h.deps.Services.Session.Ping(r.Context(), &req); err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
