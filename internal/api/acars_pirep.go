package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/models/dtos"
)

// PirepSubmitHandler handles POST /api/acars/pirep.
func (h *Handlers) PirepSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.PirepSubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		h.submitPirep(w, r, &req)
	}
}

func (h *Handlers) submitPirep(w http.ResponseWriter, r *http.Request, req *dtos.PirepSubmitRequest) {
	flight, err := h.deps.Services.Pireps.Submit(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"flightId":  flight.ID,
		"status":    flight.StatusLabel(),
		"credits":   flight.CreditsEarned,
		"breakdown": flight.CreditsBreakdown,
	})
}

// PirepReviewHandler handles POST /api/pireps/{id}/review. Staff only in the
// portal; the backend trusts the reviewedBy field the portal passes along.
func (h *Handlers) PirepReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flightID := chi.URLParam(r, "id")
		if flightID == "" {
			common.RespondError(w, http.StatusBadRequest, "Flight id is required")
			return
		}

		var req dtos.ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		var (
			flight any
			err    error
		)
		switch strings.ToLower(req.Action) {
		case "approve":
			flight, err = h.deps.Services.Pireps.Approve(r.Context(), flightID, req.ReviewedBy, req.Comments)
		case "reject":
			flight, err = h.deps.Services.Pireps.Reject(r.Context(), flightID, req.ReviewedBy, req.Comments)
		default:
			common.RespondError(w, http.StatusBadRequest, "Unknown review action: "+req.Action)
			return
		}
		if err != nil {
			respondServiceError(w, err)
			return
		}

		common.RespondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"flight":  flight,
		})
	}
}

// PirepDeleteHandler handles DELETE /api/pireps/{id}.
func (h *Handlers) PirepDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flightID := chi.URLParam(r, "id")
		if flightID == "" {
			common.RespondError(w, http.StatusBadRequest, "Flight id is required")
			return
		}
		if err := h.deps.Services.Pireps.Delete(r.Context(), flightID); err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// PendingPirepsHandler handles GET /api/pireps/pending for the review queue.
func (h *Handlers) PendingPirepsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flights, err := h.deps.Repo.Flights.ListPending(r.Context(), 100)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"pireps":  flights,
			"count":   len(flights),
		})
	}
}

// PilotPirepsHandler handles GET /api/pireps/pilot/{pilotId}.
func (h *Handlers) PilotPirepsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := chi.URLParam(r, "pilotId")
		pilot, err := h.deps.Repo.Pilots.FindByIdentifier(r.Context(), identifier)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if pilot == nil {
			common.RespondError(w, http.StatusNotFound, "Pilot not found")
			return
		}
		flights, err := h.deps.Repo.Flights.ListByPilot(r.Context(), pilot.ID, 50)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"pireps":  flights,
			"count":   len(flights),
		})
	}
}
