package api

import (
	"encoding/json"
	"net/http"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/models/dtos"
)

// AuthHandler handles POST /api/acars/auth: it exchanges a pilot identifier
// for the bearer token the desktop client stores. Identification, not
// authentication; the identifier doubles as the shared secret the portal
// hands out, matching what the client has always sent.
func (h *Handlers) AuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.PilotID == "" {
			common.RespondError(w, http.StatusBadRequest, "pilotId is required")
			return
		}

		pilot, err := h.deps.Repo.Pilots.FindByIdentifier(r.Context(), req.PilotID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if pilot == nil {
			common.RespondError(w, http.StatusNotFound, "Pilot not found")
			return
		}
		if pilot.Status == constants.PilotStatusBlacklist {
			common.RespondError(w, http.StatusForbidden, "Account access revoked")
			return
		}

		token, expiresAt, err := h.deps.Services.Tokens.Generate(pilot.ID, pilot.PilotID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		common.RespondJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"token":     token,
			"expiresAt": expiresAt.Unix(),
			"pilot": map[string]any{
				"pilotId": pilot.PilotID,
				"name":    pilot.FullName(),
				"rank":    pilot.Rank,
			},
		})
	}
}
