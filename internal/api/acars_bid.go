package api

import (
	"encoding/json"
	"net/http"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/models/dtos"
)

// BidHandler handles POST /api/acars/bid. The action field selects the
// operation: empty fetches the current bid, "book" creates one, "cancel-bid"
// clears everything.
func (h *Handlers) BidHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.BidRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.PilotID == "" {
			common.RespondError(w, http.StatusBadRequest, "pilotId is required")
			return
		}
		h.dispatchBid(w, r, &req)
	}
}

func (h *Handlers) dispatchBid(w http.ResponseWriter, r *http.Request, req *dtos.BidRequest) {
	bids := h.deps.Services.Bids
	switch req.Action {
	case "", "get":
		result, err := bids.Get(r.Context(), req.PilotID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, result)

	case "book":
		bid, err := bids.Book(r.Context(), req)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "bid": bid})

	case "cancel-bid":
		cancelled, err := bids.Cancel(r.Context(), req.PilotID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "cancelled": cancelled})

	default:
		common.RespondError(w, http.StatusBadRequest, "Unknown action: "+req.Action)
	}
}
