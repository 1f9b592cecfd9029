package api

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/models/dtos"
)

// acarsEnvelope peels the action off a generic /api/acars POST so the body
// can be re-decoded into the right request type.
type acarsEnvelope struct {
	Action string `json:"action"`
}

// DispatchHandler handles POST /api/acars, the single-endpoint mode older
// ACARS client builds use. The action field routes to the same logic as the
// dedicated paths.
func (h *Handlers) DispatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		var env acarsEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			common.RespondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		switch env.Action {
		case "position", "update":
			var report dtos.PositionReport
			if err := json.Unmarshal(raw, &report); err != nil {
				common.RespondError(w, http.StatusBadRequest, "Invalid position payload")
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

		case "start":
			var req dtos.FlightStartRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				common.RespondError(w, http.StatusBadRequest, "Invalid start payload")
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
			common.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "flightId": flight.ID})

		case "end":
			var req dtos.FlightEndRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				common.RespondError(w, http.StatusBadRequest, "Invalid end payload")
				return
			}
			ended, err := h.deps.Services.Session.EndFlight(r.Context(), &req)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			common.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "ended": ended})

		case "ping":
			var req dtos.PingRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				common.RespondError(w, http.StatusBadRequest, "Invalid ping payload")
				return
			}
			if err := h.deps.Services.Session.Ping(r.Context(), &req); err != nil {
				respondServiceError(w, err)
				return
			}
			common.RespondJSON(w, http.StatusOK, map[string]any{"success": true})

		case "get", "book", "cancel-bid":
			var req dtos.BidRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				common.RespondError(w, http.StatusBadRequest, "Invalid bid payload")
				return
			}
			if req.PilotID == "" {
				common.RespondError(w, http.StatusBadRequest, "pilotId is required")
				return
			}
			h.dispatchBid(w, r, &req)

		case "pirep":
			var req dtos.PirepSubmitRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				common.RespondError(w, http.StatusBadRequest, "Invalid pirep payload")
				return
			}
			h.submitPirep(w, r, &req)

		default:
			common.RespondError(w, http.StatusBadRequest, "Unknown action: "+env.Action)
		}
	}
}

// StatusHandler handles GET /api/acars. Without a query it renders a small
// HTML ops page; ?action=traffic and ?action=pilot-stats return JSON.
func (h *Handlers) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "traffic":
			h.trafficJSON(w, r)
		case "pilot-stats":
			h.pilotStatsJSON(w, r)
		default:
			h.statusPage(w, r)
		}
	}
}

func (h *Handlers) trafficJSON(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deps.Services.Session.Traffic(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"traffic": entries,
		"count":   len(entries),
	})
}

func (h *Handlers) pilotStatsJSON(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("pilotId")
	if identifier == "" {
		common.RespondError(w, http.StatusBadRequest, "pilotId query parameter is required")
		return
	}
	pilot, err := h.deps.Repo.Pilots.FindByIdentifier(r.Context(), identifier)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if pilot == nil {
		common.RespondError(w, http.StatusNotFound, "Pilot not found")
		return
	}
	stats := dtos.PilotStats{
		PilotID:         pilot.PilotID,
		Name:            pilot.FullName(),
		Rank:            pilot.Rank,
		Status:          string(pilot.Status),
		Balance:         pilot.Balance,
		TotalHours:      pilot.TotalHours + pilot.TransferHours,
		TotalFlights:    pilot.TotalFlights,
		CurrentLocation: pilot.CurrentLocation,
		LastFlightDate:  pilot.LastFlightDate,
		RoutesFlown:     len(pilot.RoutesFlown),
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (h *Handlers) statusPage(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Repo.Stats.GetAirlineStats(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	entries, err := h.deps.Services.Session.Traffic(r.Context())
	if err != nil {
		entries = nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := `<!DOCTYPE html><html><head><title>Levant VA ACARS</title>
<style>body{font-family:monospace;background:#0b0e14;color:#cdd6f4;padding:2em}
table{border-collapse:collapse}td,th{border:1px solid #333;padding:4px 10px;text-align:left}
h1{color:#89b4fa}.stat{display:inline-block;margin-right:2em}</style></head><body>`
	page += `<h1>Levant VA — ACARS Gateway</h1>`
	page += fmt.Sprintf(`<p><span class="stat">Active pilots: %d</span><span class="stat">Live flights: %d</span><span class="stat">Pending PIREPs: %d</span><span class="stat">Flights today: %d</span></p>`,
		stats.ActivePilots, stats.LiveFlights, stats.PendingPireps, stats.FlightsToday)
	page += fmt.Sprintf(`<p><span class="stat">Total flights: %d</span><span class="stat">Total hours: %.1f</span><span class="stat">Credits awarded: %d</span></p>`,
		stats.TotalFlights, stats.TotalHours, stats.CreditsAwarded)

	page += `<h2>Live traffic</h2>`
	page += renderTrafficTable(entries)
	page += `</body></html>`
	w.Write([]byte(page))
}

// renderTrafficTable builds the live traffic fragment. Callsign and pilot
// name come straight from client reports, so every string cell is escaped.
func renderTrafficTable(entries []dtos.TrafficEntry) string {
	if len(entries) == 0 {
		return `<p>No flights in the air.</p>`
	}
	out := `<table><tr><th>Callsign</th><th>Pilot</th><th>Route</th><th>Aircraft</th><th>Phase</th><th>Alt</th><th>GS</th></tr>`
	for _, e := range entries {
		out += fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%s-%s</td><td>%s</td><td>%s</td><td>%.0f</td><td>%.0f</td></tr>`,
			html.EscapeString(e.Callsign), html.EscapeString(e.PilotName),
			html.EscapeString(e.DepartureICAO), html.EscapeString(e.ArrivalICAO),
			html.EscapeString(e.AircraftType), html.EscapeString(e.Phase),
			e.Altitude, e.GroundSpeed)
	}
	return out + `</table>`
}
