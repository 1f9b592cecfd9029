package dtos

// PositionReport is the ~5s telemetry POST from the ACARS desktop client.
// The client has shipped both snake_case and camelCase variants of a few
// fields over its lifetime, so both are accepted.
type PositionReport struct {
	PilotID     string  `json:"pilotId"`
	Callsign    string  `json:"callsign"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Altitude    float64 `json:"altitude"`
	Heading     float64 `json:"heading"`
	GroundSpeed float64 `json:"groundSpeed"`
	Status      string  `json:"status"`

	IAS     float64 `json:"ias"`
	VS      float64 `json:"vs"`
	Phase   string  `json:"phase"`
	Fuel    float64 `json:"fuel"`
	Engines int     `json:"engines"`
	Lights  int     `json:"lights"`
	Pitch   float64 `json:"pitch"`
	Bank    float64 `json:"bank"`

	GForceSnake       *float64 `json:"g_force"`
	GForceCamel       *float64 `json:"gForce"`
	ComfortScoreSnake *float64 `json:"comfort_score"`
	ComfortScoreCamel *float64 `json:"comfortScore"`
}

// GForce resolves the duplicate g-force fields, defaulting to 1.0.
func (p *PositionReport) GForce() float64 {
	if p.GForceSnake != nil {
		return *p.GForceSnake
	}
	if p.GForceCamel != nil {
		return *p.GForceCamel
	}
	return 1.0
}

// ComfortScore resolves the duplicate comfort fields, defaulting to 100.
func (p *PositionReport) ComfortScore() float64 {
	if p.ComfortScoreSnake != nil {
		return *p.ComfortScoreSnake
	}
	if p.ComfortScoreCamel != nil {
		return *p.ComfortScoreCamel
	}
	return 100
}

// ResolvedPhase falls back to the status string when no phase is reported.
func (p *PositionReport) ResolvedPhase() string {
	if p.Phase != "" {
		return p.Phase
	}
	return p.Status
}

// BidRequest covers all three /api/acars/bid actions. Action is empty for a
// plain fetch, "book" to create, "cancel-bid" to cancel.
type BidRequest struct {
	Action  string `json:"action"`
	PilotID string `json:"pilotId"`

	Callsign             string  `json:"callsign"`
	DepartureICAO        string  `json:"departure_icao"`
	ArrivalICAO          string  `json:"arrival_icao"`
	AircraftType         string  `json:"aircraft_type"`
	AircraftRegistration string  `json:"aircraft_registration"`
	Route                string  `json:"route"`
	EstimatedFlightTime  int     `json:"estimated_flight_time"`
	Pax                  int     `json:"pax"`
	Cargo                int     `json:"cargo"`
	PlannedFuel          float64 `json:"planned_fuel"`
	SimbriefOFPID        string  `json:"simbrief_ofp_id"`
}

// FlightStartRequest begins a tracked flight session.
type FlightStartRequest struct {
	PilotID       string `json:"pilotId"`
	Callsign      string `json:"callsign"`
	DepartureICAO string `json:"departureIcao"`
	ArrivalICAO   string `json:"arrivalIcao"`
	AircraftType  string `json:"aircraftType"`
}

// FlightEndRequest ends a session. Callsign is optional; when empty every
// session and open bid for the pilot is cleared.
type FlightEndRequest struct {
	PilotID  string `json:"pilotId"`
	Callsign string `json:"callsign"`
}

// PingRequest is the 30s keep-alive.
type PingRequest struct {
	PilotID   string `json:"pilotId"`
	Callsign  string `json:"callsign"`
	Timestamp int64  `json:"timestamp"`
}

// AuthRequest exchanges pilot credentials for an ACARS client token.
type AuthRequest struct {
	PilotID string `json:"pilotId"`
}

// PirepDeduction mirrors one entry of the client-side deduction log.
type PirepDeduction struct {
	Reason  string `json:"reason"`
	Penalty int    `json:"penalty"`
}

// PirepLog is the client's flight log attached to a submission.
type PirepLog struct {
	Deductions []PirepDeduction `json:"deductions"`
}

// PirepSubmitRequest is the post-flight report from the ACARS client.
type PirepSubmitRequest struct {
	PilotID              string    `json:"pilotId"`
	FlightNumber         string    `json:"flightNumber"`
	Callsign             string    `json:"callsign"`
	DepartureICAO        string    `json:"departureIcao"`
	ArrivalICAO          string    `json:"arrivalIcao"`
	AlternateICAO        string    `json:"alternateIcao"`
	Route                string    `json:"route"`
	AircraftType         string    `json:"aircraftType"`
	AircraftRegistration string    `json:"aircraftRegistration"`
	FlightTimeMinutes    int       `json:"flightTimeMinutes"`
	LandingRate          int       `json:"landingRate"`
	FuelUsed             float64   `json:"fuelUsed"`
	DistanceNm           float64   `json:"distanceNm"`
	Pax                  int       `json:"pax"`
	Cargo                int       `json:"cargo"`
	Score                int       `json:"score"`
	ComfortScore         float64   `json:"comfortScore"`
	IsEventFlight        bool      `json:"isEventFlight"`
	Log                  *PirepLog `json:"log"`
	Telemetry            string    `json:"telemetry"`
	Comments             string    `json:"comments"`
	AcarsVersionSnake    string    `json:"acars_version"`
	AcarsVersionCamel    string    `json:"acarsVersion"`
	Timestamp            *int64    `json:"timestamp"`
}

// AcarsVersion resolves the duplicate version fields.
func (r *PirepSubmitRequest) AcarsVersion() string {
	if r.AcarsVersionCamel != "" {
		return r.AcarsVersionCamel
	}
	if r.AcarsVersionSnake != "" {
		return r.AcarsVersionSnake
	}
	return "1.0.0"
}

// ReviewRequest is the admin PIREP review action.
type ReviewRequest struct {
	Action     string `json:"action"` // "approve" or "reject"
	ReviewedBy string `json:"reviewedBy"`
	Comments   string `json:"comments"`
}
