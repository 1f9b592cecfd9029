package dtos

import "time"

// BidDetails is the bid payload returned to the ACARS client.
type BidDetails struct {
	ID                   string    `json:"id"`
	FlightNumber         string    `json:"flight_number"`
	AirlineCode          string    `json:"airline_code"`
	Callsign             string    `json:"callsign"`
	DepartureICAO        string    `json:"departure_icao"`
	ArrivalICAO          string    `json:"arrival_icao"`
	DepartureName        string    `json:"departure_name"`
	ArrivalName          string    `json:"arrival_name"`
	DepLat               float64   `json:"dep_lat"`
	DepLon               float64   `json:"dep_lon"`
	ArrLat               float64   `json:"arr_lat"`
	ArrLon               float64   `json:"arr_lon"`
	AircraftType         string    `json:"aircraft_type"`
	AircraftRegistration string    `json:"aircraft_registration"`
	SimbriefOFPID        string    `json:"simbrief_ofp_id"`
	PlannedFuel          float64   `json:"planned_fuel"`
	PlannedRoute         string    `json:"planned_route"`
	Pax                  int       `json:"pax"`
	Cargo                int       `json:"cargo"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	ExpiresAt            time.Time `json:"expires_at"`
}

// OFPBriefing is the optional SimBrief enrichment attached to a bid fetch.
type OFPBriefing struct {
	Route          string  `json:"route"`
	CruiseAltitude string  `json:"cruise_altitude"`
	CostIndex      string  `json:"cost_index"`
	DistanceNm     string  `json:"distance_nm"`
	FuelBlock      float64 `json:"fuel_block"`
	FuelTaxi       float64 `json:"fuel_taxi"`
	FuelEnroute    float64 `json:"fuel_enroute"`
	FuelReserve    float64 `json:"fuel_reserve"`
	EstTimeEnroute string  `json:"est_time_enroute"`
	PaxCount       int     `json:"pax_count"`
	CargoWeight    float64 `json:"cargo_weight"`
	AlternateICAO  string  `json:"alternate_icao"`
	OriginMetar    string  `json:"origin_metar"`
	DestMetar      string  `json:"dest_metar"`
	AircraftName   string  `json:"aircraft_name"`
	AircraftICAO   string  `json:"aircraft_icao"`
}

// TrafficEntry is one live flight on the public traffic feed.
type TrafficEntry struct {
	Callsign      string    `json:"callsign"`
	PilotName     string    `json:"pilotName"`
	DepartureICAO string    `json:"departureIcao"`
	ArrivalICAO   string    `json:"arrivalIcao"`
	AircraftType  string    `json:"aircraftType"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Altitude      float64   `json:"altitude"`
	Heading       float64   `json:"heading"`
	GroundSpeed   float64   `json:"groundSpeed"`
	IAS           float64   `json:"ias"`
	VerticalSpeed float64   `json:"verticalSpeed"`
	Phase         string    `json:"phase"`
	Fuel          float64   `json:"fuel"`
	GForce        float64   `json:"gForce"`
	ComfortScore  float64   `json:"comfortScore"`
	StartedAt     time.Time `json:"startedAt"`
	LastUpdate    time.Time `json:"lastUpdate"`
}

// PilotStats is the diagnostics payload for ?action=pilot-stats.
type PilotStats struct {
	PilotID         string     `json:"pilotId"`
	Name            string     `json:"name"`
	Rank            string     `json:"rank"`
	Status          string     `json:"status"`
	Balance         int64      `json:"balance"`
	TotalHours      float64    `json:"totalHours"`
	TotalFlights    int        `json:"totalFlights"`
	CurrentLocation string     `json:"currentLocation"`
	LastFlightDate  *time.Time `json:"lastFlightDate"`
	RoutesFlown     int        `json:"routesFlown"`
}

// FlightUpdate is the live-map broadcast payload.
type FlightUpdate struct {
	Callsign      string  `json:"callsign"`
	PilotID       string  `json:"pilotId"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"`
	Heading       float64 `json:"heading"`
	GroundSpeed   float64 `json:"groundSpeed"`
	Status        string  `json:"status"`
	IAS           float64 `json:"ias"`
	VerticalSpeed float64 `json:"verticalSpeed"`
	Phase         string  `json:"phase"`
	Departure     string  `json:"departure"`
	Arrival       string  `json:"arrival"`
	Equipment     string  `json:"equipment"`
	ComfortScore  float64 `json:"comfort_score"`
	Fuel          float64 `json:"fuel"`
}

// ServiceStatus is one dependency's line in the health check response.
type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// HealthCheckResponse is the GET /healthCheck payload.
type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}
