package gorm

import "time"

// ActiveFlight is the live session record, upserted on every position report.
// At most one logical flight exists per (pilot, callsign); the recovery path
// in the session service also matches on callsign alone.
type ActiveFlight struct {
	ID              string    `gorm:"column:id;primaryKey;type:uuid"`
	PilotID         string    `gorm:"column:pilot_id;type:uuid;index"`
	PilotName       string    `gorm:"column:pilot_name"`
	Callsign        string    `gorm:"column:callsign;index"`
	DepartureICAO   string    `gorm:"column:departure_icao"`
	ArrivalICAO     string    `gorm:"column:arrival_icao"`
	AircraftType    string    `gorm:"column:aircraft_type"`
	Latitude        float64   `gorm:"column:latitude"`
	Longitude       float64   `gorm:"column:longitude"`
	Altitude        float64   `gorm:"column:altitude;default:0"`
	Heading         float64   `gorm:"column:heading;default:0"`
	GroundSpeed     float64   `gorm:"column:ground_speed;default:0"`
	IAS             float64   `gorm:"column:ias;default:0"`
	VerticalSpeed   float64   `gorm:"column:vertical_speed;default:0"`
	Phase           string    `gorm:"column:phase;default:'Preflight'"`
	Fuel            float64   `gorm:"column:fuel;default:0"`
	Engines         int       `gorm:"column:engines;default:0"`
	Lights          int       `gorm:"column:lights;default:0"`
	Pitch           float64   `gorm:"column:pitch;default:0"`
	Bank            float64   `gorm:"column:bank;default:0"`
	GForce          float64   `gorm:"column:g_force;default:1"`
	ComfortScore    float64   `gorm:"column:comfort_score;default:100"`
	Status          string    `gorm:"column:status;index;default:'Preflight'"`
	TakeoffNotified bool      `gorm:"column:takeoff_notified;default:false"`
	StartedAt       time.Time `gorm:"column:started_at;autoCreateTime"`
	LastUpdate      time.Time `gorm:"column:last_update;index"`
}

func (ActiveFlight) TableName() string {
	return "active_flights"
}
