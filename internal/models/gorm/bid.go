package gorm

import (
	"time"

	"levant-va/tower/internal/constants"
)

type Bid struct {
	ID                   string              `gorm:"column:id;primaryKey;type:uuid"`
	PilotID              string              `gorm:"column:pilot_id;type:uuid;index"`
	PilotName            string              `gorm:"column:pilot_name"`
	Callsign             string              `gorm:"column:callsign"`
	DepartureICAO        string              `gorm:"column:departure_icao"`
	ArrivalICAO          string              `gorm:"column:arrival_icao"`
	AircraftType         string              `gorm:"column:aircraft_type"`
	AircraftRegistration string              `gorm:"column:aircraft_registration"`
	Route                string              `gorm:"column:route"`
	EstimatedFlightTime  int                 `gorm:"column:estimated_flight_time"`
	Pax                  int                 `gorm:"column:pax"`
	Cargo                int                 `gorm:"column:cargo"`
	PlannedFuel          float64             `gorm:"column:planned_fuel"`
	SimbriefOFPID        string              `gorm:"column:simbrief_ofp_id"`
	Status               constants.BidStatus `gorm:"column:status;index;default:'Active'"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt            time.Time           `gorm:"column:expires_at"`
}

func (Bid) TableName() string {
	return "bids"
}
