package gorm

import (
	"time"

	"levant-va/tower/internal/constants"
)

type Pilot struct {
	ID              string                `gorm:"column:id;primaryKey;type:uuid"`
	PilotID         string                `gorm:"column:pilot_id;uniqueIndex"`
	FirstName       string                `gorm:"column:first_name"`
	LastName        string                `gorm:"column:last_name"`
	Email           string                `gorm:"column:email;uniqueIndex"`
	Rank            string                `gorm:"column:rank;default:'Cadet'"`
	Status          constants.PilotStatus `gorm:"column:status;index;default:'Pending'"`
	Balance         int64                 `gorm:"column:balance;default:0"`
	TotalHours      float64               `gorm:"column:total_hours;default:0"`
	TransferHours   float64               `gorm:"column:transfer_hours;default:0"`
	TotalFlights    int                   `gorm:"column:total_flights;default:0"`
	CurrentLocation string                `gorm:"column:current_location;default:'OJAI'"`
	HomeBase        string                `gorm:"column:home_base;default:'OJAI'"`
	SimbriefID      *string               `gorm:"column:simbrief_id"`
	RoutesFlown     StringList            `gorm:"column:routes_flown;type:text"`
	LastFlightDate  *time.Time            `gorm:"column:last_flight_date"`
	LastActivity    *time.Time            `gorm:"column:last_activity"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Pilot) TableName() string {
	return "pilots"
}

// FullName is the display name used in notifications and session records.
func (p *Pilot) FullName() string {
	return p.FirstName + " " + p.LastName
}

// HasFlownRoute reports whether the "DEP-ARR" pair is already in the pilot's
// recorded route set.
func (p *Pilot) HasFlownRoute(routeKey string) bool {
	for _, r := range p.RoutesFlown {
		if r == routeKey {
			return true
		}
	}
	return false
}
