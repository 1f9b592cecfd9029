package gorm

import (
	"time"

	"levant-va/tower/internal/constants"
)

// Aircraft is one airframe in the fleet.
type Aircraft struct {
	ID              string                   `gorm:"column:id;primaryKey;type:uuid"`
	Registration    string                   `gorm:"column:registration;uniqueIndex"`
	AircraftType    string                   `gorm:"column:aircraft_type;index"`
	Name            string                   `gorm:"column:name"`
	CurrentLocation string                   `gorm:"column:current_location;default:'OJAI'"`
	Status          constants.AircraftStatus `gorm:"column:status;index;default:'Available'"`
	Condition       int                      `gorm:"column:condition;default:100"`
	TotalHours      float64                  `gorm:"column:total_hours;default:0"`
	FlightCount     int                      `gorm:"column:flight_count;default:0"`
	IsActive        bool                     `gorm:"column:is_active;default:true"`
	GroundedReason  string                   `gorm:"column:grounded_reason"`
	RepairUntil     *time.Time               `gorm:"column:repair_until"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (Aircraft) TableName() string {
	return "fleet"
}

// UnderRepair reports whether a repair order is still open at the given time.
func (a *Aircraft) UnderRepair(now time.Time) bool {
	return a.RepairUntil != nil && a.RepairUntil.After(now)
}
