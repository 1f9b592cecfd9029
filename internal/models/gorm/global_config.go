package gorm

import "time"

// GlobalConfig is the single operator-tunable parameters row. The credit
// engine never reads it directly; a snapshot is passed in per calculation.
type GlobalConfig struct {
	ID  string `gorm:"column:id;primaryKey;type:uuid"`
	Key string `gorm:"column:key;uniqueIndex;default:'LVT_MAIN'"`

	// Credit bonuses
	CrBaseFlight            int     `gorm:"column:cr_base_flight;default:100"`
	CrGreaserBonus          int     `gorm:"column:cr_greaser_bonus;default:50"`
	CrFirmBonus             int     `gorm:"column:cr_firm_bonus;default:25"`
	CrHardLandingPenalty    int     `gorm:"column:cr_hard_landing_penalty;default:-50"`
	CrFuelEfficiencyBonus   int     `gorm:"column:cr_fuel_efficiency_bonus;default:30"`
	CrLongHaul4h            int     `gorm:"column:cr_long_haul_4h;default:100"`
	CrLongHaul8h            int     `gorm:"column:cr_long_haul_8h;default:250"`
	CrHubToHubBonus         int     `gorm:"column:cr_hub_to_hub_bonus;default:50"`
	CrNewRouteBonus         int     `gorm:"column:cr_new_route_bonus;default:50"`
	CrFirstFlightMultiplier float64 `gorm:"column:cr_first_flight_multiplier;default:1.2"`
	CrEventMultiplier       float64 `gorm:"column:cr_event_multiplier;default:2.0"`

	// Professionalism penalties
	CrTaxiSpeedPenalty      int `gorm:"column:cr_taxi_speed_penalty;default:-10"`
	CrLightViolationPenalty int `gorm:"column:cr_light_violation_penalty;default:-15"`
	CrOverspeedPenalty      int `gorm:"column:cr_overspeed_penalty;default:-50"`

	// Fleet policy
	LocationBasedFleet bool `gorm:"column:location_based_fleet;default:false"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	UpdatedBy string    `gorm:"column:updated_by"`
}

func (GlobalConfig) TableName() string {
	return "global_configs"
}
