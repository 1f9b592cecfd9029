package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"levant-va/tower/internal/constants"
	gormModels "levant-va/tower/internal/models/gorm"
)

type FleetRepository struct {
	db *gorm.DB
}

func NewFleetRepository(db *gorm.DB) *FleetRepository {
	return &FleetRepository{db: db}
}

func (r *FleetRepository) FindByRegistration(ctx context.Context, registration string) (*gormModels.Aircraft, error) {
	var aircraft gormModels.Aircraft
	err := r.db.WithContext(ctx).
		Where("registration = ?", strings.ToUpper(strings.TrimSpace(registration))).
		First(&aircraft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch aircraft: %w", err)
	}
	return &aircraft, nil
}

func (r *FleetRepository) Save(ctx context.Context, aircraft *gormModels.Aircraft) error {
	return r.db.WithContext(ctx).Save(aircraft).Error
}

// MarkInFlight reserves the airframe for a booked bid. Grounded and retired
// airframes are never transitioned.
func (r *FleetRepository) MarkInFlight(ctx context.Context, registration string) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.Aircraft{}).
		Where("registration = ? AND status NOT IN ?", strings.ToUpper(strings.TrimSpace(registration)),
			[]constants.AircraftStatus{constants.AircraftStatusGrounded, constants.AircraftStatusRetired}).
		Update("status", constants.AircraftStatusInFlight).Error
}

// ReleaseInFlight returns the airframe to the available pool after a bid is
// cancelled or the flight completes. Only the InFlight state is released, so
// a maintenance hold applied mid-flight sticks.
func (r *FleetRepository) ReleaseInFlight(ctx context.Context, registration string) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.Aircraft{}).
		Where("registration = ? AND status = ?", strings.ToUpper(strings.TrimSpace(registration)),
			constants.AircraftStatusInFlight).
		Update("status", constants.AircraftStatusAvailable).Error
}

// RecordFlight applies a completed leg: hours, cycle count, and the new
// location when location-based fleet tracking is on.
func (r *FleetRepository) RecordFlight(ctx context.Context, registration string, hours float64, arrivalICAO string, moveLocation bool) error {
	aircraft, err := r.FindByRegistration(ctx, registration)
	if err != nil || aircraft == nil {
		return err
	}
	aircraft.TotalHours += hours
	aircraft.FlightCount++
	if moveLocation && arrivalICAO != "" {
		aircraft.CurrentLocation = strings.ToUpper(arrivalICAO)
	}
	if aircraft.Status == constants.AircraftStatusInFlight {
		aircraft.Status = constants.AircraftStatusAvailable
	}
	return r.db.WithContext(ctx).Save(aircraft).Error
}
