package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"levant-va/tower/internal/constants"
	gormModels "levant-va/tower/internal/models/gorm"
)

type FlightRepository struct {
	db *gorm.DB
}

func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) Create(ctx context.Context, flight *gormModels.Flight) error {
	return r.db.WithContext(ctx).Create(flight).Error
}

func (r *FlightRepository) Save(ctx context.Context, flight *gormModels.Flight) error {
	return r.db.WithContext(ctx).Save(flight).Error
}

func (r *FlightRepository) GetByID(ctx context.Context, id string) (*gormModels.Flight, error) {
	var flight gormModels.Flight
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&flight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flight: %w", err)
	}
	return &flight, nil
}

// FindRecentSubmission is the replay guard: it returns a flight submitted by
// the same pilot on the same route within the window, newest first.
func (r *FlightRepository) FindRecentSubmission(
	ctx context.Context,
	pilotID, departureICAO, arrivalICAO string,
	window time.Duration,
) (*gormModels.Flight, error) {
	var flight gormModels.Flight
	err := r.db.WithContext(ctx).
		Where("pilot_id = ? AND departure_icao = ? AND arrival_icao = ? AND submitted_at >= ?",
			pilotID, departureICAO, arrivalICAO, time.Now().Add(-window)).
		Order("submitted_at DESC").
		First(&flight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flight: %w", err)
	}
	return &flight, nil
}

// CountByPilot returns the number of non-rejected flights a pilot has filed.
func (r *FlightRepository) CountByPilot(ctx context.Context, pilotID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Flight{}).
		Where("pilot_id = ? AND approved_status <> ?", pilotID, constants.ApprovalRejected).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count flights: %w", err)
	}
	return count, nil
}

// HasFlightOnDate reports whether the pilot filed any flight during the UTC
// day containing the given time. Used for the first-flight-of-day bonus.
func (r *FlightRepository) HasFlightOnDate(ctx context.Context, pilotID string, at time.Time) (bool, error) {
	dayStart := at.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Flight{}).
		Where("pilot_id = ? AND submitted_at >= ? AND submitted_at < ?", pilotID, dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count flights: %w", err)
	}
	return count > 0, nil
}

// ListPending returns flights awaiting review, oldest first.
func (r *FlightRepository) ListPending(ctx context.Context, limit int) ([]gormModels.Flight, error) {
	var flights []gormModels.Flight
	err := r.db.WithContext(ctx).
		Where("approved_status = ?", constants.ApprovalPending).
		Order("submitted_at ASC").
		Limit(limit).
		Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending flights: %w", err)
	}
	return flights, nil
}

// ListByPilot returns a pilot's logbook, newest first.
func (r *FlightRepository) ListByPilot(ctx context.Context, pilotID string, limit int) ([]gormModels.Flight, error) {
	var flights []gormModels.Flight
	err := r.db.WithContext(ctx).
		Where("pilot_id = ?", pilotID).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	return flights, nil
}

func (r *FlightRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Flight{}).Error
}
