package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	gormModels "levant-va/tower/internal/models/gorm"
)

type ActiveFlightRepository struct {
	db *gorm.DB
}

func NewActiveFlightRepository(db *gorm.DB) *ActiveFlightRepository {
	return &ActiveFlightRepository{db: db}
}

func (r *ActiveFlightRepository) Create(ctx context.Context, flight *gormModels.ActiveFlight) error {
	return r.db.WithContext(ctx).Create(flight).Error
}

func (r *ActiveFlightRepository) Save(ctx context.Context, flight *gormModels.ActiveFlight) error {
	return r.db.WithContext(ctx).Save(flight).Error
}

// FindByPilotAndCallsign is the primary session lookup.
func (r *ActiveFlightRepository) FindByPilotAndCallsign(ctx context.Context, pilotID, callsign string) (*gormModels.ActiveFlight, error) {
	var flight gormModels.ActiveFlight
	err := r.db.WithContext(ctx).
		Where("pilot_id = ? AND callsign = ?", pilotID, callsign).
		First(&flight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active flight: %w", err)
	}
	return &flight, nil
}

// FindByCallsign is the recovery lookup used when the primary key misses
// (the client's pilot identifier drifted mid-flight).
func (r *ActiveFlightRepository) FindByCallsign(ctx context.Context, callsign string) (*gormModels.ActiveFlight, error) {
	var flight gormModels.ActiveFlight
	err := r.db.WithContext(ctx).
		Where("callsign = ?", callsign).
		First(&flight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active flight: %w", err)
	}
	return &flight, nil
}

// DeleteByPilot clears every session for a pilot, returning the count.
func (r *ActiveFlightRepository) DeleteByPilot(ctx context.Context, pilotID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("pilot_id = ?", pilotID).
		Delete(&gormModels.ActiveFlight{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete active flights: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ActiveFlightRepository) DeleteByPilotAndCallsign(ctx context.Context, pilotID, callsign string) error {
	return r.db.WithContext(ctx).
		Where("pilot_id = ? AND callsign = ?", pilotID, callsign).
		Delete(&gormModels.ActiveFlight{}).Error
}

// ListRecent returns sessions updated within the cutoff window, for the
// traffic feed.
func (r *ActiveFlightRepository) ListRecent(ctx context.Context, cutoff time.Duration) ([]gormModels.ActiveFlight, error) {
	var flights []gormModels.ActiveFlight
	err := r.db.WithContext(ctx).
		Where("last_update >= ?", time.Now().Add(-cutoff)).
		Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active flights: %w", err)
	}
	return flights, nil
}

// DeleteStale removes sessions that stopped reporting before the cutoff.
// Run by the cleanup job, not by request handlers.
func (r *ActiveFlightRepository) DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("last_update < ?", time.Now().Add(-olderThan)).
		Delete(&gormModels.ActiveFlight{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete stale flights: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// TouchLastUpdate refreshes the session heartbeat without telemetry.
func (r *ActiveFlightRepository) TouchLastUpdate(ctx context.Context, pilotID, callsign string) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.ActiveFlight{}).
		Where("pilot_id = ? AND callsign = ?", pilotID, callsign).
		Update("last_update", time.Now()).Error
}
