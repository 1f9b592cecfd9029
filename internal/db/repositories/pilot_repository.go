package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	gormModels "levant-va/tower/internal/models/gorm"
)

type PilotRepository struct {
	db *gorm.DB
}

func NewPilotRepository(db *gorm.DB) *PilotRepository {
	return &PilotRepository{db: db}
}

// FindByIdentifier resolves a loosely-typed pilot identifier. Upstream
// systems send the external pilot code, the login email, or the raw record
// ID interchangeably, so lookups are tried in that order; first match wins.
// Returns (nil, nil) when nothing matches.
func (r *PilotRepository) FindByIdentifier(ctx context.Context, identifier string) (*gormModels.Pilot, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}

	var pilot gormModels.Pilot

	err := r.db.WithContext(ctx).
		Where("pilot_id = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&pilot).Error
	if err == nil {
		return &pilot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch pilot: %w", err)
	}

	// Case-insensitive pilot code
	err = r.db.WithContext(ctx).
		Where("LOWER(pilot_id) = ?", strings.ToLower(identifier)).
		First(&pilot).Error
	if err == nil {
		return &pilot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch pilot: %w", err)
	}

	// Raw record ID, if it parses as one
	if _, parseErr := uuid.Parse(identifier); parseErr == nil {
		err = r.db.WithContext(ctx).
			Where("id = ?", identifier).
			First(&pilot).Error
		if err == nil {
			return &pilot, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to fetch pilot: %w", err)
		}
	}

	return nil, nil
}

// GetByID fetches a pilot by primary key.
func (r *PilotRepository) GetByID(ctx context.Context, id string) (*gormModels.Pilot, error) {
	var pilot gormModels.Pilot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pilot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pilot: %w", err)
	}
	return &pilot, nil
}

// TouchLastActivity refreshes the heartbeat timestamp.
func (r *PilotRepository) TouchLastActivity(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&gormModels.Pilot{}).
		Where("id = ?", id).
		Update("last_activity", &now).Error
}

// AwardFlightCredits applies a completed flight to the pilot record in one
// update: balance increment, route added to the flown set, stat totals, and
// the last-flight date. Balance and totals are never set directly elsewhere.
func (r *PilotRepository) AwardFlightCredits(
	ctx context.Context,
	id string,
	credits int,
	routeKey string,
	flightHours float64,
	arrivalICAO string,
) error {
	var pilot gormModels.Pilot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pilot).Error; err != nil {
		return fmt.Errorf("failed to fetch pilot for award: %w", err)
	}

	pilot.Balance += int64(credits)
	pilot.TotalHours += flightHours
	pilot.TotalFlights++
	if !pilot.HasFlownRoute(routeKey) {
		pilot.RoutesFlown = append(pilot.RoutesFlown, routeKey)
	}
	now := time.Now()
	pilot.LastFlightDate = &now
	if arrivalICAO != "" {
		pilot.CurrentLocation = arrivalICAO
	}

	return r.db.WithContext(ctx).Save(&pilot).Error
}

// ReverseFlightCredits compensates a deleted approved flight. The route set
// is left alone; it records discovery, not balance.
func (r *PilotRepository) ReverseFlightCredits(
	ctx context.Context,
	id string,
	credits int,
	flightHours float64,
) error {
	var pilot gormModels.Pilot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pilot).Error; err != nil {
		return fmt.Errorf("failed to fetch pilot for reversal: %w", err)
	}

	pilot.Balance -= int64(credits)
	pilot.TotalHours -= flightHours
	if pilot.TotalHours < 0 {
		pilot.TotalHours = 0
	}
	if pilot.TotalFlights > 0 {
		pilot.TotalFlights--
	}

	return r.db.WithContext(ctx).Save(&pilot).Error
}

// UpdateRank sets the pilot's rank after a promotion check.
func (r *PilotRepository) UpdateRank(ctx context.Context, id string, rankName string) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.Pilot{}).
		Where("id = ?", id).
		Update("rank", rankName).Error
}
