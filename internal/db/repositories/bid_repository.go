package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"levant-va/tower/internal/constants"
	gormModels "levant-va/tower/internal/models/gorm"
)

var openBidStatuses = []constants.BidStatus{
	constants.BidStatusActive,
	constants.BidStatusInProgress,
}

type BidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Create(ctx context.Context, bid *gormModels.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

func (r *BidRepository) Save(ctx context.Context, bid *gormModels.Bid) error {
	return r.db.WithContext(ctx).Save(bid).Error
}

// FindLatestOpen returns the most recent Active/InProgress bid for a pilot,
// or (nil, nil) — the no-current-plan state is normal, not an error.
func (r *BidRepository) FindLatestOpen(ctx context.Context, pilotID string) (*gormModels.Bid, error) {
	var bid gormModels.Bid
	err := r.db.WithContext(ctx).
		Where("pilot_id = ? AND status IN ?", pilotID, openBidStatuses).
		Order("created_at DESC").
		First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bid: %w", err)
	}
	return &bid, nil
}

// FindActive returns the pilot's current Active bid, if any.
func (r *BidRepository) FindActive(ctx context.Context, pilotID string) (*gormModels.Bid, error) {
	var bid gormModels.Bid
	err := r.db.WithContext(ctx).
		Where("pilot_id = ? AND status = ?", pilotID, constants.BidStatusActive).
		Order("created_at DESC").
		First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bid: %w", err)
	}
	return &bid, nil
}

// FindOpenByCallsign prefers the open bid matching the requested callsign
// and falls back to the pilot's latest open bid when the callsigns disagree.
func (r *BidRepository) FindOpenByCallsign(ctx context.Context, pilotID, callsign string) (*gormModels.Bid, error) {
	var bid gormModels.Bid
	err := r.db.WithContext(ctx).
		Where("pilot_id = ? AND callsign = ? AND status IN ?", pilotID, callsign, openBidStatuses).
		First(&bid).Error
	if err == nil {
		return &bid, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch bid: %w", err)
	}
	return r.FindLatestOpen(ctx, pilotID)
}

// ListOpen returns every Active/InProgress bid for a pilot.
func (r *BidRepository) ListOpen(ctx context.Context, pilotID string) ([]gormModels.Bid, error) {
	var bids []gormModels.Bid
	err := r.db.WithContext(ctx).
		Where("pilot_id = ? AND status IN ?", pilotID, openBidStatuses).
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	return bids, nil
}

// DeleteOpen removes every Active/InProgress bid and reports the count.
func (r *BidRepository) DeleteOpen(ctx context.Context, pilotID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("pilot_id = ? AND status IN ?", pilotID, openBidStatuses).
		Delete(&gormModels.Bid{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete bids: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *BidRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Bid{}).Error
}
