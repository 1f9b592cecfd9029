package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "levant-va/tower/internal/models/gorm"
)

type RankRepository struct {
	db *gorm.DB
}

func NewRankRepository(db *gorm.DB) *RankRepository {
	return &RankRepository{db: db}
}

// ListOrdered returns the rank ladder from lowest to highest.
func (r *RankRepository) ListOrdered(ctx context.Context) ([]gormModels.Rank, error) {
	var ranks []gormModels.Rank
	err := r.db.WithContext(ctx).
		Order("rank_order ASC").
		Find(&ranks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ranks: %w", err)
	}
	return ranks, nil
}
