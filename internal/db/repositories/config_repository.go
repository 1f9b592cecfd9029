package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	gormModels "levant-va/tower/internal/models/gorm"
)

const (
	configKey      = "LVT_MAIN"
	configCacheTTL = 60 * time.Second
)

type ConfigRepository struct {
	db    *gorm.DB
	cache common.CacheInterface
}

func NewConfigRepository(db *gorm.DB, cache common.CacheInterface) *ConfigRepository {
	return &ConfigRepository{db: db, cache: cache}
}

// GetOrCreate returns the single parameters row, seeding the defaults on
// first run. The short cache keeps per-PIREP reads off the database without
// hiding operator edits for long.
func (r *ConfigRepository) GetOrCreate(ctx context.Context) (*gormModels.GlobalConfig, error) {
	cacheKey := string(constants.CachePrefixGlobalConfig) + configKey
	if r.cache != nil {
		if cached, ok := r.cache.Get(cacheKey); ok {
			if cfg, ok := cached.(*gormModels.GlobalConfig); ok {
				return cfg, nil
			}
		}
	}

	var cfg gormModels.GlobalConfig
	err := r.db.WithContext(ctx).Where("key = ?", configKey).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = gormModels.GlobalConfig{Key: configKey}
		if err := r.db.WithContext(ctx).Create(&cfg).Error; err != nil {
			return nil, fmt.Errorf("failed to seed global config: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to fetch global config: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(cacheKey, &cfg, configCacheTTL)
	}
	return &cfg, nil
}

// Save persists operator edits and invalidates the cached copy.
func (r *ConfigRepository) Save(ctx context.Context, cfg *gormModels.GlobalConfig) error {
	if err := r.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to save global config: %w", err)
	}
	if r.cache != nil {
		r.cache.Delete(string(constants.CachePrefixGlobalConfig) + configKey)
	}
	return nil
}
