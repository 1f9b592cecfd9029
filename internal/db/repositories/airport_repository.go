package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	gormModels "levant-va/tower/internal/models/gorm"
)

const airportCacheTTL = 6 * time.Hour

// AirportRepository reads the static airport table. Rows change rarely, so
// lookups go through the shared cache.
type AirportRepository struct {
	db    *gorm.DB
	cache common.CacheInterface
}

func NewAirportRepository(db *gorm.DB, cache common.CacheInterface) *AirportRepository {
	return &AirportRepository{db: db, cache: cache}
}

// FindByICAO returns (nil, nil) for unknown codes; callers degrade to
// name-less, zero-coordinate output rather than failing the request.
func (r *AirportRepository) FindByICAO(ctx context.Context, icao string) (*gormModels.Airport, error) {
	icao = strings.ToUpper(strings.TrimSpace(icao))
	if icao == "" {
		return nil, nil
	}

	cacheKey := string(constants.CachePrefixAirport) + icao
	if r.cache != nil {
		if cached, ok := r.cache.Get(cacheKey); ok {
			if airport, ok := cached.(*gormModels.Airport); ok {
				return airport, nil
			}
		}
	}

	var airport gormModels.Airport
	err := r.db.WithContext(ctx).Where("icao = ?", icao).First(&airport).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airport: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(cacheKey, &airport, airportCacheTTL)
	}
	return &airport, nil
}
