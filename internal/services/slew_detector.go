package services

import (
	"context"
	"fmt"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/geo"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/metrics"
)

// SlewDetector flags implausible position jumps. A jump past the distance
// threshold inside the time window raises a moderation alert; the position
// update itself is never rejected, false positives only cost a ping to the
// moderation channel.
type SlewDetector struct {
	cache    *common.PositionCache
	notifier *Notifier
	metrics  *metrics.MetricsRegistry
}

func NewSlewDetector(cache *common.PositionCache, notifier *Notifier, reg *metrics.MetricsRegistry) *SlewDetector {
	return &SlewDetector{cache: cache, notifier: notifier, metrics: reg}
}

// Check evaluates the new report against the pilot's cached prior position
// and unconditionally records the new one. Returns whether a slew was
// flagged.
func (d *SlewDetector) Check(ctx context.Context, pilotKey, pilotName string, lat, lon float64, tsMillis int64) bool {
	prior, ok := d.cache.Get(pilotKey)
	d.cache.Set(pilotKey, lat, lon, tsMillis)
	if !ok {
		return false
	}

	elapsed := tsMillis - prior.Ts
	if elapsed <= 0 || elapsed >= constants.SlewWindowMs {
		return false
	}

	distance := geo.HaversineNm(prior.Lat, prior.Lon, lat, lon)
	if distance <= constants.SlewDistanceNm {
		return false
	}

	if d.metrics != nil {
		d.metrics.SlewAlertsTotal.Inc()
	}
	logging.Warn("Slew detected",
		"pilot", pilotKey,
		"distance_nm", distance,
		"elapsed_ms", elapsed,
	)
	if d.notifier != nil {
		d.notifier.NotifyModeration(ctx, pilotName, pilotKey, constants.ModSlewDetect,
			fmt.Sprintf("Moved %.1f nm in %.1f s (threshold %.0f nm / %d s). Possible teleport or time acceleration.",
				distance, float64(elapsed)/1000, constants.SlewDistanceNm, constants.SlewWindowMs/1000))
	}
	return true
}
