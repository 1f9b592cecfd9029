package services

import (
	"context"

	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/metrics"
	gormModels "levant-va/tower/internal/models/gorm"
)

// RankService applies automatic promotions after approved flights.
type RankService struct {
	ranks    *repositories.RankRepository
	pilots   *repositories.PilotRepository
	notifier *Notifier
	metrics  *metrics.MetricsRegistry
}

func NewRankService(
	ranks *repositories.RankRepository,
	pilots *repositories.PilotRepository,
	notifier *Notifier,
	reg *metrics.MetricsRegistry,
) *RankService {
	return &RankService{ranks: ranks, pilots: pilots, notifier: notifier, metrics: reg}
}

// CheckPromotion promotes the pilot to the highest auto-promote rank whose
// requirements they now meet, if it outranks their current one. Returns the
// new rank, or nil when nothing changed. Failures are logged, never fatal to
// the approval that triggered the check.
func (s *RankService) CheckPromotion(ctx context.Context, pilot *gormModels.Pilot) *gormModels.Rank {
	ladder, err := s.ranks.ListOrdered(ctx)
	if err != nil {
		logging.Warn("Failed to load rank ladder", "error", err.Error())
		return nil
	}
	if len(ladder) == 0 {
		return nil
	}

	currentOrder := -1
	for _, r := range ladder {
		if r.Name == pilot.Rank {
			currentOrder = r.Order
			break
		}
	}

	hours := pilot.TotalHours + pilot.TransferHours
	var target *gormModels.Rank
	for i := range ladder {
		r := &ladder[i]
		if !r.AutoPromote || r.Order <= currentOrder {
			continue
		}
		if hours >= r.RequirementHours && pilot.TotalFlights >= r.RequirementFlights {
			target = r
		}
	}
	if target == nil {
		return nil
	}

	if err := s.pilots.UpdateRank(ctx, pilot.ID, target.Name); err != nil {
		logging.Error("Failed to apply promotion", "pilot", pilot.PilotID, "rank", target.Name, "error", err.Error())
		return nil
	}
	pilot.Rank = target.Name
	if s.metrics != nil {
		s.metrics.RankPromotionsTotal.Inc()
	}
	logging.Info("Pilot promoted", "pilot", pilot.PilotID, "rank", target.Name)
	if s.notifier != nil {
		s.notifier.NotifyPromotion(ctx, pilot.FullName(), pilot.PilotID, target.Name, target.ImageURL)
	}
	return target
}
