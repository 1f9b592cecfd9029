package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"levant-va/tower/internal/auth"
	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/metrics"
	"levant-va/tower/internal/models/dtos"
	gormModels "levant-va/tower/internal/models/gorm"
)

const (
	pirepReplayWindow = 5 * time.Minute

	// Landing rates at or below this are auto-rejected without review.
	defaultAutoRejectLandingRate = -700
	// Landing rates below this additionally raise a moderation alert.
	hardLandingAlertRate = -800
)

// PirepService runs the PIREP pipeline: submission scoring and the admin
// review actions whose side effects award or reverse pilot credits.
type PirepService struct {
	pilots        *repositories.PilotRepository
	flights       *repositories.FlightRepository
	bids          *repositories.BidRepository
	activeFlights *repositories.ActiveFlightRepository
	fleet         *repositories.FleetRepository
	config        *repositories.ConfigRepository
	engine        *CreditEngine
	ranks         *RankService
	notifier      *Notifier
	inApp         *NotificationService
	metrics       *metrics.MetricsRegistry

	autoRejectRate int
}

func NewPirepService(
	pilots *repositories.PilotRepository,
	flights *repositories.FlightRepository,
	bids *repositories.BidRepository,
	activeFlights *repositories.ActiveFlightRepository,
	fleet *repositories.FleetRepository,
	config *repositories.ConfigRepository,
	engine *CreditEngine,
	ranks *RankService,
	notifier *Notifier,
	inApp *NotificationService,
	reg *metrics.MetricsRegistry,
) *PirepService {
	autoReject := defaultAutoRejectLandingRate
	if v := os.Getenv("AUTO_PIREP_REJECT_LANDING_RATE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			autoReject = parsed
		}
	}
	return &PirepService{
		pilots:         pilots,
		flights:        flights,
		bids:           bids,
		activeFlights:  activeFlights,
		fleet:          fleet,
		config:         config,
		engine:         engine,
		ranks:          ranks,
		notifier:       notifier,
		inApp:          inApp,
		metrics:        reg,
		autoRejectRate: autoReject,
	}
}

func (s *PirepService) countSubmission(outcome string) {
	if s.metrics != nil {
		s.metrics.PirepsSubmittedTotal.WithLabelValues(outcome).Inc()
	}
}

// Submit validates and scores a post-flight report. The computed credits are
// stored on the record but only reach the pilot's balance on approval. The
// pilot's live session and open bid for the flight are consumed here.
func (s *PirepService) Submit(ctx context.Context, req *dtos.PirepSubmitRequest) (*gormModels.Flight, error) {
	pilot, err := s.pilots.FindByIdentifier(ctx, req.PilotID)
	if err != nil {
		return nil, err
	}
	if pilot == nil {
		s.countSubmission("pilot_not_found")
		return nil, ErrPilotNotFound
	}
	if pilot.Status == constants.PilotStatusBlacklist {
		s.countSubmission("blacklisted")
		return nil, ErrBlacklisted
	}

	dep := strings.ToUpper(strings.TrimSpace(req.DepartureICAO))
	arr := strings.ToUpper(strings.TrimSpace(req.ArrivalICAO))
	if dep == "" || arr == "" || req.FlightTimeMinutes <= 0 {
		return nil, NewValidationError("departureIcao, arrivalIcao and flightTimeMinutes are required", nil)
	}

	// Token-authenticated clients stamp submissions; anything older than the
	// replay window is a queued retry of a flight already handled.
	if token := auth.PilotTokenFromContext(ctx); token != nil && req.Timestamp != nil {
		sent := time.UnixMilli(*req.Timestamp)
		if time.Since(sent) > pirepReplayWindow {
			s.countSubmission("stale")
			return nil, NewValidationError("Stale PIREP: submission timestamp is too old", nil)
		}
	}

	// Replay guard: the client retries on flaky connections and can double
	// submit the same flight.
	if recent, err := s.flights.FindRecentSubmission(ctx, pilot.ID, dep, arr, pirepReplayWindow); err != nil {
		return nil, err
	} else if recent != nil {
		s.countSubmission("duplicate")
		return nil, NewValidationError("Duplicate PIREP: an identical flight was filed moments ago", map[string]any{
			"existing_flight_id": recent.ID,
		})
	}

	cfg, err := s.config.GetOrCreate(ctx)
	if err != nil {
		logging.Warn("Config unavailable, using default credit rates", "error", err.Error())
		cfg = nil
	}

	deductions := make(gormModels.DeductionList, 0)
	if req.Log != nil {
		now := time.Now()
		for _, d := range req.Log.Deductions {
			deductions = append(deductions, gormModels.Deduction{
				Reason:    d.Reason,
				Penalty:   d.Penalty,
				Timestamp: now,
			})
		}
	}

	routeKey := dep + "-" + arr
	result := s.engine.Calculate(CreditInput{
		DepartureICAO:     dep,
		ArrivalICAO:       arr,
		LandingRate:       req.LandingRate,
		FlightTimeMinutes: req.FlightTimeMinutes,
		FuelUsed:          req.FuelUsed,
		PlannedFuel:       plannedFuelFor(ctx, s.bids, pilot.ID, req),
		Deductions:        deductions,
		IsEventFlight:     req.IsEventFlight,
		RouteAlreadyFlown: pilot.HasFlownRoute(routeKey),
		LastFlightDate:    pilot.LastFlightDate,
		Now:               time.Now(),
	}, cfg)

	flight := &gormModels.Flight{
		ID:                   uuid.NewString(),
		PilotID:              pilot.ID,
		PilotName:            pilot.FullName(),
		FlightNumber:         req.FlightNumber,
		Callsign:             req.Callsign,
		DepartureICAO:        dep,
		ArrivalICAO:          arr,
		AlternateICAO:        strings.ToUpper(strings.TrimSpace(req.AlternateICAO)),
		Route:                req.Route,
		AircraftType:         req.AircraftType,
		AircraftRegistration: strings.ToUpper(strings.TrimSpace(req.AircraftRegistration)),
		FlightTime:           req.FlightTimeMinutes,
		LandingRate:          req.LandingRate,
		LandingGrade:         common.LandingGrade(req.LandingRate),
		FuelUsed:             req.FuelUsed,
		Distance:             req.DistanceNm,
		Pax:                  req.Pax,
		Cargo:                req.Cargo,
		Score:                req.Score,
		ComfortScore:         req.ComfortScore,
		Deductions:           deductions,
		Telemetry:            req.Telemetry,
		Comments:             req.Comments,
		CreditsEarned:        result.Total,
		CreditsBreakdown:     result.Breakdown,
		AcarsVersion:         req.AcarsVersion(),
		ApprovedStatus:       constants.ApprovalPending,
	}

	if req.LandingRate <= s.autoRejectRate {
		flight.ApprovedStatus = constants.ApprovalRejected
		flight.AdminComments = fmt.Sprintf("Auto-rejected: landing rate %d fpm exceeds the %d fpm limit",
			req.LandingRate, s.autoRejectRate)
		flight.CreditsEarned = 0
		s.countSubmission("auto_rejected")
	} else {
		s.countSubmission("pending")
	}

	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}

	if req.LandingRate < hardLandingAlertRate && s.notifier != nil {
		s.notifier.NotifyModeration(ctx, pilot.FullName(), pilot.PilotID, constants.ModHardLanding,
			fmt.Sprintf("Landing rate %d fpm on %s (%s)", req.LandingRate, routeKey, req.Callsign))
	}

	s.consumeFlightState(ctx, pilot, req.Callsign)

	if flight.ApprovedStatus == constants.ApprovalRejected {
		if s.inApp != nil {
			s.inApp.PirepRejected(ctx, pilot.ID, flight.FlightNumber, flight.AdminComments)
		}
	} else if s.notifier != nil {
		s.notifier.NotifyLanding(ctx, pilot.FullName(), pilot.PilotID,
			req.Callsign, arr, req.LandingRate, req.Score)
	}

	return flight, nil
}

// plannedFuelFor pulls the planned fuel figure off the bid the flight was
// flown against, so the fuel-efficiency rule has something to compare to.
func plannedFuelFor(ctx context.Context, bids *repositories.BidRepository, pilotUUID string, req *dtos.PirepSubmitRequest) float64 {
	bid, err := bids.FindOpenByCallsign(ctx, pilotUUID, req.Callsign)
	if err != nil || bid == nil {
		return 0
	}
	return bid.PlannedFuel
}

// consumeFlightState closes the session and bid the submitted flight came
// from. Best-effort; a missed cleanup is swept later by the stale-session
// job.
func (s *PirepService) consumeFlightState(ctx context.Context, pilot *gormModels.Pilot, callsign string) {
	if callsign != "" {
		if err := s.activeFlights.DeleteByPilotAndCallsign(ctx, pilot.ID, callsign); err != nil {
			logging.Warn("Failed to close session after PIREP", "callsign", callsign, "error", err.Error())
		}
	} else if _, err := s.activeFlights.DeleteByPilot(ctx, pilot.ID); err != nil {
		logging.Warn("Failed to close sessions after PIREP", "pilot", pilot.PilotID, "error", err.Error())
	}

	bid, err := s.bids.FindOpenByCallsign(ctx, pilot.ID, callsign)
	if err != nil || bid == nil {
		return
	}
	bid.Status = constants.BidStatusCompleted
	if err := s.bids.Save(ctx, bid); err != nil {
		logging.Warn("Failed to complete bid after PIREP", "bid", bid.ID, "error", err.Error())
	}
	if bid.AircraftRegistration != "" {
		if err := s.fleet.ReleaseInFlight(ctx, bid.AircraftRegistration); err != nil {
			logging.Warn("Failed to release aircraft after PIREP", "registration", bid.AircraftRegistration, "error", err.Error())
		}
	}
}

// Approve moves a pending PIREP to accepted and applies its side effects:
// credit award, fleet hours, and the promotion check. Re-approving an
// already accepted flight is a no-op, never a double award.
func (s *PirepService) Approve(ctx context.Context, flightID, reviewedBy, comments string) (*gormModels.Flight, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, NewValidationError("Flight not found", nil)
	}
	if flight.ApprovedStatus == constants.ApprovalAccepted {
		return flight, nil
	}

	pilot, err := s.pilots.GetByID(ctx, flight.PilotID)
	if err != nil {
		return nil, err
	}
	if pilot == nil {
		return nil, ErrPilotNotFound
	}

	now := time.Now()
	flight.ApprovedStatus = constants.ApprovalAccepted
	flight.ReviewedAt = &now
	flight.ReviewedBy = reviewedBy
	if comments != "" {
		flight.AdminComments = comments
	}
	if err := s.flights.Save(ctx, flight); err != nil {
		return nil, err
	}

	hours := float64(flight.FlightTime) / 60.0
	routeKey := flight.DepartureICAO + "-" + flight.ArrivalICAO
	if err := s.pilots.AwardFlightCredits(ctx, pilot.ID, flight.CreditsEarned, routeKey, hours, flight.ArrivalICAO); err != nil {
		return nil, fmt.Errorf("failed to award credits: %w", err)
	}
	if s.metrics != nil {
		s.metrics.CreditsAwardedTotal.Add(float64(flight.CreditsEarned))
	}

	s.applyFleetHours(ctx, flight, hours)

	// Refresh stats before the promotion check reads them.
	if refreshed, err := s.pilots.GetByID(ctx, pilot.ID); err == nil && refreshed != nil {
		pilot = refreshed
	}
	if s.ranks != nil {
		if newRank := s.ranks.CheckPromotion(ctx, pilot); newRank != nil && s.inApp != nil {
			s.inApp.RankPromotion(ctx, pilot.ID, newRank.Name)
		}
	}
	if s.inApp != nil {
		s.inApp.PirepApproved(ctx, pilot.ID, flight.FlightNumber, flight.CreditsEarned)
	}
	return flight, nil
}

func (s *PirepService) applyFleetHours(ctx context.Context, flight *gormModels.Flight, hours float64) {
	if flight.AircraftRegistration == "" {
		return
	}
	moveLocation := false
	if cfg, err := s.config.GetOrCreate(ctx); err == nil && cfg != nil {
		moveLocation = cfg.LocationBasedFleet
	}
	if err := s.fleet.RecordFlight(ctx, flight.AircraftRegistration, hours, flight.ArrivalICAO, moveLocation); err != nil {
		logging.Warn("Failed to record fleet hours", "registration", flight.AircraftRegistration, "error", err.Error())
	}
}

// Reject marks a pending PIREP rejected. No credit movement to undo.
func (s *PirepService) Reject(ctx context.Context, flightID, reviewedBy, comments string) (*gormModels.Flight, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, NewValidationError("Flight not found", nil)
	}
	if flight.ApprovedStatus == constants.ApprovalAccepted {
		return nil, NewValidationError("Flight is already approved; delete it to reverse", nil)
	}
	if flight.ApprovedStatus == constants.ApprovalRejected {
		return flight, nil
	}

	now := time.Now()
	flight.ApprovedStatus = constants.ApprovalRejected
	flight.ReviewedAt = &now
	flight.ReviewedBy = reviewedBy
	flight.AdminComments = comments
	if err := s.flights.Save(ctx, flight); err != nil {
		return nil, err
	}
	if s.inApp != nil {
		s.inApp.PirepRejected(ctx, flight.PilotID, flight.FlightNumber, comments)
	}
	return flight, nil
}

// Delete removes a PIREP. Deleting an approved flight reverses the credits
// and stat increments it granted.
func (s *PirepService) Delete(ctx context.Context, flightID string) error {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return err
	}
	if flight == nil {
		return NewValidationError("Flight not found", nil)
	}

	if flight.ApprovedStatus == constants.ApprovalAccepted {
		hours := float64(flight.FlightTime) / 60.0
		if err := s.pilots.ReverseFlightCredits(ctx, flight.PilotID, flight.CreditsEarned, hours); err != nil {
			return fmt.Errorf("failed to reverse credits: %w", err)
		}
	}
	return s.flights.Delete(ctx, flightID)
}
