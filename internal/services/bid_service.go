package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/models/dtos"
	gormModels "levant-va/tower/internal/models/gorm"
)

const bidLifetime = 48 * time.Hour

// BidService manages flight-plan bids: booking with fleet validation, the
// enriched fetch the ACARS client loads on connect, and idempotent cancel.
type BidService struct {
	pilots        *repositories.PilotRepository
	bids          *repositories.BidRepository
	fleet         *repositories.FleetRepository
	airports      *repositories.AirportRepository
	activeFlights *repositories.ActiveFlightRepository
	config        *repositories.ConfigRepository
	simbrief      *common.SimbriefService
}

func NewBidService(
	pilots *repositories.PilotRepository,
	bids *repositories.BidRepository,
	fleet *repositories.FleetRepository,
	airports *repositories.AirportRepository,
	activeFlights *repositories.ActiveFlightRepository,
	config *repositories.ConfigRepository,
	simbrief *common.SimbriefService,
) *BidService {
	return &BidService{
		pilots:        pilots,
		bids:          bids,
		fleet:         fleet,
		airports:      airports,
		activeFlights: activeFlights,
		config:        config,
		simbrief:      simbrief,
	}
}

// BidFetchResult is the enriched payload for a bid fetch. Bid is nil in the
// normal no-current-plan state.
type BidFetchResult struct {
	Bid      *dtos.BidDetails  `json:"bid"`
	Briefing *dtos.OFPBriefing `json:"briefing,omitempty"`
}

// Get returns the pilot's most recent open bid, enriched with airport
// coordinates and, when the pilot has a SimBrief ID, the latest OFP.
// Enrichment is best-effort; its absence never fails the fetch.
func (s *BidService) Get(ctx context.Context, pilotIdentifier string) (*BidFetchResult, error) {
	pilot, err := s.pilots.FindByIdentifier(ctx, pilotIdentifier)
	if err != nil {
		return nil, err
	}
	if pilot == nil {
		return nil, ErrPilotNotFound
	}

	bid, err := s.bids.FindLatestOpen(ctx, pilot.ID)
	if err != nil {
		return nil, err
	}
	if bid == nil {
		logging.Info("No open bid", "pilot", pilot.PilotID)
		return &BidFetchResult{}, nil
	}

	details := bidToDetails(bid)

	// Airport rows and the OFP are independent reads; fetch them together.
	var depAirport, arrAirport *gormModels.Airport
	var briefing *dtos.OFPBriefing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		depAirport, err = s.airports.FindByICAO(gctx, bid.DepartureICAO)
		return err
	})
	g.Go(func() error {
		var err error
		arrAirport, err = s.airports.FindByICAO(gctx, bid.ArrivalICAO)
		return err
	})
	if s.simbrief != nil && pilot.SimbriefID != nil && *pilot.SimbriefID != "" {
		simbriefID := *pilot.SimbriefID
		g.Go(func() error {
			ofp, err := s.simbrief.FetchOFP(gctx, simbriefID)
			if err != nil {
				logging.Warn("SimBrief enrichment failed", "pilot", pilot.PilotID, "error", err.Error())
				return nil
			}
			briefing = ofp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.Warn("Bid enrichment failed", "pilot", pilot.PilotID, "error", err.Error())
	}

	if depAirport != nil {
		details.DepartureName = depAirport.Name
		details.DepLat = depAirport.Latitude
		details.DepLon = depAirport.Longitude
	}
	if arrAirport != nil {
		details.ArrivalName = arrAirport.Name
		details.ArrLat = arrAirport.Latitude
		details.ArrLon = arrAirport.Longitude
	}

	return &BidFetchResult{Bid: details, Briefing: briefing}, nil
}

// Book creates a new bid, cancelling any existing Active one first so at
// most one open bid exists per pilot. Aircraft validation is advisory at
// write time; there is no transaction spanning check and create.
func (s *BidService) Book(ctx context.Context, req *dtos.BidRequest) (*dtos.BidDetails, error) {
	pilot, err := s.pilots.FindByIdentifier(ctx, req.PilotID)
	if err != nil {
		return nil, err
	}
	if pilot == nil {
		return nil, ErrPilotNotFound
	}
	if pilot.Status == constants.PilotStatusBlacklist {
		return nil, ErrBlacklisted
	}

	dep := strings.ToUpper(strings.TrimSpace(req.DepartureICAO))
	arr := strings.ToUpper(strings.TrimSpace(req.ArrivalICAO))
	if dep == "" || arr == "" || req.Callsign == "" {
		return nil, NewValidationError("callsign, departure_icao and arrival_icao are required", nil)
	}

	// Supersede any existing active bid before the fleet checks; a booking
	// attempt abandons the old plan even when the new aircraft is refused.
	if existing, err := s.bids.FindActive(ctx, pilot.ID); err == nil && existing != nil {
		existing.Status = constants.BidStatusCancelled
		if err := s.bids.Save(ctx, existing); err != nil {
			return nil, err
		}
		if existing.AircraftRegistration != "" {
			if err := s.fleet.ReleaseInFlight(ctx, existing.AircraftRegistration); err != nil {
				logging.Warn("Failed to release aircraft", "registration", existing.AircraftRegistration, "error", err.Error())
			}
		}
	} else if err != nil {
		return nil, err
	}

	if req.AircraftRegistration != "" {
		if err := s.validateAircraft(ctx, req.AircraftRegistration, dep); err != nil {
			return nil, err
		}
	}

	bid := &gormModels.Bid{
		ID:                   uuid.NewString(),
		PilotID:              pilot.ID,
		PilotName:            pilot.FullName(),
		Callsign:             strings.ToUpper(strings.TrimSpace(req.Callsign)),
		DepartureICAO:        dep,
		ArrivalICAO:          arr,
		AircraftType:         req.AircraftType,
		AircraftRegistration: strings.ToUpper(strings.TrimSpace(req.AircraftRegistration)),
		Route:                req.Route,
		EstimatedFlightTime:  req.EstimatedFlightTime,
		Pax:                  req.Pax,
		Cargo:                req.Cargo,
		PlannedFuel:          req.PlannedFuel,
		SimbriefOFPID:        req.SimbriefOFPID,
		Status:               constants.BidStatusActive,
		ExpiresAt:            time.Now().Add(bidLifetime),
	}
	if err := s.bids.Create(ctx, bid); err != nil {
		return nil, err
	}
	return bidToDetails(bid), nil
}

// validateAircraft enforces the fleet business rules before a booking can
// reference an airframe.
func (s *BidService) validateAircraft(ctx context.Context, registration, departureICAO string) error {
	aircraft, err := s.fleet.FindByRegistration(ctx, registration)
	if err != nil {
		return err
	}
	if aircraft == nil {
		return NewValidationError(fmt.Sprintf("Aircraft %s not found in fleet", strings.ToUpper(registration)), nil)
	}

	now := time.Now()
	if aircraft.UnderRepair(now) {
		remaining := aircraft.RepairUntil.Sub(now).Hours()
		return NewValidationError(
			fmt.Sprintf("Aircraft %s is under repair for another %.1f hours", aircraft.Registration, remaining),
			map[string]any{"remaining_hours": remaining},
		)
	}
	if aircraft.RepairUntil != nil {
		// Lapsed repair order: clear it back to service on the way through.
		aircraft.RepairUntil = nil
		if aircraft.Status == constants.AircraftStatusMaintenance {
			aircraft.Status = constants.AircraftStatusAvailable
		}
		if err := s.fleet.Save(ctx, aircraft); err != nil {
			logging.Warn("Failed to clear lapsed repair", "registration", aircraft.Registration, "error", err.Error())
		}
	}

	if aircraft.Status == constants.AircraftStatusGrounded {
		reason := aircraft.GroundedReason
		if reason == "" {
			reason = "operational hold"
		}
		return NewValidationError(
			fmt.Sprintf("Aircraft %s is grounded: %s", aircraft.Registration, reason),
			map[string]any{"reason": reason},
		)
	}

	cfg, err := s.config.GetOrCreate(ctx)
	if err != nil {
		logging.Warn("Failed to load config for fleet policy", "error", err.Error())
		return nil
	}
	if cfg.LocationBasedFleet && !strings.EqualFold(aircraft.CurrentLocation, departureICAO) {
		return NewValidationError(
			fmt.Sprintf("Aircraft %s is at %s, not %s", aircraft.Registration, aircraft.CurrentLocation, departureICAO),
			map[string]any{"aircraft_location": aircraft.CurrentLocation},
		)
	}
	return nil
}

// Cancel clears every open bid and session for the pilot, releasing any
// reserved aircraft. Zero open bids is success with a zero count.
func (s *BidService) Cancel(ctx context.Context, pilotIdentifier string) (int64, error) {
	pilot, err := s.pilots.FindByIdentifier(ctx, pilotIdentifier)
	if err != nil {
		return 0, err
	}
	if pilot == nil {
		return 0, ErrPilotNotFound
	}

	open, err := s.bids.ListOpen(ctx, pilot.ID)
	if err != nil {
		return 0, err
	}
	for _, bid := range open {
		if bid.AircraftRegistration == "" {
			continue
		}
		if err := s.fleet.ReleaseInFlight(ctx, bid.AircraftRegistration); err != nil {
			logging.Warn("Failed to release aircraft", "registration", bid.AircraftRegistration, "error", err.Error())
		}
	}

	cancelled, err := s.bids.DeleteOpen(ctx, pilot.ID)
	if err != nil {
		return 0, err
	}
	if _, err := s.activeFlights.DeleteByPilot(ctx, pilot.ID); err != nil {
		logging.Warn("Failed to clear sessions on cancel", "pilot", pilot.PilotID, "error", err.Error())
	}
	return cancelled, nil
}

func bidToDetails(bid *gormModels.Bid) *dtos.BidDetails {
	return &dtos.BidDetails{
		ID:                   bid.ID,
		FlightNumber:         bid.Callsign,
		AirlineCode:          "LVT",
		Callsign:             bid.Callsign,
		DepartureICAO:        bid.DepartureICAO,
		ArrivalICAO:          bid.ArrivalICAO,
		AircraftType:         bid.AircraftType,
		AircraftRegistration: bid.AircraftRegistration,
		SimbriefOFPID:        bid.SimbriefOFPID,
		PlannedFuel:          bid.PlannedFuel,
		PlannedRoute:         bid.Route,
		Pax:                  bid.Pax,
		Cargo:                bid.Cargo,
		Status:               string(bid.Status),
		CreatedAt:            bid.CreatedAt,
		ExpiresAt:            bid.ExpiresAt,
	}
}
