package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/metrics"
	"levant-va/tower/internal/models/dtos"
	gormModels "levant-va/tower/internal/models/gorm"
)

const trafficWindow = 10 * time.Minute

// SessionService owns the live flight session lifecycle: the position upsert
// driven by the ACARS client every ~5s, explicit start/end, the keep-alive
// ping, and the traffic feed.
type SessionService struct {
	pilots        *repositories.PilotRepository
	activeFlights *repositories.ActiveFlightRepository
	bids          *repositories.BidRepository
	fleet         *repositories.FleetRepository
	slew          *SlewDetector
	notifier      *Notifier
	broadcaster   common.FlightBroadcaster
	metrics       *metrics.MetricsRegistry
}

func NewSessionService(
	pilots *repositories.PilotRepository,
	activeFlights *repositories.ActiveFlightRepository,
	bids *repositories.BidRepository,
	fleet *repositories.FleetRepository,
	slew *SlewDetector,
	notifier *Notifier,
	broadcaster common.FlightBroadcaster,
	reg *metrics.MetricsRegistry,
) *SessionService {
	return &SessionService{
		pilots:        pilots,
		activeFlights: activeFlights,
		bids:          bids,
		fleet:         fleet,
		slew:          slew,
		notifier:      notifier,
		broadcaster:   broadcaster,
		metrics:       reg,
	}
}

// UpsertPosition applies one position report. Validation failures reject the
// update before any write; collaborator failures after the session write are
// logged and swallowed so the client acknowledgment never depends on them.
func (s *SessionService) UpsertPosition(ctx context.Context, report *dtos.PositionReport) (*gormModels.ActiveFlight, error) {
	pilot, err := s.pilots.FindByIdentifier(ctx, report.PilotID)
	if err != nil {
		return nil, err
	}
	if pilot == nil {
		return nil, ErrPilotNotFound
	}
	if pilot.Status == constants.PilotStatusBlacklist {
		return nil, ErrBlacklisted
	}

	now := time.Now()
	if s.slew != nil {
		s.slew.Check(ctx, pilot.PilotID, pilot.FullName(),
			report.Latitude, report.Longitude, now.UnixMilli())
	}

	flight, err := s.activeFlights.FindByPilotAndCallsign(ctx, pilot.ID, report.Callsign)
	if err != nil {
		return nil, err
	}

	if flight == nil {
		// Recovery path: the client's pilot identifier can drift mid-flight,
		// so a session matching on callsign alone is re-attached rather than
		// duplicated. Origin fields stay as first recorded.
		flight, err = s.activeFlights.FindByCallsign(ctx, report.Callsign)
		if err != nil {
			return nil, err
		}
		if flight != nil {
			if s.metrics != nil {
				s.metrics.SessionsRecoveredTotal.Inc()
			}
			logging.Info("Recovered orphaned flight session",
				"callsign", report.Callsign, "pilot", pilot.PilotID)
			flight.PilotID = pilot.ID
			flight.PilotName = pilot.FullName()
		}
	}

	if flight == nil {
		flight = &gormModels.ActiveFlight{
			ID:        uuid.NewString(),
			PilotID:   pilot.ID,
			PilotName: pilot.FullName(),
			Callsign:  report.Callsign,
			StartedAt: now,
		}
		// Backfill the route from the pilot's open bid, if one exists.
		if bid, bidErr := s.bids.FindLatestOpen(ctx, pilot.ID); bidErr == nil && bid != nil {
			flight.DepartureICAO = bid.DepartureICAO
			flight.ArrivalICAO = bid.ArrivalICAO
			flight.AircraftType = bid.AircraftType
		}
		s.applyTelemetry(flight, report, now)
		if err := s.activeFlights.Create(ctx, flight); err != nil {
			return nil, err
		}
	} else {
		s.applyTelemetry(flight, report, now)
		if err := s.activeFlights.Save(ctx, flight); err != nil {
			return nil, err
		}
	}

	s.maybeNotifyTakeoff(ctx, pilot, flight)
	s.broadcast(ctx, flight)

	if err := s.pilots.TouchLastActivity(ctx, pilot.ID); err != nil {
		logging.Warn("Failed to touch pilot activity", "pilot", pilot.PilotID, "error", err.Error())
	}
	if s.metrics != nil {
		s.metrics.PositionReportsTotal.WithLabelValues("accepted").Inc()
	}
	return flight, nil
}

func (s *SessionService) applyTelemetry(flight *gormModels.ActiveFlight, report *dtos.PositionReport, now time.Time) {
	flight.Latitude = report.Latitude
	flight.Longitude = report.Longitude
	flight.Altitude = report.Altitude
	flight.Heading = report.Heading
	flight.GroundSpeed = report.GroundSpeed
	flight.IAS = report.IAS
	flight.VerticalSpeed = report.VS
	flight.Fuel = report.Fuel
	flight.Engines = report.Engines
	flight.Lights = report.Lights
	flight.Pitch = report.Pitch
	flight.Bank = report.Bank
	flight.GForce = report.GForce()
	flight.ComfortScore = report.ComfortScore()
	if phase := report.ResolvedPhase(); phase != "" {
		flight.Phase = phase
	}
	if report.Status != "" {
		flight.Status = report.Status
	}
	flight.LastUpdate = now
}

// maybeNotifyTakeoff fires the departure notification exactly once per
// session, gated by the persisted flag.
func (s *SessionService) maybeNotifyTakeoff(ctx context.Context, pilot *gormModels.Pilot, flight *gormModels.ActiveFlight) {
	if flight.TakeoffNotified || flight.Phase != constants.PhaseTakeoff {
		return
	}
	flight.TakeoffNotified = true
	if err := s.activeFlights.Save(ctx, flight); err != nil {
		logging.Error("Failed to persist takeoff flag", "callsign", flight.Callsign, "error", err.Error())
		return
	}
	if s.notifier != nil {
		s.notifier.NotifyTakeoff(ctx, pilot.FullName(), pilot.PilotID,
			flight.Callsign, flight.DepartureICAO, flight.ArrivalICAO, flight.AircraftType)
	}
}

func (s *SessionService) broadcast(ctx context.Context, flight *gormModels.ActiveFlight) {
	if s.broadcaster == nil {
		return
	}
	update := &dtos.FlightUpdate{
		Callsign:      flight.Callsign,
		PilotID:       flight.PilotID,
		Latitude:      flight.Latitude,
		Longitude:     flight.Longitude,
		Altitude:      flight.Altitude,
		Heading:       flight.Heading,
		GroundSpeed:   flight.GroundSpeed,
		Status:        flight.Status,
		IAS:           flight.IAS,
		VerticalSpeed: flight.VerticalSpeed,
		Phase:         flight.Phase,
		Departure:     flight.DepartureICAO,
		Arrival:       flight.ArrivalICAO,
		Equipment:     flight.AircraftType,
		ComfortScore:  flight.ComfortScore,
		Fuel:          flight.Fuel,
	}
	if err := s.broadcaster.BroadcastFlightUpdate(ctx, update); err != nil {
		logging.Warn("Live map broadcast failed", "callsign", flight.Callsign, "error", err.Error())
	}
}

// StartFlight opens a session explicitly, ahead of the first position
// report. An open bid for the pilot moves to InProgress and its aircraft is
// reserved.
func (s *SessionService) StartFlight(ctx context.Context, req *dtos.FlightStartRequest) (*gormModels.ActiveFlight, error) {
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

	flight, err := s.activeFlights.FindByPilotAndCallsign(ctx, pilot.ID, req.Callsign)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if flight == nil {
		flight = &gormModels.ActiveFlight{
			ID:        uuid.NewString(),
			PilotID:   pilot.ID,
			PilotName: pilot.FullName(),
			Callsign:  req.Callsign,
			StartedAt: now,
		}
	}
	if req.DepartureICAO != "" {
		flight.DepartureICAO = req.DepartureICAO
	}
	if req.ArrivalICAO != "" {
		flight.ArrivalICAO = req.ArrivalICAO
	}
	if req.AircraftType != "" {
		flight.AircraftType = req.AircraftType
	}
	flight.Phase = constants.PhasePreflight
	flight.LastUpdate = now
	if err := s.activeFlights.Save(ctx, flight); err != nil {
		return nil, err
	}

	if bid, bidErr := s.bids.FindOpenByCallsign(ctx, pilot.ID, req.Callsign); bidErr == nil && bid != nil {
		bid.Status = constants.BidStatusInProgress
		if err := s.bids.Save(ctx, bid); err != nil {
			logging.Warn("Failed to move bid in progress", "bid", bid.ID, "error", err.Error())
		}
		if bid.AircraftRegistration != "" {
			if err := s.fleet.MarkInFlight(ctx, bid.AircraftRegistration); err != nil {
				logging.Warn("Failed to reserve aircraft", "registration", bid.AircraftRegistration, "error", err.Error())
			}
		}
	}
	return flight, nil
}

// EndFlight tears down sessions. With a callsign only that session goes;
// without one every session and open bid for the pilot is cleared. Always
// idempotent.
func (s *SessionService) EndFlight(ctx context.Context, req *dtos.FlightEndRequest) (int64, error) {
	pilot, err := s.pilots.FindByIdentifier(ctx, req.PilotID)
	if err != nil {
		return 0, err
	}
	if pilot == nil {
		return 0, ErrPilotNotFound
	}

	if req.Callsign != "" {
		if err := s.activeFlights.DeleteByPilotAndCallsign(ctx, pilot.ID, req.Callsign); err != nil {
			return 0, err
		}
		return 1, nil
	}

	s.releaseBidAircraft(ctx, pilot.ID)
	if _, err := s.bids.DeleteOpen(ctx, pilot.ID); err != nil {
		logging.Warn("Failed to clear open bids on flight end", "pilot", pilot.PilotID, "error", err.Error())
	}
	return s.activeFlights.DeleteByPilot(ctx, pilot.ID)
}

func (s *SessionService) releaseBidAircraft(ctx context.Context, pilotUUID string) {
	bids, err := s.bids.ListOpen(ctx, pilotUUID)
	if err != nil {
		logging.Warn("Failed to list open bids", "pilot", pilotUUID, "error", err.Error())
		return
	}
	for _, bid := range bids {
		if bid.AircraftRegistration == "" {
			continue
		}
		if err := s.fleet.ReleaseInFlight(ctx, bid.AircraftRegistration); err != nil {
			logging.Warn("Failed to release aircraft", "registration", bid.AircraftRegistration, "error", err.Error())
		}
	}
}

// Ping refreshes the session heartbeat between full position reports.
func (s *SessionService) Ping(ctx context.Context, req *dtos.PingRequest) error {
	pilot, err := s.pilots.FindByIdentifier(ctx, req.PilotID)
	if err != nil {
		return err
	}
	if pilot == nil {
		return ErrPilotNotFound
	}
	if req.Callsign != "" {
		if err := s.activeFlights.TouchLastUpdate(ctx, pilot.ID, req.Callsign); err != nil {
			logging.Warn("Failed to touch session", "callsign", req.Callsign, "error", err.Error())
		}
	}
	return s.pilots.TouchLastActivity(ctx, pilot.ID)
}

// Traffic lists sessions that reported within the last ten minutes.
func (s *SessionService) Traffic(ctx context.Context) ([]dtos.TrafficEntry, error) {
	flights, err := s.activeFlights.ListRecent(ctx, trafficWindow)
	if err != nil {
		return nil, err
	}
	entries := make([]dtos.TrafficEntry, 0, len(flights))
	for _, f := range flights {
		entries = append(entries, dtos.TrafficEntry{
			Callsign:      f.Callsign,
			PilotName:     f.PilotName,
			DepartureICAO: f.DepartureICAO,
			ArrivalICAO:   f.ArrivalICAO,
			AircraftType:  f.AircraftType,
			Latitude:      f.Latitude,
			Longitude:     f.Longitude,
			Altitude:      f.Altitude,
			Heading:       f.Heading,
			GroundSpeed:   f.GroundSpeed,
			IAS:           f.IAS,
			VerticalSpeed: f.VerticalSpeed,
			Phase:         f.Phase,
			Fuel:          f.Fuel,
			GForce:        f.GForce,
			ComfortScore:  f.ComfortScore,
			StartedAt:     f.StartedAt,
			LastUpdate:    f.LastUpdate,
		})
	}
	return entries, nil
}
