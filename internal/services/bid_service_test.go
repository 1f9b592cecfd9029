package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/models/dtos"
	gormModels "levant-va/tower/internal/models/gorm"
)

func newBidService(db *gorm.DB) *BidService {
	cache := common.NewCacheService(60, 120)
	return NewBidService(
		repositories.NewPilotRepository(db),
		repositories.NewBidRepository(db),
		repositories.NewFleetRepository(db),
		repositories.NewAirportRepository(db, cache),
		repositories.NewActiveFlightRepository(db),
		repositories.NewConfigRepository(db, cache),
		nil,
	)
}

func bookRequest(callsign string) *dtos.BidRequest {
	return &dtos.BidRequest{
		Action:        "book",
		PilotID:       "LVT001",
		Callsign:      callsign,
		DepartureICAO: "ojai",
		ArrivalICAO:   "omdb",
		AircraftType:  "A320",
		PlannedFuel:   8200,
	}
}

func TestBidService_SingleActiveBidInvariant(t *testing.T) {
	db := setupTestDB(t)
	pilot := seedPilot(t, db, constants.PilotStatusActive)
	svc := newBidService(db)
	ctx := context.Background()

	first, err := svc.Book(ctx, bookRequest("LVT101"))
	if err != nil {
		t.Fatalf("First booking failed: %v", err)
	}
	second, err := svc.Book(ctx, bookRequest("LVT102"))
	if err != nil {
		t.Fatalf("Second booking failed: %v", err)
	}

	var active []gormModels.Bid
	db.Where("pilot_id = ? AND status = ?", pilot.ID, constants.BidStatusActive).Find(&active)
	if len(active) != 1 {
		t.Fatalf("Expected exactly one active bid, got %d", len(active))
	}
	if active[0].ID != second.ID {
		t.Errorf("Expected the newer bid to stay active")
	}

	var old gormModels.Bid
	db.Where("id = ?", first.ID).First(&old)
	if old.Status != constants.BidStatusCancelled {
		t.Errorf("Expected the superseded bid Cancelled, got %s", old.Status)
	}
}

func TestBidService_BookNormalizesICAO(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	svc := newBidService(db)

	bid, err := svc.Book(context.Background(), bookRequest("lvt101"))
	if err != nil {
		t.Fatalf("Booking failed: %v", err)
	}
	if bid.DepartureICAO != "OJAI" || bid.ArrivalICAO != "OMDB" || bid.Callsign != "LVT101" {
		t.Errorf("Expected uppercased identifiers, got %+v", bid)
	}
}

func TestBidService_BookRejectsAircraftUnderRepair(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	until := time.Now().Add(12 * time.Hour)
	db.Create(&gormModels.Aircraft{
		ID:           uuid.NewString(),
		Registration: "JY-LVA",
		AircraftType: "A320",
		Status:       constants.AircraftStatusMaintenance,
		RepairUntil:  &until,
	})
	svc := newBidService(db)

	req := bookRequest("LVT101")
	req.AircraftRegistration = "JY-LVA"
	_, err := svc.Book(context.Background(), req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected a validation error, got %v", err)
	}
	if _, ok := verr.Extra["remaining_hours"]; !ok {
		t.Errorf("Expected remaining_hours in the rejection context, got %v", verr.Extra)
	}
}

func TestBidService_RejectedBookingStillCancelsPriorBid(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	until := time.Now().Add(12 * time.Hour)
	db.Create(&gormModels.Aircraft{
		ID:           uuid.NewString(),
		Registration: "JY-LVC",
		AircraftType: "A320",
		Status:       constants.AircraftStatusMaintenance,
		RepairUntil:  &until,
	})
	svc := newBidService(db)
	ctx := context.Background()

	first, err := svc.Book(ctx, bookRequest("LVT101"))
	if err != nil {
		t.Fatalf("First booking failed: %v", err)
	}

	req := bookRequest("LVT102")
	req.AircraftRegistration = "JY-LVC"
	if _, err := svc.Book(ctx, req); err == nil {
		t.Fatal("Expected the under-repair booking to be rejected")
	}

	// A booking attempt abandons the old plan even when the new aircraft
	// is refused.
	var old gormModels.Bid
	db.Where("id = ?", first.ID).First(&old)
	if old.Status != constants.BidStatusCancelled {
		t.Errorf("Expected the prior bid Cancelled after a rejected booking, got %s", old.Status)
	}
}

func TestBidService_BookClearsLapsedRepair(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	until := time.Now().Add(-time.Hour)
	db.Create(&gormModels.Aircraft{
		ID:           uuid.NewString(),
		Registration: "JY-LVB",
		AircraftType: "A320",
		Status:       constants.AircraftStatusMaintenance,
		RepairUntil:  &until,
	})
	svc := newBidService(db)

	req := bookRequest("LVT101")
	req.AircraftRegistration = "JY-LVB"
	if _, err := svc.Book(context.Background(), req); err != nil {
		t.Fatalf("Expected lapsed repair to clear and booking to pass, got %v", err)
	}

	var aircraft gormModels.Aircraft
	db.Where("registration = ?", "JY-LVB").First(&aircraft)
	if aircraft.RepairUntil != nil || aircraft.Status != constants.AircraftStatusAvailable {
		t.Errorf("Expected repair cleared to Available, got %+v", aircraft)
	}
}

func TestBidService_BookRejectsGroundedAircraft(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	db.Create(&gormModels.Aircraft{
		ID:             uuid.NewString(),
		Registration:   "JY-LVC",
		Status:         constants.AircraftStatusGrounded,
		GroundedReason: "corrosion inspection",
	})
	svc := newBidService(db)

	req := bookRequest("LVT101")
	req.AircraftRegistration = "JY-LVC"
	_, err := svc.Book(context.Background(), req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected a validation error, got %v", err)
	}
}

func TestBidService_LocationBasedFleetPolicy(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	db.Create(&gormModels.Aircraft{
		ID:              uuid.NewString(),
		Registration:    "JY-LVD",
		Status:          constants.AircraftStatusAvailable,
		CurrentLocation: "ORBI",
	})
	db.Create(&gormModels.GlobalConfig{
		ID:                 uuid.NewString(),
		Key:                "LVT_MAIN",
		LocationBasedFleet: true,
	})
	svc := newBidService(db)

	req := bookRequest("LVT101") // departure OJAI, aircraft at ORBI
	req.AircraftRegistration = "JY-LVD"
	if _, err := svc.Book(context.Background(), req); err == nil {
		t.Fatal("Expected rejection when aircraft is away from departure")
	}

	req.DepartureICAO = "orbi"
	req.ArrivalICAO = "OJAI"
	if _, err := svc.Book(context.Background(), req); err != nil {
		t.Fatalf("Expected case-insensitive location match to pass, got %v", err)
	}
}

func TestBidService_GetReturnsNullBidState(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	svc := newBidService(db)

	result, err := svc.Get(context.Background(), "LVT001")
	if err != nil {
		t.Fatalf("Expected no error for the no-plan state, got %v", err)
	}
	if result.Bid != nil {
		t.Errorf("Expected nil bid, got %+v", result.Bid)
	}
}

func TestBidService_GetEnrichesAirports(t *testing.T) {
	db := setupTestDB(t)
	pilot := seedPilot(t, db, constants.PilotStatusActive)
	db.Create(&gormModels.Airport{
		ID: uuid.NewString(), ICAO: "OJAI", Name: "Queen Alia Intl", Latitude: 31.7226, Longitude: 35.9932,
	})
	db.Create(&gormModels.Bid{
		ID:            uuid.NewString(),
		PilotID:       pilot.ID,
		Callsign:      "LVT101",
		DepartureICAO: "OJAI",
		ArrivalICAO:   "OMDB",
		Status:        constants.BidStatusActive,
		CreatedAt:     time.Now(),
	})
	svc := newBidService(db)

	result, err := svc.Get(context.Background(), "LVT001")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Bid == nil {
		t.Fatal("Expected a bid")
	}
	if result.Bid.DepartureName != "Queen Alia Intl" || result.Bid.DepLat == 0 {
		t.Errorf("Expected departure enrichment, got %+v", result.Bid)
	}
	// Unknown arrival degrades to empty enrichment, not an error.
	if result.Bid.ArrivalName != "" {
		t.Errorf("Expected no arrival name for unknown ICAO, got %q", result.Bid.ArrivalName)
	}
}

func TestBidService_CancelIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	svc := newBidService(db)

	cancelled, err := svc.Cancel(context.Background(), "LVT001")
	if err != nil {
		t.Fatalf("Cancel with no bids must not error, got %v", err)
	}
	if cancelled != 0 {
		t.Errorf("Expected cancelled count 0, got %d", cancelled)
	}
}

func TestBidService_CancelReleasesAircraft(t *testing.T) {
	db := setupTestDB(t)
	pilot := seedPilot(t, db, constants.PilotStatusActive)
	db.Create(&gormModels.Aircraft{
		ID:           uuid.NewString(),
		Registration: "JY-LVE",
		Status:       constants.AircraftStatusInFlight,
	})
	db.Create(&gormModels.Bid{
		ID:                   uuid.NewString(),
		PilotID:              pilot.ID,
		Callsign:             "LVT101",
		AircraftRegistration: "JY-LVE",
		Status:               constants.BidStatusInProgress,
		CreatedAt:            time.Now(),
	})
	svc := newBidService(db)

	cancelled, err := svc.Cancel(context.Background(), "LVT001")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cancelled != 1 {
		t.Errorf("Expected 1 cancelled, got %d", cancelled)
	}

	var aircraft gormModels.Aircraft
	db.Where("registration = ?", "JY-LVE").First(&aircraft)
	if aircraft.Status != constants.AircraftStatusAvailable {
		t.Errorf("Expected aircraft released to Available, got %s", aircraft.Status)
	}
}
