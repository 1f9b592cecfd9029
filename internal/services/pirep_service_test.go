package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"levant-va/tower/internal/auth"
	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/models/dtos"
	gormModels "levant-va/tower/internal/models/gorm"
)

func newPirepService(db *gorm.DB, queue common.NotifyQueue) *PirepService {
	cache := common.NewCacheService(60, 120)
	pilots := repositories.NewPilotRepository(db)
	notifier := NewNotifier(queue, nil, nil)
	ranks := NewRankService(repositories.NewRankRepository(db), pilots, notifier, nil)
	inApp := NewNotificationService(repositories.NewNotificationRepository(db))
	return NewPirepService(
		pilots,
		repositories.NewFlightRepository(db),
		repositories.NewBidRepository(db),
		repositories.NewActiveFlightRepository(db),
		repositories.NewFleetRepository(db),
		repositories.NewConfigRepository(db, cache),
		NewCreditEngine(),
		ranks,
		notifier,
		inApp,
		nil,
	)
}

func pirepRequest() *dtos.PirepSubmitRequest {
	return &dtos.PirepSubmitRequest{
		PilotID:           "LVT001",
		FlightNumber:      "LVT101",
		Callsign:          "LVT101",
		DepartureICAO:     "OJAI",
		ArrivalICAO:       "OMDB",
		AircraftType:      "A320",
		FlightTimeMinutes: 165,
		LandingRate:       -180,
		FuelUsed:          7900,
		DistanceNm:        1290,
		Score:             96,
	}
}

func TestPirepService_SubmitStoresPendingWithCredits(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	svc := newPirepService(db, &mockNotifyQueue{})

	flight, err := svc.Submit(context.Background(), pirepRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flight.ApprovedStatus != constants.ApprovalPending {
		t.Errorf("Expected Pending status, got %d", flight.ApprovedStatus)
	}
	if flight.CreditsEarned <= 0 {
		t.Errorf("Expected credits computed at submission, got %d", flight.CreditsEarned)
	}
	if len(flight.CreditsBreakdown) == 0 {
		t.Error("Expected an itemized breakdown")
	}

	// Credits are stored, not yet awarded.
	var pilot gormModels.Pilot
	db.Where("pilot_id = ?", "LVT001").First(&pilot)
	if pilot.Balance != 0 {
		t.Errorf("Expected no balance movement before approval, got %d", pilot.Balance)
	}
}

func TestPirepService_SubmitBlacklistedRejected(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusBlacklist)
	svc := newPirepService(db, &mockNotifyQueue{})

	_, err := svc.Submit(context.Background(), pirepRequest())
	if !errors.Is(err, ErrBlacklisted) {
		t.Fatalf("Expected ErrBlacklisted, got %v", err)
	}

	var count int64
	db.Model(&gormModels.Flight{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no flight written for a blacklisted pilot, found %d", count)
	}
}

func TestPirepService_SubmitDuplicateRejected(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	svc := newPirepService(db, &mockNotifyQueue{})
	ctx := context.Background()

	if _, err := svc.Submit(ctx, pirepRequest()); err != nil {
		t.Fatalf("First submission failed: %v", err)
	}
	_, err := svc.Submit(ctx, pirepRequest())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected duplicate rejection, got %v", err)
	}

	var count int64
	db.Model(&gormModels.Flight{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected one flight on record, found %d", count)
	}
}

func TestPirepService_SubmitAutoRejectsExtremeLanding(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	svc := newPirepService(db, &mockNotifyQueue{})

	req := pirepRequest()
	req.LandingRate = -900
	flight, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Auto-reject still files the record, got error %v", err)
	}
	if flight.ApprovedStatus != constants.ApprovalRejected {
		t.Errorf("Expected auto-rejected status, got %d", flight.ApprovedStatus)
	}
	if flight.CreditsEarned != 0 {
		t.Errorf("Expected zero credits on auto-reject, got %d", flight.CreditsEarned)
	}
}

func TestPirepService_SubmitConsumesSessionAndBid(t *testing.T) {
	db := setupTestDB(t)
	pilot := seedPilot(t, db, constants.PilotStatusActive)
	db.Create(&gormModels.ActiveFlight{
		ID: uuid.NewString(), PilotID: pilot.ID, Callsign: "LVT101", LastUpdate: time.Now(),
	})
	db.Create(&gormModels.Bid{
		ID:          uuid.NewString(),
		PilotID:     pilot.ID,
		Callsign:    "LVT101",
		PlannedFuel: 8000,
		Status:      constants.BidStatusInProgress,
		CreatedAt:   time.Now(),
	})
	svc := newPirepService(db, &mockNotifyQueue{})

	if _, err := svc.Submit(context.Background(), pirepRequest()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var sessions int64
	db.Model(&gormModels.ActiveFlight{}).Count(&sessions)
	if sessions != 0 {
		t.Errorf("Expected the session consumed, found %d", sessions)
	}

	var bid gormModels.Bid
	db.Where("pilot_id = ?", pilot.ID).First(&bid)
	if bid.Status != constants.BidStatusCompleted {
		t.Errorf("Expected the bid Completed, got %s", bid.Status)
	}
}

func TestPirepService_ApproveAwardsOnce(t *testing.T) {
	db := setupTestDB(t)
	pilot := seedPilot(t, db, constants.PilotStatusActive)
	svc := newPirepService(db, &mockNotifyQueue{})
	ctx := context.Background()

	flight, err := svc.Submit(ctx, pirepRequest())
	if err != nil {
		t.Fatalf("Submission failed: %v", err)
	}

	approved, err := svc.Approve(ctx, flight.ID, "staff-1", "")
	if err != nil {
		t.Fatalf("Approval failed: %v", err)
	}
	if approved.ApprovedStatus != constants.ApprovalAccepted {
		t.Errorf("Expected Accepted, got %d", approved.ApprovedStatus)
	}

	var after gormModels.Pilot
	db.Where("id = ?", pilot.ID).First(&after)
	if after.Balance != int64(flight.CreditsEarned) {
		t.Errorf("Expected balance %d, got %d", flight.CreditsEarned, after.Balance)
	}
	if after.TotalFlights != 1 {
		t.Errorf("Expected 1 total flight, got %d", after.TotalFlights)
	}
	if !after.HasFlownRoute("OJAI-OMDB") {
		t.Error("Expected the route recorded")
	}

	// Re-approval must not double award.
	if _, err := svc.Approve(ctx, flight.ID, "staff-1", ""); err != nil {
		t.Fatalf("Re-approval failed: %v", err)
	}
	db.Where("id = ?", pilot.ID).First(&after)
	if after.Balance != int64(flight.CreditsEarned) {
		t.Errorf("Re-approval doubled the award: %d", after.Balance)
	}
}

func TestPirepService_ApprovePromotesPilot(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	db.Create(&gormModels.Rank{
		ID: uuid.NewString(), Name: "Cadet", Order: 0, AutoPromote: true,
	})
	db.Create(&gormModels.Rank{
		ID: uuid.NewString(), Name: "First Officer", Order: 1,
		RequirementHours: 2, RequirementFlights: 1, AutoPromote: true,
	})
	queue := &mockNotifyQueue{}
	svc := newPirepService(db, queue)
	ctx := context.Background()

	flight, err := svc.Submit(ctx, pirepRequest())
	if err != nil {
		t.Fatalf("Submission failed: %v", err)
	}
	if _, err := svc.Approve(ctx, flight.ID, "staff-1", ""); err != nil {
		t.Fatalf("Approval failed: %v", err)
	}

	var pilot gormModels.Pilot
	db.Where("pilot_id = ?", "LVT001").First(&pilot)
	if pilot.Rank != "First Officer" {
		t.Errorf("Expected promotion to First Officer, got %s", pilot.Rank)
	}
	if got := queue.countByType(common.EventRankPromotion); got != 1 {
		t.Errorf("Expected one promotion notification, got %d", got)
	}
}

func TestPirepService_RejectThenDeleteNoCreditMovement(t *testing.T) {
	db := setupTestDB(t)
	pilot := seedPilot(t, db, constants.PilotStatusActive)
	svc := newPirepService(db, &mockNotifyQueue{})
	ctx := context.Background()

	flight, err := svc.Submit(ctx, pirepRequest())
	if err != nil {
		t.Fatalf("Submission failed: %v", err)
	}
	if _, err := svc.Reject(ctx, flight.ID, "staff-1", "unstable approach"); err != nil {
		t.Fatalf("Rejection failed: %v", err)
	}
	if err := svc.Delete(ctx, flight.ID); err != nil {
		t.Fatalf("Deletion failed: %v", err)
	}

	var after gormModels.Pilot
	db.Where("id = ?", pilot.ID).First(&after)
	if after.Balance != 0 || after.TotalFlights != 0 {
		t.Errorf("Rejected flight must not move stats: balance %d flights %d", after.Balance, after.TotalFlights)
	}
}

func TestPirepService_DeleteApprovedReverses(t *testing.T) {
	db := setupTestDB(t)
	pilot := seedPilot(t, db, constants.PilotStatusActive)
	svc := newPirepService(db, &mockNotifyQueue{})
	ctx := context.Background()

	flight, err := svc.Submit(ctx, pirepRequest())
	if err != nil {
		t.Fatalf("Submission failed: %v", err)
	}
	if _, err := svc.Approve(ctx, flight.ID, "staff-1", ""); err != nil {
		t.Fatalf("Approval failed: %v", err)
	}
	if err := svc.Delete(ctx, flight.ID); err != nil {
		t.Fatalf("Deletion failed: %v", err)
	}

	var after gormModels.Pilot
	db.Where("id = ?", pilot.ID).First(&after)
	if after.Balance != 0 {
		t.Errorf("Expected balance reversed to 0, got %d", after.Balance)
	}
	if after.TotalFlights != 0 {
		t.Errorf("Expected flight count reversed to 0, got %d", after.TotalFlights)
	}
}

func TestPirepService_SubmitRejectsStaleTimestampWithToken(t *testing.T) {
	db := setupTestDB(t)
	seedPilot(t, db, constants.PilotStatusActive)
	svc := newPirepService(db, &mockNotifyQueue{})

	old := time.Now().Add(-10 * time.Minute).UnixMilli()
	req := pirepRequest()
	req.Timestamp = &old

	ctx := auth.WithPilotToken(context.Background(), &auth.PilotToken{PilotCode: "LVT001"})
	_, err := svc.Submit(ctx, req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error for stale submission, got %v", err)
	}

	// Without token auth the same timestamp is accepted; legacy clients
	// cannot be trusted to keep their clocks right.
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("Expected anonymous stale submission to pass, got %v", err)
	}
}
