package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/logging"
	gormModels "levant-va/tower/internal/models/gorm"
)

// NotificationService writes the in-app alerts shown on the pilot dashboard.
// Best-effort like the webhook path; a failed write is logged and dropped.
type NotificationService struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationService(notifications *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) notify(ctx context.Context, pilotUUID, category, title, message string) {
	n := &gormModels.Notification{
		ID:       uuid.NewString(),
		PilotID:  pilotUUID,
		Category: category,
		Title:    title,
		Message:  message,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		logging.Warn("Failed to persist notification", "pilot", pilotUUID, "category", category, "error", err.Error())
	}
}

func (s *NotificationService) PirepApproved(ctx context.Context, pilotUUID, flightNumber string, credits int) {
	s.notify(ctx, pilotUUID, "pirep_approved", "PIREP Approved",
		fmt.Sprintf("Flight %s was approved. %d credits added to your balance.", flightNumber, credits))
}

func (s *NotificationService) PirepRejected(ctx context.Context, pilotUUID, flightNumber, reason string) {
	msg := fmt.Sprintf("Flight %s was rejected.", flightNumber)
	if reason != "" {
		msg += " Reason: " + reason
	}
	s.notify(ctx, pilotUUID, "pirep_rejected", "PIREP Rejected", msg)
}

func (s *NotificationService) RankPromotion(ctx context.Context, pilotUUID, rankName string) {
	s.notify(ctx, pilotUUID, "rank_promotion", "Promotion",
		fmt.Sprintf("Congratulations, you have been promoted to %s.", rankName))
}
