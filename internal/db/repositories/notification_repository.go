package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "levant-va/tower/internal/models/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *gormModels.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListUnread returns a pilot's unread alerts, newest first.
func (r *NotificationRepository) ListUnread(ctx context.Context, pilotID string, limit int) ([]gormModels.Notification, error) {
	var notifications []gormModels.Notification
	err := r.db.WithContext(ctx).
		Where("pilot_id = ? AND read = ?", pilotID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}
