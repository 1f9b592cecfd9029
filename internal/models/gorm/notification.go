package gorm

import "time"

// Notification is a persisted in-app alert shown on the pilot dashboard.
type Notification struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	PilotID   string    `gorm:"column:pilot_id;type:uuid;index"`
	Category  string    `gorm:"column:category;index"`
	Title     string    `gorm:"column:title"`
	Message   string    `gorm:"column:message"`
	Read      bool      `gorm:"column:read;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
