package entities

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationChannel persists a delivery target and its transport settings.
type NotificationChannel struct {
	ID        uint           `gorm:"primaryKey"`
	PublicID  string         `gorm:"size:64;uniqueIndex"`
	Name      string         `gorm:"size:255"`
	Type      string         `gorm:"size:32;index"`
	Settings  datatypes.JSON `gorm:"type:jsonb"`
	Status    string         `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
