package entities

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog persists one append-only audit record. Rows are never updated.
type ActivityLog struct {
	ID          uint           `gorm:"primaryKey"`
	PublicID    string         `gorm:"size:64;uniqueIndex"`
	Action      string         `gorm:"size:64;index"`
	AssistantID string         `gorm:"size:64;index"`
	Details     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"index"`
}
