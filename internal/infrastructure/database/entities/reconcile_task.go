package entities

import (
	"time"

	"gorm.io/datatypes"
)

// ReconcileTask persists one queued background bulk reconciliation.
type ReconcileTask struct {
	ID          uint           `gorm:"primaryKey"`
	PublicID    string         `gorm:"size:64;uniqueIndex"`
	Mode        string         `gorm:"size:16"`
	ExcludeIDs  datatypes.JSON `gorm:"type:jsonb"`
	Status      string         `gorm:"size:32;index"`
	Result      datatypes.JSON `gorm:"type:jsonb"`
	Error       string         `gorm:"type:text"`
	QueuedAt    time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
