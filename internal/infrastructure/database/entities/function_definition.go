package entities

import (
	"time"

	"gorm.io/datatypes"
)

// FunctionDefinition persists a callable capability owned by the platform.
type FunctionDefinition struct {
	ID               uint           `gorm:"primaryKey"`
	PublicID         string         `gorm:"size:64;uniqueIndex"`
	Name             string         `gorm:"size:255"`
	Description      string         `gorm:"type:text"`
	Parameters       datatypes.JSON `gorm:"type:jsonb"`
	DefaultChannelID *string        `gorm:"size:64"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
