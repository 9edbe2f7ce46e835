package entities

import (
	"time"

	"gorm.io/datatypes"
)

// FunctionAssistantLink joins a function definition to an assistant. The
// composite unique index enforces at most one link per pair.
type FunctionAssistantLink struct {
	ID                    uint           `gorm:"primaryKey"`
	PublicID              string         `gorm:"size:64;uniqueIndex"`
	FunctionID            string         `gorm:"size:64;index;uniqueIndex:idx_function_assistant"`
	AssistantID           string         `gorm:"size:64;index;uniqueIndex:idx_function_assistant"`
	Enabled               bool           `gorm:"index"`
	ChannelEnabled        bool
	NotificationChannelID *string        `gorm:"size:64"`
	Settings              datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
