package entities

import "time"

// Assistant is the local record of a remote assistant resource.
type Assistant struct {
	ID        uint   `gorm:"primaryKey"`
	PublicID  string `gorm:"size:64;uniqueIndex"`
	Name      string `gorm:"size:255"`
	RemoteRef string `gorm:"size:128;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
