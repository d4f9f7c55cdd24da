package models

import (
	"time"

	"gorm.io/gorm"
)

// AppUser is a local snapshot of user data needed by the progression engine.
// Owned and managed solely by this service; populated via the sync worker
// from the profile service's user directory.
type AppUser struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string  `gorm:"uniqueIndex;not null" json:"external_user_id"` // the profile service's UUID
	Username       string  `gorm:"index;not null" json:"username"`
	Email          string  `json:"email,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Soft delete keeps leaderboard history consistent when a profile is
	// deactivated upstream.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
