package models

import (
	"time"
)

// UserStreak: consecutive-day activity streak (one row per user).
// LongestStreak is a running maximum and never decreases.
type UserStreak struct {
	ID               string     `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID   string     `gorm:"uniqueIndex;not null" json:"external_user_id"`
	CurrentStreak    int        `gorm:"default:0" json:"current_streak"`
	LongestStreak    int        `gorm:"default:0" json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`

	Timestamps
}
