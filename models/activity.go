package models

import (
	"time"
)

// GameActivity: append-only audit log of every points award (including
// zero-point awards from non-positive inputs)
type GameActivity struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	ActivityType   string    `gorm:"not null" json:"activity_type"`
	PointsEarned   int64     `gorm:"default:0" json:"points_earned"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
