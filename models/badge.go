package models

import (
	"time"
)

// Badge: static catalog (cosmetic awards, granted at most once per user)
type Badge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	Rarity      string    `gorm:"type:varchar(16);default:'common'" json:"rarity"` // common, uncommon, rare, legendary
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance. The unique (user, badge) pair makes awarding
// an already-held badge a no-op.
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index:idx_user_badge,unique;not null" json:"external_user_id"`
	BadgeID        string    `gorm:"index:idx_user_badge,unique;not null" json:"badge_id"`
	EarnedAt       time.Time `gorm:"autoCreateTime" json:"earned_at"`

	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

// BadgeTopTier is granted on reaching level 10.
const BadgeTopTier = "Financial Wizard"

// BadgeWelcome is granted when the progress row is first created.
const BadgeWelcome = "Welcome Niner"

// DefaultBadges is the seed catalog (upserted at startup, keyed by Name)
var DefaultBadges = []Badge{
	{Name: BadgeWelcome, Description: "Welcome to Niner Finance!", Icon: "fa-handshake", Color: "#00703C", Rarity: "common"},
	{Name: "Budget Master", Description: "Mastered budget planning", Icon: "fa-crown", Color: "#B3A369", Rarity: "rare"},
	{Name: "Savings Star", Description: "Excellent at saving money", Icon: "fa-star", Color: "#FFD700", Rarity: "rare"},
	{Name: "Transaction Pro", Description: "Expert at tracking transactions", Icon: "fa-receipt", Color: "#3498db", Rarity: "uncommon"},
	{Name: BadgeTopTier, Description: "Reached level 10", Icon: "fa-hat-wizard", Color: "#9b59b6", Rarity: "legendary"},

	// Platinum-tier milestone badges (awarded by name when a platinum
	// milestone completes: "<Category> Master")
	{Name: "Savings Master", Description: "Completed a platinum savings milestone", Icon: "fa-gem", Color: "#1abc9c", Rarity: "rare"},
	{Name: "Streak Master", Description: "Completed a platinum streak milestone", Icon: "fa-fire", Color: "#e74c3c", Rarity: "rare"},
}
