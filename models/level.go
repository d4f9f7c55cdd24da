package models

import (
	"time"
)

// Level: static catalog row. current_level on UserProgress is always derived
// from ExperiencePoints against this table, never set directly.
type Level struct {
	ID                 string    `gorm:"primaryKey;type:uuid" json:"id"`
	LevelNumber        int       `gorm:"uniqueIndex;not null" json:"level_number"`
	Name               string    `gorm:"not null" json:"name"`
	ExperienceRequired int64     `gorm:"not null" json:"experience_required"`
	PointsMultiplier   float64   `gorm:"default:1.0" json:"points_multiplier"`
	Icon               string    `json:"icon,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DefaultLevels is the seed catalog (upserted at startup, keyed by level_number)
var DefaultLevels = []Level{
	{LevelNumber: 1, Name: "Beginner", ExperienceRequired: 0, PointsMultiplier: 1.0, Icon: "fa-seedling"},
	{LevelNumber: 2, Name: "Novice", ExperienceRequired: 100, PointsMultiplier: 1.1, Icon: "fa-leaf"},
	{LevelNumber: 3, Name: "Learner", ExperienceRequired: 250, PointsMultiplier: 1.2, Icon: "fa-book"},
	{LevelNumber: 4, Name: "Saver", ExperienceRequired: 500, PointsMultiplier: 1.3, Icon: "fa-piggy-bank"},
	{LevelNumber: 5, Name: "Budgeter", ExperienceRequired: 1000, PointsMultiplier: 1.4, Icon: "fa-calculator"},
	{LevelNumber: 6, Name: "Investor", ExperienceRequired: 2000, PointsMultiplier: 1.5, Icon: "fa-chart-line"},
	{LevelNumber: 7, Name: "Planner", ExperienceRequired: 4000, PointsMultiplier: 1.6, Icon: "fa-tasks"},
	{LevelNumber: 8, Name: "Expert", ExperienceRequired: 7500, PointsMultiplier: 1.7, Icon: "fa-user-graduate"},
	{LevelNumber: 9, Name: "Master", ExperienceRequired: 12000, PointsMultiplier: 1.8, Icon: "fa-crown"},
	{LevelNumber: 10, Name: "Financial Wizard", ExperienceRequired: 20000, PointsMultiplier: 2.0, Icon: "fa-hat-wizard"},
}
