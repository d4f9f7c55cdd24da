package models

import (
	"time"
)

// Milestone criteria types
const (
	CriteriaCount      = "count"
	CriteriaAmount     = "amount"
	CriteriaDays       = "days"
	CriteriaCompletion = "completion"
)

// Milestone tiers
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Milestone: static catalog row. Code is the stable upsert key derived from
// (name, category) so repeated seeding never duplicates rows.
type Milestone struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code          string    `gorm:"uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description"`
	Category      string    `gorm:"index;not null" json:"category"` // transaction, budget, savings, streak, goal, investment
	CriteriaType  string    `gorm:"not null" json:"criteria_type"`
	CriteriaValue int64     `gorm:"not null" json:"criteria_value"`
	PointsReward  int64     `gorm:"default:0" json:"points_reward"`
	Tier          string    `gorm:"type:varchar(16);default:'bronze'" json:"tier"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement tracks per-user progress toward a milestone.
// IsCompleted transitions false→true exactly once; the reward is granted on
// that transition only.
type UserAchievement struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string     `gorm:"index:idx_user_milestone,unique;not null" json:"external_user_id"`
	MilestoneID    string     `gorm:"index:idx_user_milestone,unique;not null" json:"milestone_id"`
	ProgressValue  int64      `gorm:"default:0" json:"progress_value"`
	IsCompleted    bool       `gorm:"default:false" json:"is_completed"`
	AchievedAt     *time.Time `json:"achieved_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Milestone *Milestone `gorm:"foreignKey:MilestoneID" json:"milestone,omitempty"`
}

// DefaultMilestones is the seed catalog (upserted at startup, keyed by Code)
var DefaultMilestones = []Milestone{
	// Transactions
	{Name: "First Transaction", Description: "Log your first transaction", Category: "transaction", CriteriaType: CriteriaCount, CriteriaValue: 1, PointsReward: 10, Tier: TierBronze},
	{Name: "Getting Started", Description: "Log 5 transactions", Category: "transaction", CriteriaType: CriteriaCount, CriteriaValue: 5, PointsReward: 25, Tier: TierBronze},
	{Name: "Transaction Pro", Description: "Log 25 transactions", Category: "transaction", CriteriaType: CriteriaCount, CriteriaValue: 25, PointsReward: 100, Tier: TierSilver},
	{Name: "Transaction Master", Description: "Log 100 transactions", Category: "transaction", CriteriaType: CriteriaCount, CriteriaValue: 100, PointsReward: 500, Tier: TierGold},

	// Budgets
	{Name: "Budget Creator", Description: "Create your first budget", Category: "budget", CriteriaType: CriteriaCount, CriteriaValue: 1, PointsReward: 50, Tier: TierBronze},
	{Name: "Budget Planner", Description: "Create 5 budgets", Category: "budget", CriteriaType: CriteriaCount, CriteriaValue: 5, PointsReward: 150, Tier: TierSilver},

	// Savings
	{Name: "Savings Started", Description: "Save $100", Category: "savings", CriteriaType: CriteriaAmount, CriteriaValue: 100, PointsReward: 100, Tier: TierBronze},
	{Name: "Savings Builder", Description: "Save $500", Category: "savings", CriteriaType: CriteriaAmount, CriteriaValue: 500, PointsReward: 250, Tier: TierSilver},
	{Name: "Savings Expert", Description: "Save $1000", Category: "savings", CriteriaType: CriteriaAmount, CriteriaValue: 1000, PointsReward: 500, Tier: TierGold},

	// Streaks
	{Name: "Week Warrior", Description: "Maintain a 7-day streak", Category: "streak", CriteriaType: CriteriaDays, CriteriaValue: 7, PointsReward: 75, Tier: TierBronze},
	{Name: "Month Master", Description: "Maintain a 30-day streak", Category: "streak", CriteriaType: CriteriaDays, CriteriaValue: 30, PointsReward: 200, Tier: TierGold},

	// Goals
	{Name: "Goal Setter", Description: "Create your first financial goal", Category: "goal", CriteriaType: CriteriaCount, CriteriaValue: 1, PointsReward: 75, Tier: TierBronze},
	{Name: "Goal Achiever", Description: "Complete a financial goal", Category: "goal", CriteriaType: CriteriaCompletion, CriteriaValue: 1, PointsReward: 250, Tier: TierGold},
}
