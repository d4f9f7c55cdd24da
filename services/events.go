package services

// Typed events returned from mutating calls. The engine never pushes UI
// messages itself; callers render these however they like.

// LevelUpEvent is emitted once when experience crosses a level threshold.
type LevelUpEvent struct {
	ExternalUserID string `json:"external_user_id"`
	NewLevel       int    `json:"new_level"`
	LevelName      string `json:"level_name"`
}

// BadgeEarnedEvent is emitted when a badge is granted for the first time.
type BadgeEarnedEvent struct {
	ExternalUserID string `json:"external_user_id"`
	BadgeID        string `json:"badge_id"`
	Name           string `json:"name"`
	Rarity         string `json:"rarity"`
}

// MilestoneCompletedEvent is emitted when an achievement completes.
type MilestoneCompletedEvent struct {
	ExternalUserID string `json:"external_user_id"`
	MilestoneID    string `json:"milestone_id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Tier           string `json:"tier"`
	PointsAwarded  int64  `json:"points_awarded"`

	LevelUp *LevelUpEvent     `json:"level_up,omitempty"`
	Badge   *BadgeEarnedEvent `json:"badge,omitempty"`
}

// AwardResult is returned by AwardPoints.
type AwardResult struct {
	PointsGranted int64             `json:"points_granted"`
	LevelUp       *LevelUpEvent     `json:"level_up,omitempty"`
	Badge         *BadgeEarnedEvent `json:"badge,omitempty"`
}

// StreakResult is returned by UpdateStreak.
type StreakResult struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	Extended      bool `json:"extended"`

	PointsGranted int64                    `json:"points_granted"`
	LevelUp       *LevelUpEvent            `json:"level_up,omitempty"`
	Milestone     *MilestoneCompletedEvent `json:"milestone,omitempty"`
}

// ActivityResult aggregates everything a single engagement hook produced.
type ActivityResult struct {
	PointsGranted   int64                    `json:"points_granted"`
	LevelUp         *LevelUpEvent            `json:"level_up,omitempty"`
	Badge           *BadgeEarnedEvent        `json:"badge,omitempty"`
	Milestone       *MilestoneCompletedEvent `json:"milestone,omitempty"`
	Streak          *StreakResult            `json:"streak,omitempty"`
	NotificationIDs []string                 `json:"notification_ids,omitempty"`
}
