package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Notification types
const (
	NotificationOverspending         = "overspending"
	NotificationBudgetWarning        = "budget_warning"
	NotificationGoalAchieved         = "goal_achieved"
	NotificationSubscriptionReminder = "subscription_reminder"
	NotificationUnusualSpending      = "unusual_spending"
)

// Severity levels
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// JSONMap stores structured notification metadata as a JSON column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}
	return json.Unmarshal(data, m)
}

// Notification: in-app notification record. Append-only except the
// IsRead/ReadAt mutation.
type Notification struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string     `gorm:"index;not null" json:"external_user_id"`
	Type           string     `gorm:"not null" json:"type"`
	Title          string     `gorm:"not null" json:"title"`
	Message        string     `gorm:"not null" json:"message"`
	Severity       string     `gorm:"type:varchar(16);default:'info'" json:"severity"`
	IsRead         bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	Metadata       JSONMap    `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

// NotificationSettings: per-user rule configuration, created with defaults on
// first access. Thresholds are percentages of budget consumed.
type NotificationSettings struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`

	EnableOverspending         bool `gorm:"default:true" json:"enable_overspending"`
	EnableBudgetWarning        bool `gorm:"default:true" json:"enable_budget_warning"`
	EnableGoalAchieved         bool `gorm:"default:true" json:"enable_goal_achieved"`
	EnableSubscriptionReminder bool `gorm:"default:true" json:"enable_subscription_reminder"`
	EnableUnusualSpending      bool `gorm:"default:true" json:"enable_unusual_spending"`

	OverspendingThreshold     float64 `gorm:"default:100" json:"overspending_threshold"`
	BudgetWarningThreshold    float64 `gorm:"default:90" json:"budget_warning_threshold"`
	UnusualSpendingMultiplier float64 `gorm:"default:2.0" json:"unusual_spending_multiplier"`
	MaxDailyNotifications     int     `gorm:"default:10" json:"max_daily_notifications"`

	// Delivery preferences (in-app only today; email/push are recorded for a
	// future delivery service)
	MethodInApp bool `gorm:"default:true" json:"method_in_app"`
	MethodEmail bool `gorm:"default:false" json:"method_email"`
	MethodPush  bool `gorm:"default:false" json:"method_push"`
	DailyDigest bool `gorm:"default:false" json:"daily_digest"`

	Timestamps
}

// Enabled reports whether the given notification type is switched on.
func (s *NotificationSettings) Enabled(notificationType string) bool {
	switch notificationType {
	case NotificationOverspending:
		return s.EnableOverspending
	case NotificationBudgetWarning:
		return s.EnableBudgetWarning
	case NotificationGoalAchieved:
		return s.EnableGoalAchieved
	case NotificationSubscriptionReminder:
		return s.EnableSubscriptionReminder
	case NotificationUnusualSpending:
		return s.EnableUnusualSpending
	}
	return false
}
