package services

import (
	"fmt"
	"log"
	"time"

	"finance-progression-system/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationService struct {
	DB       *gorm.DB
	Finance  *FinanceService
	validate *validator.Validate
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		DB:       db,
		Finance:  NewFinanceService(db),
		validate: validator.New(),
	}
}

// GetSettings returns the user's notification settings, creating the default
// row on first access.
func (s *NotificationService) GetSettings(externalUserID string) (*models.NotificationSettings, error) {
	return ensureSettings(s.DB, externalUserID)
}

func ensureSettings(db *gorm.DB, externalUserID string) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := db.Where("external_user_id = ?", externalUserID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = models.NotificationSettings{
			ID:                         uuid.NewString(),
			ExternalUserID:             externalUserID,
			EnableOverspending:         true,
			EnableBudgetWarning:        true,
			EnableGoalAchieved:         true,
			EnableSubscriptionReminder: true,
			EnableUnusualSpending:      true,
			OverspendingThreshold:      100,
			BudgetWarningThreshold:     90,
			UnusualSpendingMultiplier:  2.0,
			MaxDailyNotifications:      10,
			MethodInApp:                true,
		}
		// Two concurrent first accesses both miss the read above; the
		// conflict clause lets the loser fall through to a re-read
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoNothing: true,
		}).Create(&settings)
		if res.Error != nil {
			return nil, storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			if err := db.Where("external_user_id = ?", externalUserID).First(&settings).Error; err != nil {
				return nil, storeErr(err)
			}
		}
		return &settings, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &settings, nil
}

// SettingsPatch carries a partial settings update. Out-of-range values are
// rejected, never clamped.
type SettingsPatch struct {
	EnableOverspending         *bool `json:"enable_overspending"`
	EnableBudgetWarning        *bool `json:"enable_budget_warning"`
	EnableGoalAchieved         *bool `json:"enable_goal_achieved"`
	EnableSubscriptionReminder *bool `json:"enable_subscription_reminder"`
	EnableUnusualSpending      *bool `json:"enable_unusual_spending"`

	OverspendingThreshold     *float64 `json:"overspending_threshold" validate:"omitempty,gte=0,lte=100"`
	BudgetWarningThreshold    *float64 `json:"budget_warning_threshold" validate:"omitempty,gte=0,lte=100"`
	UnusualSpendingMultiplier *float64 `json:"unusual_spending_multiplier" validate:"omitempty,gte=1"`
	MaxDailyNotifications     *int     `json:"max_daily_notifications" validate:"omitempty,gte=1,lte=50"`

	MethodInApp *bool `json:"method_in_app"`
	MethodEmail *bool `json:"method_email"`
	MethodPush  *bool `json:"method_push"`
	DailyDigest *bool `json:"daily_digest"`
}

// UpdateSettings applies the non-nil fields of the patch.
func (s *NotificationService) UpdateSettings(externalUserID string, patch SettingsPatch) (*models.NotificationSettings, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	settings, err := s.GetSettings(externalUserID)
	if err != nil {
		return nil, err
	}

	if patch.EnableOverspending != nil {
		settings.EnableOverspending = *patch.EnableOverspending
	}
	if patch.EnableBudgetWarning != nil {
		settings.EnableBudgetWarning = *patch.EnableBudgetWarning
	}
	if patch.EnableGoalAchieved != nil {
		settings.EnableGoalAchieved = *patch.EnableGoalAchieved
	}
	if patch.EnableSubscriptionReminder != nil {
		settings.EnableSubscriptionReminder = *patch.EnableSubscriptionReminder
	}
	if patch.EnableUnusualSpending != nil {
		settings.EnableUnusualSpending = *patch.EnableUnusualSpending
	}
	if patch.OverspendingThreshold != nil {
		settings.OverspendingThreshold = *patch.OverspendingThreshold
	}
	if patch.BudgetWarningThreshold != nil {
		settings.BudgetWarningThreshold = *patch.BudgetWarningThreshold
	}
	if patch.UnusualSpendingMultiplier != nil {
		settings.UnusualSpendingMultiplier = *patch.UnusualSpendingMultiplier
	}
	if patch.MaxDailyNotifications != nil {
		settings.MaxDailyNotifications = *patch.MaxDailyNotifications
	}
	if patch.MethodInApp != nil {
		settings.MethodInApp = *patch.MethodInApp
	}
	if patch.MethodEmail != nil {
		settings.MethodEmail = *patch.MethodEmail
	}
	if patch.MethodPush != nil {
		settings.MethodPush = *patch.MethodPush
	}
	if patch.DailyDigest != nil {
		settings.DailyDigest = *patch.DailyDigest
	}

	if err := s.DB.Save(settings).Error; err != nil {
		return nil, storeErr(err)
	}
	return settings, nil
}

// CreateNotification inserts a notification record, unless the per-type flag
// is off or the daily cap is reached — both suppress silently (empty id, no
// error). The cap count and the insert share one transaction; enforcement
// under concurrent triggers is best-effort.
func (s *NotificationService) CreateNotification(externalUserID, notificationType, title, message, severity string, metadata models.JSONMap) (string, error) {
	var id string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		settings, err := ensureSettings(tx, externalUserID)
		if err != nil {
			return err
		}
		if !settings.Enabled(notificationType) {
			return nil
		}

		midnight := dateOnly(time.Now())
		var todayCount int64
		if err := tx.Model(&models.Notification{}).
			Where("external_user_id = ? AND created_at >= ?", externalUserID, midnight).
			Count(&todayCount).Error; err != nil {
			return storeErr(err)
		}
		if todayCount >= int64(settings.MaxDailyNotifications) {
			return nil
		}

		notification := models.Notification{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Type:           notificationType,
			Title:          title,
			Message:        message,
			Severity:       severity,
			Metadata:       metadata,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return storeErr(err)
		}
		id = notification.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	if id != "" {
		log.Printf("🔔 Notification created: %s → %s (%s)", externalUserID, notificationType, severity)
	}
	return id, nil
}

// CheckOverspending compares this week's spending (overall and per category)
// against the user's overspending threshold and creates critical
// notifications for every breach.
func (s *NotificationService) CheckOverspending(externalUserID string) ([]string, error) {
	settings, err := s.GetSettings(externalUserID)
	if err != nil {
		return nil, err
	}
	if !settings.EnableOverspending {
		return nil, nil
	}

	weekStart, weekEnd := currentWeek(time.Now())
	budget, err := s.Finance.CurrentBudget(externalUserID, weekStart)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, nil
	}

	var created []string
	threshold := settings.OverspendingThreshold

	totalSpent, err := s.Finance.SumExpenses(externalUserID, "", weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	if budget.TotalAmount > 0 {
		pct := totalSpent / budget.TotalAmount * 100
		if pct >= threshold {
			id, err := s.CreateNotification(externalUserID,
				models.NotificationOverspending,
				"🚨 Budget Exceeded!",
				fmt.Sprintf("You have spent $%.2f of your $%.2f weekly budget (%.0f%%).", totalSpent, budget.TotalAmount, pct),
				models.SeverityCritical,
				models.JSONMap{"budget": budget.TotalAmount, "spent": totalSpent, "percentage": pct, "category": "overall"})
			if err != nil {
				return nil, err
			}
			if id != "" {
				created = append(created, id)
			}
		}
	}

	for _, category := range models.BudgetCategories {
		categoryBudget := budget.CategoryAmount(category)
		if categoryBudget <= 0 {
			continue
		}
		spent, err := s.Finance.SumExpenses(externalUserID, category, weekStart, weekEnd)
		if err != nil {
			return nil, err
		}
		pct := spent / categoryBudget * 100
		if pct < threshold {
			continue
		}
		id, err := s.CreateNotification(externalUserID,
			models.NotificationOverspending,
			fmt.Sprintf("🚨 %s Budget Exceeded!", category),
			fmt.Sprintf("You have spent $%.2f of your $%.2f %s budget (%.0f%%).", spent, categoryBudget, category, pct),
			models.SeverityCritical,
			models.JSONMap{"budget": categoryBudget, "spent": spent, "percentage": pct, "category": category})
		if err != nil {
			return nil, err
		}
		if id != "" {
			created = append(created, id)
		}
	}
	return created, nil
}

// CheckBudgetWarning warns when spending sits in the band
// [warning threshold, overspending threshold).
func (s *NotificationService) CheckBudgetWarning(externalUserID string) ([]string, error) {
	settings, err := s.GetSettings(externalUserID)
	if err != nil {
		return nil, err
	}
	if !settings.EnableBudgetWarning {
		return nil, nil
	}

	weekStart, weekEnd := currentWeek(time.Now())
	budget, err := s.Finance.CurrentBudget(externalUserID, weekStart)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, nil
	}

	var created []string
	warnAt := settings.BudgetWarningThreshold
	overAt := settings.OverspendingThreshold

	totalSpent, err := s.Finance.SumExpenses(externalUserID, "", weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	if budget.TotalAmount > 0 {
		pct := totalSpent / budget.TotalAmount * 100
		if pct >= warnAt && pct < overAt {
			remaining := budget.TotalAmount - totalSpent
			id, err := s.CreateNotification(externalUserID,
				models.NotificationBudgetWarning,
				"⚠️ Budget Warning",
				fmt.Sprintf("You have used %.0f%% of your weekly budget. $%.2f remaining.", pct, remaining),
				models.SeverityWarning,
				models.JSONMap{"budget": budget.TotalAmount, "spent": totalSpent, "percentage": pct, "remaining": remaining, "category": "overall"})
			if err != nil {
				return nil, err
			}
			if id != "" {
				created = append(created, id)
			}
		}
	}

	for _, category := range models.BudgetCategories {
		categoryBudget := budget.CategoryAmount(category)
		if categoryBudget <= 0 {
			continue
		}
		spent, err := s.Finance.SumExpenses(externalUserID, category, weekStart, weekEnd)
		if err != nil {
			return nil, err
		}
		pct := spent / categoryBudget * 100
		if pct < warnAt || pct >= overAt {
			continue
		}
		remaining := categoryBudget - spent
		id, err := s.CreateNotification(externalUserID,
			models.NotificationBudgetWarning,
			fmt.Sprintf("⚠️ %s Budget Warning", category),
			fmt.Sprintf("You have used %.0f%% of your %s budget. $%.2f remaining.", pct, category, remaining),
			models.SeverityWarning,
			models.JSONMap{"budget": categoryBudget, "spent": spent, "percentage": pct, "remaining": remaining, "category": category})
		if err != nil {
			return nil, err
		}
		if id != "" {
			created = append(created, id)
		}
	}
	return created, nil
}

// CheckUnusualSpending flags a single transaction that exceeds a multiple of
// the trailing 30-day category average. Fewer than 3 prior transactions in
// the window is an insufficient sample and a silent no-op.
func (s *NotificationService) CheckUnusualSpending(externalUserID, category string, amount float64) ([]string, error) {
	settings, err := s.GetSettings(externalUserID)
	if err != nil {
		return nil, err
	}
	if !settings.EnableUnusualSpending {
		return nil, nil
	}

	avg, sample, err := s.Finance.AverageExpense(externalUserID, category, 30)
	if err != nil {
		return nil, err
	}
	if sample < 3 || avg <= 0 {
		return nil, nil
	}
	if amount < avg*settings.UnusualSpendingMultiplier {
		return nil, nil
	}

	ratio := amount / avg
	id, err := s.CreateNotification(externalUserID,
		models.NotificationUnusualSpending,
		"💰 Unusual Spending Detected",
		fmt.Sprintf("Your $%.2f %s expense is %.1fx higher than your average ($%.2f).", amount, category, ratio, avg),
		models.SeverityInfo,
		models.JSONMap{"amount": amount, "average": avg, "multiplier": ratio, "category": category})
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return []string{id}, nil
}

// GetNotifications lists a user's notifications, newest first.
func (s *NotificationService) GetNotifications(externalUserID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := s.DB.Where("external_user_id = ?", externalUserID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	if err := q.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, storeErr(err)
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(externalUserID string) (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Notification{}).
		Where("external_user_id = ? AND is_read = ?", externalUserID, false).
		Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(id, externalUserID string) error {
	now := time.Now()
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND external_user_id = ?", id, externalUserID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification as read.
func (s *NotificationService) MarkAllRead(externalUserID string) error {
	now := time.Now()
	if err := s.DB.Model(&models.Notification{}).
		Where("external_user_id = ? AND is_read = ?", externalUserID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// DeleteNotification removes one notification owned by the user.
func (s *NotificationService) DeleteNotification(id, externalUserID string) error {
	res := s.DB.Where("id = ? AND external_user_id = ?", id, externalUserID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAll removes every notification for the user.
func (s *NotificationService) ClearAll(externalUserID string) error {
	if err := s.DB.Where("external_user_id = ?", externalUserID).
		Delete(&models.Notification{}).Error; err != nil {
		return storeErr(err)
	}
	return nil
}
