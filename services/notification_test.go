package services

import (
	"sync"
	"testing"
	"time"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestGetSettingsCreatesDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	settings, err := svc.GetSettings(userID)
	require.NoError(t, err)
	assert.True(t, settings.EnableOverspending)
	assert.Equal(t, float64(100), settings.OverspendingThreshold)
	assert.Equal(t, float64(90), settings.BudgetWarningThreshold)
	assert.Equal(t, 2.0, settings.UnusualSpendingMultiplier)
	assert.Equal(t, 10, settings.MaxDailyNotifications)
	assert.True(t, settings.MethodInApp)
	assert.False(t, settings.DailyDigest)
}

func TestUpdateSettingsRejectsOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	cases := []SettingsPatch{
		{OverspendingThreshold: floatPtr(150)},
		{BudgetWarningThreshold: floatPtr(-5)},
		{UnusualSpendingMultiplier: floatPtr(0.5)},
		{MaxDailyNotifications: intPtr(0)},
		{MaxDailyNotifications: intPtr(51)},
	}
	for _, patch := range cases {
		_, err := svc.UpdateSettings(userID, patch)
		assert.ErrorIs(t, err, ErrInvalidSettings)
	}

	// Rejected updates leave the stored settings untouched
	settings, err := svc.GetSettings(userID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), settings.OverspendingThreshold)
}

func TestUpdateSettingsAppliesPartialPatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	settings, err := svc.UpdateSettings(userID, SettingsPatch{
		EnableUnusualSpending:  boolPtr(false),
		BudgetWarningThreshold: floatPtr(80),
		DailyDigest:            boolPtr(true),
	})
	require.NoError(t, err)
	assert.False(t, settings.EnableUnusualSpending)
	assert.Equal(t, float64(80), settings.BudgetWarningThreshold)
	assert.True(t, settings.DailyDigest)
	// Untouched fields keep their values
	assert.True(t, settings.EnableOverspending)
	assert.Equal(t, float64(100), settings.OverspendingThreshold)
}

func TestCreateNotificationRespectsTypeFlag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	_, err := svc.UpdateSettings(userID, SettingsPatch{EnableGoalAchieved: boolPtr(false)})
	require.NoError(t, err)

	id, err := svc.CreateNotification(userID, models.NotificationGoalAchieved,
		"🎯 Goal Achieved!", "should be suppressed", models.SeverityInfo, nil)
	require.NoError(t, err)
	assert.Empty(t, id)

	count, err := svc.UnreadCount(userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateNotificationEnforcesDailyCap(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	_, err := svc.UpdateSettings(userID, SettingsPatch{MaxDailyNotifications: intPtr(2)})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		id, err := svc.CreateNotification(userID, models.NotificationGoalAchieved,
			"🎯 Goal Achieved!", "within cap", models.SeverityInfo, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}

	id, err := svc.CreateNotification(userID, models.NotificationGoalAchieved,
		"🎯 Goal Achieved!", "over cap", models.SeverityInfo, nil)
	require.NoError(t, err)
	assert.Empty(t, id)

	count, err := svc.UnreadCount(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBudgetWarningFiresInsideBand(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	seedWeeklyBudget(t, db, userID, 100, 0)
	seedExpense(t, db, userID, "Other", 95, time.Now())

	warnings, err := svc.CheckBudgetWarning(userID)
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	// 95% sits below the overspending threshold, so no critical notification
	over, err := svc.CheckOverspending(userID)
	require.NoError(t, err)
	assert.Empty(t, over)

	notifications, err := svc.GetNotifications(userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationBudgetWarning, notifications[0].Type)
	assert.Equal(t, models.SeverityWarning, notifications[0].Severity)
}

func TestOverspendingFiresAtThreshold(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	seedWeeklyBudget(t, db, userID, 100, 0)
	seedExpense(t, db, userID, "Other", 105, time.Now())

	over, err := svc.CheckOverspending(userID)
	require.NoError(t, err)
	require.Len(t, over, 1)

	// Past the overspending threshold the warning band no longer applies
	warnings, err := svc.CheckBudgetWarning(userID)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	notifications, err := svc.GetNotifications(userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.SeverityCritical, notifications[0].Severity)
}

func TestCategoryOverspendingIndependentOfOverall(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	// Food envelope blown while overall spending stays comfortable
	seedWeeklyBudget(t, db, userID, 500, 50)
	seedExpense(t, db, userID, "Food", 60, time.Now())

	over, err := svc.CheckOverspending(userID)
	require.NoError(t, err)
	require.Len(t, over, 1)

	notifications, err := svc.GetNotifications(userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Food", notifications[0].Metadata["category"])
}

func TestOverspendingSkippedWithoutBudget(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	seedExpense(t, db, userID, "Other", 500, time.Now())

	over, err := svc.CheckOverspending(userID)
	require.NoError(t, err)
	assert.Empty(t, over)
}

func TestOverspendingDisabledByFlag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	_, err := svc.UpdateSettings(userID, SettingsPatch{EnableOverspending: boolPtr(false)})
	require.NoError(t, err)

	seedWeeklyBudget(t, db, userID, 100, 0)
	seedExpense(t, db, userID, "Other", 150, time.Now())

	over, err := svc.CheckOverspending(userID)
	require.NoError(t, err)
	assert.Empty(t, over)
}

func TestUnusualSpendingThreshold(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	// Trailing 30-day average of $20 across 5 samples
	for i := 1; i <= 5; i++ {
		seedExpense(t, db, userID, "Food", 20, time.Now().AddDate(0, 0, -i))
	}

	ids, err := svc.CheckUnusualSpending(userID, "Food", 39.99)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = svc.CheckUnusualSpending(userID, "Food", 40)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	notifications, err := svc.GetNotifications(userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationUnusualSpending, notifications[0].Type)
}

func TestUnusualSpendingNeedsSample(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	seedExpense(t, db, userID, "Food", 20, time.Now().AddDate(0, 0, -1))
	seedExpense(t, db, userID, "Food", 20, time.Now().AddDate(0, 0, -2))

	// Two prior transactions is too small a sample to judge
	ids, err := svc.CheckUnusualSpending(userID, "Food", 500)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestNotificationReadLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	first, err := svc.CreateNotification(userID, models.NotificationGoalAchieved,
		"🎯 Goal Achieved!", "first", models.SeverityInfo, nil)
	require.NoError(t, err)
	_, err = svc.CreateNotification(userID, models.NotificationGoalAchieved,
		"🎯 Goal Achieved!", "second", models.SeverityInfo, nil)
	require.NoError(t, err)

	count, err := svc.UnreadCount(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkRead(first, userID))
	count, err = svc.UnreadCount(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	unread, err := svc.GetNotifications(userID, true, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	assert.ErrorIs(t, svc.MarkRead(uuid.NewString(), userID), ErrNotFound)
	// Another user's ID never reaches someone else's notification
	assert.ErrorIs(t, svc.MarkRead(first, uuid.NewString()), ErrNotFound)

	require.NoError(t, svc.MarkAllRead(userID))
	count, err = svc.UnreadCount(userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, svc.DeleteNotification(first, userID))
	assert.ErrorIs(t, svc.DeleteNotification(first, userID), ErrNotFound)

	require.NoError(t, svc.ClearAll(userID))
	all, err := svc.GetNotifications(userID, false, 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestConcurrentSettingsCreation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	userID := seedUser(t, db)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetSettings(userID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var rows int64
	require.NoError(t, db.Model(&models.NotificationSettings{}).
		Where("external_user_id = ?", userID).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
