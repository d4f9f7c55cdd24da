package services

import (
	"testing"
	"time"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnTransactionAddedComposesEverything(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db)
	userID := seedUser(t, db)

	seedWeeklyBudget(t, db, userID, 100, 0)
	// The CRUD layer has already stored the transaction when the hook fires
	seedExpense(t, db, userID, "Food", 10, time.Now())

	result, err := svc.OnTransactionAdded(userID, "Food", 10)
	require.NoError(t, err)

	assert.Equal(t, int64(PointsTransactionAdded), result.PointsGranted)
	require.NotNil(t, result.Milestone)
	assert.Equal(t, "First Transaction", result.Milestone.Name)
	require.NotNil(t, result.Streak)
	assert.Equal(t, 1, result.Streak.CurrentStreak)
	// 10% of budget, an ordinary amount: no notifications
	assert.Empty(t, result.NotificationIDs)
}

func TestOnTransactionAddedSurfacesOverspending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db)
	userID := seedUser(t, db)

	seedWeeklyBudget(t, db, userID, 100, 0)
	seedExpense(t, db, userID, "Other", 120, time.Now())

	result, err := svc.OnTransactionAdded(userID, "Other", 120)
	require.NoError(t, err)
	require.Len(t, result.NotificationIDs, 1)

	notifications, err := svc.Notifications.GetNotifications(userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationOverspending, notifications[0].Type)
}

func TestOnBudgetCreated(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db)
	userID := seedUser(t, db)

	seedWeeklyBudget(t, db, userID, 200, 0)

	result, err := svc.OnBudgetCreated(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(PointsBudgetCreated), result.PointsGranted)
	require.NotNil(t, result.Milestone)
	assert.Equal(t, "Budget Creator", result.Milestone.Name)
	require.NotNil(t, result.Streak)
}

func TestOnGoalCompletedEmitsNotification(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db)
	userID := seedUser(t, db)

	goal := models.FinancialGoal{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		Name:           "Emergency fund",
		TargetAmount:   1000,
		CurrentAmount:  1000,
	}
	require.NoError(t, db.Create(&goal).Error)

	result, err := svc.OnGoalCompleted(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(PointsGoalCompleted), result.PointsGranted)
	require.NotNil(t, result.Milestone)
	assert.Equal(t, "Goal Achiever", result.Milestone.Name)
	// Goal completion is a deliberate act, not a daily habit
	assert.Nil(t, result.Streak)
	require.Len(t, result.NotificationIDs, 1)

	notifications, err := svc.Notifications.GetNotifications(userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationGoalAchieved, notifications[0].Type)
}

func TestOnInvestmentAdded(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db)
	userID := seedUser(t, db)

	investment := models.Investment{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		Name:           "Index fund",
		Amount:         500,
		Date:           time.Now(),
	}
	require.NoError(t, db.Create(&investment).Error)

	result, err := svc.OnInvestmentAdded(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(PointsInvestmentAdded), result.PointsGranted)
}

func TestOnSavingsMilestone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db)
	userID := seedUser(t, db)

	result, err := svc.OnSavingsMilestone(userID, 150)
	require.NoError(t, err)
	require.NotNil(t, result.Milestone)
	assert.Equal(t, "Savings Started", result.Milestone.Name)
	assert.Zero(t, result.PointsGranted)
}

func TestHookForUnknownUserFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db)

	_, err := svc.OnBudgetCreated(uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
