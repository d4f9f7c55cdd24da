package services

import (
	"testing"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckProgressCompletesAtMostOnePerCall(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMilestoneService(db)
	userID := seedUser(t, db)

	// Both the 1- and 5-transaction milestones qualify, but only the smallest
	// completes per call
	event, err := svc.CheckProgress(userID, "transaction", models.CriteriaCount, 5)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "First Transaction", event.Name)

	event, err = svc.CheckProgress(userID, "transaction", models.CriteriaCount, 5)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "Getting Started", event.Name)

	event, err = svc.CheckProgress(userID, "transaction", models.CriteriaCount, 5)
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestCheckProgressRecordsPartialProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMilestoneService(db)
	userID := seedUser(t, db)

	event, err := svc.CheckProgress(userID, "savings", models.CriteriaAmount, 50)
	require.NoError(t, err)
	assert.Nil(t, event)

	var achievement models.UserAchievement
	require.NoError(t, db.Preload("Milestone").
		Where("external_user_id = ?", userID).
		First(&achievement).Error)
	assert.Equal(t, int64(50), achievement.ProgressValue)
	assert.False(t, achievement.IsCompleted)
}

func TestCompleteIsExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMilestoneService(db)
	userID := seedUser(t, db)

	event, err := svc.CheckProgress(userID, "budget", models.CriteriaCount, 1)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "Budget Creator", event.Name)
	assert.Equal(t, int64(50), event.PointsAwarded)

	// A direct repeat completion is a no-op and grants nothing further
	event2, err := svc.Complete(userID, event.MilestoneID)
	require.NoError(t, err)
	assert.Nil(t, event2)

	var prog models.UserProgress
	require.NoError(t, db.Where("external_user_id = ?", userID).First(&prog).Error)
	assert.Equal(t, int64(50), prog.TotalPoints)
}

func TestCompleteUnknownMilestoneIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMilestoneService(db)
	userID := seedUser(t, db)

	event, err := svc.Complete(userID, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestPlatinumMilestoneAwardsCategoryBadge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMilestoneService(db)
	userID := seedUser(t, db)

	platinum := models.Milestone{
		ID:            uuid.NewString(),
		Code:          MilestoneCode("Savings Legend", "savings"),
		Name:          "Savings Legend",
		Description:   "Save $5000",
		Category:      "savings",
		CriteriaType:  models.CriteriaAmount,
		CriteriaValue: 5000,
		PointsReward:  1000,
		Tier:          models.TierPlatinum,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&platinum).Error)

	// Work through the three default savings milestones, then the platinum one
	var event *MilestoneCompletedEvent
	var err error
	for i := 0; i < 4; i++ {
		event, err = svc.CheckProgress(userID, "savings", models.CriteriaAmount, 5000)
		require.NoError(t, err)
		require.NotNil(t, event)
	}
	assert.Equal(t, "Savings Legend", event.Name)
	assert.Equal(t, models.TierPlatinum, event.Tier)
	require.NotNil(t, event.Badge)
	assert.Equal(t, "Savings Master", event.Badge.Name)
}

func TestInactiveMilestonesAreIgnored(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMilestoneService(db)
	userID := seedUser(t, db)

	require.NoError(t, db.Model(&models.Milestone{}).
		Where("category = ?", "streak").
		Update("is_active", false).Error)

	event, err := svc.CheckProgress(userID, "streak", models.CriteriaDays, 30)
	require.NoError(t, err)
	assert.Nil(t, event)
}
