package services

import (
	"testing"

	"finance-progression-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardBadgeOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeService(db)
	userID := seedUser(t, db)

	event, err := svc.AwardBadge(userID, "Budget Master")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "Budget Master", event.Name)
	assert.Equal(t, "rare", event.Rarity)

	// Repeat awards are silent no-ops
	for i := 0; i < 3; i++ {
		event, err = svc.AwardBadge(userID, "Budget Master")
		require.NoError(t, err)
		assert.Nil(t, event)
	}

	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).
		Where("external_user_id = ?", userID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAwardBadgeUnknownNameIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBadgeService(db)
	userID := seedUser(t, db)

	event, err := svc.AwardBadge(userID, "No Such Badge")
	require.NoError(t, err)
	assert.Nil(t, event)

	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).Count(&count).Error)
	assert.Zero(t, count)
}
