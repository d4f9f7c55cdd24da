package services

import (
	"fmt"
	"testing"
	"time"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database, migrates the schema
// and seeds the catalogs, mirroring what main.go does against Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache DSN so every pooled connection sees the same database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.AppUser{},
		&models.UserProgress{},
		&models.Level{},
		&models.Milestone{},
		&models.UserAchievement{},
		&models.Badge{},
		&models.UserBadge{},
		&models.UserStreak{},
		&models.GameActivity{},
		&models.Notification{},
		&models.NotificationSettings{},
		&models.Transaction{},
		&models.Budget{},
		&models.FinancialGoal{},
		&models.Investment{},
	))
	require.NoError(t, SeedCatalogs(db))
	return db
}

// seedUser inserts a row into the user-directory mirror and returns its
// external ID.
func seedUser(t *testing.T, db *gorm.DB) string {
	t.Helper()
	externalID := uuid.NewString()
	user := models.AppUser{
		ID:             uuid.NewString(),
		ExternalUserID: externalID,
		Username:       "tester",
		Email:          "tester@example.com",
	}
	require.NoError(t, db.Create(&user).Error)
	return externalID
}

func seedWeeklyBudget(t *testing.T, db *gorm.DB, externalUserID string, total, food float64) {
	t.Helper()
	weekStart, _ := currentWeek(time.Now())
	budget := models.Budget{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		WeekStartDate:  weekStart,
		TotalAmount:    total,
		FoodBudget:     food,
	}
	require.NoError(t, db.Create(&budget).Error)
}

func seedExpense(t *testing.T, db *gorm.DB, externalUserID, category string, amount float64, when time.Time) {
	t.Helper()
	transaction := models.Transaction{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		Type:           models.TransactionExpense,
		Category:       category,
		Amount:         amount,
		Date:           when,
	}
	require.NoError(t, db.Create(&transaction).Error)
}
