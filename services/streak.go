package services

import (
	"fmt"
	"log"
	"time"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakService struct {
	DB *gorm.DB
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{DB: db}
}

// UpdateStreak advances the consecutive-day streak state machine:
// no record → day 1; same day → no change; yesterday → +1 (with milestone
// check and a streak bonus award); older → reset to 1. The longest streak
// never decreases.
func (s *StreakService) UpdateStreak(externalUserID string) (*StreakResult, error) {
	today := dateOnly(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	result := &StreakResult{}
	extended := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var streak models.UserStreak
		err := tx.Where("external_user_id = ?", externalUserID).First(&streak).Error
		if err == gorm.ErrRecordNotFound {
			streak = models.UserStreak{
				ID:               uuid.NewString(),
				ExternalUserID:   externalUserID,
				CurrentStreak:    1,
				LongestStreak:    1,
				LastActivityDate: &today,
			}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "external_user_id"}},
				DoNothing: true,
			}).Create(&streak)
			if res.Error != nil {
				return storeErr(res.Error)
			}
			if res.RowsAffected == 0 {
				// A concurrent call created the row for today already;
				// report its state like any other same-day repeat
				if err := tx.Where("external_user_id = ?", externalUserID).First(&streak).Error; err != nil {
					return storeErr(err)
				}
				result.CurrentStreak = streak.CurrentStreak
				result.LongestStreak = streak.LongestStreak
				return nil
			}
			result.CurrentStreak = 1
			result.LongestStreak = 1
			return nil
		}
		if err != nil {
			return storeErr(err)
		}

		last := time.Time{}
		if streak.LastActivityDate != nil {
			last = dateOnly(*streak.LastActivityDate)
		}

		switch {
		case last.Equal(today):
			// Already logged today
			result.CurrentStreak = streak.CurrentStreak
			result.LongestStreak = streak.LongestStreak
			return nil

		case last.Equal(yesterday):
			newStreak := streak.CurrentStreak + 1
			newLongest := streak.LongestStreak
			if newStreak > newLongest {
				newLongest = newStreak
			}
			if err := tx.Model(&streak).Updates(map[string]interface{}{
				"current_streak":     newStreak,
				"longest_streak":     newLongest,
				"last_activity_date": &today,
			}).Error; err != nil {
				return storeErr(err)
			}
			result.CurrentStreak = newStreak
			result.LongestStreak = newLongest
			result.Extended = true
			extended = true
			return nil

		default:
			// Streak broken; longest stays put
			if err := tx.Model(&streak).Updates(map[string]interface{}{
				"current_streak":     1,
				"last_activity_date": &today,
			}).Error; err != nil {
				return storeErr(err)
			}
			result.CurrentStreak = 1
			result.LongestStreak = streak.LongestStreak
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	if extended {
		log.Printf("🔥 Streak extended: %s → %d day(s)", externalUserID, result.CurrentStreak)

		milestoneSvc := NewMilestoneService(s.DB)
		event, err := milestoneSvc.CheckProgress(externalUserID, "streak", models.CriteriaDays, int64(result.CurrentStreak))
		if err != nil {
			return nil, err
		}
		result.Milestone = event

		progression := NewProgressionService(s.DB)
		award, err := progression.AwardPoints(externalUserID,
			int64(result.CurrentStreak)*5,
			"streak_continued",
			fmt.Sprintf("%d day streak!", result.CurrentStreak))
		if err != nil {
			return nil, err
		}
		result.PointsGranted = award.PointsGranted
		result.LevelUp = award.LevelUp
	}

	return result, nil
}
