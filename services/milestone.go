package services

import (
	"fmt"
	"log"
	"time"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type MilestoneService struct {
	DB *gorm.DB
}

func NewMilestoneService(db *gorm.DB) *MilestoneService {
	return &MilestoneService{DB: db}
}

// CheckProgress records currentValue against every active milestone matching
// the category and criteria type, and completes at most one per invocation
// (the smallest criteria first), so a single event never floods the user.
// The criteria-type filter matters: the goal category mixes count-based and
// completion-based milestones whose values measure different things.
func (s *MilestoneService) CheckProgress(externalUserID, category, criteriaType string, currentValue int64) (*MilestoneCompletedEvent, error) {
	var milestones []models.Milestone
	err := s.DB.Where("category = ? AND criteria_type = ? AND is_active = ?", category, criteriaType, true).
		Order("criteria_value ASC").
		Find(&milestones).Error
	if err != nil {
		return nil, storeErr(err)
	}

	for _, milestone := range milestones {
		var achievement models.UserAchievement
		err := s.DB.Where("external_user_id = ? AND milestone_id = ?", externalUserID, milestone.ID).
			First(&achievement).Error
		if err == gorm.ErrRecordNotFound {
			achievement = models.UserAchievement{
				ID:             uuid.NewString(),
				ExternalUserID: externalUserID,
				MilestoneID:    milestone.ID,
				ProgressValue:  currentValue,
			}
			if err := s.DB.Create(&achievement).Error; err != nil {
				return nil, storeErr(err)
			}
		} else if err != nil {
			return nil, storeErr(err)
		} else if achievement.IsCompleted {
			// Completed achievements are frozen
			continue
		} else {
			if err := s.DB.Model(&achievement).
				Update("progress_value", currentValue).Error; err != nil {
				return nil, storeErr(err)
			}
		}

		if currentValue >= milestone.CriteriaValue {
			event, err := s.Complete(externalUserID, milestone.ID)
			if err != nil {
				return nil, err
			}
			if event != nil {
				return event, nil
			}
		}
	}
	return nil, nil
}

// Complete marks an achievement done exactly once and grants its reward.
// Repeat calls (and unknown milestone IDs) are no-ops.
func (s *MilestoneService) Complete(externalUserID, milestoneID string) (*MilestoneCompletedEvent, error) {
	var milestone models.Milestone
	err := s.DB.Where("id = ?", milestoneID).First(&milestone).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}

	// The is_completed guard makes the false→true transition happen at most
	// once even under concurrent completion attempts.
	now := time.Now()
	res := s.DB.Model(&models.UserAchievement{}).
		Where("external_user_id = ? AND milestone_id = ? AND is_completed = ?",
			externalUserID, milestoneID, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"achieved_at":  &now,
		})
	if res.Error != nil {
		return nil, storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	log.Printf("🏆 Achievement unlocked: %s → %s (+%d points)", externalUserID, milestone.Name, milestone.PointsReward)

	event := &MilestoneCompletedEvent{
		ExternalUserID: externalUserID,
		MilestoneID:    milestone.ID,
		Name:           milestone.Name,
		Category:       milestone.Category,
		Tier:           milestone.Tier,
	}

	progression := NewProgressionService(s.DB)
	award, err := progression.AwardPoints(externalUserID,
		milestone.PointsReward,
		fmt.Sprintf("milestone_%s", milestone.Category),
		fmt.Sprintf("Completed: %s", milestone.Name))
	if err != nil {
		return nil, err
	}
	event.PointsAwarded = award.PointsGranted
	event.LevelUp = award.LevelUp

	if milestone.Tier == models.TierPlatinum {
		badgeSvc := NewBadgeService(s.DB)
		badgeName := fmt.Sprintf("%s Master", cases.Title(language.English).String(milestone.Category))
		badge, err := badgeSvc.AwardBadge(externalUserID, badgeName)
		if err != nil {
			return nil, err
		}
		event.Badge = badge
	}

	return event, nil
}
