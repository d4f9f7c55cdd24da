package services

import (
	"log"
	"math"
	"time"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureProgressRecord ensures a UserProgress row exists (idempotent).
// First creation also grants the welcome badge.
func (s *ProgressionService) EnsureProgressRecord(externalUserID string) (*models.UserProgress, error) {
	prog, _, err := ensureProgress(s.DB, externalUserID)
	return prog, err
}

func ensureProgress(db *gorm.DB, externalUserID string) (*models.UserProgress, *BadgeEarnedEvent, error) {
	var prog models.UserProgress
	err := db.Where("external_user_id = ?", externalUserID).First(&prog).Error
	if err == gorm.ErrRecordNotFound {
		prog = models.UserProgress{
			ID:               uuid.NewString(),
			ExternalUserID:   externalUserID,
			TotalPoints:      0,
			CurrentLevel:     1,
			ExperiencePoints: 0,
		}
		// A concurrent first call may insert between the read and this
		// create; the conflict clause turns the race loser into a re-read
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoNothing: true,
		}).Create(&prog)
		if res.Error != nil {
			return nil, nil, storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			if err := db.Where("external_user_id = ?", externalUserID).First(&prog).Error; err != nil {
				return nil, nil, storeErr(err)
			}
			return &prog, nil, nil
		}
		badgeSvc := &BadgeService{DB: db}
		badge, err := badgeSvc.AwardBadge(externalUserID, models.BadgeWelcome)
		if err != nil {
			return nil, nil, err
		}
		return &prog, badge, nil
	}
	if err != nil {
		return nil, nil, storeErr(err)
	}
	return &prog, nil, nil
}

// AwardPoints applies the current level multiplier to basePoints, updates
// totals, recomputes the level and logs the activity. Non-positive inputs
// grant zero points but still succeed and still log, so the stored total
// never decreases.
func (s *ProgressionService) AwardPoints(externalUserID string, basePoints int64, activityType, description string) (*AwardResult, error) {
	finance := NewFinanceService(s.DB)
	exists, err := finance.UserExists(externalUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	result := &AwardResult{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		prog, welcomeBadge, err := ensureProgress(tx, externalUserID)
		if err != nil {
			return err
		}
		result.Badge = welcomeBadge

		// Level multiplier (1.0 when the catalog row is missing)
		multiplier := 1.0
		var level models.Level
		if err := tx.Where("level_number = ?", prog.CurrentLevel).First(&level).Error; err == nil {
			multiplier = level.PointsMultiplier
		} else if err != gorm.ErrRecordNotFound {
			return storeErr(err)
		}

		var granted int64
		if basePoints > 0 {
			granted = int64(math.Floor(float64(basePoints) * multiplier))
		}

		if granted > 0 {
			// Atomic increments so concurrent awards never lose an update
			if err := tx.Model(&models.UserProgress{}).
				Where("external_user_id = ?", externalUserID).
				Updates(map[string]interface{}{
					"total_points":      gorm.Expr("total_points + ?", granted),
					"experience_points": gorm.Expr("experience_points + ?", granted),
				}).Error; err != nil {
				return storeErr(err)
			}
		}
		result.PointsGranted = granted

		// Re-read inside the transaction: the increment above locked the
		// row, so this reflects every committed concurrent award, not the
		// snapshot taken at the start.
		var stored models.UserProgress
		if err := tx.Where("external_user_id = ?", externalUserID).First(&stored).Error; err != nil {
			return storeErr(err)
		}

		// Recompute level: highest level whose requirement is met. The
		// current_level guard keeps the level monotonic under races.
		var next models.Level
		err = tx.Where("experience_required <= ?", stored.ExperiencePoints).
			Order("level_number DESC").
			First(&next).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return storeErr(err)
		}
		if err == nil && next.LevelNumber > stored.CurrentLevel {
			now := time.Now()
			res := tx.Model(&models.UserProgress{}).
				Where("external_user_id = ? AND current_level < ?", externalUserID, next.LevelNumber).
				Updates(map[string]interface{}{
					"current_level":    next.LevelNumber,
					"last_level_up_at": &now,
				})
			if res.Error != nil {
				return storeErr(res.Error)
			}
			if res.RowsAffected > 0 {
				result.LevelUp = &LevelUpEvent{
					ExternalUserID: externalUserID,
					NewLevel:       next.LevelNumber,
					LevelName:      next.Name,
				}
				if next.LevelNumber >= 10 {
					badgeSvc := &BadgeService{DB: tx}
					badge, err := badgeSvc.AwardBadge(externalUserID, models.BadgeTopTier)
					if err != nil {
						return err
					}
					if badge != nil {
						result.Badge = badge
					}
				}
			}
		}

		// Audit log (written even for zero-point awards)
		activity := models.GameActivity{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			ActivityType:   activityType,
			PointsEarned:   granted,
			Description:    description,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎮 Points awarded: %s → +%d (%s)", externalUserID, result.PointsGranted, activityType)
	if result.LevelUp != nil {
		log.Printf("🎉 Level up: %s → L%d (%s)", externalUserID, result.LevelUp.NewLevel, result.LevelUp.LevelName)
	}
	return result, nil
}

// LeaderboardPosition returns 1 + the number of users with strictly more
// points (competition ranking — ties share a rank).
func (s *ProgressionService) LeaderboardPosition(externalUserID string) (int64, error) {
	prog, err := s.EnsureProgressRecord(externalUserID)
	if err != nil {
		return 0, err
	}
	var ahead int64
	if err := s.DB.Model(&models.UserProgress{}).
		Where("total_points > ?", prog.TotalPoints).
		Count(&ahead).Error; err != nil {
		return 0, storeErr(err)
	}
	return ahead + 1, nil
}

// LeaderboardRow is a top-users entry joined with the user directory.
type LeaderboardRow struct {
	ExternalUserID string `json:"external_user_id"`
	Username       string `json:"username"`
	TotalPoints    int64  `json:"total_points"`
	CurrentLevel   int    `json:"current_level"`
}

// TopUsers returns the leaderboard head ordered by total points.
func (s *ProgressionService) TopUsers(limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var rows []LeaderboardRow
	err := s.DB.Model(&models.UserProgress{}).
		Select("user_progresses.external_user_id, app_users.username, user_progresses.total_points, user_progresses.current_level").
		Joins("LEFT JOIN app_users ON app_users.external_user_id = user_progresses.external_user_id").
		Order("user_progresses.total_points DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

// Dashboard is the read-only aggregation served to the UI.
type Dashboard struct {
	Progress       *models.UserProgress     `json:"progress"`
	Achievements   []models.UserAchievement `json:"achievements"`
	InProgress     []models.UserAchievement `json:"in_progress"`
	Badges         []models.UserBadge       `json:"badges"`
	RecentActivity []models.GameActivity    `json:"recent_activity"`
	CurrentLevel   *models.Level            `json:"current_level,omitempty"`
	NextLevel      *models.Level            `json:"next_level,omitempty"`
	Rank           int64                    `json:"rank"`
}

func (s *ProgressionService) GetDashboard(externalUserID string) (*Dashboard, error) {
	prog, err := s.EnsureProgressRecord(externalUserID)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{Progress: prog}

	if err := s.DB.Preload("Milestone").
		Where("external_user_id = ? AND is_completed = ?", externalUserID, true).
		Order("achieved_at DESC").
		Find(&dash.Achievements).Error; err != nil {
		return nil, storeErr(err)
	}

	// Top 5 in-progress milestones by completion ratio
	if err := s.DB.Preload("Milestone").
		Joins("JOIN milestones ON milestones.id = user_achievements.milestone_id").
		Where("user_achievements.external_user_id = ? AND user_achievements.is_completed = ?", externalUserID, false).
		Order("(user_achievements.progress_value * 1.0 / milestones.criteria_value) DESC").
		Limit(5).
		Find(&dash.InProgress).Error; err != nil {
		return nil, storeErr(err)
	}

	if err := s.DB.Preload("Badge").
		Where("external_user_id = ?", externalUserID).
		Order("earned_at DESC").
		Find(&dash.Badges).Error; err != nil {
		return nil, storeErr(err)
	}

	if err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("created_at DESC").
		Limit(10).
		Find(&dash.RecentActivity).Error; err != nil {
		return nil, storeErr(err)
	}

	var current, next models.Level
	if err := s.DB.Where("level_number = ?", prog.CurrentLevel).First(&current).Error; err == nil {
		dash.CurrentLevel = &current
	}
	if err := s.DB.Where("level_number = ?", prog.CurrentLevel+1).First(&next).Error; err == nil {
		dash.NextLevel = &next
	}

	rank, err := s.LeaderboardPosition(externalUserID)
	if err != nil {
		return nil, err
	}
	dash.Rank = rank
	return dash, nil
}
