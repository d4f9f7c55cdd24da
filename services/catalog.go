package services

import (
	"fmt"
	"log"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MilestoneCode derives the stable catalog key for a milestone from its
// (name, category) pair, so repeated seed runs upsert instead of duplicating.
func MilestoneCode(name, category string) string {
	return fmt.Sprintf("%s-%s", slug.Make(name), slug.Make(category))
}

// SeedCatalogs upserts the level, milestone and badge catalogs. Safe to run
// on every startup.
func SeedCatalogs(db *gorm.DB) error {
	for _, level := range models.DefaultLevels {
		level.ID = uuid.NewString()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "level_number"}},
			DoNothing: true,
		}).Create(&level).Error; err != nil {
			return storeErr(err)
		}
	}

	for _, milestone := range models.DefaultMilestones {
		milestone.ID = uuid.NewString()
		milestone.Code = MilestoneCode(milestone.Name, milestone.Category)
		milestone.IsActive = true
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&milestone).Error; err != nil {
			return storeErr(err)
		}
	}

	for _, badge := range models.DefaultBadges {
		badge.ID = uuid.NewString()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&badge).Error; err != nil {
			return storeErr(err)
		}
	}

	log.Printf("✅ Catalogs seeded: %d levels, %d milestones, %d badges",
		len(models.DefaultLevels), len(models.DefaultMilestones), len(models.DefaultBadges))
	return nil
}

// DedupeMilestones is a one-time migration for databases seeded before codes
// existed: duplicate (name, category) rows are merged into the oldest one and
// achievements are re-pointed at the survivor.
func DedupeMilestones(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var milestones []models.Milestone
		if err := tx.Order("created_at ASC, id ASC").Find(&milestones).Error; err != nil {
			return storeErr(err)
		}

		keepers := make(map[string]string) // (name, category) key → surviving id
		removed := 0
		for _, milestone := range milestones {
			key := MilestoneCode(milestone.Name, milestone.Category)
			keeper, seen := keepers[key]
			if !seen {
				keepers[key] = milestone.ID
				continue
			}

			// Re-point achievements unless the user already has one against
			// the keeper; those duplicates are dropped outright.
			var achievements []models.UserAchievement
			if err := tx.Where("milestone_id = ?", milestone.ID).Find(&achievements).Error; err != nil {
				return storeErr(err)
			}
			for _, achievement := range achievements {
				var existing int64
				if err := tx.Model(&models.UserAchievement{}).
					Where("external_user_id = ? AND milestone_id = ?", achievement.ExternalUserID, keeper).
					Count(&existing).Error; err != nil {
					return storeErr(err)
				}
				if existing > 0 {
					if err := tx.Delete(&models.UserAchievement{}, "id = ?", achievement.ID).Error; err != nil {
						return storeErr(err)
					}
					continue
				}
				if err := tx.Model(&models.UserAchievement{}).
					Where("id = ?", achievement.ID).
					Update("milestone_id", keeper).Error; err != nil {
					return storeErr(err)
				}
			}

			if err := tx.Delete(&models.Milestone{}, "id = ?", milestone.ID).Error; err != nil {
				return storeErr(err)
			}
			removed++
		}

		if removed > 0 {
			log.Printf("🧹 Milestone catalog de-duplicated: removed %d duplicate row(s)", removed)
		}
		return nil
	})
}
