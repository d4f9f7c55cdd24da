package services

import (
	"log"

	"finance-progression-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// AwardBadge grants the named badge at most once per user. Unknown badge
// names and already-held badges are no-ops, never errors.
func (s *BadgeService) AwardBadge(externalUserID, badgeName string) (*BadgeEarnedEvent, error) {
	var badge models.Badge
	err := s.DB.Where("name = ?", badgeName).First(&badge).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}

	userBadge := models.UserBadge{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		BadgeID:        badge.ID,
	}
	// The unique (user, badge) pair turns repeat awards into no-ops
	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&userBadge)
	if res.Error != nil {
		return nil, storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	log.Printf("🎖️ Badge awarded: %s → %s", badge.Name, externalUserID)
	return &BadgeEarnedEvent{
		ExternalUserID: externalUserID,
		BadgeID:        badge.ID,
		Name:           badge.Name,
		Rarity:         badge.Rarity,
	}, nil
}
