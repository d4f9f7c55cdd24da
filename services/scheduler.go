// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartDigestScheduler re-evaluates budget rules once a day for users who
// opted into the daily digest and hold a budget for the current week, so a
// warning still fires on days without new transactions.
func (s *NotificationService) StartDigestScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			weekStart, _ := currentWeek(time.Now())
			userIDs, err := s.Finance.BudgetHolders(weekStart)
			if err != nil {
				log.Printf("[Digest] DB error: %v", err)
				return
			}

			for _, userID := range userIDs {
				settings, err := s.GetSettings(userID)
				if err != nil {
					log.Printf("[Digest] Failed to load settings for %s: %v", userID, err)
					continue
				}
				if !settings.DailyDigest {
					continue
				}
				if _, err := s.CheckBudgetWarning(userID); err != nil {
					log.Printf("[Digest] Budget warning check failed for %s: %v", userID, err)
				}
				if _, err := s.CheckOverspending(userID); err != nil {
					log.Printf("[Digest] Overspending check failed for %s: %v", userID, err)
				}
			}
		}),
	)
}
