package services

import (
	"log"

	"finance-progression-system/models"

	"gorm.io/gorm"
)

// Base point values per activity (applied before the level multiplier)
const (
	PointsTransactionAdded = 10
	PointsBudgetCreated    = 50
	PointsGoalCreated      = 75
	PointsInvestmentAdded  = 150
	PointsGoalCompleted    = 250
)

// EngagementService is the entry point called by the finance CRUD handlers
// whenever something happens. Each hook composes the ledger, milestone
// engine, streak tracker and notification checks for that event.
type EngagementService struct {
	DB            *gorm.DB
	Progression   *ProgressionService
	Milestones    *MilestoneService
	Streaks       *StreakService
	Notifications *NotificationService
	Finance       *FinanceService
}

func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{
		DB:            db,
		Progression:   NewProgressionService(db),
		Milestones:    NewMilestoneService(db),
		Streaks:       NewStreakService(db),
		Notifications: NewNotificationService(db),
		Finance:       NewFinanceService(db),
	}
}

// OnTransactionAdded awards points, advances transaction milestones and the
// streak, then evaluates the spending rules for the affected category.
func (s *EngagementService) OnTransactionAdded(externalUserID, category string, amount float64) (*ActivityResult, error) {
	result, err := s.applyActivity(externalUserID,
		PointsTransactionAdded, "transaction_added", "Logged a transaction",
		"transaction", models.CriteriaCount, s.transactionCount, true)
	if err != nil {
		return nil, err
	}

	unusual, err := s.Notifications.CheckUnusualSpending(externalUserID, category, amount)
	if err != nil {
		return nil, err
	}
	result.NotificationIDs = append(result.NotificationIDs, unusual...)

	warnings, err := s.Notifications.CheckBudgetWarning(externalUserID)
	if err != nil {
		return nil, err
	}
	result.NotificationIDs = append(result.NotificationIDs, warnings...)

	overspending, err := s.Notifications.CheckOverspending(externalUserID)
	if err != nil {
		return nil, err
	}
	result.NotificationIDs = append(result.NotificationIDs, overspending...)

	return result, nil
}

// OnBudgetCreated awards points and advances budget milestones.
func (s *EngagementService) OnBudgetCreated(externalUserID string) (*ActivityResult, error) {
	return s.applyActivity(externalUserID,
		PointsBudgetCreated, "budget_created", "Created a new budget",
		"budget", models.CriteriaCount, s.Finance.BudgetCount, true)
}

// OnInvestmentAdded awards points and advances investment milestones.
func (s *EngagementService) OnInvestmentAdded(externalUserID string) (*ActivityResult, error) {
	return s.applyActivity(externalUserID,
		PointsInvestmentAdded, "investment_added", "Added an investment",
		"investment", models.CriteriaCount, s.Finance.InvestmentCount, true)
}

// OnGoalCreated awards points and advances goal milestones.
func (s *EngagementService) OnGoalCreated(externalUserID string) (*ActivityResult, error) {
	return s.applyActivity(externalUserID,
		PointsGoalCreated, "goal_created", "Created a financial goal",
		"goal", models.CriteriaCount, s.Finance.GoalCount, true)
}

// OnGoalCompleted awards points, advances completion milestones and emits a
// goal-achieved notification (subject to settings and the daily cap).
func (s *EngagementService) OnGoalCompleted(externalUserID string) (*ActivityResult, error) {
	result, err := s.applyActivity(externalUserID,
		PointsGoalCompleted, "goal_completed", "Completed a financial goal!",
		"goal", models.CriteriaCompletion, s.Finance.CompletedGoalCount, false)
	if err != nil {
		return nil, err
	}

	id, err := s.Notifications.CreateNotification(externalUserID,
		models.NotificationGoalAchieved,
		"🎯 Goal Achieved!",
		"Congratulations — you completed a financial goal.",
		models.SeverityInfo,
		nil)
	if err != nil {
		return nil, err
	}
	if id != "" {
		result.NotificationIDs = append(result.NotificationIDs, id)
	}
	return result, nil
}

// OnSavingsMilestone re-checks savings milestones against the user's total
// saved amount (no points of its own).
func (s *EngagementService) OnSavingsMilestone(externalUserID string, totalSavings int64) (*ActivityResult, error) {
	event, err := s.Milestones.CheckProgress(externalUserID, "savings", models.CriteriaAmount, totalSavings)
	if err != nil {
		return nil, err
	}
	return &ActivityResult{Milestone: event}, nil
}

func (s *EngagementService) transactionCount(externalUserID string) (int64, error) {
	return s.Finance.CountTransactions(externalUserID, "", zeroTime, zeroTime)
}

// applyActivity is the shared award → milestone → streak composition.
func (s *EngagementService) applyActivity(externalUserID string, basePoints int64, activityType, description, milestoneCategory, criteriaType string, counter func(string) (int64, error), withStreak bool) (*ActivityResult, error) {
	award, err := s.Progression.AwardPoints(externalUserID, basePoints, activityType, description)
	if err != nil {
		return nil, err
	}
	result := &ActivityResult{
		PointsGranted: award.PointsGranted,
		LevelUp:       award.LevelUp,
		Badge:         award.Badge,
	}

	count, err := counter(externalUserID)
	if err != nil {
		return nil, err
	}
	event, err := s.Milestones.CheckProgress(externalUserID, milestoneCategory, criteriaType, count)
	if err != nil {
		return nil, err
	}
	result.Milestone = event

	if withStreak {
		streak, err := s.Streaks.UpdateStreak(externalUserID)
		if err != nil {
			return nil, err
		}
		result.Streak = streak
	}

	log.Printf("📊 Activity processed: %s → %s (+%d points)", externalUserID, activityType, result.PointsGranted)
	return result, nil
}
