package services

import (
	"time"

	"finance-progression-system/models"

	"gorm.io/gorm"
)

// FinanceService is the read-only view over the finance CRUD layer's tables
// (transactions, budgets, goals, investments, user directory). The engine
// never writes to these.
type FinanceService struct {
	DB *gorm.DB
}

func NewFinanceService(db *gorm.DB) *FinanceService {
	return &FinanceService{DB: db}
}

// UserExists checks the local user-directory mirror.
func (s *FinanceService) UserExists(externalUserID string) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.AppUser{}).
		Where("external_user_id = ?", externalUserID).
		Count(&count).Error; err != nil {
		return false, storeErr(err)
	}
	return count > 0, nil
}

// SumExpenses totals expense transactions in [from, to]. An empty category
// means all categories.
func (s *FinanceService) SumExpenses(externalUserID, category string, from, to time.Time) (float64, error) {
	q := s.DB.Model(&models.Transaction{}).
		Where("external_user_id = ? AND type = ?", externalUserID, models.TransactionExpense).
		Where("date >= ? AND date <= ?", from, to)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var total float64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, storeErr(err)
	}
	return total, nil
}

// CountTransactions counts a user's transactions. Empty category means all;
// zero time bounds mean unbounded.
func (s *FinanceService) CountTransactions(externalUserID, category string, from, to time.Time) (int64, error) {
	q := s.DB.Model(&models.Transaction{}).
		Where("external_user_id = ?", externalUserID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// AverageExpense returns the mean expense amount for a category over the
// trailing N days, plus the sample size.
func (s *FinanceService) AverageExpense(externalUserID, category string, trailingDays int) (float64, int64, error) {
	since := time.Now().AddDate(0, 0, -trailingDays)
	row := struct {
		Avg   float64
		Count int64
	}{}
	err := s.DB.Model(&models.Transaction{}).
		Where("external_user_id = ? AND type = ? AND category = ? AND date >= ?",
			externalUserID, models.TransactionExpense, category, since).
		Select("COALESCE(AVG(amount), 0) AS avg, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return 0, 0, storeErr(err)
	}
	return row.Avg, row.Count, nil
}

// CurrentBudget returns the most recent budget for the given week, or nil
// when the user has none.
func (s *FinanceService) CurrentBudget(externalUserID string, weekStart time.Time) (*models.Budget, error) {
	var budget models.Budget
	err := s.DB.Where("external_user_id = ? AND week_start_date = ?", externalUserID, weekStart).
		Order("created_at DESC").
		First(&budget).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &budget, nil
}

// BudgetCount counts all budgets a user has created.
func (s *FinanceService) BudgetCount(externalUserID string) (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Budget{}).
		Where("external_user_id = ?", externalUserID).
		Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// GoalCount counts all financial goals a user has created.
func (s *FinanceService) GoalCount(externalUserID string) (int64, error) {
	var count int64
	if err := s.DB.Model(&models.FinancialGoal{}).
		Where("external_user_id = ?", externalUserID).
		Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// CompletedGoalCount counts goals whose saved amount reached the target.
func (s *FinanceService) CompletedGoalCount(externalUserID string) (int64, error) {
	var count int64
	if err := s.DB.Model(&models.FinancialGoal{}).
		Where("external_user_id = ? AND current_amount >= target_amount", externalUserID).
		Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// InvestmentCount counts all investments a user has recorded.
func (s *FinanceService) InvestmentCount(externalUserID string) (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Investment{}).
		Where("external_user_id = ?", externalUserID).
		Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// BudgetHolders lists the users who have a budget for the given week
// (consumed by the daily digest sweep).
func (s *FinanceService) BudgetHolders(weekStart time.Time) ([]string, error) {
	var userIDs []string
	err := s.DB.Model(&models.Budget{}).
		Where("week_start_date = ?", weekStart).
		Distinct("external_user_id").
		Pluck("external_user_id", &userIDs).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return userIDs, nil
}
