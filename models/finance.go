package models

import (
	"time"
)

// Transaction types
const (
	TransactionExpense = "expense"
	TransactionIncome  = "income"
)

// Budget categories (fixed set, matching the weekly budget columns)
var BudgetCategories = []string{"Food", "Transportation", "Entertainment", "Other"}

// Transaction: raw financial activity owned by the finance CRUD layer; the
// engine only reads it for rule evaluation.
type Transaction struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	Type           string    `gorm:"not null" json:"type"`
	Category       string    `gorm:"index" json:"category"`
	Amount         float64   `gorm:"not null" json:"amount"`
	Date           time.Time `gorm:"index;not null" json:"date"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Budget: weekly budget row (total plus fixed category envelopes), owned by
// the budget CRUD layer.
type Budget struct {
	ID                   string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID       string    `gorm:"index;not null" json:"external_user_id"`
	WeekStartDate        time.Time `gorm:"index;not null" json:"week_start_date"`
	TotalAmount          float64   `gorm:"not null" json:"total_amount"`
	FoodBudget           float64   `gorm:"default:0" json:"food_budget"`
	TransportationBudget float64   `gorm:"default:0" json:"transportation_budget"`
	EntertainmentBudget  float64   `gorm:"default:0" json:"entertainment_budget"`
	OtherBudget          float64   `gorm:"default:0" json:"other_budget"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CategoryAmount returns the envelope for one of the fixed categories.
func (b *Budget) CategoryAmount(category string) float64 {
	switch category {
	case "Food":
		return b.FoodBudget
	case "Transportation":
		return b.TransportationBudget
	case "Entertainment":
		return b.EntertainmentBudget
	case "Other":
		return b.OtherBudget
	}
	return 0
}

// FinancialGoal: savings goal owned by the goal CRUD layer; the engine reads
// counts and completion.
type FinancialGoal struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	Name           string    `gorm:"not null" json:"name"`
	TargetAmount   float64   `gorm:"not null" json:"target_amount"`
	CurrentAmount  float64   `gorm:"default:0" json:"current_amount"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Investment: investment record owned by the investments CRUD layer.
type Investment struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	Name           string    `gorm:"not null" json:"name"`
	Amount         float64   `gorm:"not null" json:"amount"`
	Date           time.Time `gorm:"index;not null" json:"date"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
