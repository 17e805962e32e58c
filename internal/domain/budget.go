package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdBudget is the running budget of one ad code.
type AdBudget struct {
	AdCodeID    int64           `json:"ad_code_id" db:"ad_code_id"`
	BudgetTotal decimal.Decimal `json:"budget_total" db:"budget_total"`
	BudgetSpent decimal.Decimal `json:"budget_spent" db:"budget_spent"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Remaining is total minus spent, not clamped at zero.
func (b AdBudget) Remaining() decimal.Decimal {
	return b.BudgetTotal.Sub(b.BudgetSpent)
}

// BudgetHistoryEntry records one top-up. Entries are never modified.
type BudgetHistoryEntry struct {
	ID          int64           `json:"id" db:"id"`
	AdCodeID    int64           `json:"ad_code_id" db:"ad_code_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// BudgetView is the budget of an ad code together with its remaining amount.
type BudgetView struct {
	AdBudget
	BudgetRemaining decimal.Decimal `json:"budget_remaining"`
}
