// Package budget applies ad-budget mutations. Top-ups accumulate into the
// total and leave a history entry; spent updates overwrite the spent amount.
package budget

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

// TaxMultiplier grosses a spent amount up by 11% VAT.
var TaxMultiplier = decimal.New(111, -2)

// ApplyTopUp adds amount to the budget total of an ad code. A nil existing
// budget starts a new one with nothing spent.
func ApplyTopUp(existing *domain.AdBudget, adCodeID int64, amount float64, description string, now time.Time) (domain.AdBudget, domain.BudgetHistoryEntry, error) {
	if !isFinite(amount) || amount <= 0 {
		return domain.AdBudget{}, domain.BudgetHistoryEntry{}, domain.NewValidationError("amount", "must be a positive number")
	}

	delta := decimal.NewFromFloat(amount)

	updated := domain.AdBudget{
		AdCodeID:    adCodeID,
		BudgetTotal: delta,
		BudgetSpent: decimal.Zero,
		UpdatedAt:   now,
	}
	if existing != nil {
		updated.BudgetTotal = existing.BudgetTotal.Add(delta)
		updated.BudgetSpent = existing.BudgetSpent
	}

	entry := domain.BudgetHistoryEntry{
		AdCodeID:    adCodeID,
		Amount:      delta,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}

	return updated, entry, nil
}

// ApplySpentUpdate sets the spent amount of an ad code, optionally grossed up
// by TaxMultiplier. The previous spent value is replaced, not added to.
func ApplySpentUpdate(existing *domain.AdBudget, adCodeID int64, rawAmount float64, includeTax bool, now time.Time) (domain.AdBudget, error) {
	if !isFinite(rawAmount) || rawAmount < 0 {
		return domain.AdBudget{}, domain.NewValidationError("budget_spent", "must be zero or a positive number")
	}

	spent := decimal.NewFromFloat(rawAmount)
	if includeTax {
		spent = spent.Mul(TaxMultiplier).Round(2)
	}

	updated := domain.AdBudget{
		AdCodeID:    adCodeID,
		BudgetTotal: decimal.Zero,
		BudgetSpent: spent,
		UpdatedAt:   now,
	}
	if existing != nil {
		updated.BudgetTotal = existing.BudgetTotal
	}

	return updated, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
