package budget

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

var now = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyTopUp_NewBudget(t *testing.T) {
	t.Parallel()

	got, entry, err := ApplyTopUp(nil, 7, 1000, " init ", now)
	require.NoError(t, err)

	assert.Equal(t, int64(7), got.AdCodeID)
	assert.True(t, got.BudgetTotal.Equal(dec("1000")), got.BudgetTotal.String())
	assert.True(t, got.BudgetSpent.IsZero())
	assert.Equal(t, now, got.UpdatedAt)

	assert.Equal(t, int64(7), entry.AdCodeID)
	assert.True(t, entry.Amount.Equal(dec("1000")))
	assert.Equal(t, "init", entry.Description)
	assert.Equal(t, now, entry.CreatedAt)
}

func TestApplyTopUp_Accumulates(t *testing.T) {
	t.Parallel()

	existing := &domain.AdBudget{AdCodeID: 7, BudgetTotal: dec("1000"), BudgetSpent: dec("200")}

	got, entry, err := ApplyTopUp(existing, 7, 500, "extra", now)
	require.NoError(t, err)

	assert.True(t, got.BudgetTotal.Equal(dec("1500")), got.BudgetTotal.String())
	assert.True(t, got.BudgetSpent.Equal(dec("200")), "spent must not change on top-up")
	assert.True(t, entry.Amount.Equal(dec("500")))
	// input is not mutated
	assert.True(t, existing.BudgetTotal.Equal(dec("1000")))
}

func TestApplyTopUp_InvalidAmount(t *testing.T) {
	t.Parallel()

	for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		_, _, err := ApplyTopUp(nil, 1, amount, "", now)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), "amount %v", amount)
		assert.Equal(t, "amount", verr.Field)
	}
}

func TestApplySpentUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		existing   *domain.AdBudget
		raw        float64
		includeTax bool
		wantTotal  string
		wantSpent  string
	}{
		{
			name:      "overwrites previous spent",
			existing:  &domain.AdBudget{BudgetTotal: dec("1000"), BudgetSpent: dec("200")},
			raw:       300,
			wantTotal: "1000",
			wantSpent: "300",
		},
		{
			name:       "adds eleven percent tax",
			existing:   &domain.AdBudget{BudgetTotal: dec("1000"), BudgetSpent: decimal.Zero},
			raw:        1000,
			includeTax: true,
			wantTotal:  "1000",
			wantSpent:  "1110",
		},
		{
			name:      "no existing budget",
			raw:       250,
			wantTotal: "0",
			wantSpent: "250",
		},
		{
			name:      "zero is allowed",
			existing:  &domain.AdBudget{BudgetTotal: dec("1000"), BudgetSpent: dec("900")},
			raw:       0,
			wantTotal: "1000",
			wantSpent: "0",
		},
		{
			name:       "tax rounds to cents",
			raw:        123.45,
			includeTax: true,
			wantTotal:  "0",
			wantSpent:  "137.03",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ApplySpentUpdate(tt.existing, 3, tt.raw, tt.includeTax, now)
			require.NoError(t, err)
			assert.Equal(t, int64(3), got.AdCodeID)
			assert.True(t, got.BudgetTotal.Equal(dec(tt.wantTotal)), "total %s", got.BudgetTotal)
			assert.True(t, got.BudgetSpent.Equal(dec(tt.wantSpent)), "spent %s", got.BudgetSpent)
		})
	}
}

func TestApplySpentUpdate_RepeatedIsNotCumulative(t *testing.T) {
	t.Parallel()

	b := &domain.AdBudget{BudgetTotal: dec("1000")}
	first, err := ApplySpentUpdate(b, 1, 300, false, now)
	require.NoError(t, err)
	second, err := ApplySpentUpdate(&first, 1, 300, false, now)
	require.NoError(t, err)

	assert.True(t, second.BudgetSpent.Equal(dec("300")))
}

func TestApplySpentUpdate_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []float64{-1, math.NaN(), math.Inf(-1)} {
		_, err := ApplySpentUpdate(nil, 1, raw, false, now)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), "raw %v", raw)
		assert.Equal(t, "budget_spent", verr.Field)
	}
}
