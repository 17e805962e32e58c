package report

import (
	"github.com/shopspring/decimal"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

// ComputePeriodMetrics summarizes the records of one window. Budget and spend
// only include ad codes that have at least one record in the window.
func ComputePeriodMetrics(records []domain.LeadRecord, statuses []domain.LeadStatus, spendByAdCode map[int64]domain.AdBudget) domain.PeriodMetrics {
	converted := domain.ConvertedStatusIDs(statuses)
	metrics := domain.PeriodMetrics{TotalProspects: len(records)}

	active := make(map[int64]struct{})
	for _, rec := range records {
		if _, ok := converted[rec.StatusID]; ok {
			metrics.TotalLeads++
		}
		if rec.AdCodeID != 0 {
			active[rec.AdCodeID] = struct{}{}
		}
	}

	total, spent := decimal.Zero, decimal.Zero
	for id := range active {
		budget, ok := spendByAdCode[id]
		if !ok {
			continue
		}
		total = total.Add(budget.BudgetTotal)
		spent = spent.Add(budget.BudgetSpent)
	}

	metrics.TotalBudget = total
	metrics.TotalBudgetSpent = spent
	metrics.RemainingBudget = total.Sub(spent)
	metrics.CostPerLead = costPerLead(spent, metrics.TotalLeads)

	return metrics
}

// BudgetBaseline sums budget and spend across every known ad code, whether or
// not it had activity. Dashboards show this next to the windowed figures.
func BudgetBaseline(spendByAdCode map[int64]domain.AdBudget) domain.BudgetTotals {
	total, spent := decimal.Zero, decimal.Zero
	for _, b := range spendByAdCode {
		total = total.Add(b.BudgetTotal)
		spent = spent.Add(b.BudgetSpent)
	}
	return domain.BudgetTotals{Total: total, Spent: spent, Remaining: total.Sub(spent)}
}

// PercentChange returns the relative change from previous to current in
// percent. A zero baseline yields 0 when nothing changed and +/-100 otherwise.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		switch {
		case current == 0:
			return 0
		case current > 0:
			return 100
		default:
			return -100
		}
	}
	return (current - previous) / previous * 100
}

// ComparePeriods pairs two windows' metrics with the percent change of each field.
func ComparePeriods(current, previous domain.PeriodMetrics) domain.PeriodComparison {
	return domain.PeriodComparison{
		Current:  current,
		Previous: previous,
		Change: domain.PeriodDelta{
			TotalProspects:   PercentChange(float64(current.TotalProspects), float64(previous.TotalProspects)),
			TotalLeads:       PercentChange(float64(current.TotalLeads), float64(previous.TotalLeads)),
			TotalBudgetSpent: decimalChange(current.TotalBudgetSpent, previous.TotalBudgetSpent),
			TotalBudget:      decimalChange(current.TotalBudget, previous.TotalBudget),
			RemainingBudget:  decimalChange(current.RemainingBudget, previous.RemainingBudget),
			CostPerLead:      decimalChange(current.CostPerLead, previous.CostPerLead),
		},
	}
}

func decimalChange(current, previous decimal.Decimal) float64 {
	return PercentChange(current.InexactFloat64(), previous.InexactFloat64())
}

func costPerLead(spent decimal.Decimal, leads int) decimal.Decimal {
	if leads == 0 {
		return decimal.Zero
	}
	return spent.Div(decimal.NewFromInt(int64(leads))).Round(2)
}
