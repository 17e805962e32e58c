package report

import (
	"sort"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

// StatusFunnel counts records per status. Every known status is listed in ID
// order, including empty ones; records with an unknown status are grouped last.
func StatusFunnel(records []domain.LeadRecord, statuses []domain.LeadStatus) []domain.StatusCount {
	ordered := make([]domain.LeadStatus, len(statuses))
	copy(ordered, statuses)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	counts := make(map[int64]int, len(ordered))
	for _, rec := range records {
		counts[rec.StatusID]++
	}

	out := make([]domain.StatusCount, 0, len(ordered)+1)
	known := 0
	for _, s := range ordered {
		n := counts[s.ID]
		known += n
		out = append(out, domain.StatusCount{
			StatusID:     s.ID,
			Label:        s.Label,
			Kind:         s.Kind,
			Count:        n,
			SharePercent: percentOf(n, len(records)),
		})
	}

	if unknown := len(records) - known; unknown > 0 {
		out = append(out, domain.StatusCount{
			Label:        domain.UnknownDimensionValue,
			Count:        unknown,
			SharePercent: percentOf(unknown, len(records)),
		})
	}

	return out
}

// AdCodePerformance builds the ads table: one row per ad code that produced at
// least one prospect in records. Rows are ordered by prospects, then code.
func AdCodePerformance(records []domain.LeadRecord, statuses []domain.LeadStatus, spendByAdCode map[int64]domain.AdBudget) []domain.AdCodeRow {
	converted := domain.ConvertedStatusIDs(statuses)
	index := make(map[int64]int)
	rows := make([]domain.AdCodeRow, 0)

	for _, rec := range records {
		if rec.AdCodeID == 0 {
			continue
		}
		i, ok := index[rec.AdCodeID]
		if !ok {
			i = len(rows)
			index[rec.AdCodeID] = i
			rows = append(rows, domain.AdCodeRow{
				AdCodeID: rec.AdCodeID,
				AdCode:   rec.Dimensions.Value(domain.DimensionAdCode),
			})
		}
		rows[i].Prospects++
		if _, ok := converted[rec.StatusID]; ok {
			rows[i].Leads++
		}
	}

	for i := range rows {
		row := &rows[i]
		row.LeadRatePercent = percentOf(row.Leads, row.Prospects)
		budget := spendByAdCode[row.AdCodeID]
		row.BudgetTotal = budget.BudgetTotal
		row.BudgetSpent = budget.BudgetSpent
		row.BudgetRemaining = budget.Remaining()
		row.CostPerLead = costPerLead(budget.BudgetSpent, row.Leads)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Prospects != rows[j].Prospects {
			return rows[i].Prospects > rows[j].Prospects
		}
		return rows[i].AdCode < rows[j].AdCode
	})

	return rows
}

// DailyTrend returns one point per day in days, zero-filled. Records are keyed
// by their calendar date, so no timezone conversion is applied.
func DailyTrend(records []domain.LeadRecord, statuses []domain.LeadStatus, days []time.Time) []domain.TrendPoint {
	converted := domain.ConvertedStatusIDs(statuses)

	points := make([]domain.TrendPoint, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		key := d.Format(dayKeyLayout)
		points[i] = domain.TrendPoint{Date: key}
		index[key] = i
	}

	for _, rec := range records {
		i, ok := index[rec.CreatedDate.Format(dayKeyLayout)]
		if !ok {
			continue
		}
		points[i].Prospects++
		if _, ok := converted[rec.StatusID]; ok {
			points[i].Leads++
		}
	}

	return points
}

const dayKeyLayout = "2006-01-02"
