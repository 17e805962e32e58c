// Package report holds the pure aggregation functions behind the lead and ads
// dashboards. Nothing here performs I/O; callers fetch the inputs first.
package report

import (
	"sort"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

// GroupByDimension buckets records by the given dimension and computes the
// conversion rate and share of total per bucket. Rows keep first-seen order.
func GroupByDimension(records []domain.LeadRecord, statuses []domain.LeadStatus, key domain.Dimension) []domain.AggregateRow {
	rows := make([]domain.AggregateRow, 0)
	if len(records) == 0 {
		return rows
	}

	converted := domain.ConvertedStatusIDs(statuses)
	index := make(map[string]int)

	for _, rec := range records {
		value := rec.Dimensions.Value(key)
		i, ok := index[value]
		if !ok {
			i = len(rows)
			index[value] = i
			rows = append(rows, domain.AggregateRow{DimensionValue: value})
		}

		rows[i].TotalCount++
		if _, ok := converted[rec.StatusID]; ok {
			rows[i].ConvertedCount++
		}
	}

	total := len(records)
	for i := range rows {
		rows[i].ConversionRatePercent = percentOf(rows[i].ConvertedCount, rows[i].TotalCount)
		rows[i].ShareOfTotalPercent = percentOf(rows[i].TotalCount, total)
	}

	return rows
}

// SortByConverted returns a copy of rows ordered by converted count, then
// total count, then value.
func SortByConverted(rows []domain.AggregateRow) []domain.AggregateRow {
	sorted := make([]domain.AggregateRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ConvertedCount != b.ConvertedCount {
			return a.ConvertedCount > b.ConvertedCount
		}
		if a.TotalCount != b.TotalCount {
			return a.TotalCount > b.TotalCount
		}
		return a.DimensionValue < b.DimensionValue
	})

	return sorted
}

// TopN returns at most n rows. n <= 0 keeps every row.
func TopN(rows []domain.AggregateRow, n int) []domain.AggregateRow {
	if n <= 0 || n > len(rows) {
		n = len(rows)
	}
	out := make([]domain.AggregateRow, n)
	copy(out, rows[:n])
	return out
}

// TopCities groups by city, sorts by conversions and keeps the first n.
func TopCities(records []domain.LeadRecord, statuses []domain.LeadStatus, n int) []domain.AggregateRow {
	return TopN(SortByConverted(GroupByDimension(records, statuses, domain.DimensionCity)), n)
}

// AllBreakdowns groups records by every dimension.
func AllBreakdowns(records []domain.LeadRecord, statuses []domain.LeadStatus) map[domain.Dimension][]domain.AggregateRow {
	out := make(map[domain.Dimension][]domain.AggregateRow, len(domain.AllDimensions()))
	for _, d := range domain.AllDimensions() {
		out[d] = GroupByDimension(records, statuses, d)
	}
	return out
}

// percentOf is unrounded; presentation code rounds.
func percentOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}
