package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dimension is a lead attribute reports can be grouped by.
type Dimension string

const (
	DimensionSource        Dimension = "source"
	DimensionAdCode        Dimension = "ad_code"
	DimensionService       Dimension = "service"
	DimensionFacilityType  Dimension = "facility_type"
	DimensionCity          Dimension = "city"
	DimensionAssignedAgent Dimension = "assigned_agent"
)

// UnknownDimensionValue buckets records with no value for a dimension.
const UnknownDimensionValue = "Unknown"

var allDimensions = []Dimension{
	DimensionSource,
	DimensionAdCode,
	DimensionService,
	DimensionFacilityType,
	DimensionCity,
	DimensionAssignedAgent,
}

// AllDimensions lists every groupable dimension in display order.
func AllDimensions() []Dimension {
	out := make([]Dimension, len(allDimensions))
	copy(out, allDimensions)
	return out
}

// ParseDimension validates a dimension name from a query string.
func ParseDimension(s string) (Dimension, bool) {
	for _, d := range allDimensions {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// DimensionValues holds the resolved display value of each dimension for one lead.
type DimensionValues struct {
	Source        string `json:"source"`
	AdCode        string `json:"ad_code"`
	Service       string `json:"service"`
	FacilityType  string `json:"facility_type"`
	City          string `json:"city"`
	AssignedAgent string `json:"assigned_agent"`
}

// Value returns the value for d, or UnknownDimensionValue when it is blank.
func (v DimensionValues) Value(d Dimension) string {
	var raw string
	switch d {
	case DimensionSource:
		raw = v.Source
	case DimensionAdCode:
		raw = v.AdCode
	case DimensionService:
		raw = v.Service
	case DimensionFacilityType:
		raw = v.FacilityType
	case DimensionCity:
		raw = v.City
	case DimensionAssignedAgent:
		raw = v.AssignedAgent
	}
	if raw == "" {
		return UnknownDimensionValue
	}
	return raw
}

// LeadRecord is the read-only snapshot of a lead used for aggregation.
// AdCodeID is zero when the lead is not ad-attributed.
type LeadRecord struct {
	ID          int64           `json:"id"`
	CreatedDate time.Time       `json:"created_date"`
	StatusID    int64           `json:"status_id"`
	AdCodeID    int64           `json:"ad_code_id"`
	Dimensions  DimensionValues `json:"dimensions"`
}

// AggregateRow is one group of a per-dimension breakdown.
type AggregateRow struct {
	DimensionValue        string  `json:"dimension_value"`
	TotalCount            int     `json:"total_count"`
	ConvertedCount        int     `json:"converted_count"`
	ConversionRatePercent float64 `json:"conversion_rate_percent"`
	ShareOfTotalPercent   float64 `json:"share_of_total_percent"`
}

// PeriodMetrics summarizes one reporting window.
type PeriodMetrics struct {
	TotalProspects   int             `json:"total_prospects"`
	TotalLeads       int             `json:"total_leads"`
	TotalBudgetSpent decimal.Decimal `json:"total_budget_spent"`
	TotalBudget      decimal.Decimal `json:"total_budget"`
	RemainingBudget  decimal.Decimal `json:"remaining_budget"`
	CostPerLead      decimal.Decimal `json:"cost_per_lead"`
}

// PeriodDelta is the percent change of every PeriodMetrics field.
type PeriodDelta struct {
	TotalProspects   float64 `json:"total_prospects"`
	TotalLeads       float64 `json:"total_leads"`
	TotalBudgetSpent float64 `json:"total_budget_spent"`
	TotalBudget      float64 `json:"total_budget"`
	RemainingBudget  float64 `json:"remaining_budget"`
	CostPerLead      float64 `json:"cost_per_lead"`
}

// PeriodComparison pairs a window with the one before it.
type PeriodComparison struct {
	Current  PeriodMetrics `json:"current"`
	Previous PeriodMetrics `json:"previous"`
	Change   PeriodDelta   `json:"change_percent"`
}

// StatusCount is one step of the status funnel.
type StatusCount struct {
	StatusID     int64      `json:"status_id"`
	Label        string     `json:"label"`
	Kind         StatusKind `json:"kind"`
	Count        int        `json:"count"`
	SharePercent float64    `json:"share_percent"`
}

// AdCodeRow is one line of the ads performance table.
type AdCodeRow struct {
	AdCodeID        int64           `json:"ad_code_id"`
	AdCode          string          `json:"ad_code"`
	Prospects       int             `json:"prospects"`
	Leads           int             `json:"leads"`
	LeadRatePercent float64         `json:"lead_rate_percent"`
	BudgetTotal     decimal.Decimal `json:"budget_total"`
	BudgetSpent     decimal.Decimal `json:"budget_spent"`
	BudgetRemaining decimal.Decimal `json:"budget_remaining"`
	CostPerLead     decimal.Decimal `json:"cost_per_lead"`
}

// TrendPoint is the per-day volume used by the trend chart.
type TrendPoint struct {
	Date      string `json:"date"`
	Prospects int    `json:"prospects"`
	Leads     int    `json:"leads"`
}

// BudgetTotals is the all-codes budget baseline.
type BudgetTotals struct {
	Total     decimal.Decimal `json:"total"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ReportWindow describes the windows a report was built from.
type ReportWindow struct {
	Granularity   string    `json:"granularity"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	PreviousStart time.Time `json:"previous_start"`
	PreviousEnd   time.Time `json:"previous_end"`
}

// LeadReport aggregates all lead dashboard data
type LeadReport struct {
	Window       ReportWindow                 `json:"window"`
	Comparison   PeriodComparison             `json:"comparison"`
	Breakdowns   map[Dimension][]AggregateRow `json:"breakdowns"`
	TopCities    []AggregateRow               `json:"top_cities"`
	StatusFunnel []StatusCount                `json:"status_funnel"`
	Trend        []TrendPoint                 `json:"trend"`
}

// BreakdownReport is a single-dimension breakdown.
type BreakdownReport struct {
	Window    ReportWindow   `json:"window"`
	Dimension Dimension      `json:"dimension"`
	Rows      []AggregateRow `json:"rows"`
}

// AdsReport aggregates the ads performance page.
type AdsReport struct {
	Window     ReportWindow     `json:"window"`
	Comparison PeriodComparison `json:"comparison"`
	AdCodes    []AdCodeRow      `json:"ad_codes"`
	Baseline   BudgetTotals     `json:"baseline"`
}
