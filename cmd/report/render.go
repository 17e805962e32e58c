package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/period"
	"github.com/assistidads/assist-lead-hub-sub000/internal/report"
)

// render prints both reports as aligned tables. Window ends are exclusive, so
// the printed range stops one day earlier.
func render(out io.Writer, leads *domain.LeadReport, ads *domain.AdsReport, top int) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	win := leads.Window
	fmt.Fprintf(w, "Period\t%s .. %s\t(previous %s .. %s)\n",
		period.FormatDate(win.Start), period.FormatDate(win.End.AddDate(0, 0, -1)),
		period.FormatDate(win.PreviousStart), period.FormatDate(win.PreviousEnd.AddDate(0, 0, -1)))
	fmt.Fprintln(w)

	cur, prev, change := leads.Comparison.Current, leads.Comparison.Previous, leads.Comparison.Change
	fmt.Fprintln(w, "Metric\tCurrent\tPrevious\tChange")
	fmt.Fprintf(w, "Prospek\t%d\t%d\t%s\n", cur.TotalProspects, prev.TotalProspects, report.FormatPercent(change.TotalProspects))
	fmt.Fprintf(w, "Leads\t%d\t%d\t%s\n", cur.TotalLeads, prev.TotalLeads, report.FormatPercent(change.TotalLeads))
	fmt.Fprintf(w, "Budget\t%s\t%s\t%s\n", report.FormatRupiah(cur.TotalBudget), report.FormatRupiah(prev.TotalBudget), report.FormatPercent(change.TotalBudget))
	fmt.Fprintf(w, "Spent\t%s\t%s\t%s\n", report.FormatRupiah(cur.TotalBudgetSpent), report.FormatRupiah(prev.TotalBudgetSpent), report.FormatPercent(change.TotalBudgetSpent))
	fmt.Fprintf(w, "Sisa Budget\t%s\t%s\t%s\n", report.FormatRupiah(cur.RemainingBudget), report.FormatRupiah(prev.RemainingBudget), report.FormatPercent(change.RemainingBudget))
	fmt.Fprintf(w, "CPL\t%s\t%s\t%s\n", report.FormatRupiah(cur.CostPerLead), report.FormatRupiah(prev.CostPerLead), report.FormatPercent(change.CostPerLead))
	fmt.Fprintln(w)

	for _, dim := range domain.AllDimensions() {
		rows := report.TopN(report.SortByConverted(leads.Breakdowns[dim]), top)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\tTotal\tLeads\tCTR Leads\tShare\n", dim)
		for _, row := range rows {
			fmt.Fprintf(w, "  %s\t%d\t%d\t%s\t%s\n", row.DimensionValue, row.TotalCount, row.ConvertedCount,
				report.FormatPercent(row.ConversionRatePercent), report.FormatPercent(row.ShareOfTotalPercent))
		}
		fmt.Fprintln(w)
	}

	if len(ads.AdCodes) > 0 {
		fmt.Fprintln(w, "Kode Ads\tProspek\tLeads\tCTR Leads\tBudget\tSpent\tSisa\tCPL")
		for _, row := range ads.AdCodes {
			fmt.Fprintf(w, "  %s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n", row.AdCode, row.Prospects, row.Leads,
				report.FormatPercent(row.LeadRatePercent), report.FormatRupiah(row.BudgetTotal),
				report.FormatRupiah(row.BudgetSpent), report.FormatRupiah(row.BudgetRemaining), report.FormatRupiah(row.CostPerLead))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "All ad codes\tBudget %s\tSpent %s\tSisa %s\n",
		report.FormatRupiah(ads.Baseline.Total), report.FormatRupiah(ads.Baseline.Spent), report.FormatRupiah(ads.Baseline.Remaining))

	return w.Flush()
}
