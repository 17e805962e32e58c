package service

import (
	"context"
	"errors"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/metrics"
	"github.com/assistidads/assist-lead-hub-sub000/internal/period"
	"github.com/assistidads/assist-lead-hub-sub000/internal/report"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultTopCities = 5

// ReportRequest carries the raw period parameters of a report call.
type ReportRequest struct {
	Granularity string
	Date        string
	From        string
	To          string
}

// ReportOptions tunes a ReportService. Zero values pick sensible defaults.
type ReportOptions struct {
	Location  *time.Location
	TopCities int
	Metrics   *metrics.Metrics
	Clock     func() time.Time
}

type ReportService struct {
	leads     repository.LeadRepository
	refs      repository.ReferenceRepository
	budgets   repository.BudgetRepository
	loc       *time.Location
	topCities int
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewReportService(leads repository.LeadRepository, refs repository.ReferenceRepository, budgets repository.BudgetRepository, opts ReportOptions) *ReportService {
	if opts.Location == nil {
		opts.Location = period.LoadLocation("")
	}
	if opts.TopCities <= 0 {
		opts.TopCities = defaultTopCities
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &ReportService{
		leads:     leads,
		refs:      refs,
		budgets:   budgets,
		loc:       opts.Location,
		topCities: opts.TopCities,
		metrics:   opts.Metrics,
		now:       opts.Clock,
	}
}

// reportInputs is everything a report aggregates over. Each field is written
// by exactly one fetch goroutine.
type reportInputs struct {
	current  []domain.LeadRecord
	previous []domain.LeadRecord
	statuses []domain.LeadStatus
	budgets  map[int64]domain.AdBudget
}

type fetchPlan struct {
	previous bool
	budgets  bool
}

// fetch loads the report inputs concurrently. The first failure cancels the
// remaining fetches and is returned as an UpstreamFetchError.
func (s *ReportService) fetch(ctx context.Context, name string, session auth.Session, w period.Window, plan fetchPlan) (*reportInputs, error) {
	in := &reportInputs{budgets: map[int64]domain.AdBudget{}}
	scope := session.LeadScope()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := s.leads.ListRecords(gctx, w.Start, w.End, scope)
		if err != nil {
			return &domain.UpstreamFetchError{Resource: "current_records", Err: err}
		}
		in.current = records
		return nil
	})

	g.Go(func() error {
		statuses, err := s.refs.ListStatuses(gctx)
		if err != nil {
			return &domain.UpstreamFetchError{Resource: "statuses", Err: err}
		}
		in.statuses = statuses
		return nil
	})

	if plan.previous {
		prev := w.Previous()
		g.Go(func() error {
			records, err := s.leads.ListRecords(gctx, prev.Start, prev.End, scope)
			if err != nil {
				return &domain.UpstreamFetchError{Resource: "previous_records", Err: err}
			}
			in.previous = records
			return nil
		})
	}

	if plan.budgets {
		g.Go(func() error {
			budgets, err := s.budgets.ListBudgets(gctx)
			if err != nil {
				return &domain.UpstreamFetchError{Resource: "budgets", Err: err}
			}
			in.budgets = budgets
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var fetchErr *domain.UpstreamFetchError
		if errors.As(err, &fetchErr) {
			s.metrics.ReportFetchFailed(name, fetchErr.Resource)
		}
		log.Warn().Err(err).Str("report", name).Str("user_id", session.UserID).Msg("report: fetch failed, skipping aggregation")
		return nil, err
	}

	return in, nil
}

func (s *ReportService) window(req ReportRequest) (period.Window, error) {
	return period.Parse(req.Granularity, req.Date, req.From, req.To, s.now(), s.loc)
}

// LeadReport builds the lead dashboard: the period comparison, every
// per-dimension breakdown, top cities, the status funnel and the daily trend.
func (s *ReportService) LeadReport(ctx context.Context, session auth.Session, req ReportRequest) (*domain.LeadReport, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveReport("leads", time.Since(started)) }()

	w, err := s.window(req)
	if err != nil {
		return nil, err
	}

	in, err := s.fetch(ctx, "leads", session, w, fetchPlan{previous: true, budgets: true})
	if err != nil {
		return nil, err
	}

	current := report.ComputePeriodMetrics(in.current, in.statuses, in.budgets)
	previous := report.ComputePeriodMetrics(in.previous, in.statuses, in.budgets)

	return &domain.LeadReport{
		Window:       w.Report(),
		Comparison:   report.ComparePeriods(current, previous),
		Breakdowns:   report.AllBreakdowns(in.current, in.statuses),
		TopCities:    report.TopCities(in.current, in.statuses, s.topCities),
		StatusFunnel: report.StatusFunnel(in.current, in.statuses),
		Trend:        report.DailyTrend(in.current, in.statuses, w.Days()),
	}, nil
}

// Breakdown groups the window by one dimension. top > 0 sorts by conversions
// and truncates; otherwise rows keep first-seen order.
func (s *ReportService) Breakdown(ctx context.Context, session auth.Session, req ReportRequest, dimension string, top int) (*domain.BreakdownReport, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveReport("breakdown", time.Since(started)) }()

	dim, ok := domain.ParseDimension(dimension)
	if !ok {
		return nil, domain.NewValidationError("dimension", "unknown dimension")
	}

	w, err := s.window(req)
	if err != nil {
		return nil, err
	}

	in, err := s.fetch(ctx, "breakdown", session, w, fetchPlan{})
	if err != nil {
		return nil, err
	}

	rows := report.GroupByDimension(in.current, in.statuses, dim)
	if top > 0 {
		rows = report.TopN(report.SortByConverted(rows), top)
	}

	return &domain.BreakdownReport{Window: w.Report(), Dimension: dim, Rows: rows}, nil
}

// AdsReport builds the ads page: per-ad-code performance for the window, the
// period comparison, and the all-codes budget baseline.
func (s *ReportService) AdsReport(ctx context.Context, session auth.Session, req ReportRequest) (*domain.AdsReport, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveReport("ads", time.Since(started)) }()

	w, err := s.window(req)
	if err != nil {
		return nil, err
	}

	in, err := s.fetch(ctx, "ads", session, w, fetchPlan{previous: true, budgets: true})
	if err != nil {
		return nil, err
	}

	current := report.ComputePeriodMetrics(in.current, in.statuses, in.budgets)
	previous := report.ComputePeriodMetrics(in.previous, in.statuses, in.budgets)

	return &domain.AdsReport{
		Window:     w.Report(),
		Comparison: report.ComparePeriods(current, previous),
		AdCodes:    report.AdCodePerformance(in.current, in.statuses, in.budgets),
		Baseline:   report.BudgetBaseline(in.budgets),
	}, nil
}
