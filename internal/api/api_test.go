package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/idempotency"
	"github.com/assistidads/assist-lead-hub-sub000/internal/metrics"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLeads struct {
	repository.LeadRepository
	records    []domain.LeadRecord
	recordsErr error
}

func (s *stubLeads) ListRecords(ctx context.Context, start, end time.Time, agentID int64) ([]domain.LeadRecord, error) {
	if s.recordsErr != nil {
		return nil, s.recordsErr
	}
	var out []domain.LeadRecord
	for _, r := range s.records {
		if !r.CreatedDate.Before(start) && r.CreatedDate.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubLeads) Get(ctx context.Context, id int64) (*domain.Lead, error) {
	return nil, domain.ErrNotFound
}

type stubRefs struct {
	repository.ReferenceRepository
}

func (s *stubRefs) ListStatuses(ctx context.Context) ([]domain.LeadStatus, error) {
	return domain.NormalizeStatuses([]domain.LeadStatus{{ID: 1, Label: "Prospek"}, {ID: 2, Label: "Leads"}}), nil
}

func (s *stubRefs) Get(ctx context.Context, kind domain.ReferenceKind, id int64) (*domain.ReferenceItem, error) {
	if kind == domain.ReferenceAdCodes && id == 1 {
		return &domain.ReferenceItem{ID: 1, Name: "AD-1"}, nil
	}
	return nil, domain.ErrNotFound
}

type stubBudgets struct {
	budgets map[int64]domain.AdBudget
}

func (s *stubBudgets) ListBudgets(ctx context.Context) (map[int64]domain.AdBudget, error) {
	return s.budgets, nil
}

func (s *stubBudgets) Get(ctx context.Context, adCodeID int64) (*domain.AdBudget, error) {
	b, ok := s.budgets[adCodeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *stubBudgets) ListHistory(ctx context.Context, adCodeID int64) ([]domain.BudgetHistoryEntry, error) {
	return []domain.BudgetHistoryEntry{}, nil
}

func (s *stubBudgets) WithinTx(ctx context.Context, fn func(tx repository.BudgetTx) error) error {
	return fn(&stubBudgetTx{parent: s})
}

type stubBudgetTx struct {
	parent *stubBudgets
}

func (t *stubBudgetTx) GetForUpdate(ctx context.Context, adCodeID int64) (*domain.AdBudget, error) {
	if adCodeID != 1 {
		return nil, domain.ErrNotFound
	}
	b, ok := t.parent.budgets[adCodeID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (t *stubBudgetTx) Save(ctx context.Context, b domain.AdBudget) error {
	t.parent.budgets[b.AdCodeID] = b
	return nil
}

func (t *stubBudgetTx) AppendHistory(ctx context.Context, entry *domain.BudgetHistoryEntry) error {
	entry.ID = 1
	return nil
}

type guardFunc func(scope, key string) bool

func (g guardFunc) Claim(ctx context.Context, scope, key string) (bool, error) {
	return g(scope, key), nil
}

func (g guardFunc) Release(ctx context.Context, scope, key string) error { return nil }

func newTestRouter(t *testing.T, leads *stubLeads, guard idempotency.Guard) *gin.Engine {
	t.Helper()

	refs := &stubRefs{}
	budgets := &stubBudgets{budgets: map[int64]domain.AdBudget{
		1: {AdCodeID: 1, BudgetTotal: decimal.NewFromInt(1000), BudgetSpent: decimal.NewFromInt(250)},
	}}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	services := &Services{
		LeadService:      service.NewLeadService(leads, refs, time.UTC),
		ReferenceService: service.NewReferenceService(refs),
		ReportService: service.NewReportService(leads, refs, budgets, service.ReportOptions{
			Location: time.UTC,
			Metrics:  m,
			Clock:    func() time.Time { return time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC) },
		}),
		BudgetService: service.NewBudgetService(budgets, refs, guard, m),
	}
	return NewRouter(services, Options{AllowedOrigins: []string{"*"}, Metrics: m, Gatherer: reg})
}

func do(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var (
	adminHeaders = map[string]string{auth.HeaderUserID: "u1", auth.HeaderRole: "admin"}
	csHeaders    = map[string]string{auth.HeaderUserID: "u2", auth.HeaderRole: "cs", auth.HeaderAgentID: "7"}
)

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, &stubLeads{}, idempotency.NewNoopGuard())

	w := do(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = do(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "leadhub_http_request_duration_seconds")
}

func TestAPIRequiresSession(t *testing.T) {
	router := newTestRouter(t, &stubLeads{}, idempotency.NewNoopGuard())

	w := do(router, http.MethodGet, "/api/v1/reports/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodGet, "/api/v1/reports/leads", "", map[string]string{auth.HeaderUserID: "u2", auth.HeaderRole: "cs"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeadReportEndpoint(t *testing.T) {
	leads := &stubLeads{records: []domain.LeadRecord{
		{ID: 1, CreatedDate: time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC), StatusID: 2, AdCodeID: 1, Dimensions: domain.DimensionValues{City: "Jakarta"}},
		{ID: 2, CreatedDate: time.Date(2026, time.October, 3, 0, 0, 0, 0, time.UTC), StatusID: 1, Dimensions: domain.DimensionValues{City: "Jakarta"}},
	}}
	router := newTestRouter(t, leads, idempotency.NewNoopGuard())

	w := do(router, http.MethodGet, "/api/v1/reports/leads?period=month&date=2026-10", "", adminHeaders)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Comparison struct {
			Current struct {
				TotalProspects int `json:"total_prospects"`
				TotalLeads     int `json:"total_leads"`
			} `json:"current"`
		} `json:"comparison"`
		TopCities []domain.AggregateRow `json:"top_cities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Comparison.Current.TotalProspects)
	assert.Equal(t, 1, body.Comparison.Current.TotalLeads)
	require.Len(t, body.TopCities, 1)
	assert.Equal(t, 50.0, body.TopCities[0].ConversionRatePercent)
}

func TestReportEndpointErrors(t *testing.T) {
	router := newTestRouter(t, &stubLeads{recordsErr: errors.New("db down")}, idempotency.NewNoopGuard())

	w := do(router, http.MethodGet, "/api/v1/reports/ads", "", adminHeaders)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(router, http.MethodGet, "/api/v1/reports/leads?period=week", "", adminHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unsupported period \"week\"","field":"period"}`, w.Body.String())

	w = do(router, http.MethodGet, "/api/v1/reports/leads/breakdown?dimension=source&top=-1", "", adminHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgetEndpoints(t *testing.T) {
	seen := map[string]bool{}
	guard := guardFunc(func(scope, key string) bool {
		if seen[scope+key] {
			return false
		}
		seen[scope+key] = true
		return true
	})
	router := newTestRouter(t, &stubLeads{}, guard)

	w := do(router, http.MethodGet, "/api/v1/ads/1/budget", "", csHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"budget_remaining":"750"`)

	topUp := func(headers map[string]string) *httptest.ResponseRecorder {
		h := map[string]string{"Idempotency-Key": "abc"}
		for k, v := range headers {
			h[k] = v
		}
		return do(router, http.MethodPost, "/api/v1/ads/1/budget/top-up", `{"amount": 500, "description": "minggu 2"}`, h)
	}

	w = topUp(csHeaders)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = topUp(adminHeaders)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"budget_total":"1500"`)

	w = topUp(adminHeaders)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(router, http.MethodPut, "/api/v1/ads/1/budget/spent", `{"amount": 1000, "include_tax": true}`, adminHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"budget_spent":"1110"`)

	w = do(router, http.MethodPut, "/api/v1/ads/1/budget/spent", `{"amount": -1}`, adminHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"budget_spent"`)

	w = do(router, http.MethodPut, "/api/v1/ads/1/budget/spent", `{"include_tax": true}`, adminHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"amount"`)

	w = do(router, http.MethodGet, "/api/v1/ads/1/budget", "", adminHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"budget_spent":"1110"`, "a missing amount leaves spent untouched")

	w = do(router, http.MethodGet, "/api/v1/ads/9/budget", "", adminHeaders)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodGet, "/api/v1/ads/x/budget", "", adminHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProspectNotFound(t *testing.T) {
	router := newTestRouter(t, &stubLeads{}, idempotency.NewNoopGuard())

	w := do(router, http.MethodGet, "/api/v1/prospects/5", "", adminHeaders)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"https://a.example, https://b.example", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
