package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/assistidads/assist-lead-hub-sub000/internal/budget"
	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/idempotency"
	"github.com/assistidads/assist-lead-hub-sub000/internal/metrics"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	opTopUp       = "top_up"
	opSpentUpdate = "spent_update"
)

type BudgetService struct {
	budgets repository.BudgetRepository
	refs    repository.ReferenceRepository
	guard   idempotency.Guard
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewBudgetService(budgets repository.BudgetRepository, refs repository.ReferenceRepository, guard idempotency.Guard, m *metrics.Metrics) *BudgetService {
	if guard == nil {
		guard = idempotency.NewNoopGuard()
	}
	return &BudgetService{budgets: budgets, refs: refs, guard: guard, metrics: m, now: time.Now}
}

type TopUpRequest struct {
	AdCodeID       int64   `json:"ad_code_id"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
	IdempotencyKey string  `json:"-"`
}

type SpentUpdateRequest struct {
	AdCodeID   int64   `json:"ad_code_id"`
	Amount     float64 `json:"amount"`
	IncludeTax bool    `json:"include_tax"`
}

type TopUpResult struct {
	Budget domain.BudgetView         `json:"budget"`
	Entry  domain.BudgetHistoryEntry `json:"entry"`
}

func newBudgetView(b domain.AdBudget) domain.BudgetView {
	return domain.BudgetView{AdBudget: b, BudgetRemaining: b.Remaining()}
}

// Get returns the budget of an ad code. A code that was never topped up
// reports zero for every amount.
func (s *BudgetService) Get(ctx context.Context, adCodeID int64) (*domain.BudgetView, error) {
	b, err := s.budgets.Get(ctx, adCodeID)
	if err == nil {
		view := newBudgetView(*b)
		return &view, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := s.refs.Get(ctx, domain.ReferenceAdCodes, adCodeID); err != nil {
		return nil, err
	}
	view := newBudgetView(domain.AdBudget{AdCodeID: adCodeID, BudgetTotal: decimal.Zero, BudgetSpent: decimal.Zero})
	return &view, nil
}

func (s *BudgetService) History(ctx context.Context, adCodeID int64) ([]domain.BudgetHistoryEntry, error) {
	if _, err := s.refs.Get(ctx, domain.ReferenceAdCodes, adCodeID); err != nil {
		return nil, err
	}
	return s.budgets.ListHistory(ctx, adCodeID)
}

// TopUp adds to the budget total of an ad code and records a history entry in
// the same transaction. A request carrying an idempotency key that was already
// used within the guard TTL is rejected with ErrDuplicateRequest.
func (s *BudgetService) TopUp(ctx context.Context, session auth.Session, req TopUpRequest) (*TopUpResult, error) {
	if !session.CanManageBudgets() {
		s.metrics.BudgetOperation(opTopUp, "forbidden")
		return nil, domain.ErrForbidden
	}

	scope := fmt.Sprintf("%s:%d", opTopUp, req.AdCodeID)
	key := strings.TrimSpace(req.IdempotencyKey)
	claimed := false
	if key != "" {
		ok, err := s.guard.Claim(ctx, scope, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("scope", scope).Msg("budget: idempotency claim failed, continuing without guard")
		case !ok:
			s.metrics.BudgetOperation(opTopUp, "duplicate")
			return nil, domain.ErrDuplicateRequest
		default:
			claimed = true
		}
	}

	var result TopUpResult
	err := s.budgets.WithinTx(ctx, func(tx repository.BudgetTx) error {
		existing, err := tx.GetForUpdate(ctx, req.AdCodeID)
		if err != nil {
			return err
		}

		updated, entry, err := budget.ApplyTopUp(existing, req.AdCodeID, req.Amount, req.Description, s.now())
		if err != nil {
			return err
		}
		if err := tx.Save(ctx, updated); err != nil {
			return err
		}
		if err := tx.AppendHistory(ctx, &entry); err != nil {
			return err
		}

		result = TopUpResult{Budget: newBudgetView(updated), Entry: entry}
		return nil
	})
	if err != nil {
		if claimed {
			if relErr := s.guard.Release(ctx, scope, key); relErr != nil {
				log.Warn().Err(relErr).Str("scope", scope).Msg("budget: idempotency release failed")
			}
		}
		s.metrics.BudgetOperation(opTopUp, resultLabel(err))
		return nil, err
	}

	s.metrics.BudgetOperation(opTopUp, "ok")
	log.Info().
		Int64("ad_code_id", req.AdCodeID).
		Str("amount", result.Entry.Amount.String()).
		Str("budget_total", result.Budget.BudgetTotal.String()).
		Str("user_id", session.UserID).
		Msg("budget: topped up")
	return &result, nil
}

// UpdateSpent overwrites the spent amount of an ad code.
func (s *BudgetService) UpdateSpent(ctx context.Context, session auth.Session, req SpentUpdateRequest) (*domain.BudgetView, error) {
	if !session.CanManageBudgets() {
		s.metrics.BudgetOperation(opSpentUpdate, "forbidden")
		return nil, domain.ErrForbidden
	}

	var view domain.BudgetView
	err := s.budgets.WithinTx(ctx, func(tx repository.BudgetTx) error {
		existing, err := tx.GetForUpdate(ctx, req.AdCodeID)
		if err != nil {
			return err
		}

		updated, err := budget.ApplySpentUpdate(existing, req.AdCodeID, req.Amount, req.IncludeTax, s.now())
		if err != nil {
			return err
		}
		if err := tx.Save(ctx, updated); err != nil {
			return err
		}

		view = newBudgetView(updated)
		return nil
	})
	if err != nil {
		s.metrics.BudgetOperation(opSpentUpdate, resultLabel(err))
		return nil, err
	}

	s.metrics.BudgetOperation(opSpentUpdate, "ok")
	log.Info().
		Int64("ad_code_id", req.AdCodeID).
		Str("budget_spent", view.BudgetSpent.String()).
		Bool("include_tax", req.IncludeTax).
		Str("user_id", session.UserID).
		Msg("budget: spent updated")
	return &view, nil
}

func resultLabel(err error) string {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
