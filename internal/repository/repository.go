package repository

import (
	"context"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

// LeadRepository reads and writes prospects. agentID restricts results to
// leads assigned to that agent; 0 means unrestricted.
type LeadRepository interface {
	ListRecords(ctx context.Context, start, end time.Time, agentID int64) ([]domain.LeadRecord, error)
	List(ctx context.Context, q domain.ListQuery, agentID int64) ([]domain.Lead, int, error)
	Get(ctx context.Context, id int64) (*domain.Lead, error)
	Create(ctx context.Context, lead *domain.Lead) error
	Update(ctx context.Context, lead *domain.Lead) error
	Delete(ctx context.Context, id int64) error
}

// ReferenceRepository manages the master-data tables. statusKind is only
// stored for ReferenceStatuses.
type ReferenceRepository interface {
	ListStatuses(ctx context.Context) ([]domain.LeadStatus, error)
	List(ctx context.Context, kind domain.ReferenceKind, q domain.ListQuery) ([]domain.ReferenceItem, int, error)
	Get(ctx context.Context, kind domain.ReferenceKind, id int64) (*domain.ReferenceItem, error)
	Create(ctx context.Context, kind domain.ReferenceKind, name string, statusKind domain.StatusKind) (*domain.ReferenceItem, error)
	Update(ctx context.Context, kind domain.ReferenceKind, id int64, name string, statusKind domain.StatusKind) (*domain.ReferenceItem, error)
	Delete(ctx context.Context, kind domain.ReferenceKind, id int64) error
	SetStatusKind(ctx context.Context, id int64, kind domain.StatusKind) error
}

// BudgetRepository stores ad budgets and their top-up history.
type BudgetRepository interface {
	ListBudgets(ctx context.Context) (map[int64]domain.AdBudget, error)
	Get(ctx context.Context, adCodeID int64) (*domain.AdBudget, error)
	ListHistory(ctx context.Context, adCodeID int64) ([]domain.BudgetHistoryEntry, error)
	WithinTx(ctx context.Context, fn func(tx BudgetTx) error) error
}

// BudgetTx is the transactional view used by budget mutations.
type BudgetTx interface {
	// GetForUpdate locks the ad code and returns its budget, or nil when the
	// code has none yet. It returns domain.ErrNotFound for unknown codes.
	GetForUpdate(ctx context.Context, adCodeID int64) (*domain.AdBudget, error)
	Save(ctx context.Context, b domain.AdBudget) error
	AppendHistory(ctx context.Context, entry *domain.BudgetHistoryEntry) error
}
