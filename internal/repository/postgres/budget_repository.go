package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
)

type budgetRepository struct {
	db *DB
}

func NewBudgetRepository(db *DB) repository.BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) ListBudgets(ctx context.Context) (map[int64]domain.AdBudget, error) {
	var budgets []domain.AdBudget
	query := "SELECT ad_code_id, budget_total, budget_spent, updated_at FROM ad_budgets"
	if err := r.db.SelectContext(ctx, &budgets, query); err != nil {
		return nil, fmt.Errorf("error listing ad budgets: %w", err)
	}

	out := make(map[int64]domain.AdBudget, len(budgets))
	for _, b := range budgets {
		out[b.AdCodeID] = b
	}
	return out, nil
}

func (r *budgetRepository) Get(ctx context.Context, adCodeID int64) (*domain.AdBudget, error) {
	var b domain.AdBudget
	query := "SELECT ad_code_id, budget_total, budget_spent, updated_at FROM ad_budgets WHERE ad_code_id = $1"
	if err := r.db.GetContext(ctx, &b, query, adCodeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("error getting ad budget %d: %w", adCodeID, err)
	}
	return &b, nil
}

func (r *budgetRepository) ListHistory(ctx context.Context, adCodeID int64) ([]domain.BudgetHistoryEntry, error) {
	entries := make([]domain.BudgetHistoryEntry, 0)
	query := `
        SELECT id, ad_code_id, amount, description, created_at
        FROM ad_budget_history
        WHERE ad_code_id = $1
        ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &entries, query, adCodeID); err != nil {
		return nil, fmt.Errorf("error listing budget history %d: %w", adCodeID, err)
	}
	return entries, nil
}

func (r *budgetRepository) WithinTx(ctx context.Context, fn func(tx repository.BudgetTx) error) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(&budgetTx{tx: tx})
	})
}

type budgetTx struct {
	tx *sql.Tx
}

func (t *budgetTx) GetForUpdate(ctx context.Context, adCodeID int64) (*domain.AdBudget, error) {
	// Locking the ad code row serializes writers even before a budget row exists.
	var id int64
	if err := t.tx.QueryRowContext(ctx, "SELECT id FROM ad_codes WHERE id = $1 FOR UPDATE", adCodeID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("error locking ad code %d: %w", adCodeID, err)
	}

	var b domain.AdBudget
	err := t.tx.QueryRowContext(ctx,
		"SELECT ad_code_id, budget_total, budget_spent, updated_at FROM ad_budgets WHERE ad_code_id = $1 FOR UPDATE",
		adCodeID,
	).Scan(&b.AdCodeID, &b.BudgetTotal, &b.BudgetSpent, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading ad budget %d: %w", adCodeID, err)
	}
	return &b, nil
}

func (t *budgetTx) Save(ctx context.Context, b domain.AdBudget) error {
	query := `
        INSERT INTO ad_budgets (ad_code_id, budget_total, budget_spent, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (ad_code_id) DO UPDATE SET
            budget_total = EXCLUDED.budget_total,
            budget_spent = EXCLUDED.budget_spent,
            updated_at = EXCLUDED.updated_at`
	if _, err := t.tx.ExecContext(ctx, query, b.AdCodeID, b.BudgetTotal, b.BudgetSpent, b.UpdatedAt); err != nil {
		return fmt.Errorf("error saving ad budget %d: %w", b.AdCodeID, err)
	}
	return nil
}

func (t *budgetTx) AppendHistory(ctx context.Context, entry *domain.BudgetHistoryEntry) error {
	query := `
        INSERT INTO ad_budget_history (ad_code_id, amount, description, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	if err := t.tx.QueryRowContext(ctx, query, entry.AdCodeID, entry.Amount, entry.Description, entry.CreatedAt).Scan(&entry.ID); err != nil {
		return fmt.Errorf("error appending budget history %d: %w", entry.AdCodeID, err)
	}
	return nil
}
