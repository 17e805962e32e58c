package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
	"github.com/jmoiron/sqlx"
)

type referenceTable struct {
	table   string
	nameCol string
	hasKind bool
}

var referenceTables = map[domain.ReferenceKind]referenceTable{
	domain.ReferenceStatuses:         {table: "lead_statuses", nameCol: "label", hasKind: true},
	domain.ReferenceSources:          {table: "lead_sources", nameCol: "name"},
	domain.ReferenceAdCodes:          {table: "ad_codes", nameCol: "name"},
	domain.ReferenceServices:         {table: "services", nameCol: "name"},
	domain.ReferenceFacilityTypes:    {table: "facility_types", nameCol: "name"},
	domain.ReferenceRejectionReasons: {table: "rejection_reasons", nameCol: "name"},
	domain.ReferenceAgents:           {table: "agents", nameCol: "name"},
}

func (t referenceTable) relation() relation {
	return relation{
		columns: map[string]string{
			"id":   "id",
			"name": t.nameCol,
		},
		defaultSort: "id ASC",
	}
}

func (t referenceTable) selectList() string {
	kind := "''"
	if t.hasKind {
		kind = "kind"
	}
	return fmt.Sprintf("id, %s AS name, %s AS kind, created_at", t.nameCol, kind)
}

type referenceRepository struct {
	db *sqlx.DB
}

func NewReferenceRepository(db *sqlx.DB) repository.ReferenceRepository {
	return &referenceRepository{db: db}
}

func lookupTable(kind domain.ReferenceKind) (referenceTable, error) {
	t, ok := referenceTables[kind]
	if !ok {
		return referenceTable{}, domain.NewValidationError("kind", fmt.Sprintf("unknown reference kind %q", kind))
	}
	return t, nil
}

func (r *referenceRepository) ListStatuses(ctx context.Context) ([]domain.LeadStatus, error) {
	var statuses []domain.LeadStatus
	if err := r.db.SelectContext(ctx, &statuses, "SELECT id, label, kind FROM lead_statuses ORDER BY id"); err != nil {
		return nil, fmt.Errorf("error listing lead statuses: %w", err)
	}
	return domain.NormalizeStatuses(statuses), nil
}

func (r *referenceRepository) List(ctx context.Context, kind domain.ReferenceKind, q domain.ListQuery) ([]domain.ReferenceItem, int, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return nil, 0, err
	}
	rel := t.relation()

	where, args, err := buildFilterClause(rel, q.Filters, 1)
	if err != nil {
		return nil, 0, err
	}
	order, err := buildOrderClause(rel, q.OrderBy, q.Descending)
	if err != nil {
		return nil, 0, err
	}
	limit, limitArgs, err := buildRangeClause(q, len(args)+1)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", t.table, where), args...); err != nil {
		return nil, 0, fmt.Errorf("error counting %s: %w", kind, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s%s%s", t.selectList(), t.table, where, order, limit)
	items := make([]domain.ReferenceItem, 0)
	if err := r.db.SelectContext(ctx, &items, query, append(args, limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("error listing %s: %w", kind, err)
	}
	return items, total, nil
}

func (r *referenceRepository) Get(ctx context.Context, kind domain.ReferenceKind, id int64) (*domain.ReferenceItem, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	var item domain.ReferenceItem
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.selectList(), t.table)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("error getting %s %d: %w", kind, id, err)
	}
	return &item, nil
}

func (r *referenceRepository) Create(ctx context.Context, kind domain.ReferenceKind, name string, statusKind domain.StatusKind) (*domain.ReferenceItem, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	var (
		query string
		args  []interface{}
	)
	if t.hasKind {
		query = fmt.Sprintf("INSERT INTO %s (%s, kind) VALUES ($1, $2) RETURNING %s", t.table, t.nameCol, t.selectList())
		args = []interface{}{name, string(statusKind)}
	} else {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1) RETURNING %s", t.table, t.nameCol, t.selectList())
		args = []interface{}{name}
	}

	var item domain.ReferenceItem
	if err := r.db.GetContext(ctx, &item, query, args...); err != nil {
		return nil, translateWriteError(string(kind), err)
	}
	return &item, nil
}

func (r *referenceRepository) Update(ctx context.Context, kind domain.ReferenceKind, id int64, name string, statusKind domain.StatusKind) (*domain.ReferenceItem, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return nil, err
	}

	var (
		query string
		args  []interface{}
	)
	if t.hasKind {
		query = fmt.Sprintf("UPDATE %s SET %s = $1, kind = $2 WHERE id = $3 RETURNING %s", t.table, t.nameCol, t.selectList())
		args = []interface{}{name, string(statusKind), id}
	} else {
		query = fmt.Sprintf("UPDATE %s SET %s = $1 WHERE id = $2 RETURNING %s", t.table, t.nameCol, t.selectList())
		args = []interface{}{name, id}
	}

	var item domain.ReferenceItem
	if err := r.db.GetContext(ctx, &item, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, translateWriteError(string(kind), err)
	}
	return &item, nil
}

func (r *referenceRepository) Delete(ctx context.Context, kind domain.ReferenceKind, id int64) error {
	t, err := lookupTable(kind)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.table), id)
	if err != nil {
		return translateDeleteError(string(kind), id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting %s %d: %w", kind, id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *referenceRepository) SetStatusKind(ctx context.Context, id int64, kind domain.StatusKind) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE lead_statuses SET kind = $1 WHERE id = $2", string(kind), id); err != nil {
		return fmt.Errorf("error updating status kind %d: %w", id, err)
	}
	return nil
}
