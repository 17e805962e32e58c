package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

// SeedReferences inserts master-data rows of one kind in a single
// transaction. Rows whose name already exists are left untouched. It returns
// the number of rows actually inserted.
func (db *DB) SeedReferences(ctx context.Context, kind domain.ReferenceKind, items []domain.ReferenceItem) (int, error) {
	t, err := lookupTable(kind)
	if err != nil {
		return 0, err
	}

	var query string
	if t.hasKind {
		query = fmt.Sprintf("INSERT INTO %s (%s, kind) VALUES ($1, $2) ON CONFLICT (%s) DO NOTHING", t.table, t.nameCol, t.nameCol)
	} else {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1) ON CONFLICT (%s) DO NOTHING", t.table, t.nameCol, t.nameCol)
	}

	inserted := 0
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, item := range items {
			args := []interface{}{item.Name}
			if t.hasKind {
				statusKind := item.Kind
				if !statusKind.Valid() {
					statusKind = domain.ClassifyStatusLabel(item.Name)
				}
				args = append(args, string(statusKind))
			}

			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("failed to insert %s %q: %w", kind, item.Name, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
