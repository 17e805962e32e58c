package postgres

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/lib/pq"
)

// relation whitelists the API field names of a table and the SQL expression
// each one maps to. Anything not listed can be neither filtered nor sorted.
type relation struct {
	columns     map[string]string
	defaultSort string
}

// buildFilterClause renders filters as " AND ..." fragments with positional
// arguments starting at $startIndex.
func buildFilterClause(rel relation, filters []domain.Filter, startIndex int) (string, []interface{}, error) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := startIndex

	for _, f := range filters {
		col, ok := rel.columns[f.Field]
		if !ok {
			return "", nil, domain.NewValidationError(f.Field, "is not a filterable field")
		}

		switch f.Op {
		case domain.OpEq, "":
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, idx))
			args = append(args, f.Value)
		case domain.OpNeq:
			clauses = append(clauses, fmt.Sprintf("%s <> $%d", col, idx))
			args = append(args, f.Value)
		case domain.OpGt:
			clauses = append(clauses, fmt.Sprintf("%s > $%d", col, idx))
			args = append(args, f.Value)
		case domain.OpGte:
			clauses = append(clauses, fmt.Sprintf("%s >= $%d", col, idx))
			args = append(args, f.Value)
		case domain.OpLt:
			clauses = append(clauses, fmt.Sprintf("%s < $%d", col, idx))
			args = append(args, f.Value)
		case domain.OpLte:
			clauses = append(clauses, fmt.Sprintf("%s <= $%d", col, idx))
			args = append(args, f.Value)
		case domain.OpILike:
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", col, idx))
			args = append(args, "%"+escapeLike(fmt.Sprint(f.Value))+"%")
		case domain.OpIn:
			if rv := reflect.ValueOf(f.Value); rv.Kind() != reflect.Slice || rv.Len() == 0 {
				return "", nil, domain.NewValidationError(f.Field, "in filter needs a non-empty list")
			}
			clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", col, idx))
			args = append(args, pq.Array(f.Value))
		default:
			return "", nil, domain.NewValidationError(f.Field, fmt.Sprintf("unsupported operator %q", f.Op))
		}
		idx++
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}

	return " AND " + strings.Join(clauses, " AND "), args, nil
}

// buildOrderClause resolves a sort field against the whitelist. An empty
// field falls back to the relation's default ordering.
func buildOrderClause(rel relation, field string, descending bool) (string, error) {
	if field == "" {
		return " ORDER BY " + rel.defaultSort, nil
	}
	col, ok := rel.columns[field]
	if !ok {
		return "", domain.NewValidationError("sort_field", fmt.Sprintf("cannot sort by %q", field))
	}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s", col, dir, rel.defaultSort), nil
}

// buildRangeClause converts an inclusive row range into LIMIT/OFFSET.
func buildRangeClause(q domain.ListQuery, startIndex int) (string, []interface{}, error) {
	if q.RangeStart < 0 || q.RangeEnd < q.RangeStart {
		return "", nil, domain.NewValidationError("range", "end must not be before start")
	}
	limit := q.RangeEnd - q.RangeStart + 1
	if limit > domain.MaxRangeSize {
		limit = domain.MaxRangeSize
	}
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", startIndex, startIndex+1), []interface{}{limit, q.RangeStart}, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullIfZero returns NULL for unset foreign keys.
func nullIfZero(id int64) sql.NullInt64 {
	if id <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}
