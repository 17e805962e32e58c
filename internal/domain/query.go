package domain

// FilterOp is a comparison supported by ListQuery filters.
type FilterOp string

const (
	OpEq    FilterOp = "eq"
	OpNeq   FilterOp = "neq"
	OpGt    FilterOp = "gt"
	OpGte   FilterOp = "gte"
	OpLt    FilterOp = "lt"
	OpLte   FilterOp = "lte"
	OpILike FilterOp = "ilike"
	OpIn    FilterOp = "in"
)

// MaxRangeSize caps how many rows a single list call may return.
const MaxRangeSize = 1000

// Filter restricts a list to rows whose Field matches Value under Op.
// For OpIn, Value must be a slice.
type Filter struct {
	Field string
	Op    FilterOp
	Value interface{}
}

// ListQuery is the generic filter/sort/range request for a list endpoint.
// RangeStart and RangeEnd are inclusive row offsets.
type ListQuery struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	RangeStart int
	RangeEnd   int
}

// Where appends a filter and returns the query for chaining.
func (q ListQuery) Where(field string, op FilterOp, value interface{}) ListQuery {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// PageRange converts a 1-based page and page size into an inclusive row range.
func PageRange(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > MaxRangeSize {
		pageSize = MaxRangeSize
	}
	start := (page - 1) * pageSize
	return start, start + pageSize - 1
}

// ListResult is a page of rows plus the total matching count.
type ListResult[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
