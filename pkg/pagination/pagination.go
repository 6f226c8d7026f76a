package pagination

import "strings"

const (
	// DefaultLimit is the standard page size when a range is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Order is the sort direction of a list query.
type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// ParseOrder maps user input to a sort direction, defaulting to descending.
func ParseOrder(value string) Order {
	if strings.EqualFold(strings.TrimSpace(value), "asc") {
		return OrderAsc
	}
	return OrderDesc
}

// Params holds range pagination inputs (`_start`, `_end`, `_sort`, `_order`).
type Params struct {
	Start int
	End   int
	Sort  string
	Order Order
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset returns the zero-based row offset.
func (p Params) Offset() int {
	if p.Start < 0 {
		return 0
	}
	return p.Start
}

// Limit returns the normalized number of rows covered by the range.
func (p Params) Limit() int {
	return NormalizeLimit(p.End - p.Offset())
}

// SortColumn resolves the requested sort field against an allow-list, falling back to def.
func (p Params) SortColumn(allowed map[string]string, def string) string {
	if column, ok := allowed[strings.TrimSpace(p.Sort)]; ok {
		return column
	}
	return def
}

// OrderClause renders "column DIRECTION" for the resolved sort column.
func (p Params) OrderClause(allowed map[string]string, def string) string {
	order := p.Order
	if order != OrderAsc {
		order = OrderDesc
	}
	return p.SortColumn(allowed, def) + " " + string(order)
}
