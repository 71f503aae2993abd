package search

import (
	"fmt"
	"strconv"
	"strings"
)

// Operator is a filter comparison operator, named as the index query
// language spells it.
type Operator string

const (
	OpEq    Operator = "eq"
	OpGe    Operator = "ge"
	OpLe    Operator = "le"
	OpAnyEq Operator = "any_eq" // collection field contains value
)

// Clause is one field comparison.
type Clause struct {
	Field string
	Op    Operator
	Value any
}

// Filter is an ordered conjunction of clauses. Backends serialize it to
// their native form; all clauses are ANDed.
type Filter struct {
	clauses []Clause
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Eq adds a string equality clause. Empty values are ignored so callers can
// pass optional context fields unconditionally.
func (f *Filter) Eq(field, value string) *Filter {
	if value != "" {
		f.clauses = append(f.clauses, Clause{Field: field, Op: OpEq, Value: value})
	}
	return f
}

// Ge adds a numeric greater-or-equal clause.
func (f *Filter) Ge(field string, value float64) *Filter {
	f.clauses = append(f.clauses, Clause{Field: field, Op: OpGe, Value: value})
	return f
}

// Le adds a numeric less-or-equal clause.
func (f *Filter) Le(field string, value float64) *Filter {
	f.clauses = append(f.clauses, Clause{Field: field, Op: OpLe, Value: value})
	return f
}

// AnyEq adds a collection-contains clause.
func (f *Filter) AnyEq(field, value string) *Filter {
	if value != "" {
		f.clauses = append(f.clauses, Clause{Field: field, Op: OpAnyEq, Value: value})
	}
	return f
}

// Empty reports whether the filter has no clauses.
func (f *Filter) Empty() bool {
	return f == nil || len(f.clauses) == 0
}

// Clauses returns the clause list for backends that filter natively.
func (f *Filter) Clauses() []Clause {
	if f == nil {
		return nil
	}
	return f.clauses
}

// OData serializes the filter to an OData $filter expression. Returns the
// empty string for an empty filter.
func (f *Filter) OData() string {
	if f.Empty() {
		return ""
	}
	parts := make([]string, 0, len(f.clauses))
	for _, c := range f.clauses {
		switch c.Op {
		case OpEq:
			parts = append(parts, fmt.Sprintf("%s eq '%s'", c.Field, escapeODataString(c.Value.(string))))
		case OpGe, OpLe:
			parts = append(parts, fmt.Sprintf("%s %s %s", c.Field, c.Op, formatNumber(c.Value)))
		case OpAnyEq:
			parts = append(parts, fmt.Sprintf("%s/any(e: e eq '%s')", c.Field, escapeODataString(c.Value.(string))))
		}
	}
	return strings.Join(parts, " and ")
}

// escapeODataString doubles single quotes per the OData string literal rules.
func escapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// formatNumber renders a numeric clause value without a trailing ".0" for
// whole numbers, matching how the index expects integer fields.
func formatNumber(v any) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
