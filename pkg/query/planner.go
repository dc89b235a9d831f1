package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/Sternrassler/catalog-service/pkg/filter"
)

// Plan is a fully resolved catalog query.
type Plan struct {
	// Where always includes the mandatory filter.
	Where filter.Expr

	// Order always ends with the tie-break field.
	Order []filter.OrderTerm

	Offset int
	Limit  int
}

// Planner builds plans. Mandatory is ANDed in front of every user filter and
// TieBreak is appended to every ordering so that pages are stable.
type Planner struct {
	Mandatory filter.Expr
	TieBreak  filter.Field
}

// Plan combines the parts of a request. page and pageSize are expected to be
// normalized already; values below 1 are raised to 1.
func (pl Planner) Plan(user filter.Expr, order []filter.OrderTerm, page, pageSize int) *Plan {
	page = max(1, page)
	pageSize = max(1, pageSize)

	terms := make([]filter.OrderTerm, 0, len(order)+1)
	hasTieBreak := false
	for _, t := range order {
		if t.Field.Name == pl.TieBreak.Name {
			hasTieBreak = true
		}
		terms = append(terms, t)
	}
	if !hasTieBreak && pl.TieBreak.Name != "" {
		terms = append(terms, filter.OrderTerm{Field: pl.TieBreak})
	}

	return &Plan{
		Where:  filter.Conjoin(pl.Mandatory, user),
		Order:  terms,
		Offset: PageOffset(page, pageSize),
		Limit:  pageSize,
	}
}

// PageOffset returns (page-1)*pageSize for page, pageSize >= 1. It saturates
// instead of overflowing, so Offset+pageSize always fits in an int.
func PageOffset(page, pageSize int) int {
	page = max(1, page)
	pageSize = max(1, pageSize)
	limit := (math.MaxInt - pageSize) / pageSize
	if page-1 > limit {
		return limit * pageSize
	}
	return (page - 1) * pageSize
}

// Selection describes what a SQL statement reads.
type Selection struct {
	// From is the FROM clause body, e.g. "products p LEFT JOIN ...".
	From string

	// Alias is the alias of the filtered table inside From.
	Alias string

	// Columns are the selected expressions for the page statement.
	Columns []string
}

// Statement is a compiled plan. CountArgs is a prefix of PageArgs.
type Statement struct {
	Count     string
	CountArgs []any
	Page      string
	PageArgs  []any
}

// BuildSQL compiles plan for dialect d.
func BuildSQL(plan *Plan, d Dialect, sel Selection) (*Statement, error) {
	b := NewBuilder(d.Placeholder)

	where, err := Compile(plan.Where, d, b, sel.Alias)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	whereArgs := b.Len()

	count := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", sel.From, where)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE %s", strings.Join(sel.Columns, ", "), sel.From, where)
	if len(plan.Order) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(OrderClause(plan.Order, d, sel.Alias))
	}
	limit := b.Arg(plan.Limit)
	offset := b.Arg(plan.Offset)
	fmt.Fprintf(&sb, " LIMIT %s OFFSET %s", limit, offset)

	args := b.Args()
	return &Statement{
		Count:     count,
		CountArgs: args[:whereArgs:whereArgs],
		Page:      sb.String(),
		PageArgs:  args,
	}, nil
}

// OrderClause renders terms as an ORDER BY list. Nulls sort lowest.
func OrderClause(terms []filter.OrderTerm, d Dialect, alias string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		part := d.column(alias, t.Field) + " " + dir
		if t.Field.Nullable {
			if t.Desc {
				part += " NULLS LAST"
			} else {
				part += " NULLS FIRST"
			}
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// CompareRecords orders two records by terms with the same rules as
// OrderClause. It returns a negative, zero or positive number.
func CompareRecords(terms []filter.OrderTerm, a, b filter.Record) int {
	for _, t := range terms {
		av, aok := a.FieldValue(t.Field.Name)
		bv, bok := b.FieldValue(t.Field.Name)

		var c int
		switch {
		case !aok && !bok:
			c = 0
		case !aok:
			c = -1
		case !bok:
			c = 1
		default:
			c, _ = filter.CompareLiterals(av, bv)
		}
		if t.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}
