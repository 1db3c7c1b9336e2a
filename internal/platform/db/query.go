package db

import (
	"fmt"
	"strings"
	"time"
)

// Query accumulates WHERE, ORDER BY and paging clauses with positional
// ($n) arguments. Every clause is ANDed.
type Query struct {
	where   []string
	args    []any
	orderBy string
	limit   int
	offset  int
	lock    bool
}

// NewQuery returns an empty query that matches every row.
func NewQuery() *Query {
	return &Query{}
}

func (q *Query) bind(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

// Eq adds "column = value".
func (q *Query) Eq(column string, value any) *Query {
	q.where = append(q.where, column+" = "+q.bind(value))
	return q
}

// Where adds "column op value", e.g. Where("next_dose_date", "<=", asOf).
func (q *Query) Where(column, op string, value any) *Query {
	q.where = append(q.where, fmt.Sprintf("%s %s %s", column, op, q.bind(value)))
	return q
}

// In adds "column = ANY(values)". An empty list matches nothing.
func (q *Query) In(column string, values []string) *Query {
	if len(values) == 0 {
		q.where = append(q.where, "FALSE")
		return q
	}
	q.where = append(q.where, fmt.Sprintf("%s = ANY(%s)", column, q.bind(values)))
	return q
}

// IsNull adds "column IS NULL".
func (q *Query) IsNull(column string) *Query {
	q.where = append(q.where, column+" IS NULL")
	return q
}

// Between adds an inclusive range on a timestamp column.
func (q *Query) Between(column string, from, to time.Time) *Query {
	q.where = append(q.where, fmt.Sprintf("%s BETWEEN %s AND %s", column, q.bind(from), q.bind(to)))
	return q
}

// Since adds "column >= from".
func (q *Query) Since(column string, from time.Time) *Query {
	return q.Where(column, ">=", from)
}

// Raw adds a clause that uses "?" for its arguments.
func (q *Query) Raw(clause string, args ...any) *Query {
	var b strings.Builder
	i := 0
	for _, r := range clause {
		if r == '?' && i < len(args) {
			b.WriteString(q.bind(args[i]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	q.where = append(q.where, "("+b.String()+")")
	return q
}

// Contains ORs a LIKE substring match of term across columns. LIKE follows the
// database collation, so with the default Postgres collation it is case-sensitive.
// An empty term adds nothing.
func (q *Query) Contains(term string, columns ...string) *Query {
	if term == "" || len(columns) == 0 {
		return q
	}
	p := q.bind("%" + EscapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " LIKE " + p
	}
	q.where = append(q.where, "("+strings.Join(parts, " OR ")+")")
	return q
}

// OrderBy sets the ORDER BY clause (without the keyword).
func (q *Query) OrderBy(orderBy string) *Query {
	q.orderBy = orderBy
	return q
}

// Limit caps the row count; zero means no limit.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// ForUpdate appends FOR UPDATE so matched rows stay locked until the
// surrounding transaction ends. Outside a unit of work the lock is released
// as soon as the statement finishes.
func (q *Query) ForUpdate() *Query {
	q.lock = true
	return q
}

// Page applies 1-based paging: OFFSET (page-1)*size LIMIT size.
func (q *Query) Page(page, size int) *Query {
	if page < 1 {
		page = 1
	}
	q.limit = size
	q.offset = (page - 1) * size
	return q
}

func (q *Query) whereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// SelectSQL appends the clauses to a "SELECT ... FROM table" prefix.
func (q *Query) SelectSQL(base string) string {
	sql := base + q.whereSQL()
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	if q.limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	if q.offset > 0 {
		sql += fmt.Sprintf(" OFFSET %d", q.offset)
	}
	if q.lock {
		sql += " FOR UPDATE"
	}
	return sql
}

// CountSQL returns a COUNT(*) over the same filter, ignoring order and paging.
func (q *Query) CountSQL(table string) string {
	return "SELECT COUNT(*) FROM " + table + q.whereSQL()
}

// Args returns the positional arguments in bind order.
func (q *Query) Args() []any {
	return q.args
}

// EscapeLike escapes LIKE wildcards so the term matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
