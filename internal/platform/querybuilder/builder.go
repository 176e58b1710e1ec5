package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// args accumulates bound values and hands out postgres style placeholders.
type args struct {
	values []any
}

func (a *args) bind(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// expand replaces each '?' in expr with the next positional placeholder.
func (a *args) expand(expr string, values []any) string {
	if len(values) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '?' || next >= len(values) {
			out.WriteByte(expr[i])
			continue
		}
		out.WriteString(a.bind(values[next]))
		next++
	}
	return out.String()
}

// Condition renders one boolean SQL term.
type Condition interface {
	render(a *args) string
}

type conditionFunc func(a *args) string

func (f conditionFunc) render(a *args) string { return f(a) }

func Eq(column string, value any) Condition {
	return conditionFunc(func(a *args) string {
		return column + " = " + a.bind(value)
	})
}

// ILike matches column case-insensitively against %fragment%.
func ILike(column, fragment string) Condition {
	return conditionFunc(func(a *args) string {
		return column + " ILIKE " + a.bind("%"+escapeLike(fragment)+"%")
	})
}

func IsTrue(column string) Condition {
	return conditionFunc(func(*args) string {
		return column + " = TRUE"
	})
}

func Expr(expr string, values ...any) Condition {
	return conditionFunc(func(a *args) string {
		return a.expand(expr, values)
	})
}

// Or joins terms with OR inside parentheses. An empty Or never matches.
func Or(terms ...Condition) Condition {
	return conditionFunc(func(a *args) string {
		if len(terms) == 0 {
			return "1=0"
		}
		parts := make([]string, 0, len(terms))
		for _, term := range terms {
			parts = append(parts, term.render(a))
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	})
}

func escapeLike(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	a := &args{}
	var buf strings.Builder
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)
	writeWhere(&buf, b.where, a)
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}

	return buf.String(), a.values, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends raw SQL such as an ON CONFLICT clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	a := &args{}
	tuples := make([]string, 0, len(b.rows))
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		marks := make([]string, 0, len(row))
		for _, v := range row {
			marks = append(marks, a.bind(v))
		}
		tuples = append(tuples, "("+strings.Join(marks, ", ")+")")
	}

	query := "INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES " + strings.Join(tuples, ", ")
	if b.suffix != "" {
		query += " " + b.suffix
	}
	return query, a.values, nil
}

func writeWhere(buf *strings.Builder, conditions []Condition, a *args) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		buf.WriteString(c.render(a))
	}
}
