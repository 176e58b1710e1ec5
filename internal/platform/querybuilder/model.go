package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds a single row insert from the db tags of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := taggedFields(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// Columns lists the db tagged columns of model, in field order.
func Columns(model any) []string {
	cols, _, err := taggedFields(model)
	if err != nil {
		return nil
	}
	return cols
}

// ExcludedSet renders "col = EXCLUDED.col" assignments for an upsert,
// skipping the named columns.
func ExcludedSet(model any, skip ...string) string {
	skipped := make(map[string]struct{}, len(skip))
	for _, col := range skip {
		skipped[col] = struct{}{}
	}

	parts := make([]string, 0)
	for _, col := range Columns(model) {
		if _, ok := skipped[col]; ok {
			continue
		}
		parts = append(parts, col+" = EXCLUDED."+col)
	}
	return strings.Join(parts, ", ")
}

func taggedFields(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
