package schema

import (
	"fmt"
	"reflect"
	"time"
)

type ColumnType string

const (
	ColumnTypeNull   ColumnType = "NULL"
	ColumnTypeString ColumnType = "STRING"
	ColumnTypeNumber ColumnType = "NUMBER"
	ColumnTypeBool   ColumnType = "BOOL"
	ColumnTypeTime   ColumnType = "TIME"
	ColumnTypeAny    ColumnType = "ANY" // mixed non-null types
)

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// TypeOf reports the column type of a single normalized value.
func TypeOf(v any) ColumnType {
	switch v.(type) {
	case nil:
		return ColumnTypeNull
	case string:
		return ColumnTypeString
	case float64:
		return ColumnTypeNumber
	case bool:
		return ColumnTypeBool
	case time.Time:
		return ColumnTypeTime
	default:
		return ColumnTypeAny
	}
}

// Merge combines the type of an existing column with the type of a new
// value. NULL is absorbed by any other type; two different non-null
// types widen to ANY.
func Merge(a, b ColumnType) ColumnType {
	switch {
	case a == b:
		return a
	case a == ColumnTypeNull || a == "":
		return b
	case b == ColumnTypeNull || b == "":
		return a
	default:
		return ColumnTypeAny
	}
}

// Infer returns the type of a normalized value sequence.
func Infer(values []any) ColumnType {
	t := ColumnTypeNull
	for _, v := range values {
		t = Merge(t, TypeOf(v))
		if t == ColumnTypeAny {
			break
		}
	}
	return t
}

// Normalize maps a Go value onto the engine's value model: every integer
// and float kind becomes float64, pointers are dereferenced (nil pointer
// is null), and *time.Time / time.Time stay timestamps.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case string, bool, time.Time:
		return val
	case *time.Time:
		if val == nil {
			return nil
		}
		return *val
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return v
}

// NormalizeSlice converts any slice ([]int, []string, []any, ...) into a
// normalized []any.
func NormalizeSlice(values any) ([]any, error) {
	switch vals := values.(type) {
	case nil:
		return []any{}, nil
	case []any:
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = Normalize(v)
		}
		return out, nil
	case []float64:
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = v
		}
		return out, nil
	case []string:
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = v
		}
		return out, nil
	}

	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a slice of values, got %T", values)
	}

	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = Normalize(rv.Index(i).Interface())
	}
	return out, nil
}
