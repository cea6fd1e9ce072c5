package testutil

import (
	"reflect"
	"testing"

	"github.com/leengari/datatable/internal/storage/columnstore"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnCount checks if a table has the expected number of columns
func AssertColumnCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d columns, got %d", context, expected, actual)
	}
}

// AssertColumnExists checks if a column exists in a table
func AssertColumnExists(t *testing.T, store *columnstore.Store, column, context string) {
	t.Helper()
	if !store.HasColumn(column) {
		t.Errorf("%s: expected column '%s' to exist, have %v", context, column, store.ColumnNames())
	}
}

// AssertColumnNotExists checks if a column does not exist in a table
func AssertColumnNotExists(t *testing.T, store *columnstore.Store, column, context string) {
	t.Helper()
	if store.HasColumn(column) {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertColumnValues compares a column's values with the expected ones
func AssertColumnValues(t *testing.T, store *columnstore.Store, column string, expected []any, context string) {
	t.Helper()
	col, err := store.Column(column)
	if err != nil {
		t.Errorf("%s: %v", context, err)
		return
	}
	if !reflect.DeepEqual(col.Values, expected) {
		t.Errorf("%s: column %s: expected %v, got %v", context, column, expected, col.Values)
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}

// AssertNullValue checks if a value is nil
func AssertNullValue(t *testing.T, value any, context string) {
	t.Helper()
	if value != nil {
		t.Errorf("%s: expected NULL value, got: %v", context, value)
	}
}

// AssertNotNullValue checks if a value is not nil
func AssertNotNullValue(t *testing.T, value any, context string) {
	t.Helper()
	if value == nil {
		t.Errorf("%s: expected non-NULL value, got nil", context)
	}
}

// Floats is shorthand for building expected numeric column values
func Floats(values ...float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Strings is shorthand for building expected string column values
func Strings(values ...string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
