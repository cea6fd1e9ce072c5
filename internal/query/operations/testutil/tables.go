package testutil

import (
	"testing"

	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// CreateTestTable builds a store from named column slices, failing the
// test on any construction error
func CreateTestTable(t *testing.T, name string, names []string, columns ...any) *columnstore.Store {
	t.Helper()
	if len(names) != len(columns) {
		t.Fatalf("CreateTestTable: %d names for %d columns", len(names), len(columns))
	}
	cols := make([]*columnstore.Column, len(names))
	for i, n := range names {
		values, err := schema.NormalizeSlice(columns[i])
		if err != nil {
			t.Fatalf("CreateTestTable: column %s: %v", n, err)
		}
		cols[i] = &columnstore.Column{Name: n, Values: values}
	}
	store, err := columnstore.FromColumns(name, cols)
	if err != nil {
		t.Fatalf("CreateTestTable: %v", err)
	}
	return store
}

// CreateUsersTable creates a users table with sample data for testing
func CreateUsersTable(t *testing.T) *columnstore.Store {
	t.Helper()
	return CreateTestTable(t, "users",
		[]string{"id", "username", "age", "city"},
		[]int{1, 2, 3, 4, 5},
		[]string{"alice", "bob", "charlie", "dana", "erin"},
		[]int{30, 25, 35, 28, 41},
		[]string{"Paris", "Oslo", "Paris", "Rome", "Oslo"},
	)
}

// CreateOrdersTable creates an orders table with sample data for testing
// Note: user 3 (charlie) and user 5 (erin) have no orders, user 9 does not exist
func CreateOrdersTable(t *testing.T) *columnstore.Store {
	t.Helper()
	return CreateTestTable(t, "orders",
		[]string{"id", "user_id", "product", "amount"},
		[]int{1, 2, 3, 4, 5},
		[]int{1, 1, 2, 4, 9},
		[]string{"Laptop", "Mouse", "Keyboard", "Monitor", "Cable"},
		[]float64{999.99, 25.5, 75, 180, 9.5},
	)
}

// CreateQuotesTable creates a price table keyed by time for rolling joins
func CreateQuotesTable(t *testing.T) *columnstore.Store {
	t.Helper()
	return CreateTestTable(t, "quotes",
		[]string{"sym", "ts", "price"},
		[]string{"A", "A", "A", "B", "B"},
		[]int{1, 2, 3, 1, 4},
		[]float64{10, 11, 12, 50, 55},
	)
}
