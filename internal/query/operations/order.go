package operations

import (
	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// Order returns the stable permutation sorting store by columns. A short
// directions list sorts the remaining columns ascending.
func Order(store *columnstore.Store, columns []string, directions ...Direction) ([]int, error) {
	desc := make([]bool, len(columns))
	for i := range columns {
		desc[i] = i < len(directions) && directions[i] == Desc
	}
	return indexing.SortPositions(store, store.AllPositions(), columns, desc)
}

// Unique returns the rows of store whose values over columns (all columns
// when none are given) appear for the first time.
func Unique(store *columnstore.Store, columns ...string) (*columnstore.Store, error) {
	if len(columns) == 0 {
		columns = store.ColumnNames()
	}
	cols := make([][]any, len(columns))
	for i, name := range columns {
		col, err := store.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col.Values
	}

	seen := make(map[string]struct{}, store.NumRows())
	var keep []int
	tuple := make([]any, len(cols))
	for p := 0; p < store.NumRows(); p++ {
		for i, values := range cols {
			tuple[i] = values[p]
		}
		key := data.Key(tuple...)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, p)
	}
	if keep == nil {
		keep = []int{}
	}
	return store.Take(keep), nil
}
