package indexing

import (
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// SortPositions stable-sorts row positions by the given columns. desc[i]
// flips the direction of column i; a short or nil desc means ascending.
// Nulls sort first in ascending order.
func SortPositions(store *columnstore.Store, positions []int, columns []string, desc []bool) ([]int, error) {
	cols := make([]*columnstore.Column, len(columns))
	for i, name := range columns {
		col, err := store.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	sorted := slices.Clone(positions)
	slices.SortStableFunc(sorted, func(a, b int) int {
		for i, col := range cols {
			c := data.Compare(col.Values[a], col.Values[b])
			if c == 0 {
				continue
			}
			if i < len(desc) && desc[i] {
				return -c
			}
			return c
		}
		return 0
	})
	return sorted, nil
}
