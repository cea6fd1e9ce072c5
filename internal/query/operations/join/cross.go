package join

import (
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// CrossColumn is one input vector of a cross join
type CrossColumn struct {
	Name   string
	Values any
}

// CrossJoin builds every combination of the given vectors. Each vector is
// sorted first, and the first vector varies slowest, so the result is
// ordered by all columns. With unique set duplicates are dropped from each
// vector before combining.
func CrossJoin(name string, columns []CrossColumn, unique bool) (*columnstore.Store, error) {
	if len(columns) == 0 {
		return nil, errors.NewEmptyInput("cross join", "no columns given")
	}

	vectors := make([][]any, len(columns))
	total := 1
	for i, c := range columns {
		values, err := schema.NormalizeSlice(c.Values)
		if err != nil {
			return nil, err
		}
		values = slices.Clone(values)
		slices.SortStableFunc(values, data.Compare)
		if unique {
			values = slices.CompactFunc(values, data.Equal)
		}
		vectors[i] = values
		total *= len(values)
	}

	out := make([]*columnstore.Column, len(columns))
	for i, c := range columns {
		out[i] = &columnstore.Column{Name: c.Name, Values: make([]any, total)}
	}

	// repeat[i] is how many consecutive rows share one value of vector i
	repeat := total
	for i, values := range vectors {
		if len(values) == 0 {
			break
		}
		repeat /= len(values)
		for row := 0; row < total; row++ {
			out[i].Values[row] = values[(row/repeat)%len(values)]
		}
	}
	return columnstore.FromColumns(name, out)
}
