// Package reshape converts tables between wide and long layouts.
package reshape

import (
	"slices"

	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// MeltOptions control the long layout's column names
type MeltOptions struct {
	VariableName string // default "variable"
	ValueName    string // default "value"
	NARm         bool   // drop rows whose value is null
}

// Melt stacks the measure columns into variable/value pairs. Rows come out
// measure-major: every input row for the first measure, then the second.
// With no measures given every non-id column is measured.
func Melt(store *columnstore.Store, ids, measures []string, opts MeltOptions) (*columnstore.Store, error) {
	if opts.VariableName == "" {
		opts.VariableName = "variable"
	}
	if opts.ValueName == "" {
		opts.ValueName = "value"
	}
	if err := store.CheckColumns(ids...); err != nil {
		return nil, err
	}
	if len(measures) == 0 {
		for _, name := range store.ColumnNames() {
			if !slices.Contains(ids, name) {
				measures = append(measures, name)
			}
		}
	}
	if len(measures) == 0 {
		return nil, errors.NewEmptyInput("melt", "no measure columns")
	}
	if err := store.CheckColumns(measures...); err != nil {
		return nil, err
	}
	for _, name := range []string{opts.VariableName, opts.ValueName} {
		if slices.Contains(ids, name) {
			return nil, errors.NewDuplicateColumn(store.Name(), name)
		}
	}

	idCols := make([]*columnstore.Column, len(ids))
	for i, name := range ids {
		idCols[i], _ = store.Column(name)
	}

	n := store.NumRows()
	idValues := make([][]any, len(ids))
	var variable, value []any
	for _, m := range measures {
		col, _ := store.Column(m)
		for row := 0; row < n; row++ {
			v := col.Values[row]
			if opts.NARm && v == nil {
				continue
			}
			for i, ic := range idCols {
				idValues[i] = append(idValues[i], ic.Values[row])
			}
			variable = append(variable, m)
			value = append(value, v)
		}
	}

	out := columnstore.New(store.Name())
	for i, name := range ids {
		if err := out.AddColumn(name, orEmpty(idValues[i])); err != nil {
			return nil, err
		}
	}
	if err := out.AddColumn(opts.VariableName, orEmpty(variable)); err != nil {
		return nil, err
	}
	if err := out.AddColumn(opts.ValueName, orEmpty(value)); err != nil {
		return nil, err
	}
	return out, nil
}

func orEmpty(values []any) []any {
	if values == nil {
		return []any{}
	}
	return values
}
