package reshape

import (
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// DcastOptions control how cells are filled
type DcastOptions struct {
	// Aggregate combines the values landing in one cell. Without it a cell
	// receiving more than one value is an AmbiguityError.
	Aggregate func(values []any) any

	// Fill is used for id/variable combinations with no source row
	Fill any
}

// Dcast spreads the variable column into one column per distinct value.
// Rows follow the first occurrence of each id tuple and new columns the
// first occurrence of each variable value.
func Dcast(store *columnstore.Store, ids []string, variable, value string, opts DcastOptions) (*columnstore.Store, error) {
	if err := store.CheckColumns(ids...); err != nil {
		return nil, err
	}
	if err := store.CheckColumns(variable, value); err != nil {
		return nil, err
	}

	idCols := make([][]any, len(ids))
	for i, name := range ids {
		col, _ := store.Column(name)
		idCols[i] = col.Values
	}
	varCol, _ := store.Column(variable)
	valCol, _ := store.Column(value)

	type cell struct {
		values []any
	}
	rowOf := make(map[string]int)
	var rowKeys [][]any
	colOf := make(map[string]int)
	var colKeys []any
	cells := make(map[[2]int]*cell)

	for p := 0; p < store.NumRows(); p++ {
		tuple := make([]any, len(ids))
		for i, values := range idCols {
			tuple[i] = values[p]
		}
		rk := data.Key(tuple...)
		r, ok := rowOf[rk]
		if !ok {
			r = len(rowKeys)
			rowOf[rk] = r
			rowKeys = append(rowKeys, tuple)
		}

		v := varCol.Values[p]
		ck := data.Key(v)
		c, ok := colOf[ck]
		if !ok {
			c = len(colKeys)
			colOf[ck] = c
			colKeys = append(colKeys, v)
		}

		at := [2]int{r, c}
		if cells[at] == nil {
			cells[at] = &cell{}
		}
		cells[at].values = append(cells[at].values, valCol.Values[p])
	}

	// New column names must not clash with ids or with each other
	names := make([]string, len(colKeys))
	taken := make(map[string]bool, len(ids)+len(colKeys))
	for _, name := range ids {
		taken[name] = true
	}
	for c, v := range colKeys {
		name := data.Format(v)
		if taken[name] {
			reason := "variable value formats to the name of another variable value"
			if slices.Contains(ids, name) {
				reason = "variable value collides with an identifier column"
			}
			return nil, &errors.SchemaError{Table: store.Name(), Column: name, Reason: reason}
		}
		taken[name] = true
		names[c] = name
	}

	out := columnstore.New(store.Name())
	for i, name := range ids {
		values := make([]any, len(rowKeys))
		for r, tuple := range rowKeys {
			values[r] = tuple[i]
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}

	fill := schema.Normalize(opts.Fill)
	for c, v := range colKeys {
		values := make([]any, len(rowKeys))
		for r := range rowKeys {
			cl := cells[[2]int{r, c}]
			switch {
			case cl == nil:
				values[r] = fill
			case opts.Aggregate != nil:
				values[r] = schema.Normalize(opts.Aggregate(cl.values))
			case len(cl.values) > 1:
				return nil, &errors.AmbiguityError{
					Table:    store.Name(),
					Key:      rowKeys[r],
					Variable: v,
					Count:    len(cl.values),
				}
			default:
				values[r] = cl.values[0]
			}
		}
		if err := out.AddColumn(names[c], values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
