package projection

import (
	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// ColumnRef represents one projected column
// Alias renames the column in the result (e.g. "user_id" for id)
type ColumnRef struct {
	Column string
	Alias  string
}

// Name returns the output name of the column
func (c ColumnRef) Name() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Column
}

// Projection represents which columns a query keeps, in output order.
// A nil projection keeps every column.
type Projection struct {
	Columns []ColumnRef
}

// NewProjectionWithColumns creates a projection for specific columns
func NewProjectionWithColumns(columns ...string) *Projection {
	p := &Projection{}
	for _, c := range columns {
		p.Columns = append(p.Columns, ColumnRef{Column: c})
	}
	return p
}

// AddColumn adds a column to the projection
func (p *Projection) AddColumn(column, alias string) {
	p.Columns = append(p.Columns, ColumnRef{
		Column: column,
		Alias:  alias,
	})
}

// Validate checks that every projected column exists in store and that
// output names are unique
func Validate(store *columnstore.Store, p *Projection) error {
	if p == nil {
		return nil
	}

	seen := make(map[string]bool, len(p.Columns))
	for _, colRef := range p.Columns {
		if !store.HasColumn(colRef.Column) {
			return errors.NewUnknownColumn(store.Name(), colRef.Column, store.ColumnNames())
		}
		if seen[colRef.Name()] {
			return errors.NewDuplicateColumn(store.Name(), colRef.Name())
		}
		seen[colRef.Name()] = true
	}
	return nil
}

// Apply builds a new store holding the projected columns of the given rows
func Apply(store *columnstore.Store, p *Projection, positions []int) (*columnstore.Store, error) {
	if err := Validate(store, p); err != nil {
		return nil, err
	}

	taken := store.Take(positions)
	if p == nil {
		return taken, nil
	}

	cols := make([]*columnstore.Column, len(p.Columns))
	for i, colRef := range p.Columns {
		src, err := taken.Column(colRef.Column)
		if err != nil {
			return nil, err
		}
		col := src
		if i > 0 && containsRef(p.Columns[:i], colRef.Column) {
			col = src.Copy() // same source projected twice
		}
		cols[i] = &columnstore.Column{Name: colRef.Name(), Type: col.Type, Values: col.Values}
	}
	return columnstore.FromColumns(store.Name(), cols)
}

func containsRef(refs []ColumnRef, column string) bool {
	for _, r := range refs {
		if r.Column == column {
			return true
		}
	}
	return false
}
