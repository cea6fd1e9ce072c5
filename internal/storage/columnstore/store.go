// Package columnstore owns the named, equal-length value columns every
// other engine component reads and writes.
package columnstore

import (
	"fmt"
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
)

// Column is one named sequence of normalized values
type Column struct {
	Name   string
	Type   schema.ColumnType
	Values []any
}

// Copy creates a deep copy of the column
func (c *Column) Copy() *Column {
	return &Column{
		Name:   c.Name,
		Type:   c.Type,
		Values: slices.Clone(c.Values),
	}
}

// Store is a column-major table body.
// Invariant: every column holds exactly rows values and names are unique.
type Store struct {
	name     string
	columns  []*Column
	byName   map[string]int
	rows     int
	growable bool
}

// New creates an empty store with no columns and no rows
func New(name string) *Store {
	return &Store{
		name:   name,
		byName: make(map[string]int),
	}
}

// FromColumns builds a store from already-normalized columns.
// Column types are inferred when left empty.
func FromColumns(name string, columns []*Column) (*Store, error) {
	s := New(name)
	for i, col := range columns {
		if _, dup := s.byName[col.Name]; dup {
			return nil, errors.NewDuplicateColumn(name, col.Name)
		}
		if i > 0 && len(col.Values) != s.rows {
			return nil, errors.NewLengthMismatch(name, col.Name, s.rows, len(col.Values))
		}
		if i == 0 {
			s.rows = len(col.Values)
		}
		if col.Type == "" {
			col.Type = schema.Infer(col.Values)
		}
		s.byName[col.Name] = len(s.columns)
		s.columns = append(s.columns, col)
	}
	return s, nil
}

// Name returns the table name used in error messages
func (s *Store) Name() string { return s.name }

// SetName renames the store
func (s *Store) SetName(name string) { s.name = name }

// AllowGrowth toggles whether AppendRow may introduce new columns
func (s *Store) AllowGrowth(allow bool) { s.growable = allow }

// NumRows returns the row count
func (s *Store) NumRows() int { return s.rows }

// NumCols returns the column count
func (s *Store) NumCols() int { return len(s.columns) }

// ColumnNames returns the column names in order
func (s *Store) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex resolves a column name to its position
func (s *Store) ColumnIndex(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Value returns the value at (col, row) without bounds checking
func (s *Store) Value(col, row int) any {
	return s.columns[col].Values[row]
}

// HasColumn reports whether the named column exists
func (s *Store) HasColumn(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Column returns the named column. The returned column must not be
// mutated by callers outside this package.
func (s *Store) Column(name string) (*Column, error) {
	i, ok := s.byName[name]
	if !ok {
		return nil, errors.NewUnknownColumn(s.name, name, s.ColumnNames())
	}
	return s.columns[i], nil
}

// Schema returns the current schema
func (s *Store) Schema() *schema.TableSchema {
	ts := &schema.TableSchema{TableName: s.name}
	for _, col := range s.columns {
		ts.Columns = append(ts.Columns, schema.Column{Name: col.Name, Type: col.Type})
	}
	return ts
}

// CheckColumns validates that every name exists
func (s *Store) CheckColumns(names ...string) error {
	for _, name := range names {
		if !s.HasColumn(name) {
			return errors.NewUnknownColumn(s.name, name, s.ColumnNames())
		}
	}
	return nil
}

// CheckPositions validates that every row position is in range
func (s *Store) CheckPositions(positions []int) error {
	for _, p := range positions {
		if p < 0 || p >= s.rows {
			return &errors.ShapeError{
				Table:    s.name,
				Expected: s.rows,
				Actual:   p,
				Reason:   fmt.Sprintf("row position %d out of range", p),
			}
		}
	}
	return nil
}

// AllPositions returns 0..NumRows-1
func (s *Store) AllPositions() []int {
	positions := make([]int, s.rows)
	for i := range positions {
		positions[i] = i
	}
	return positions
}

// Rows returns a row-major view of the given positions
func (s *Store) Rows(positions []int) ([]data.Row, error) {
	if err := s.CheckPositions(positions); err != nil {
		return nil, err
	}
	rows := make([]data.Row, len(positions))
	for i, p := range positions {
		rows[i] = data.NewRow(s, p, nil)
	}
	return rows, nil
}

// Records materializes the given positions (all rows when nil) as maps
func (s *Store) Records(positions []int) []map[string]any {
	if positions == nil {
		positions = s.AllPositions()
	}
	records := make([]map[string]any, len(positions))
	for i, p := range positions {
		rec := make(map[string]any, len(s.columns))
		for _, col := range s.columns {
			rec[col.Name] = col.Values[p]
		}
		records[i] = rec
	}
	return records
}

// Project returns a deep copy restricted to the named columns, in the
// order given.
func (s *Store) Project(names []string) (*Store, error) {
	out := New(s.name)
	out.rows = s.rows
	for _, name := range names {
		col, err := s.Column(name)
		if err != nil {
			return nil, err
		}
		if _, dup := out.byName[name]; dup {
			return nil, errors.NewDuplicateColumn(s.name, name)
		}
		out.byName[name] = len(out.columns)
		out.columns = append(out.columns, col.Copy())
	}
	return out, nil
}

// Take builds a new store holding the given row positions (repeats
// allowed) of every column. Positions must be in range.
func (s *Store) Take(positions []int) *Store {
	out := New(s.name)
	out.rows = len(positions)
	out.growable = s.growable
	for _, col := range s.columns {
		values := make([]any, len(positions))
		for i, p := range positions {
			values[i] = col.Values[p]
		}
		out.byName[col.Name] = len(out.columns)
		out.columns = append(out.columns, &Column{Name: col.Name, Type: col.Type, Values: values})
	}
	return out
}

// Copy produces an independent deep copy
func (s *Store) Copy() *Store {
	out := New(s.name)
	out.rows = s.rows
	out.growable = s.growable
	for _, col := range s.columns {
		out.byName[col.Name] = len(out.columns)
		out.columns = append(out.columns, col.Copy())
	}
	return out
}

// AddColumn appends a new column. values must match the row count unless
// the store has no columns yet, in which case they define it.
func (s *Store) AddColumn(name string, values []any) error {
	if _, dup := s.byName[name]; dup {
		return errors.NewDuplicateColumn(s.name, name)
	}
	if len(s.columns) > 0 && len(values) != s.rows {
		return errors.NewLengthMismatch(s.name, name, s.rows, len(values))
	}
	if len(s.columns) == 0 {
		s.rows = len(values)
	}
	s.byName[name] = len(s.columns)
	s.columns = append(s.columns, &Column{
		Name:   name,
		Type:   schema.Infer(values),
		Values: values,
	})
	return nil
}

// SetColumn overwrites an existing column or adds a new one
func (s *Store) SetColumn(name string, values []any) error {
	i, ok := s.byName[name]
	if !ok {
		return s.AddColumn(name, values)
	}
	if len(values) != s.rows {
		return errors.NewLengthMismatch(s.name, name, s.rows, len(values))
	}
	s.columns[i] = &Column{Name: name, Type: schema.Infer(values), Values: values}
	return nil
}

// DropColumn removes the named column
func (s *Store) DropColumn(name string) error {
	i, ok := s.byName[name]
	if !ok {
		return errors.NewUnknownColumn(s.name, name, s.ColumnNames())
	}
	s.columns = slices.Delete(s.columns, i, i+1)
	s.reindex()
	if len(s.columns) == 0 {
		s.rows = 0
	}
	return nil
}

// ReplaceWith takes over other's columns and row count
func (s *Store) ReplaceWith(other *Store) {
	s.columns = other.columns
	s.rows = other.rows
	s.reindex()
}

func (s *Store) reindex() {
	s.byName = make(map[string]int, len(s.columns))
	for i, col := range s.columns {
		s.byName[col.Name] = i
	}
}

// Reorder applies a row permutation to every column in place:
// new row i is old row perm[i].
func (s *Store) Reorder(perm []int) error {
	if len(perm) != s.rows {
		return errors.NewLengthMismatch(s.name, "", s.rows, len(perm))
	}
	seen := make([]bool, s.rows)
	for _, p := range perm {
		if p < 0 || p >= s.rows || seen[p] {
			return errors.NewShapeError(s.name, fmt.Sprintf("invalid permutation entry %d", p))
		}
		seen[p] = true
	}

	for _, col := range s.columns {
		values := make([]any, s.rows)
		for i, p := range perm {
			values[i] = col.Values[p]
		}
		col.Values = values
	}
	return nil
}

// AppendRow validates and appends a single record
func (s *Store) AppendRow(record map[string]any) error {
	return s.AppendRows([]map[string]any{record})
}

// AppendRows validates every record before appending any of them
func (s *Store) AppendRows(records []map[string]any) error {
	// 1. Validate the whole batch first
	var newColumns []string
	for _, rec := range records {
		for _, col := range s.columns {
			if _, exists := rec[col.Name]; !exists && !s.growable {
				return errors.NewMissingColumn(s.name, col.Name)
			}
		}
		for _, name := range sortedKeys(rec) {
			if s.HasColumn(name) || slices.Contains(newColumns, name) {
				continue
			}
			if !s.growable {
				return errors.NewUndeclaredColumn(s.name, name)
			}
			newColumns = append(newColumns, name)
		}
	}

	// 2. Grow the schema with null-filled columns
	for _, name := range newColumns {
		if err := s.AddColumn(name, make([]any, s.rows)); err != nil {
			return err
		}
	}

	// 3. Everything passed → safe to append
	for _, rec := range records {
		for _, col := range s.columns {
			v := schema.Normalize(rec[col.Name])
			col.Values = append(col.Values, v)
			col.Type = schema.Merge(col.Type, schema.TypeOf(v))
		}
		s.rows++
	}
	return nil
}

// Source returns a read-only view restricted to the named columns (all
// columns when names is nil).
func (s *Store) Source(names []string) (data.Source, error) {
	if names == nil {
		return s, nil
	}
	if err := s.CheckColumns(names...); err != nil {
		return nil, err
	}
	v := &view{store: s, names: names, byName: make(map[string]int, len(names))}
	for i, name := range names {
		v.cols = append(v.cols, s.byName[name])
		v.byName[name] = i
	}
	return v, nil
}

type view struct {
	store  *Store
	names  []string
	cols   []int
	byName map[string]int
}

func (v *view) ColumnNames() []string { return v.names }

func (v *view) ColumnIndex(name string) (int, bool) {
	i, ok := v.byName[name]
	return i, ok
}

func (v *view) Value(col, row int) any {
	return v.store.columns[v.cols[col]].Values[row]
}
