package engine

import (
	"fmt"

	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// Column is one named input vector for FromColumns and CrossJoin
type Column struct {
	Name   string
	Values any // any slice: []int, []string, []any, ...
}

// Col builds a Column
func Col(name string, values any) Column {
	return Column{Name: name, Values: values}
}

// TableOption configures table construction
type TableOption func(*tableSettings)

type tableSettings struct {
	name      string
	declared  []schema.Column
	growth    bool
	config    []Option
	observers []Observer
}

// Named sets the table name used in errors and logs
func Named(name string) TableOption {
	return func(s *tableSettings) { s.name = name }
}

// WithSchema declares the columns up front. FromRows then rejects records
// with other columns and accepts zero records.
func WithSchema(columns ...schema.Column) TableOption {
	return func(s *tableSettings) { s.declared = append(s.declared, columns...) }
}

// WithGrowth lets AddRow introduce new columns, back-filled with nulls
func WithGrowth() TableOption {
	return func(s *tableSettings) { s.growth = true }
}

// Configure applies config options
func Configure(opts ...Option) TableOption {
	return func(s *tableSettings) { s.config = append(s.config, opts...) }
}

// WithObservers registers lifecycle observers
func WithObservers(observers ...Observer) TableOption {
	return func(s *tableSettings) { s.observers = append(s.observers, observers...) }
}

func settings(opts []TableOption) (*tableSettings, Config, error) {
	s := &tableSettings{name: "table"}
	for _, opt := range opts {
		opt(s)
	}
	cfg, err := NewConfig(s.config...)
	if err != nil {
		return nil, Config{}, err
	}
	return s, cfg, nil
}

// FromRows builds a table from row-major records. Columns appear in the
// order they are first seen; a record missing a column leaves it null.
func FromRows(records []map[string]any, opts ...TableOption) (*Table, error) {
	s, cfg, err := settings(opts)
	if err != nil {
		return nil, err
	}
	store, err := columnstore.FromRecords(s.name, records, s.declared)
	if err != nil {
		return nil, err
	}
	store.AllowGrowth(s.growth)
	return newTable(store, cfg, s.observers), nil
}

// FromColumns builds a table from named vectors of equal length
func FromColumns(columns []Column, opts ...TableOption) (*Table, error) {
	s, cfg, err := settings(opts)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 && len(s.declared) == 0 {
		return nil, errors.NewEmptyInput("from columns", "zero columns and no declared schema")
	}

	// A declared schema with no vectors yields an empty table of that shape
	var cols []*columnstore.Column
	if len(columns) == 0 {
		for _, d := range s.declared {
			cols = append(cols, &columnstore.Column{Name: d.Name, Type: d.Type, Values: []any{}})
		}
	}
	for _, c := range columns {
		values, err := schema.NormalizeSlice(c.Values)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		cols = append(cols, &columnstore.Column{Name: c.Name, Values: values})
	}
	store, err := columnstore.FromColumns(s.name, cols)
	if err != nil {
		return nil, err
	}
	store.AllowGrowth(s.growth)
	return newTable(store, cfg, s.observers), nil
}

