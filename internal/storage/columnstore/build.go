package columnstore

import (
	"sort"

	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
)

// FromRecords builds a store from row-major records. When declared is
// non-empty it fixes the column set and order, and records may not
// introduce other columns; otherwise columns are taken in first-appearance
// order (keys of each record visited in sorted order) and missing cells
// are null.
func FromRecords(name string, records []map[string]any, declared []schema.Column) (*Store, error) {
	if len(records) == 0 && len(declared) == 0 {
		return nil, errors.NewEmptyInput("from rows", "zero records and no declared schema")
	}

	var names []string
	if len(declared) > 0 {
		for _, col := range declared {
			names = append(names, col.Name)
		}
	} else {
		seen := make(map[string]bool)
		for _, rec := range records {
			for _, key := range sortedKeys(rec) {
				if !seen[key] {
					seen[key] = true
					names = append(names, key)
				}
			}
		}
	}

	s := New(name)
	for i, colName := range names {
		if _, dup := s.byName[colName]; dup {
			return nil, errors.NewDuplicateColumn(name, colName)
		}
		col := &Column{Name: colName, Type: schema.ColumnTypeNull, Values: make([]any, 0, len(records))}
		if len(declared) > 0 && declared[i].Type != "" {
			col.Type = declared[i].Type
		}
		s.byName[colName] = len(s.columns)
		s.columns = append(s.columns, col)
	}

	for _, rec := range records {
		if len(declared) > 0 {
			for _, key := range sortedKeys(rec) {
				if !s.HasColumn(key) {
					return nil, errors.NewUndeclaredColumn(name, key)
				}
			}
		}
		for _, col := range s.columns {
			v := schema.Normalize(rec[col.Name])
			col.Values = append(col.Values, v)
			col.Type = schema.Merge(col.Type, schema.TypeOf(v))
		}
		s.rows++
	}

	return s, nil
}

func sortedKeys(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
