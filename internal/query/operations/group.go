package operations

import (
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// group is one distinct key tuple and the working-set ordinals that carry it
type group struct {
	keys    []any
	members []int
}

// buildGroups partitions the working rows by the By/ByFunc/KeyBy keys.
// Groups appear in first-occurrence order; KeyBy sorts them by key.
// Without grouping keys there is exactly one group, even for zero rows.
func buildGroups(store *columnstore.Store, spec *Spec, positions []int) ([]*group, error) {
	if len(spec.groups) == 0 {
		members := make([]int, len(positions))
		for i := range members {
			members[i] = i
		}
		return []*group{{members: members}}, nil
	}

	cols := make([][]any, len(spec.groups))
	for i, k := range spec.groups {
		if k.fn != nil {
			continue
		}
		col, err := store.Column(k.column)
		if err != nil {
			return nil, err
		}
		cols[i] = col.Values
	}

	tracker := &data.Tracker{}
	byKey := make(map[string]*group)
	var groups []*group
	for w, p := range positions {
		tuple := make([]any, len(spec.groups))
		for i, k := range spec.groups {
			if k.fn != nil {
				tuple[i] = schema.Normalize(k.fn(data.NewRow(store, p, tracker)))
				if name, missing := tracker.Missing(); missing {
					return nil, errors.NewUnknownColumn(store.Name(), name, store.ColumnNames())
				}
				continue
			}
			tuple[i] = cols[i][p]
		}
		key := data.Key(tuple...)
		g, ok := byKey[key]
		if !ok {
			g = &group{keys: tuple}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, w)
	}

	if spec.keyBy {
		slices.SortStableFunc(groups, func(a, b *group) int {
			return data.CompareTuples(a.keys, b.keys)
		})
	}
	return groups, nil
}

func (s *Spec) groupNames() []string {
	names := make([]string, len(s.groups))
	for i, k := range s.groups {
		names[i] = k.name
	}
	return names
}

func (s *Spec) groupColumns() []string {
	var names []string
	for _, k := range s.groups {
		if k.fn == nil {
			names = append(names, k.column)
		}
	}
	return names
}
