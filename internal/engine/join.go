package engine

import (
	"github.com/leengari/datatable/internal/domain/transaction"
	"github.com/leengari/datatable/internal/query/operations/join"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

func (t *Table) side() join.Side {
	return join.Side{Store: t.store, Indexes: t.indexes}
}

func (t *Table) joinOptions() join.Options {
	return join.Options{AutoIndex: t.config.AutoIndex, Logger: t.config.logger()}
}

func (t *Table) suffix(s string) string {
	if s == "" {
		return t.config.JoinSuffix
	}
	return s
}

// runJoin wraps one join algorithm in lifecycle events
func (t *Table) runJoin(kind string, exec func() (*columnstore.Store, error)) (*Table, error) {
	tx := transaction.NewTransaction(kind)
	defer tx.Close()
	t.notify(Event{Type: EventJoinStart, OpID: tx.ID, Data: kind})

	store, err := exec()
	if err != nil {
		t.notify(Event{Type: EventJoinEnd, OpID: tx.ID, Data: err})
		return nil, err
	}
	t.notify(Event{Type: EventJoinEnd, OpID: tx.ID, Data: map[string]any{
		"join":          kind,
		"rows_returned": store.NumRows(),
	}})
	return t.derive(store), nil
}

// Join performs an equi join of t (left) with other (right)
func (t *Table) Join(other *Table, spec join.Spec) (*Table, error) {
	spec.Suffix = t.suffix(spec.Suffix)
	return t.runJoin(spec.Type.String(), func() (*columnstore.Store, error) {
		return join.ExecuteJoin(t.side(), other.side(), spec, t.joinOptions())
	})
}

// LeftJoin keeps every row of t, matching other on the same-named columns
func (t *Table) LeftJoin(other *Table, on ...string) (*Table, error) {
	return t.Join(other, join.Spec{On: on, Type: join.JoinTypeLeft})
}

// NonEquiJoin matches rows on a conjunction of comparisons
func (t *Table) NonEquiJoin(other *Table, spec join.NonEquiSpec) (*Table, error) {
	spec.Suffix = t.suffix(spec.Suffix)
	return t.runJoin("NON-EQUI JOIN", func() (*columnstore.Store, error) {
		return join.ExecuteNonEquiJoin(t.side(), other.side(), spec, t.joinOptions())
	})
}

// RollingJoin matches every row of t with the nearest row of other
func (t *Table) RollingJoin(other *Table, spec join.RollSpec) (*Table, error) {
	spec.Suffix = t.suffix(spec.Suffix)
	return t.runJoin("ROLLING JOIN", func() (*columnstore.Store, error) {
		return join.ExecuteRollingJoin(t.side(), other.side(), spec, t.joinOptions())
	})
}

// CrossJoin builds the sorted Cartesian product of the given vectors,
// keyed on every column. With unique set each vector is deduplicated first.
func CrossJoin(columns []Column, unique bool, opts ...TableOption) (*Table, error) {
	s, cfg, err := settings(opts)
	if err != nil {
		return nil, err
	}
	cross := make([]join.CrossColumn, len(columns))
	names := make([]string, len(columns))
	for i, c := range columns {
		cross[i] = join.CrossColumn{Name: c.Name, Values: c.Values}
		names[i] = c.Name
	}
	store, err := join.CrossJoin(s.name, cross, unique)
	if err != nil {
		return nil, err
	}
	t := newTable(store, cfg, s.observers)
	if err := t.indexes.SetKey(t.store, names); err != nil {
		return nil, err
	}
	return t, nil
}
