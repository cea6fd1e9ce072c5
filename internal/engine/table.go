// Package engine is the public face of the table engine: construction,
// query/set evaluation, keys and indexes, joins and reshaping.
package engine

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/domain/transaction"
	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/query/operations"
	"github.com/leengari/datatable/internal/render"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// Table is an in-memory columnar table with an optional key and secondary
// indexes. A Table is not safe for concurrent mutation.
type Table struct {
	id        string
	store     *columnstore.Store
	indexes   *indexing.Manager
	config    Config
	observers []Observer
}

func newTable(store *columnstore.Store, cfg Config, observers []Observer) *Table {
	return &Table{
		id:        uuid.New().String(),
		store:     store,
		indexes:   indexing.NewManager(cfg.logger()),
		config:    cfg,
		observers: slices.Clone(observers),
	}
}

// derive wraps a computed store in a new table inheriting config and
// observers
func (t *Table) derive(store *columnstore.Store) *Table {
	store.SetName(t.store.Name())
	return newTable(store, t.config, t.observers)
}

// ID returns the table's unique identifier
func (t *Table) ID() string { return t.id }

// Name returns the table name
func (t *Table) Name() string { return t.store.Name() }

// NumRows returns the row count
func (t *Table) NumRows() int { return t.store.NumRows() }

// NumCols returns the column count
func (t *Table) NumCols() int { return t.store.NumCols() }

// Columns returns the column names in order
func (t *Table) Columns() []string { return t.store.ColumnNames() }

// Schema returns the column names and inferred types
func (t *Table) Schema() *schema.TableSchema { return t.store.Schema() }

// Config returns the table's settings
func (t *Table) Config() Config { return t.config }

// Column returns a copy of the named column's values
func (t *Table) Column(name string) ([]any, error) {
	col, err := t.store.Column(name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(col.Values), nil
}

// Records materializes every row as a map
func (t *Table) Records() []map[string]any {
	return t.store.Records(nil)
}

// Rows returns row views of the given positions, in the order given.
// Out-of-range positions fail with a ShapeError.
func (t *Table) Rows(positions ...int) ([]data.Row, error) {
	return t.store.Rows(positions)
}

// Key returns the key columns, nil when the table is not keyed
func (t *Table) Key() []string { return t.indexes.Key() }

// Indexes lists the column sets with a live index
func (t *Table) Indexes() [][]string { return t.indexes.Indexes() }

// String renders the table as a text grid
func (t *Table) String() string {
	rows := make([][]any, t.store.NumRows())
	names := t.store.ColumnNames()
	for p := range rows {
		row := make([]any, len(names))
		for c := range names {
			row[c] = t.store.Value(c, p)
		}
		rows[p] = row
	}
	return render.Text(names, rows)
}

// Copy returns an independent deep copy with the same key, indexes,
// config and observers
func (t *Table) Copy() *Table {
	out := newTable(t.store.Copy(), t.config, t.observers)
	out.indexes = t.indexes.Copy()
	return out
}

// AddObserver registers an observer to receive lifecycle events
func (t *Table) AddObserver(observer Observer) {
	t.observers = append(t.observers, observer)
}

// RemoveObserver unregisters an observer
func (t *Table) RemoveObserver(observer Observer) {
	for i, o := range t.observers {
		if o == observer {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (t *Table) notify(event Event) {
	event.Timestamp = time.Now()
	event.TableID = t.id
	for _, observer := range t.observers {
		observer.OnEvent(event)
	}
}

func (t *Table) env() operations.Env {
	return operations.Env{
		Store:             t.store,
		Indexes:           t.indexes,
		AutoIndex:         t.config.AutoIndex,
		Workers:           t.config.Workers,
		ParallelThreshold: t.config.ParallelThreshold,
		Logger:            t.config.logger(),
	}
}

// Query evaluates filter/select/assign/group arguments and returns a new
// table. The receiver is never modified.
func (t *Table) Query(args ...operations.Arg) (*Table, error) {
	tx := transaction.NewTransaction("query")
	defer tx.Close()
	t.notify(Event{Type: EventQueryStart, OpID: tx.ID, Data: len(args)})

	res, err := operations.Query(t.env(), args...)
	if err != nil {
		t.notify(Event{Type: EventQueryEnd, OpID: tx.ID, Data: err})
		return nil, err
	}

	out := t.derive(res.Store)
	if len(res.Key) > 0 {
		if err := out.indexes.SetKey(out.store, res.Key); err != nil {
			return nil, err
		}
	}
	t.notify(Event{Type: EventQueryEnd, OpID: tx.ID, Data: map[string]any{
		"rows_returned": out.NumRows(),
		"columns":       out.Columns(),
	}})
	return out, nil
}

// Set evaluates the arguments and writes the results into the receiver,
// which it returns for chaining. On error the table is unchanged.
func (t *Table) Set(args ...operations.Arg) (*Table, error) {
	tx := transaction.NewTransaction("set")
	defer tx.Close()
	t.notify(Event{Type: EventSetStart, OpID: tx.ID, Data: len(args)})

	before := t.store.ColumnNames()
	res, err := operations.Set(t.env(), args...)
	if err != nil {
		t.notify(Event{Type: EventSetEnd, OpID: tx.ID, Data: err})
		return nil, err
	}

	// 1. Record what changed
	for _, name := range res.Changed {
		change := transaction.Change{Type: transaction.ChangeTypeOverwrite, Table: t.Name(), Column: name}
		switch {
		case !t.store.HasColumn(name):
			change.Type = transaction.ChangeTypeRemove
		case !slices.Contains(before, name):
			change.Type = transaction.ChangeTypeAdd
		}
		tx.Record(change)
	}

	// 2. Drop stale indexes
	t.indexes.Invalidate(res.Changed...)
	if res.Reordered {
		tx.Record(transaction.Change{Type: transaction.ChangeTypeReorder, Table: t.Name()})
		t.indexes.ClearKey()
		if err := t.indexes.Rebuild(t.store); err != nil {
			return nil, err
		}
	}

	// 3. Key the receiver when asked to
	if len(res.Key) > 0 {
		if err := t.SetKey(res.Key...); err != nil {
			return nil, err
		}
	}

	t.notify(Event{Type: EventSetEnd, OpID: tx.ID, Data: tx.Changes})
	return t, nil
}

// SetKey sorts the table by columns (stable) and records them as its key
func (t *Table) SetKey(columns ...string) error {
	if err := t.indexes.SetKey(t.store, columns); err != nil {
		return err
	}
	t.notify(Event{Type: EventIndexBuilt, Data: map[string]any{"key": columns}})
	return nil
}

// SetIndex builds a secondary index without reordering rows
func (t *Table) SetIndex(columns ...string) error {
	if _, err := t.indexes.SetIndex(t.store, columns); err != nil {
		return err
	}
	t.notify(Event{Type: EventIndexBuilt, Data: map[string]any{"index": columns}})
	return nil
}

// SetOrder physically reorders rows by columns. The key is dropped
// because rows are no longer in key order.
func (t *Table) SetOrder(columns []string, directions ...operations.Direction) error {
	perm, err := operations.Order(t.store, columns, directions...)
	if err != nil {
		return err
	}
	if err := t.store.Reorder(perm); err != nil {
		return err
	}
	t.indexes.ClearKey()
	return t.indexes.Rebuild(t.store)
}

// AddRow appends one record, keeping key order and indexes current
func (t *Table) AddRow(record map[string]any) error {
	return t.AddRows([]map[string]any{record})
}

// AddRows appends records atomically: all of them or none
func (t *Table) AddRows(records []map[string]any) error {
	tx := transaction.NewTransaction("append")
	defer tx.Close()

	if err := t.store.AppendRows(records); err != nil {
		return err
	}
	if err := t.indexes.Refresh(t.store); err != nil {
		return err
	}
	tx.Record(transaction.Change{Type: transaction.ChangeTypeAppend, Table: t.Name(), Rows: len(records)})

	t.config.logger().Debug("rows appended",
		slog.String("table", t.Name()),
		slog.Int("rows", len(records)),
		slog.Int("total_rows", t.NumRows()))
	t.notify(Event{Type: EventRowsAppended, OpID: tx.ID, Data: tx.Changes})
	return nil
}

// Unique returns the first row of each distinct combination of columns
// (all columns when none are given)
func (t *Table) Unique(columns ...string) (*Table, error) {
	store, err := operations.Unique(t.store, columns...)
	if err != nil {
		return nil, err
	}
	return t.derive(store), nil
}
