package indexing

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/leengari/datatable/internal/storage/columnstore"
)

// Manager tracks the key and secondary indexes of one table.
// The key index doubles as a secondary index over the key columns.
type Manager struct {
	key     []string
	indexes map[string]*Index // signature → index
	logger  *slog.Logger
}

// NewManager creates a manager with no key and no indexes
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		indexes: make(map[string]*Index),
		logger:  logger,
	}
}

func signature(columns []string) string {
	return strings.Join(columns, "\x1f")
}

// Key returns the current key columns (nil when unkeyed)
func (m *Manager) Key() []string {
	return slices.Clone(m.key)
}

// Indexes lists the column sets of every live index
func (m *Manager) Indexes() [][]string {
	out := make([][]string, 0, len(m.indexes))
	for _, idx := range m.indexes {
		out = append(out, slices.Clone(idx.Columns))
	}
	slices.SortFunc(out, func(a, b []string) int {
		return strings.Compare(signature(a), signature(b))
	})
	return out
}

// SetKey stable-sorts the store by columns, replaces the key and rebuilds
// every index against the new physical order.
func (m *Manager) SetKey(store *columnstore.Store, columns []string) error {
	if err := store.CheckColumns(columns...); err != nil {
		return err
	}

	perm, err := SortPositions(store, store.AllPositions(), columns, nil)
	if err != nil {
		return err
	}
	if err := store.Reorder(perm); err != nil {
		return err
	}

	m.key = slices.Clone(columns)
	m.indexes[signature(columns)] = nil
	if err := m.Rebuild(store); err != nil {
		return err
	}

	m.logger.Debug("key set",
		slog.String("table", store.Name()),
		slog.Any("columns", columns),
		slog.Int("rows", store.NumRows()))
	return nil
}

// ClearKey forgets the key without touching row order or indexes
func (m *Manager) ClearKey() {
	m.key = nil
}

// SetIndex builds (or rebuilds) a secondary index without reordering rows
func (m *Manager) SetIndex(store *columnstore.Store, columns []string) (*Index, error) {
	idx, err := Build(store, columns)
	if err != nil {
		return nil, err
	}
	m.indexes[signature(columns)] = idx

	m.logger.Debug("index built",
		slog.String("table", store.Name()),
		slog.Any("columns", columns),
		slog.Int("unique_values", idx.Distinct()),
		slog.Int("rows", idx.Len()))
	return idx, nil
}

// Lookup returns a live index over exactly these columns
func (m *Manager) Lookup(columns []string) (*Index, bool) {
	idx, ok := m.indexes[signature(columns)]
	if !ok || idx == nil {
		return nil, false
	}
	return idx, true
}

// Ensure returns an index over columns: an existing one when present,
// otherwise a newly built one that is registered only when autoBuild is
// set. The second result reports whether an existing index was reused.
func (m *Manager) Ensure(store *columnstore.Store, columns []string, autoBuild bool) (*Index, bool, error) {
	if idx, ok := m.Lookup(columns); ok {
		m.logger.Debug("Reusing existing index",
			slog.String("table", store.Name()),
			slog.Any("columns", columns))
		return idx, true, nil
	}
	if autoBuild {
		idx, err := m.SetIndex(store, columns)
		return idx, false, err
	}
	idx, err := Build(store, columns)
	if err != nil {
		return nil, false, err
	}
	m.logger.Debug("Built temporary index",
		slog.String("table", store.Name()),
		slog.Any("columns", columns))
	return idx, false, nil
}

// Invalidate drops every index touching one of the given columns. When a
// key column changes the key is dropped too, since rows are no longer
// guaranteed sorted.
func (m *Manager) Invalidate(columns ...string) {
	for sig, idx := range m.indexes {
		cols := strings.Split(sig, "\x1f")
		if idx != nil {
			cols = idx.Columns
		}
		for _, c := range columns {
			if slices.Contains(cols, c) {
				delete(m.indexes, sig)
				break
			}
		}
	}
	for _, c := range columns {
		if slices.Contains(m.key, c) {
			m.logger.Debug("key dropped after column change", slog.String("column", c))
			m.key = nil
			break
		}
	}
}

// Rebuild rebuilds every registered index against the store's current rows
func (m *Manager) Rebuild(store *columnstore.Store) error {
	for sig := range m.indexes {
		columns := strings.Split(sig, "\x1f")
		if _, err := m.SetIndex(store, columns); err != nil {
			return err
		}
	}
	return nil
}

// Refresh restores the key ordering and all indexes after rows were
// appended.
func (m *Manager) Refresh(store *columnstore.Store) error {
	if len(m.key) > 0 {
		return m.SetKey(store, m.key)
	}
	return m.Rebuild(store)
}

// Copy returns a manager with the same key and independent copies of the
// index set. Indexes are immutable once built, so they are shared.
func (m *Manager) Copy() *Manager {
	out := NewManager(m.logger)
	out.key = slices.Clone(m.key)
	for sig, idx := range m.indexes {
		out.indexes[sig] = idx
	}
	return out
}
