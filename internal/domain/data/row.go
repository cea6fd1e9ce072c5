package data

import (
	"math"
	"sync"
	"time"
)

// Source is the read-only column access a Row view resolves against.
type Source interface {
	ColumnNames() []string
	ColumnIndex(name string) (int, bool)
	Value(col, row int) any
}

// Tracker records column names that a computation asked for but that do
// not exist in the row's schema. The evaluator checks it after every
// user callback and turns misses into schema errors.
type Tracker struct {
	mu      sync.Mutex
	missing []string
}

// Miss records a reference to an unknown column
func (t *Tracker) Miss(name string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.missing {
		if m == name {
			return
		}
	}
	t.missing = append(t.missing, name)
}

// Missing returns the first unknown column referenced, if any
func (t *Tracker) Missing() (string, bool) {
	if t == nil {
		return "", false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.missing) == 0 {
		return "", false
	}
	return t.missing[0], true
}

// Row is a typed, read-only view of one table row.
// Column lookups resolve against the table's declared schema.
type Row struct {
	src     Source
	pos     int
	tracker *Tracker
}

// NewRow creates a view of row pos of src
func NewRow(src Source, pos int, tracker *Tracker) Row {
	return Row{src: src, pos: pos, tracker: tracker}
}

// Position returns the underlying row position
func (r Row) Position() int {
	return r.pos
}

// Lookup retrieves a value by column name without recording misses
func (r Row) Lookup(name string) (any, bool) {
	col, ok := r.src.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	return r.src.Value(col, r.pos), true
}

// Get retrieves a value by column name; unknown names yield nil and are
// reported as a schema error by the caller evaluating this row.
func (r Row) Get(name string) any {
	v, ok := r.Lookup(name)
	if !ok {
		r.tracker.Miss(name)
	}
	return v
}

// Float returns a numeric column value, NaN when null or non-numeric
func (r Row) Float(name string) float64 {
	if f, ok := r.Get(name).(float64); ok {
		return f
	}
	return math.NaN()
}

// String returns a string column value, "" when null
func (r Row) String(name string) string {
	switch v := r.Get(name).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return Format(v)
	}
}

// Bool returns a boolean column value, false when null
func (r Row) Bool(name string) bool {
	b, _ := r.Get(name).(bool)
	return b
}

// Time returns a timestamp column value, the zero time when null
func (r Row) Time(name string) time.Time {
	t, _ := r.Get(name).(time.Time)
	return t
}

// IsNull reports whether the column value is null
func (r Row) IsNull(name string) bool {
	return r.Get(name) == nil
}

// Columns lists the column names visible through this row
func (r Row) Columns() []string {
	return r.src.ColumnNames()
}

// Map copies the row into a plain map
func (r Row) Map() map[string]any {
	names := r.src.ColumnNames()
	m := make(map[string]any, len(names))
	for i, name := range names {
		m[name] = r.src.Value(i, r.pos)
	}
	return m
}
