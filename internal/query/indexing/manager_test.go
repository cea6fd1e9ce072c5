package indexing

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestManager_SetKey(t *testing.T) {
	s := quotes(t)
	m := NewManager(nil)

	assert.NilError(t, m.SetKey(s, []string{"sym", "ts"}))
	col, _ := s.Column("ts")
	assert.DeepEqual(t, col.Values, []any{1.0, 3.0, 3.0, nil, 1.0})
	assert.DeepEqual(t, m.Key(), []string{"sym", "ts"})

	idx, ok := m.Lookup([]string{"sym", "ts"})
	assert.Assert(t, ok, "key doubles as an index")
	assert.DeepEqual(t, idx.Find("B", 1), []int{4})
}

func TestManager_Invalidate(t *testing.T) {
	s := quotes(t)
	m := NewManager(nil)
	assert.NilError(t, m.SetKey(s, []string{"sym"}))
	_, err := m.SetIndex(s, []string{"ts"})
	assert.NilError(t, err)

	m.Invalidate("ts")
	assert.DeepEqual(t, m.Indexes(), [][]string{{"sym"}})
	assert.DeepEqual(t, m.Key(), []string{"sym"})

	m.Invalidate("sym")
	assert.Equal(t, len(m.Indexes()), 0)
	assert.Assert(t, m.Key() == nil)
}

func TestManager_Ensure(t *testing.T) {
	s := quotes(t)
	m := NewManager(nil)

	_, reused, err := m.Ensure(s, []string{"sym"}, false)
	assert.NilError(t, err)
	assert.Assert(t, !reused)
	_, ok := m.Lookup([]string{"sym"})
	assert.Assert(t, !ok, "temporary index is not registered")

	_, _, err = m.Ensure(s, []string{"sym"}, true)
	assert.NilError(t, err)
	_, reused, err = m.Ensure(s, []string{"sym"}, false)
	assert.NilError(t, err)
	assert.Assert(t, reused)
}

func TestManager_Refresh(t *testing.T) {
	s := quotes(t)
	m := NewManager(nil)
	assert.NilError(t, m.SetKey(s, []string{"sym"}))

	assert.NilError(t, s.AppendRow(map[string]any{"sym": "A", "ts": 9}))
	assert.NilError(t, m.Refresh(s))

	col, _ := s.Column("sym")
	assert.DeepEqual(t, col.Values, []any{"A", "A", "A", "A", "B", "B"})
	idx, _ := m.Lookup([]string{"sym"})
	assert.Equal(t, idx.Len(), 6)
}
