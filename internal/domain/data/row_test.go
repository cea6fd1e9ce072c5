package data

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

type fakeSource struct {
	names []string
	cols  [][]any
}

func (f fakeSource) ColumnNames() []string { return f.names }

func (f fakeSource) ColumnIndex(name string) (int, bool) {
	for i, n := range f.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func (f fakeSource) Value(col, row int) any { return f.cols[col][row] }

func TestRow(t *testing.T) {
	src := fakeSource{
		names: []string{"id", "name", "score"},
		cols:  [][]any{{1.0, 2.0}, {"alice", nil}, {nil, 7.5}},
	}
	tracker := &Tracker{}

	r := NewRow(src, 1, tracker)
	assert.Equal(t, r.Position(), 1)
	assert.Equal(t, r.Float("score"), 7.5)
	assert.Equal(t, r.String("name"), "")
	assert.Assert(t, r.IsNull("name"))
	assert.Assert(t, math.IsNaN(NewRow(src, 0, tracker).Float("score")))
	assert.DeepEqual(t, r.Map(), map[string]any{"id": 2.0, "name": nil, "score": 7.5})

	_, missing := tracker.Missing()
	assert.Assert(t, !missing)

	r.Get("salary")
	name, missing := tracker.Missing()
	assert.Assert(t, missing)
	assert.Equal(t, name, "salary")
}

func TestRowWithoutTracker(t *testing.T) {
	src := fakeSource{names: []string{"id"}, cols: [][]any{{1.0}}}

	// Should not panic
	v := NewRow(src, 0, nil).Get("nope")
	assert.Assert(t, v == nil)
}
