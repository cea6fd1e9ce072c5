package operations

import (
	"math"
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/schema"
)

// GroupContext is what a GroupFunc sees for one group
type GroupContext struct {
	N   int   // rows in the group
	GRP int   // 1-based group ordinal
	I   []int // row positions in the source table
	SD  *SubData

	keyNames []string
	keys     []any
}

// Key returns the group's value for a grouping column
func (g *GroupContext) Key(name string) any {
	for i, n := range g.keyNames {
		if n == name {
			return g.keys[i]
		}
	}
	g.SD.tracker.Miss(name)
	return nil
}

// Keys returns the grouping tuple
func (g *GroupContext) Keys() []any {
	return slices.Clone(g.keys)
}

// Sum adds the non-null numeric values of column
func (g *GroupContext) Sum(column string) float64 {
	var total float64
	for _, f := range g.SD.Floats(column) {
		total += f
	}
	return total
}

// Mean averages the non-null numeric values of column, NaN when there are none
func (g *GroupContext) Mean(column string) float64 {
	values := g.SD.Floats(column)
	if len(values) == 0 {
		return math.NaN()
	}
	return g.Sum(column) / float64(len(values))
}

// Min returns the smallest non-null value of column
func (g *GroupContext) Min(column string) any {
	return extreme(g.SD.Column(column), -1)
}

// Max returns the largest non-null value of column
func (g *GroupContext) Max(column string) any {
	return extreme(g.SD.Column(column), 1)
}

// First returns the first value of column in the group
func (g *GroupContext) First(column string) any {
	values := g.SD.Column(column)
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// Last returns the last value of column in the group
func (g *GroupContext) Last(column string) any {
	values := g.SD.Column(column)
	if len(values) == 0 {
		return nil
	}
	return values[len(values)-1]
}

// Count returns the number of non-null values of column
func (g *GroupContext) Count(column string) int {
	n := 0
	for _, v := range g.SD.Column(column) {
		if v != nil {
			n++
		}
	}
	return n
}

// UniqueN returns the number of distinct values of column, null included
func (g *GroupContext) UniqueN(column string) int {
	seen := make(map[string]struct{})
	for _, v := range g.SD.Column(column) {
		seen[data.Key(v)] = struct{}{}
	}
	return len(seen)
}

func extreme(values []any, sign int) any {
	var best any
	for _, v := range values {
		if v == nil {
			continue
		}
		if best == nil || data.Compare(v, best)*sign > 0 {
			best = v
		}
	}
	return best
}

// SubData is the group's subset of data, restricted to the SD columns
type SubData struct {
	src       data.Source
	positions []int
	tracker   *data.Tracker
}

// Len returns the number of rows in the subset
func (sd *SubData) Len() int { return len(sd.positions) }

// Names returns the visible column names
func (sd *SubData) Names() []string { return sd.src.ColumnNames() }

// Column returns a copy of the named column's values for the group.
// Unknown names yield nil and fail the enclosing call.
func (sd *SubData) Column(name string) []any {
	col, ok := sd.src.ColumnIndex(name)
	if !ok {
		sd.tracker.Miss(name)
		return nil
	}
	out := make([]any, len(sd.positions))
	for i, p := range sd.positions {
		out[i] = sd.src.Value(col, p)
	}
	return out
}

// Floats returns the non-null numeric values of column
func (sd *SubData) Floats(name string) []float64 {
	values := sd.Column(name)
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := data.ToFloat64(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Row returns a view of the i-th row of the subset
func (sd *SubData) Row(i int) data.Row {
	return data.NewRow(sd.src, sd.positions[i], sd.tracker)
}

// Rows returns views of every row of the subset
func (sd *SubData) Rows() []data.Row {
	rows := make([]data.Row, len(sd.positions))
	for i := range sd.positions {
		rows[i] = sd.Row(i)
	}
	return rows
}

// Shift lags (n > 0) or leads (n < 0) values by n places, filling the
// vacated slots with fill.
func Shift(values []any, n int, fill any) []any {
	out := make([]any, len(values))
	fill = schema.Normalize(fill)
	for i := range out {
		j := i - n
		if j < 0 || j >= len(values) {
			out[i] = fill
			continue
		}
		out[i] = values[j]
	}
	return out
}
