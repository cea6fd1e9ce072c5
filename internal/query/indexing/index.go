package indexing

import (
	"slices"
	"sort"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// Index is an in-memory index over one or more columns.
// It holds a hash of key tuple → row positions for equality lookups and a
// stable sorted permutation for range and nearest lookups.
type Index struct {
	Columns []string
	buckets map[string][]int // key tuple → ascending row positions
	sorted  []int            // row positions ordered by key tuple
	keys    [][]any          // key tuple of sorted[i]
}

// Build constructs an index over columns of store
func Build(store *columnstore.Store, columns []string) (*Index, error) {
	cols := make([]*columnstore.Column, len(columns))
	for i, name := range columns {
		col, err := store.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	idx := &Index{
		Columns: slices.Clone(columns),
		buckets: make(map[string][]int),
	}

	n := store.NumRows()
	tuples := make([][]any, n)
	for rowPos := 0; rowPos < n; rowPos++ {
		tuple := make([]any, len(cols))
		for i, col := range cols {
			tuple[i] = col.Values[rowPos]
		}
		tuples[rowPos] = tuple
		key := data.Key(tuple...)
		idx.buckets[key] = append(idx.buckets[key], rowPos)
	}

	idx.sorted = store.AllPositions()
	slices.SortStableFunc(idx.sorted, func(a, b int) int {
		return data.CompareTuples(tuples[a], tuples[b])
	})
	idx.keys = make([][]any, n)
	for i, p := range idx.sorted {
		idx.keys[i] = tuples[p]
	}

	return idx, nil
}

// Len returns the number of indexed rows
func (idx *Index) Len() int { return len(idx.sorted) }

// Distinct returns the number of distinct key tuples
func (idx *Index) Distinct() int { return len(idx.buckets) }

// Find returns the row positions whose key equals the tuple exactly, in
// ascending order. Missing keys yield an empty result.
func (idx *Index) Find(key ...any) []int {
	if len(key) != len(idx.Columns) {
		return nil
	}
	return slices.Clone(idx.buckets[data.Key(normalizeTuple(key)...)])
}

// Has reports whether an exact match exists
func (idx *Index) Has(key ...any) bool {
	if len(key) != len(idx.Columns) {
		return false
	}
	_, ok := idx.buckets[data.Key(normalizeTuple(key)...)]
	return ok
}

// FindRange returns the row positions whose key lies between low and high,
// in key order. Bounds may be shorter than the key (prefix comparison) and
// a nil bound is unbounded.
func (idx *Index) FindRange(low, high []any, lowInclusive, highInclusive bool) []int {
	low, high = normalizeTuple(low), normalizeTuple(high)

	start := 0
	if low != nil {
		start = sort.Search(len(idx.keys), func(i int) bool {
			c := data.CompareTuples(idx.keys[i], low)
			if lowInclusive {
				return c >= 0
			}
			return c > 0
		})
	}

	end := len(idx.keys)
	if high != nil {
		end = sort.Search(len(idx.keys), func(i int) bool {
			c := data.CompareTuples(idx.keys[i], high)
			if highInclusive {
				return c > 0
			}
			return c >= 0
		})
	}

	if start >= end {
		return nil
	}
	return slices.Clone(idx.sorted[start:end])
}

// FindNearestAtOrBefore returns the row whose key shares the tuple's
// prefix (all but the last column) exactly and whose last column is the
// greatest value <= the tuple's last value. Among equal keys the last row
// in stable order wins.
func (idx *Index) FindNearestAtOrBefore(key []any) (int, bool) {
	key = normalizeTuple(key)
	if len(key) != len(idx.Columns) || data.HasNull(key) {
		return -1, false
	}

	// first position with keys[i] > key
	i := sort.Search(len(idx.keys), func(i int) bool {
		return data.CompareTuples(idx.keys[i], key) > 0
	})
	if i == 0 {
		return -1, false
	}
	return idx.candidate(i-1, key)
}

// FindNearestAtOrAfter is the forward counterpart of FindNearestAtOrBefore.
// Among equal keys the first row in stable order wins.
func (idx *Index) FindNearestAtOrAfter(key []any) (int, bool) {
	key = normalizeTuple(key)
	if len(key) != len(idx.Columns) || data.HasNull(key) {
		return -1, false
	}

	// first position with keys[i] >= key
	i := sort.Search(len(idx.keys), func(i int) bool {
		return data.CompareTuples(idx.keys[i], key) >= 0
	})
	if i == len(idx.keys) {
		return -1, false
	}
	return idx.candidate(i, key)
}

func (idx *Index) candidate(i int, key []any) (int, bool) {
	found := idx.keys[i]
	last := len(key) - 1
	if data.CompareTuples(found[:last], key[:last]) != 0 || found[last] == nil {
		return -1, false
	}
	return idx.sorted[i], true
}

func normalizeTuple(key []any) []any {
	if key == nil {
		return nil
	}
	out := make([]any, len(key))
	for i, v := range key {
		out[i] = schema.Normalize(v)
	}
	return out
}
