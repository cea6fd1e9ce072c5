package join

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// ExecuteNonEquiJoin matches left and right rows on a conjunction of
// comparisons. Right rows are sorted on the first inequality's column so
// each left row only visits the candidate range; the other conditions are
// checked per pair. Matches of one left row follow in right row order.
func ExecuteNonEquiJoin(left, right Side, spec NonEquiSpec, opts Options) (*columnstore.Store, error) {
	if len(spec.Conditions) == 0 {
		return nil, errors.NewShapeError(left.Store.Name(), "non-equi join needs at least one condition")
	}
	var leftCols, rightCols []string
	for _, c := range spec.Conditions {
		switch c.Op {
		case OpLess, OpLessEq, OpGreater, OpGreaterEq, OpEqual:
		default:
			return nil, fmt.Errorf("unknown join operator %q", c.Op)
		}
		leftCols = append(leftCols, c.Left)
		rightCols = append(rightCols, c.Right)
	}
	if err := validateJoinCondition(left, right, leftCols, rightCols); err != nil {
		return nil, err
	}
	if spec.Type != JoinTypeInner && spec.Type != JoinTypeLeft {
		return nil, fmt.Errorf("non-equi join supports INNER and LEFT, got %s", spec.Type)
	}

	logger := opts.logger()
	logger.Debug("Starting NON-EQUI JOIN",
		slog.String("left_table", left.Store.Name()),
		slog.String("right_table", right.Store.Name()),
		slog.Int("conditions", len(spec.Conditions)),
	)

	pivot := spec.Conditions[0]
	for _, c := range spec.Conditions {
		if c.Op != OpEqual {
			pivot = c
			break
		}
	}

	sorted, err := indexing.SortPositions(right.Store, right.Store.AllPositions(), []string{pivot.Right}, nil)
	if err != nil {
		return nil, err
	}
	pivotRight, _ := right.Store.Column(pivot.Right)
	pivotLeft, _ := left.Store.Column(pivot.Left)
	bounds := make([]any, len(sorted))
	for i, p := range sorted {
		bounds[i] = pivotRight.Values[p]
	}
	// nulls sort first and never match
	firstValue := sort.Search(len(bounds), func(i int) bool { return bounds[i] != nil })

	type check struct {
		op          Op
		left, right []any
	}
	checks := make([]check, len(spec.Conditions))
	for i, c := range spec.Conditions {
		lc, _ := left.Store.Column(c.Left)
		rc, _ := right.Store.Column(c.Right)
		checks[i] = check{op: c.Op, left: lc.Values, right: rc.Values}
	}

	var pairs []pair
	for l := 0; l < left.Store.NumRows(); l++ {
		var matches []int
		if lv := pivotLeft.Values[l]; lv != nil {
			lo, hi := candidateRange(bounds, firstValue, pivot.Op, lv)
			for _, r := range sorted[lo:hi] {
				ok := true
				for _, c := range checks {
					if !holds(c.op, c.left[l], c.right[r]) {
						ok = false
						break
					}
				}
				if ok {
					matches = append(matches, r)
				}
			}
			slices.Sort(matches)
		}
		if len(matches) == 0 {
			if spec.Type == JoinTypeLeft {
				pairs = append(pairs, pair{left: l, right: -1})
			}
			continue
		}
		for _, r := range matches {
			pairs = append(pairs, pair{left: l, right: r})
		}
	}

	out, err := buildOutput(left, right, pairs, outputLayout{suffix: spec.Suffix})
	if err != nil {
		return nil, err
	}
	logger.Info("NON-EQUI JOIN completed",
		slog.String("left_table", left.Store.Name()),
		slog.String("right_table", right.Store.Name()),
		slog.Int("result_rows", out.NumRows()),
	)
	return out, nil
}

// candidateRange narrows the sorted bounds [first, len) to the slice where
// "lv op bound" can hold.
func candidateRange(bounds []any, first int, op Op, lv any) (int, int) {
	n := len(bounds)
	search := func(pred func(c int) bool) int {
		return first + sort.Search(n-first, func(i int) bool {
			return pred(data.Compare(bounds[first+i], lv))
		})
	}
	switch op {
	case OpLess: // bound > lv
		return search(func(c int) bool { return c > 0 }), n
	case OpLessEq: // bound >= lv
		return search(func(c int) bool { return c >= 0 }), n
	case OpGreater: // bound < lv
		return first, search(func(c int) bool { return c >= 0 })
	case OpGreaterEq: // bound <= lv
		return first, search(func(c int) bool { return c > 0 })
	default:
		return search(func(c int) bool { return c >= 0 }), search(func(c int) bool { return c > 0 })
	}
}

// holds evaluates "a op b" for two non-null values of the same type
func holds(op Op, a, b any) bool {
	if a == nil || b == nil || schema.TypeOf(a) != schema.TypeOf(b) {
		return false
	}
	c := data.Compare(a, b)
	switch op {
	case OpLess:
		return c < 0
	case OpLessEq:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEq:
		return c >= 0
	default:
		return c == 0
	}
}
