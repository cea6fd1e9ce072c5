package join

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// ExecuteJoin performs an equi JOIN of the specified type.
// Left rows keep their order; each left row's matches follow in right
// row order. Unmatched right rows (Right and Full) are appended last.
// Null keys never match.
func ExecuteJoin(left, right Side, spec Spec, opts Options) (*columnstore.Store, error) {
	leftKeys, rightKeys, err := resolveKeys(spec.On, spec.LeftOn, spec.RightOn)
	if err != nil {
		return nil, err
	}
	if err := validateJoinCondition(left, right, leftKeys, rightKeys); err != nil {
		return nil, err
	}

	joinType := spec.Type
	if joinType == JoinTypeLeft && spec.NoMatch {
		joinType = JoinTypeInner
	}
	if joinType < JoinTypeInner || joinType > JoinTypeFull {
		return nil, fmt.Errorf("unknown JOIN type: %v", joinType)
	}

	logger := opts.logger()
	logger.Debug(fmt.Sprintf("Starting %s", joinType),
		slog.String("left_table", left.Store.Name()),
		slog.String("right_table", right.Store.Name()),
		slog.Any("left_on", leftKeys),
		slog.Any("right_on", rightKeys),
	)

	var pairs []pair
	if joinType == JoinTypeInner && preferLeftHash(left, right, leftKeys, rightKeys) {
		pairs, err = hashLeftPairs(left, right, leftKeys, rightKeys, opts)
	} else {
		pairs, err = probeRightPairs(left, right, leftKeys, rightKeys, joinType, opts)
	}
	if err != nil {
		return nil, err
	}

	unmatchedLeft, matchedRight := 0, make(map[int]bool)
	for _, p := range pairs {
		if p.right < 0 {
			unmatchedLeft++
		} else {
			matchedRight[p.right] = true
		}
	}
	pairs = applyMult(pairs, spec.Mult)

	// Add unmatched right rows
	if joinType == JoinTypeRight || joinType == JoinTypeFull {
		for r := 0; r < right.Store.NumRows(); r++ {
			if !matchedRight[r] {
				pairs = append(pairs, pair{left: -1, right: r})
			}
		}
	}

	out, err := buildOutput(left, right, pairs, outputLayout{
		leftKeys:  leftKeys,
		rightKeys: rightKeys,
		dropKeys:  true,
		suffix:    spec.Suffix,
	})
	if err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("%s completed", joinType),
		slog.String("left_table", left.Store.Name()),
		slog.String("right_table", right.Store.Name()),
		slog.Int("result_rows", out.NumRows()),
		slog.Int("unmatched_left", unmatchedLeft),
		slog.Int("unmatched_right", right.Store.NumRows()-len(matchedRight)),
	)
	return out, nil
}

// preferLeftHash reports whether an inner join should hash the left side:
// when it is indexed and the right is not, or when it is the smaller one.
func preferLeftHash(left, right Side, leftKeys, rightKeys []string) bool {
	if hasIndex(right, rightKeys) {
		return false
	}
	return hasIndex(left, leftKeys) || left.Store.NumRows() < right.Store.NumRows()
}

// probeRightPairs probes the right side's index with every left row
func probeRightPairs(left, right Side, leftKeys, rightKeys []string, joinType JoinType, opts Options) ([]pair, error) {
	idx, err := probeIndex(right, rightKeys, opts)
	if err != nil {
		return nil, err
	}
	keepUnmatched := joinType == JoinTypeLeft || joinType == JoinTypeFull

	cols := keyColumns(left.Store, leftKeys)
	pairs := make([]pair, 0, left.Store.NumRows())
	for l := 0; l < left.Store.NumRows(); l++ {
		key := tupleAt(cols, l)
		var matches []int
		if !data.HasNull(key) {
			matches = idx.Find(key...)
		}
		if len(matches) == 0 {
			if keepUnmatched {
				pairs = append(pairs, pair{left: l, right: -1})
			}
			continue
		}
		for _, r := range matches {
			pairs = append(pairs, pair{left: l, right: r})
		}
	}
	return pairs, nil
}

// hashLeftPairs builds the lookup on the left and probes with right rows,
// then restores left-major order so the result matches probeRightPairs.
func hashLeftPairs(left, right Side, leftKeys, rightKeys []string, opts Options) ([]pair, error) {
	var idx *indexing.Index
	var err error
	if hasIndex(left, leftKeys) {
		idx, _ = left.Indexes.Lookup(leftKeys)
		opts.logger().Debug("Reusing existing index",
			slog.String("table", left.Store.Name()),
			slog.Any("columns", leftKeys))
	} else {
		idx, err = indexing.Build(left.Store, leftKeys)
		if err != nil {
			return nil, err
		}
	}

	cols := keyColumns(right.Store, rightKeys)
	var pairs []pair
	for r := 0; r < right.Store.NumRows(); r++ {
		key := tupleAt(cols, r)
		if data.HasNull(key) {
			continue
		}
		for _, l := range idx.Find(key...) {
			pairs = append(pairs, pair{left: l, right: r})
		}
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		if a.left != b.left {
			return a.left - b.left
		}
		return a.right - b.right
	})
	return pairs, nil
}

// applyMult keeps the first or last match of each left row
func applyMult(pairs []pair, mult Mult) []pair {
	if mult == MultAll {
		return pairs
	}
	out := pairs[:0:0]
	for i := 0; i < len(pairs); {
		j := i
		for j < len(pairs) && pairs[j].left == pairs[i].left {
			j++
		}
		if mult == MultFirst {
			out = append(out, pairs[i])
		} else {
			out = append(out, pairs[j-1])
		}
		i = j
	}
	return out
}
