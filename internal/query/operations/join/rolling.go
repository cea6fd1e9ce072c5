package join

import (
	"fmt"
	"log/slog"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// ExecuteRollingJoin matches every left row with one right row: prefix
// key columns equal and the last key column the nearest value in the
// chosen direction, using the right side's sorted index. Left rows with
// no qualifying neighbour are null-filled (Left) or dropped (Inner).
func ExecuteRollingJoin(left, right Side, spec RollSpec, opts Options) (*columnstore.Store, error) {
	leftKeys, rightKeys, err := resolveKeys(spec.On, spec.LeftOn, spec.RightOn)
	if err != nil {
		return nil, err
	}
	if err := validateJoinCondition(left, right, leftKeys, rightKeys); err != nil {
		return nil, err
	}
	if spec.Type != JoinTypeInner && spec.Type != JoinTypeLeft {
		return nil, fmt.Errorf("rolling join supports INNER and LEFT, got %s", spec.Type)
	}

	logger := opts.logger()
	logger.Debug("Starting ROLLING JOIN",
		slog.String("left_table", left.Store.Name()),
		slog.String("right_table", right.Store.Name()),
		slog.Any("on", leftKeys),
		slog.Int("direction", int(spec.Direction)),
	)

	idx, err := probeIndex(right, rightKeys, opts)
	if err != nil {
		return nil, err
	}

	last := len(rightKeys) - 1
	rightRoll, _ := right.Store.Column(rightKeys[last])
	cols := keyColumns(left.Store, leftKeys)

	pairs := make([]pair, 0, left.Store.NumRows())
	unmatched := 0
	for l := 0; l < left.Store.NumRows(); l++ {
		key := tupleAt(cols, l)
		r, ok := -1, false
		if !data.HasNull(key) {
			switch spec.Direction {
			case Forward:
				r, ok = idx.FindNearestAtOrAfter(key)
			case Nearest:
				r, ok = nearest(idx.FindNearestAtOrBefore, idx.FindNearestAtOrAfter, key, rightRoll.Values)
			default:
				r, ok = idx.FindNearestAtOrBefore(key)
			}
		}
		if ok && spec.MaxGap > 0 {
			gap, measurable := data.Distance(key[last], rightRoll.Values[r])
			ok = measurable && gap <= spec.MaxGap
		}
		if !ok {
			unmatched++
			if spec.Type == JoinTypeLeft {
				pairs = append(pairs, pair{left: l, right: -1})
			}
			continue
		}
		pairs = append(pairs, pair{left: l, right: r})
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
	logger.Info("ROLLING JOIN completed",
		slog.String("left_table", left.Store.Name()),
		slog.String("right_table", right.Store.Name()),
		slog.Int("result_rows", out.NumRows()),
		slog.Int("unmatched_left", unmatched),
	)
	return out, nil
}

type finder func(key []any) (int, bool)

// nearest picks the closer of the backward and forward neighbours; ties
// go backward
func nearest(before, after finder, key []any, roll []any) (int, bool) {
	b, okB := before(key)
	a, okA := after(key)
	switch {
	case !okB:
		return a, okA
	case !okA:
		return b, true
	}
	target := key[len(key)-1]
	db, okDB := data.Distance(target, roll[b])
	da, okDA := data.Distance(target, roll[a])
	if !okDB || !okDA || db <= da {
		return b, true
	}
	return a, true
}
