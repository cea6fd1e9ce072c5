package operations

import (
	"log/slog"
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
	"golang.org/x/sync/errgroup"
)

// Filter resolves the row-selecting arguments to working row positions.
// Filters compose in argument order; with none every row is kept.
func Filter(env Env, spec *Spec) ([]int, error) {
	positions := env.Store.AllPositions()
	for _, f := range spec.filters {
		var err error
		switch f.kind {
		case filterWhere:
			positions, err = filterWhereRows(env, positions, f.predicate)
		case filterRows:
			positions, err = filterPositions(env, positions, f.positions)
		case filterMask:
			positions, err = filterMaskRows(env, positions, f.mask)
		case filterLookup:
			positions, err = filterLookupRows(env, positions, f.columns, f.values)
		case filterHead:
			if f.n >= 0 && f.n < len(positions) {
				positions = positions[:f.n]
			}
		case filterTail:
			if f.n >= 0 && f.n < len(positions) {
				positions = positions[len(positions)-f.n:]
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return positions, nil
}

func filterPositions(env Env, current, wanted []int) ([]int, error) {
	if err := env.Store.CheckPositions(wanted); err != nil {
		return nil, err
	}
	present := make(map[int]bool, len(current))
	for _, p := range current {
		present[p] = true
	}
	out := make([]int, 0, len(wanted))
	for _, p := range wanted {
		if present[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func filterMaskRows(env Env, current []int, mask []bool) ([]int, error) {
	if len(mask) != env.Store.NumRows() {
		return nil, errors.NewLengthMismatch(env.Store.Name(), "", env.Store.NumRows(), len(mask))
	}
	out := make([]int, 0, len(current))
	for _, p := range current {
		if mask[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func filterLookupRows(env Env, current []int, columns []string, values []any) ([]int, error) {
	if err := env.Store.CheckColumns(columns...); err != nil {
		return nil, err
	}
	if len(columns) != len(values) {
		return nil, &errors.ShapeError{
			Table:    env.Store.Name(),
			Expected: len(columns),
			Actual:   len(values),
			Reason:   "lookup needs one value per column",
		}
	}
	if data.HasNull(values) {
		return []int{}, nil
	}

	var matches []int
	mgr := env.indexes()
	if idx, ok := mgr.Lookup(columns); ok || env.AutoIndex {
		if !ok {
			var err error
			idx, _, err = mgr.Ensure(env.Store, columns, true)
			if err != nil {
				return nil, err
			}
		}
		matches = idx.Find(values...)
	} else {
		env.logger().Debug("Lookup without index, scanning",
			slog.String("table", env.Store.Name()),
			slog.Any("columns", columns))
		key := data.Key(normalizeTuple(values)...)
		cols := make([][]any, len(columns))
		for i, c := range columns {
			col, _ := env.Store.Column(c)
			cols[i] = col.Values
		}
		tuple := make([]any, len(columns))
		for _, p := range current {
			for i, values := range cols {
				tuple[i] = values[p]
			}
			if data.Key(tuple...) == key {
				matches = append(matches, p)
			}
		}
	}

	hit := make(map[int]bool, len(matches))
	for _, p := range matches {
		hit[p] = true
	}
	out := make([]int, 0, len(matches))
	for _, p := range current {
		if hit[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func filterWhereRows(env Env, current []int, predicate func(data.Row) bool) ([]int, error) {
	if predicate == nil {
		return current, nil
	}
	workers := env.Workers
	if workers <= 1 || len(current) < env.ParallelThreshold || len(current) < workers {
		return evalPredicate(env, current, predicate)
	}

	env.logger().Debug("Evaluating filter in parallel",
		slog.String("table", env.Store.Name()),
		slog.Int("rows", len(current)),
		slog.Int("workers", workers))

	chunk := (len(current) + workers - 1) / workers
	parts := make([][]int, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(current) {
			break
		}
		hi := min(lo+chunk, len(current))
		g.Go(func() error {
			kept, err := evalPredicate(env, current[lo:hi], predicate)
			if err != nil {
				return err
			}
			parts[w] = kept
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(parts...), nil
}

func evalPredicate(env Env, positions []int, predicate func(data.Row) bool) ([]int, error) {
	tracker := &data.Tracker{}
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if predicate(data.NewRow(env.Store, p, tracker)) {
			out = append(out, p)
		}
		if name, missing := tracker.Missing(); missing {
			return nil, errors.NewUnknownColumn(env.Store.Name(), name, env.Store.ColumnNames())
		}
	}
	return out, nil
}

func normalizeTuple(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = schema.Normalize(v)
	}
	return out
}
