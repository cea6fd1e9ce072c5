package join

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// pair is one output row; -1 on either side means no row (all nulls)
type pair struct {
	left, right int
}

// resolveKeys returns the left and right key column lists
func resolveKeys(on, leftOn, rightOn []string) ([]string, []string, error) {
	if len(on) > 0 {
		return on, on, nil
	}
	if len(leftOn) == 0 {
		return nil, nil, errors.NewShapeError("", "join needs at least one key column")
	}
	if len(leftOn) != len(rightOn) {
		return nil, nil, &errors.ShapeError{
			Expected: len(leftOn),
			Actual:   len(rightOn),
			Reason:   "left and right key lists differ in length",
		}
	}
	return leftOn, rightOn, nil
}

// validateJoinCondition checks if the join is valid
func validateJoinCondition(left, right Side, leftKeys, rightKeys []string) error {
	if left.Store == nil {
		return fmt.Errorf("left table is nil")
	}
	if right.Store == nil {
		return fmt.Errorf("right table is nil")
	}
	if err := left.Store.CheckColumns(leftKeys...); err != nil {
		return err
	}
	return right.Store.CheckColumns(rightKeys...)
}

// probeIndex returns an index over the side's key columns: the registered
// one, an auto-built one, or a temporary one.
func probeIndex(side Side, keys []string, opts Options) (*indexing.Index, error) {
	if side.Indexes == nil {
		return indexing.Build(side.Store, keys)
	}
	if _, ok := side.Indexes.Lookup(keys); !ok && !opts.AutoIndex {
		opts.logger().Warn("Joining on non-indexed column (consider adding index)",
			slog.String("table", side.Store.Name()),
			slog.Any("columns", keys),
		)
	}
	idx, _, err := side.Indexes.Ensure(side.Store, keys, opts.AutoIndex)
	return idx, err
}

func hasIndex(side Side, keys []string) bool {
	if side.Indexes == nil {
		return false
	}
	_, ok := side.Indexes.Lookup(keys)
	return ok
}

// keyColumns fetches the value slices of the named columns
func keyColumns(store *columnstore.Store, names []string) [][]any {
	cols := make([][]any, len(names))
	for i, name := range names {
		col, _ := store.Column(name)
		cols[i] = col.Values
	}
	return cols
}

func tupleAt(cols [][]any, pos int) []any {
	tuple := make([]any, len(cols))
	for i, values := range cols {
		tuple[i] = values[pos]
	}
	return tuple
}

// outputLayout decides which columns the joined table carries
type outputLayout struct {
	leftKeys  []string
	rightKeys []string
	dropKeys  bool // right key columns are emitted once, under the left name
	suffix    string
}

// buildOutput materializes pairs: left columns, then right columns
// (key columns once when dropKeys is set); colliding right names get the
// suffix.
func buildOutput(left, right Side, pairs []pair, layout outputLayout) (*columnstore.Store, error) {
	suffix := layout.suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	out := columnstore.New(left.Store.Name())
	used := make(map[string]bool)

	for _, name := range left.Store.ColumnNames() {
		col, _ := left.Store.Column(name)
		values := make([]any, len(pairs))

		// Unmatched right rows take the key from the right side
		var fallback []any
		if layout.dropKeys {
			if k := slices.Index(layout.leftKeys, name); k >= 0 {
				rcol, _ := right.Store.Column(layout.rightKeys[k])
				fallback = rcol.Values
			}
		}
		for i, p := range pairs {
			switch {
			case p.left >= 0:
				values[i] = col.Values[p.left]
			case fallback != nil && p.right >= 0:
				values[i] = fallback[p.right]
			}
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
		used[name] = true
	}

	for _, name := range right.Store.ColumnNames() {
		if layout.dropKeys && slices.Contains(layout.rightKeys, name) {
			continue
		}
		col, _ := right.Store.Column(name)
		values := make([]any, len(pairs))
		for i, p := range pairs {
			if p.right >= 0 {
				values[i] = col.Values[p.right]
			}
		}
		outName := name
		if used[outName] {
			outName = name + suffix
			for n := 2; used[outName]; n++ {
				outName = fmt.Sprintf("%s%s%d", name, suffix, n)
			}
		}
		if err := out.AddColumn(outName, values); err != nil {
			return nil, err
		}
		used[outName] = true
	}
	return out, nil
}
