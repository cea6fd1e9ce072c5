package operations

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/query/operations/projection"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// Result is the outcome of one Query or Set evaluation
type Result struct {
	Store *columnstore.Store

	// Key is set when the result should be keyed (KeyBy)
	Key []string

	// Changed lists the columns a Set wrote, removed or projected away
	Changed []string

	// Reordered reports that a Set physically reordered the rows
	Reordered bool
}

// Query evaluates args against env.Store and returns a new table body.
// The store is never modified.
func Query(env Env, args ...Arg) (*Result, error) {
	return Evaluate(env, false, NewSpec(args...))
}

// Set evaluates args and writes the results into env.Store. On error the
// store is left untouched.
func Set(env Env, args ...Arg) (*Result, error) {
	return Evaluate(env, true, NewSpec(args...))
}

// Evaluate is the single evaluator behind Query and Set
func Evaluate(env Env, mutate bool, spec *Spec) (*Result, error) {
	logger := env.logger()

	positions, err := Filter(env, spec)
	if err != nil {
		return nil, err
	}
	if mutate {
		positions = dedupe(positions)
		if err := checkOrderColumns(env.Store, spec); err != nil {
			return nil, err
		}
	}

	logger.Debug("Filter applied",
		slog.String("table", env.Store.Name()),
		slog.Int("input_rows", env.Store.NumRows()),
		slog.Int("working_rows", len(positions)),
		slog.Bool("grouped", spec.Grouped()))

	var res *Result
	switch {
	case spec.Grouped() && mutate:
		res, err = setGroups(env, spec, positions)
	case spec.Grouped():
		res, err = queryGroups(env, spec, positions)
	case mutate:
		res, err = setRows(env, spec, positions)
	default:
		res, err = queryRows(env, spec, positions)
	}
	if err != nil {
		return nil, err
	}

	if len(spec.orderBy) > 0 {
		if err := applyOrder(res, spec, mutate); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func dedupe(positions []int) []int {
	seen := make(map[int]bool, len(positions))
	out := positions[:0:0]
	for _, p := range positions {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// output is one computed assignment
type output struct {
	name   string
	remove bool
	values []any
}

// queryRows: filter, then select (or all columns), then assignments on the
// result.
func queryRows(env Env, spec *Spec, positions []int) (*Result, error) {
	var base *columnstore.Store
	if spec.projection != nil {
		var err error
		base, err = projection.Apply(env.Store, spec.projection, positions)
		if err != nil {
			return nil, err
		}
	} else {
		base = env.Store.Take(positions)
	}

	outputs, err := rowOutputs(base, spec.assigns, base.AllPositions())
	if err != nil {
		return nil, err
	}
	for _, out := range outputs {
		if out.remove {
			if err := base.DropColumn(out.name); err != nil {
				return nil, err
			}
			continue
		}
		if err := base.SetColumn(out.name, out.values); err != nil {
			return nil, err
		}
	}
	return &Result{Store: base}, nil
}

// setRows writes assignments into the filtered rows of the store
func setRows(env Env, spec *Spec, positions []int) (*Result, error) {
	store := env.Store
	target := store
	if spec.projection != nil {
		var err error
		target, err = projection.Apply(store, spec.projection, store.AllPositions())
		if err != nil {
			return nil, err
		}
	}

	outputs, err := rowOutputs(target, spec.assigns, positions)
	if err != nil {
		return nil, err
	}

	columns := make([]output, len(outputs))
	for i, out := range outputs {
		columns[i] = out
		if out.remove {
			continue
		}
		full := baseColumn(target, out.name)
		for w, p := range positions {
			full[p] = out.values[w]
		}
		columns[i].values = full
	}

	// Everything validated → safe to commit
	res := &Result{Store: store}
	if target != store {
		res.Changed = store.ColumnNames()
		store.ReplaceWith(target)
	}
	commit(store, columns, res)
	return res, nil
}

func commit(store *columnstore.Store, columns []output, res *Result) {
	for _, out := range columns {
		if out.remove {
			_ = store.DropColumn(out.name)
		} else {
			_ = store.SetColumn(out.name, out.values)
		}
		if !slices.Contains(res.Changed, out.name) {
			res.Changed = append(res.Changed, out.name)
		}
	}
}

// baseColumn returns a writable copy of the named column, or an all-null
// column when it does not exist yet.
func baseColumn(store *columnstore.Store, name string) []any {
	if col, err := store.Column(name); err == nil {
		return slices.Clone(col.Values)
	}
	return make([]any, store.NumRows())
}

// rowOutputs evaluates ungrouped assignments over the given positions of
// src. Removal of a missing column is an error in both modes.
func rowOutputs(src *columnstore.Store, assigns []Assignment, positions []int) ([]output, error) {
	outputs := make([]output, 0, len(assigns))
	n := len(positions)
	for _, a := range assigns {
		if a.removes() {
			if !src.HasColumn(a.Name) {
				return nil, errors.NewUnknownColumn(src.Name(), a.Name, src.ColumnNames())
			}
			outputs = append(outputs, output{name: a.Name, remove: true})
			continue
		}

		var values []any
		switch fn := a.Value.(type) {
		case RowFunc:
			tracker := &data.Tracker{}
			values = make([]any, n)
			for i, p := range positions {
				values[i] = schema.Normalize(fn(data.NewRow(src, p, tracker), i))
				if name, missing := tracker.Missing(); missing {
					return nil, errors.NewUnknownColumn(src.Name(), name, src.ColumnNames())
				}
			}
		default:
			literal, err := literalValues(a.Value)
			if err != nil {
				return nil, fmt.Errorf("assign %s: %w", a.Name, err)
			}
			values, err = recycle(src.Name(), a.Name, literal, n)
			if err != nil {
				return nil, err
			}
		}
		outputs = append(outputs, output{name: a.Name, values: values})
	}
	return outputs, nil
}

// literalValues turns a literal assignment value into a normalized slice;
// scalars become a single-element slice.
func literalValues(value any) ([]any, error) {
	if isSequence(value) {
		return schema.NormalizeSlice(value)
	}
	return []any{schema.Normalize(value)}, nil
}

func isSequence(value any) bool {
	if value == nil {
		return false
	}
	switch value.(type) {
	case []any, []float64, []string:
		return true
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// recycle stretches a length-1 literal to n values and rejects any other
// length that is not n.
func recycle(table, column string, values []any, n int) ([]any, error) {
	switch len(values) {
	case n:
		return values, nil
	case 1:
		out := make([]any, n)
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	}
	return nil, errors.NewLengthMismatch(table, column, n, len(values))
}

// groupValue is a per-group result: either a scalar or a sequence
type groupValue struct {
	scalar any
	seq    []any
	isSeq  bool
}

// groupEval carries the shared state of one grouped evaluation
type groupEval struct {
	src       *columnstore.Store
	spec      *Spec
	positions []int
	groups    []*group
	sdSource  data.Source
	literals  map[int][]any
}

// newGroupEval groups positions by keys read from keySrc and evaluates
// assignments against src. The two differ when a grouped Query selects
// columns: keys come from the receiver, everything else sees only the
// selection.
func newGroupEval(keySrc, src *columnstore.Store, spec *Spec, positions []int) (*groupEval, error) {
	if err := keySrc.CheckColumns(spec.groupColumns()...); err != nil {
		return nil, err
	}

	sdNames := spec.sdCols
	if len(sdNames) == 0 {
		keys := spec.groupColumns()
		for _, name := range src.ColumnNames() {
			if !slices.Contains(keys, name) {
				sdNames = append(sdNames, name)
			}
		}
	}
	if sdNames == nil {
		sdNames = []string{}
	}
	sdSource, err := src.Source(sdNames)
	if err != nil {
		return nil, err
	}

	groups, err := buildGroups(keySrc, spec, positions)
	if err != nil {
		return nil, err
	}

	ge := &groupEval{
		src:       src,
		spec:      spec,
		positions: positions,
		groups:    groups,
		sdSource:  sdSource,
		literals:  make(map[int][]any),
	}

	// Literals are validated once against the whole working set
	for i, a := range spec.assigns {
		if a.removes() || a.grouped() {
			continue
		}
		if _, ok := a.Value.(RowFunc); ok {
			continue
		}
		literal, err := literalValues(a.Value)
		if err != nil {
			return nil, fmt.Errorf("assign %s: %w", a.Name, err)
		}
		if len(literal) != 1 && len(literal) != len(positions) {
			return nil, errors.NewLengthMismatch(src.Name(), a.Name, len(positions), len(literal))
		}
		ge.literals[i] = literal
	}
	return ge, nil
}

func (ge *groupEval) context(gi int) *GroupContext {
	g := ge.groups[gi]
	rows := make([]int, len(g.members))
	for i, w := range g.members {
		rows[i] = ge.positions[w]
	}
	return &GroupContext{
		N:        len(rows),
		GRP:      gi + 1,
		I:        rows,
		SD:       &SubData{src: ge.sdSource, positions: rows, tracker: &data.Tracker{}},
		keyNames: ge.spec.groupNames(),
		keys:     g.keys,
	}
}

// assignment evaluates assignment ai for one group
func (ge *groupEval) assignment(ai int, ctx *GroupContext, g *group) (groupValue, error) {
	a := ge.spec.assigns[ai]
	switch fn := a.Value.(type) {
	case GroupFunc:
		v := fn(ctx)
		if name, missing := ctx.SD.tracker.Missing(); missing {
			return groupValue{}, errors.NewUnknownColumn(ge.src.Name(), name, ctx.SD.Names())
		}
		if isSequence(v) {
			seq, err := schema.NormalizeSlice(v)
			if err != nil {
				return groupValue{}, err
			}
			return groupValue{seq: seq, isSeq: true}, nil
		}
		return groupValue{scalar: schema.Normalize(v)}, nil
	case RowFunc:
		tracker := &data.Tracker{}
		seq := make([]any, len(ctx.I))
		for i, p := range ctx.I {
			seq[i] = schema.Normalize(fn(data.NewRow(ge.src, p, tracker), g.members[i]))
			if name, missing := tracker.Missing(); missing {
				return groupValue{}, errors.NewUnknownColumn(ge.src.Name(), name, ge.src.ColumnNames())
			}
		}
		return groupValue{seq: seq, isSeq: true}, nil
	}

	literal := ge.literals[ai]
	if len(literal) == 1 {
		return groupValue{scalar: literal[0]}, nil
	}
	seq := make([]any, len(g.members))
	for i, w := range g.members {
		seq[i] = literal[w]
	}
	return groupValue{seq: seq, isSeq: true}, nil
}

func (ge *groupEval) column(name string, ctx *GroupContext) groupValue {
	col, _ := ge.src.Column(name)
	seq := make([]any, len(ctx.I))
	for i, p := range ctx.I {
		seq[i] = col.Values[p]
	}
	return groupValue{seq: seq, isSeq: true}
}

// queryGroups collapses each group to its outputs: one row per group, or
// one row per element when an output is a sequence.
func queryGroups(env Env, spec *Spec, positions []int) (*Result, error) {
	src := env.Store
	evalSrc := src
	if spec.projection != nil {
		var err error
		evalSrc, err = projection.Apply(src, spec.projection, src.AllPositions())
		if err != nil {
			return nil, err
		}
	}
	ge, err := newGroupEval(src, evalSrc, spec, positions)
	if err != nil {
		return nil, err
	}

	// Output layout: keys, projected (or SD) columns, assignments
	type slot struct {
		name   string
		source string // column copied per group
		assign int    // assignment index, -1 for column slots
	}
	var slots []slot
	for _, name := range spec.groupNames() {
		slots = append(slots, slot{name: name, assign: -1})
	}
	switch {
	case spec.projection != nil:
		keyNames := spec.groupNames()
		for _, ref := range spec.projection.Columns {
			if slices.Contains(keyNames, ref.Name()) {
				continue // already emitted as a key
			}
			slots = append(slots, slot{name: ref.Name(), source: ref.Name(), assign: -1})
		}
	case len(spec.assigns) == 0:
		for _, name := range ge.sdSource.ColumnNames() {
			slots = append(slots, slot{name: name, source: name, assign: -1})
		}
	}
	for i, a := range spec.assigns {
		if a.removes() {
			at := slices.IndexFunc(slots, func(s slot) bool { return s.name == a.Name })
			if at < 0 {
				return nil, errors.NewUnknownColumn(src.Name(), a.Name, src.ColumnNames())
			}
			slots = slices.Delete(slots, at, at+1)
			continue
		}
		if at := slices.IndexFunc(slots, func(s slot) bool { return s.name == a.Name }); at >= 0 {
			slots[at] = slot{name: a.Name, assign: i}
			continue
		}
		slots = append(slots, slot{name: a.Name, assign: i})
	}

	columns := make([][]any, len(slots))
	keyNames := spec.groupNames()
	for gi, g := range ge.groups {
		ctx := ge.context(gi)
		values := make([]groupValue, len(slots))
		length := -1
		for si, s := range slots {
			var v groupValue
			switch {
			case s.assign >= 0:
				v, err = ge.assignment(s.assign, ctx, g)
				if err != nil {
					return nil, err
				}
			case s.source != "":
				v = ge.column(s.source, ctx)
			default:
				v = groupValue{scalar: g.keys[slices.Index(keyNames, s.name)]}
			}
			if v.isSeq {
				if length >= 0 && len(v.seq) != length {
					return nil, errors.NewShapeError(src.Name(),
						fmt.Sprintf("group %d returned sequences of lengths %d and %d", ctx.GRP, length, len(v.seq)))
				}
				length = len(v.seq)
			}
			values[si] = v
		}
		if length < 0 {
			length = 1
		}
		for si, v := range values {
			if v.isSeq {
				columns[si] = append(columns[si], v.seq...)
				continue
			}
			for range length {
				columns[si] = append(columns[si], v.scalar)
			}
		}
	}

	out := columnstore.New(src.Name())
	for si, s := range slots {
		values := columns[si]
		if values == nil {
			values = []any{}
		}
		if err := out.AddColumn(s.name, values); err != nil {
			return nil, err
		}
	}

	res := &Result{Store: out}
	if spec.keyBy {
		res.Key = spec.groupNames()
	}
	return res, nil
}

// setGroups computes per group and writes results back to the group's
// original rows.
func setGroups(env Env, spec *Spec, positions []int) (*Result, error) {
	store := env.Store
	target := store
	if spec.projection != nil {
		var err error
		target, err = projection.Apply(store, spec.projection, store.AllPositions())
		if err != nil {
			return nil, err
		}
	}

	ge, err := newGroupEval(target, target, spec, positions)
	if err != nil {
		return nil, err
	}

	columns := make([]output, len(spec.assigns))
	for i, a := range spec.assigns {
		if a.removes() {
			if !target.HasColumn(a.Name) {
				return nil, errors.NewUnknownColumn(target.Name(), a.Name, target.ColumnNames())
			}
			columns[i] = output{name: a.Name, remove: true}
			continue
		}
		columns[i] = output{name: a.Name, values: baseColumn(target, a.Name)}
	}

	for gi, g := range ge.groups {
		ctx := ge.context(gi)
		for i, a := range spec.assigns {
			if a.removes() {
				continue
			}
			v, err := ge.assignment(i, ctx, g)
			if err != nil {
				return nil, err
			}
			if v.isSeq && len(v.seq) != ctx.N {
				return nil, errors.NewLengthMismatch(target.Name(), a.Name, ctx.N, len(v.seq))
			}
			for j, p := range ctx.I {
				if v.isSeq {
					columns[i].values[p] = v.seq[j]
				} else {
					columns[i].values[p] = v.scalar
				}
			}
		}
	}

	// Everything validated → safe to commit
	res := &Result{Store: store}
	if target != store {
		res.Changed = store.ColumnNames()
		store.ReplaceWith(target)
	}
	commit(store, columns, res)
	if spec.keyBy {
		keys := spec.groupColumns()
		if len(keys) == len(spec.groups) {
			res.Key = keys
		}
	}
	return res, nil
}

// checkOrderColumns rejects a Set ordering on columns that will not exist
// once the assignments are written, before anything is committed.
func checkOrderColumns(store *columnstore.Store, spec *Spec) error {
	for _, name := range spec.orderBy {
		assigned := slices.ContainsFunc(spec.assigns, func(a Assignment) bool {
			return a.Name == name && !a.removes()
		})
		selected := spec.projection != nil && slices.ContainsFunc(spec.projection.Columns, func(ref projection.ColumnRef) bool {
			return ref.Name() == name
		})
		if assigned || (spec.projection == nil && store.HasColumn(name)) || selected {
			continue
		}
		return errors.NewUnknownColumn(store.Name(), name, store.ColumnNames())
	}
	return nil
}

// applyOrder sorts the result rows; for Set it reorders the store in place
func applyOrder(res *Result, spec *Spec, mutate bool) error {
	store := res.Store
	perm, err := indexing.SortPositions(store, store.AllPositions(), spec.orderBy, spec.orderDesc)
	if err != nil {
		return err
	}
	if mutate {
		if err := store.Reorder(perm); err != nil {
			return err
		}
		res.Reordered = true
		return nil
	}
	res.Store = store.Take(perm)
	res.Key = nil
	return nil
}
