package operations

import (
	"strings"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/query/operations/projection"
)

// Arg is one order-insensitive argument of a Query or Set call
type Arg func(*Spec)

// RowFunc computes one value per working row. i is the row's ordinal in
// the working set (0-based).
type RowFunc func(row data.Row, i int) any

// GroupFunc computes a scalar or a []any sequence per group
type GroupFunc func(g *GroupContext) any

type removeMarker struct{}

// Remove is the assignment value that deletes a column
var Remove = removeMarker{}

// Direction is a sort direction for OrderBy and SetOrder
type Direction int

const (
	Asc Direction = iota
	Desc
)

type filterKind int

const (
	filterWhere filterKind = iota
	filterRows
	filterMask
	filterLookup
	filterHead
	filterTail
)

type filter struct {
	kind      filterKind
	predicate func(data.Row) bool
	positions []int
	mask      []bool
	columns   []string
	values    []any
	n         int
}

type groupKey struct {
	name   string
	column string
	fn     func(data.Row) any
}

// Assignment is one j-expression writing (or removing) a column
type Assignment struct {
	Name  string
	Value any
}

func (a Assignment) removes() bool {
	if a.Value == nil {
		return true
	}
	_, ok := a.Value.(removeMarker)
	return ok
}

func (a Assignment) grouped() bool {
	_, ok := a.Value.(GroupFunc)
	if ok {
		return true
	}
	_, ok = a.Value.(func(*GroupContext) any)
	return ok
}

// Spec is the collected form of a call's arguments
type Spec struct {
	filters    []filter
	groups     []groupKey
	keyBy      bool
	projection *projection.Projection
	assigns    []Assignment
	sdCols     []string
	orderBy    []string
	orderDesc  []bool
}

// NewSpec collects args into a Spec
func NewSpec(args ...Arg) *Spec {
	s := &Spec{}
	for _, arg := range args {
		if arg != nil {
			arg(s)
		}
	}
	return s
}

// Grouped reports whether the call evaluates per group
func (s *Spec) Grouped() bool {
	if len(s.groups) > 0 {
		return true
	}
	for _, a := range s.assigns {
		if a.grouped() {
			return true
		}
	}
	return false
}

// Where keeps rows for which the predicate holds
func Where(predicate func(data.Row) bool) Arg {
	return func(s *Spec) {
		s.filters = append(s.filters, filter{kind: filterWhere, predicate: predicate})
	}
}

// Rows keeps the given row positions, in the given order
func Rows(positions ...int) Arg {
	return func(s *Spec) {
		s.filters = append(s.filters, filter{kind: filterRows, positions: positions})
	}
}

// Mask keeps rows whose mask entry is true. The mask must cover every row.
func Mask(mask []bool) Arg {
	return func(s *Spec) {
		s.filters = append(s.filters, filter{kind: filterMask, mask: mask})
	}
}

// Lookup keeps rows whose columns equal values, using an index when one
// exists.
func Lookup(columns []string, values ...any) Arg {
	return func(s *Spec) {
		s.filters = append(s.filters, filter{kind: filterLookup, columns: columns, values: values})
	}
}

// Head keeps the first n working rows
func Head(n int) Arg {
	return func(s *Spec) {
		s.filters = append(s.filters, filter{kind: filterHead, n: n})
	}
}

// Tail keeps the last n working rows
func Tail(n int) Arg {
	return func(s *Spec) {
		s.filters = append(s.filters, filter{kind: filterTail, n: n})
	}
}

// By groups rows by the given columns
func By(columns ...string) Arg {
	return func(s *Spec) {
		for _, c := range columns {
			s.groups = append(s.groups, groupKey{name: c, column: c})
		}
	}
}

// ByFunc groups rows by a computed value, emitted under name
func ByFunc(name string, fn func(data.Row) any) Arg {
	return func(s *Spec) {
		s.groups = append(s.groups, groupKey{name: name, fn: fn})
	}
}

// KeyBy groups by columns and sorts the groups by their keys
func KeyBy(columns ...string) Arg {
	return func(s *Spec) {
		By(columns...)(s)
		s.keyBy = true
	}
}

// Select projects the working set onto columns
func Select(columns ...string) Arg {
	return func(s *Spec) {
		if s.projection == nil {
			s.projection = projection.NewProjectionWithColumns()
		}
		for _, c := range columns {
			s.projection.AddColumn(c, "")
		}
	}
}

// SelectAs projects column under a new name
func SelectAs(column, alias string) Arg {
	return func(s *Spec) {
		if s.projection == nil {
			s.projection = projection.NewProjectionWithColumns()
		}
		s.projection.AddColumn(column, alias)
	}
}

// Assign writes value to the named column. value is a literal slice or
// scalar, a RowFunc, a GroupFunc, or Remove (nil also removes).
func Assign(name string, value any) Arg {
	return func(s *Spec) {
		switch fn := value.(type) {
		case func(data.Row, int) any:
			value = RowFunc(fn)
		case func(*GroupContext) any:
			value = GroupFunc(fn)
		}
		s.assigns = append(s.assigns, Assignment{Name: name, Value: value})
	}
}

// Count assigns the group size under name
func Count(name string) Arg {
	return Assign(name, GroupFunc(func(g *GroupContext) any {
		return float64(g.N)
	}))
}

// SDCols restricts the columns visible through GroupContext.SD
func SDCols(columns ...string) Arg {
	return func(s *Spec) {
		s.sdCols = append(s.sdCols, columns...)
	}
}

// OrderBy sorts the result. A leading "-" sorts that column descending.
func OrderBy(columns ...string) Arg {
	return func(s *Spec) {
		for _, c := range columns {
			desc := strings.HasPrefix(c, "-")
			s.orderBy = append(s.orderBy, strings.TrimPrefix(c, "-"))
			s.orderDesc = append(s.orderDesc, desc)
		}
	}
}
