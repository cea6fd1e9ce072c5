package join

import (
	"log/slog"

	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// JoinType represents the type of JOIN operation
type JoinType int

const (
	JoinTypeInner JoinType = iota // Returns only matching rows from both tables
	JoinTypeLeft                  // Returns all rows from left table, NULLs for unmatched right rows
	JoinTypeRight                 // Returns all rows from right table, NULLs for unmatched left rows
	JoinTypeFull                  // Returns all rows from both tables, NULLs where no match
)

// String returns the string representation of the JOIN type
func (jt JoinType) String() string {
	switch jt {
	case JoinTypeInner:
		return "INNER JOIN"
	case JoinTypeLeft:
		return "LEFT JOIN"
	case JoinTypeRight:
		return "RIGHT JOIN"
	case JoinTypeFull:
		return "FULL OUTER JOIN"
	default:
		return "UNKNOWN JOIN"
	}
}

// Mult chooses which right rows are kept when a left row matches several
type Mult int

const (
	MultAll Mult = iota
	MultFirst
	MultLast
)

// DefaultSuffix is appended to right column names that collide with left ones
const DefaultSuffix = "_right"

// Side is one input of a join: a table body and its index manager
type Side struct {
	Store   *columnstore.Store
	Indexes *indexing.Manager
}

// Options carry the calling table's settings
type Options struct {
	AutoIndex bool
	Logger    *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Spec describes an equi join
type Spec struct {
	On      []string // same column names on both sides
	LeftOn  []string
	RightOn []string
	Type    JoinType
	NoMatch bool // drop unmatched left rows in a left join
	Mult    Mult
	Suffix  string
}

// Op is a non-equi comparison operator
type Op string

const (
	OpLess      Op = "<"
	OpLessEq    Op = "<="
	OpGreater   Op = ">"
	OpGreaterEq Op = ">="
	OpEqual     Op = "=="
)

// Condition holds when left.Left Op right.Right
type Condition struct {
	Left  string
	Op    Op
	Right string
}

// NonEquiSpec describes an interval or range join
type NonEquiSpec struct {
	Conditions []Condition
	Type       JoinType // Inner or Left
	Suffix     string
}

// Direction selects which neighbour a rolling join takes
type Direction int

const (
	Backward Direction = iota // nearest at-or-before
	Forward                   // nearest at-or-after
	Nearest                   // closest either way, ties go backward
)

// RollSpec describes a rolling (as-of) join. All key columns but the last
// match exactly; the last one rolls.
type RollSpec struct {
	On        []string
	LeftOn    []string
	RightOn   []string
	Direction Direction
	Type      JoinType // Inner or Left
	MaxGap    float64  // 0 means unlimited
	Suffix    string
}
