package join

import (
	"math"
	"testing"

	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/query/operations/testutil"
	"gotest.tools/v3/assert"
)

func usersAndOrders(t *testing.T) (Side, Side) {
	t.Helper()
	users := testutil.CreateUsersTable(t)
	orders := testutil.CreateOrdersTable(t)
	return Side{Store: users, Indexes: indexing.NewManager(nil)},
		Side{Store: orders, Indexes: indexing.NewManager(nil)}
}

// TestExecuteJoin tests all equi JOIN types
func TestExecuteJoin(t *testing.T) {
	t.Run("InnerJoin", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		out, err := ExecuteJoin(users, orders, Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}}, Options{})
		testutil.AssertNoError(t, err, "INNER JOIN")

		// alice has 2 orders, bob 1, dana 1
		testutil.AssertRowCount(t, out.NumRows(), 4, "INNER JOIN")
		testutil.AssertColumnValues(t, out, "username", testutil.Strings("alice", "alice", "bob", "dana"), "left order kept")
		testutil.AssertColumnValues(t, out, "product", testutil.Strings("Laptop", "Mouse", "Keyboard", "Monitor"), "right order within left row")
		testutil.AssertColumnExists(t, out, "id_right", "colliding name suffixed")
		testutil.AssertColumnNotExists(t, out, "user_id", "key emitted once")
	})

	t.Run("InnerJoinSameEitherWay", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		spec := Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}}
		plain, err := ExecuteJoin(users, orders, spec, Options{})
		assert.NilError(t, err)

		_, err = users.Indexes.SetIndex(users.Store, []string{"id"})
		assert.NilError(t, err)
		hashed, err := ExecuteJoin(users, orders, spec, Options{})
		assert.NilError(t, err)

		assert.DeepEqual(t, hashed.Records(nil), plain.Records(nil))
	})

	t.Run("LeftJoin", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		out, err := ExecuteJoin(users, orders, Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}, Type: JoinTypeLeft}, Options{})
		testutil.AssertNoError(t, err, "LEFT JOIN")

		// 4 matches + charlie + erin
		testutil.AssertRowCount(t, out.NumRows(), 6, "LEFT JOIN")
		assert.Assert(t, out.NumRows() >= users.Store.NumRows())
		col, _ := out.Column("product")
		testutil.AssertNullValue(t, col.Values[3], "charlie has no order")
	})

	t.Run("LeftJoinNoMatchDrop", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		out, err := ExecuteJoin(users, orders, Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}, Type: JoinTypeLeft, NoMatch: true}, Options{})
		assert.NilError(t, err)
		testutil.AssertRowCount(t, out.NumRows(), 4, "unmatched dropped")
	})

	t.Run("RightJoin", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		out, err := ExecuteJoin(users, orders, Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}, Type: JoinTypeRight}, Options{})
		assert.NilError(t, err)
		testutil.AssertRowCount(t, out.NumRows(), 5, "RIGHT JOIN")
		testutil.AssertColumnValues(t, out, "id", testutil.Floats(1, 1, 2, 4, 9), "key coalesced from right")
	})

	t.Run("FullJoin", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		out, err := ExecuteJoin(users, orders, Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}, Type: JoinTypeFull}, Options{})
		assert.NilError(t, err)
		testutil.AssertRowCount(t, out.NumRows(), 7, "FULL JOIN")
	})

	t.Run("MultFirstAndLast", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		first, err := ExecuteJoin(users, orders, Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}, Mult: MultFirst}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, first, "product", testutil.Strings("Laptop", "Keyboard", "Monitor"), "first")

		last, err := ExecuteJoin(users, orders, Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}, Mult: MultLast}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, last, "product", testutil.Strings("Mouse", "Keyboard", "Monitor"), "last")
	})

	t.Run("NullKeysNeverMatch", func(t *testing.T) {
		left := testutil.CreateTestTable(t, "l", []string{"k"}, []any{nil, 1})
		right := testutil.CreateTestTable(t, "r", []string{"k", "v"}, []any{nil, 1}, []string{"null", "one"})
		out, err := ExecuteJoin(Side{Store: left}, Side{Store: right}, Spec{On: []string{"k"}}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, out, "v", testutil.Strings("one"), "only non-null key")
	})

	t.Run("MissingKeyColumn", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		_, err := ExecuteJoin(users, orders, Spec{On: []string{"user_id"}}, Options{})
		assert.ErrorIs(t, err, errors.ErrSchema)
	})

	t.Run("AutoIndexRegistersRightIndex", func(t *testing.T) {
		users, orders := usersAndOrders(t)
		_, err := ExecuteJoin(users, orders, Spec{LeftOn: []string{"id"}, RightOn: []string{"user_id"}, Type: JoinTypeLeft}, Options{AutoIndex: true})
		assert.NilError(t, err)
		_, ok := orders.Indexes.Lookup([]string{"user_id"})
		assert.Assert(t, ok)
	})
}

// TestExecuteJoin_SuffixCollision tests that a suffixed name never clashes
// with an existing column
func TestExecuteJoin_SuffixCollision(t *testing.T) {
	left := testutil.CreateTestTable(t, "left", []string{"id", "x", "x_right"},
		[]int{1, 2}, []string{"a", "b"}, []string{"c", "d"})
	right := testutil.CreateTestTable(t, "right", []string{"id", "x"},
		[]int{1, 2}, []string{"e", "f"})

	out, err := ExecuteJoin(Side{Store: left}, Side{Store: right}, Spec{On: []string{"id"}}, Options{})
	assert.NilError(t, err)
	assert.DeepEqual(t, out.ColumnNames(), []string{"id", "x", "x_right", "x_right2"})
	testutil.AssertColumnValues(t, out, "x_right2", testutil.Strings("e", "f"), "right x renamed past the clash")
}

// TestExecuteNonEquiJoin tests interval matching
func TestExecuteNonEquiJoin(t *testing.T) {
	events := testutil.CreateTestTable(t, "events", []string{"at"}, []float64{1, 5, 12})
	windows := testutil.CreateTestTable(t, "windows",
		[]string{"name", "start", "end"},
		[]string{"a", "b", "c"},
		[]float64{0, 4, 3},
		[]float64{6, 10, 8},
	)
	spec := NonEquiSpec{Conditions: []Condition{
		{Left: "at", Op: OpGreaterEq, Right: "start"},
		{Left: "at", Op: OpLess, Right: "end"},
	}}

	t.Run("Inner", func(t *testing.T) {
		out, err := ExecuteNonEquiJoin(Side{Store: events}, Side{Store: windows}, spec, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, out, "at", testutil.Floats(1, 5, 5, 5), "events")
		testutil.AssertColumnValues(t, out, "name", testutil.Strings("a", "a", "b", "c"), "windows in right order")
	})

	t.Run("Left", func(t *testing.T) {
		spec := spec
		spec.Type = JoinTypeLeft
		out, err := ExecuteNonEquiJoin(Side{Store: events}, Side{Store: windows}, spec, Options{})
		assert.NilError(t, err)
		testutil.AssertRowCount(t, out.NumRows(), 5, "12 kept unmatched")
		col, _ := out.Column("name")
		testutil.AssertNullValue(t, col.Values[4], "unmatched")
	})

	t.Run("UnknownOperator", func(t *testing.T) {
		_, err := ExecuteNonEquiJoin(Side{Store: events}, Side{Store: windows},
			NonEquiSpec{Conditions: []Condition{{Left: "at", Op: "!=", Right: "start"}}}, Options{})
		assert.ErrorContains(t, err, "unknown join operator")
	})
}

// TestExecuteJoin_SignedZeroKeys tests that -0 and 0 match like they compare
func TestExecuteJoin_SignedZeroKeys(t *testing.T) {
	left := testutil.CreateTestTable(t, "left", []string{"k", "l"},
		[]float64{math.Copysign(0, -1)}, []string{"x"})
	right := testutil.CreateTestTable(t, "right", []string{"k", "r"},
		[]float64{0}, []string{"y"})

	equi, err := ExecuteJoin(Side{Store: left}, Side{Store: right}, Spec{On: []string{"k"}}, Options{})
	assert.NilError(t, err)
	nonEqui, err := ExecuteNonEquiJoin(Side{Store: left}, Side{Store: right},
		NonEquiSpec{Conditions: []Condition{{Left: "k", Op: OpEqual, Right: "k"}}}, Options{})
	assert.NilError(t, err)

	assert.Equal(t, equi.NumRows(), 1)
	assert.Equal(t, nonEqui.NumRows(), equi.NumRows())
}
