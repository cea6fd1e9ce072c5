package join

import (
	"testing"

	"github.com/leengari/datatable/internal/query/operations/testutil"
	"gotest.tools/v3/assert"
)

// TestExecuteRollingJoin tests as-of matching in every direction
func TestExecuteRollingJoin(t *testing.T) {
	keys := testutil.CreateTestTable(t, "keys", []string{"k", "v"}, []float64{1, 2, 3}, []string{"one", "two", "three"})
	probe := testutil.CreateTestTable(t, "probe", []string{"k"}, []float64{0, 1.5, 5})

	t.Run("BackwardLeft", func(t *testing.T) {
		out, err := ExecuteRollingJoin(Side{Store: probe}, Side{Store: keys}, RollSpec{On: []string{"k"}, Type: JoinTypeLeft}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, out, "v", []any{nil, "one", "three"}, "at-or-before")
	})

	t.Run("BackwardInner", func(t *testing.T) {
		out, err := ExecuteRollingJoin(Side{Store: probe}, Side{Store: keys}, RollSpec{On: []string{"k"}}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, out, "k", testutil.Floats(1.5, 5), "probe 0 dropped")
	})

	t.Run("Forward", func(t *testing.T) {
		out, err := ExecuteRollingJoin(Side{Store: probe}, Side{Store: keys}, RollSpec{On: []string{"k"}, Direction: Forward, Type: JoinTypeLeft}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, out, "v", []any{"one", "two", nil}, "at-or-after")
	})

	t.Run("NearestTiesGoBackward", func(t *testing.T) {
		out, err := ExecuteRollingJoin(Side{Store: probe}, Side{Store: keys}, RollSpec{On: []string{"k"}, Direction: Nearest, Type: JoinTypeLeft}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, out, "v", []any{"one", "one", "three"}, "nearest")
	})

	t.Run("MaxGap", func(t *testing.T) {
		out, err := ExecuteRollingJoin(Side{Store: probe}, Side{Store: keys}, RollSpec{On: []string{"k"}, Type: JoinTypeLeft, MaxGap: 1}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, out, "v", []any{nil, "one", nil}, "5 is too far from 3")
	})

	t.Run("PrefixColumnsMatchExactly", func(t *testing.T) {
		quotes := testutil.CreateQuotesTable(t)
		trades := testutil.CreateTestTable(t, "trades", []string{"sym", "ts"}, []string{"A", "B", "B"}, []int{5, 3, 0})
		out, err := ExecuteRollingJoin(Side{Store: trades}, Side{Store: quotes}, RollSpec{On: []string{"sym", "ts"}, Type: JoinTypeLeft}, Options{})
		assert.NilError(t, err)
		testutil.AssertColumnValues(t, out, "price", []any{12.0, 50.0, nil}, "per symbol")
	})
}

// TestCrossJoin tests sorted Cartesian products
func TestCrossJoin(t *testing.T) {
	out, err := CrossJoin("cj", []CrossColumn{
		{Name: "x", Values: []int{2, 1, 2}},
		{Name: "y", Values: []string{"b", "a"}},
	}, true)
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, out, "x", testutil.Floats(1, 1, 2, 2), "x slowest")
	testutil.AssertColumnValues(t, out, "y", testutil.Strings("a", "b", "a", "b"), "y fastest")

	_, err = CrossJoin("cj", nil, false)
	assert.ErrorContains(t, err, "empty input")
}
