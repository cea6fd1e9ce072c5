package projection_test

import (
	"testing"

	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/query/operations/projection"
	"github.com/leengari/datatable/internal/query/operations/testutil"
	"gotest.tools/v3/assert"
)

// TestProjection_SelectAll tests that a nil projection keeps all columns
func TestProjection_SelectAll(t *testing.T) {
	table := testutil.CreateUsersTable(t)

	result, err := projection.Apply(table, nil, []int{0, 1})
	testutil.AssertNoError(t, err, "SELECT *")

	testutil.AssertRowCount(t, result.NumRows(), 2, "SELECT *")
	testutil.AssertColumnCount(t, result.NumCols(), 4, "SELECT *")
}

// TestProjection_SelectSpecificColumns tests selecting specific columns
func TestProjection_SelectSpecificColumns(t *testing.T) {
	table := testutil.CreateUsersTable(t)

	proj := projection.NewProjectionWithColumns("id", "username")
	result, err := projection.Apply(table, proj, []int{2, 0})
	testutil.AssertNoError(t, err, "SELECT id, username")

	testutil.AssertColumnCount(t, result.NumCols(), 2, "Projected table")
	testutil.AssertColumnNotExists(t, result, "age", "Projected table")
	testutil.AssertColumnValues(t, result, "username", testutil.Strings("charlie", "alice"), "row order follows positions")
}

// TestProjection_Alias tests renaming a column on projection
func TestProjection_Alias(t *testing.T) {
	table := testutil.CreateUsersTable(t)

	proj := &projection.Projection{}
	proj.AddColumn("id", "user_id")
	proj.AddColumn("id", "again")

	result, err := projection.Apply(table, proj, []int{0})
	assert.NilError(t, err)
	assert.DeepEqual(t, result.ColumnNames(), []string{"user_id", "again"})
}

// TestProjection_UnknownColumn tests that projecting a missing column fails
func TestProjection_UnknownColumn(t *testing.T) {
	table := testutil.CreateUsersTable(t)

	err := projection.Validate(table, projection.NewProjectionWithColumns("id", "salary"))
	assert.ErrorIs(t, err, errors.ErrSchema)
	assert.ErrorContains(t, err, "salary")
}

// TestProjection_DuplicateOutput tests that two outputs may not share a name
func TestProjection_DuplicateOutput(t *testing.T) {
	table := testutil.CreateUsersTable(t)

	err := projection.Validate(table, projection.NewProjectionWithColumns("id", "id"))
	assert.ErrorIs(t, err, errors.ErrSchema)
}
