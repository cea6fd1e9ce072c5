package columnstore

import (
	"testing"

	"github.com/leengari/datatable/internal/domain/errors"
	"github.com/leengari/datatable/internal/domain/schema"
	"gotest.tools/v3/assert"
)

func sample(t *testing.T) *Store {
	t.Helper()
	s, err := FromColumns("people", []*Column{
		{Name: "id", Values: []any{1.0, 2.0, 3.0}},
		{Name: "name", Values: []any{"a", "b", nil}},
	})
	assert.NilError(t, err)
	return s
}

func TestFromColumns(t *testing.T) {
	s := sample(t)
	assert.Equal(t, s.NumRows(), 3)
	assert.DeepEqual(t, s.ColumnNames(), []string{"id", "name"})
	col, err := s.Column("name")
	assert.NilError(t, err)
	assert.Equal(t, col.Type, schema.ColumnTypeString)

	_, err = FromColumns("bad", []*Column{{Name: "a", Values: []any{1.0}}, {Name: "a", Values: []any{2.0}}})
	assert.ErrorIs(t, err, errors.ErrSchema)
}

func TestFromRecords(t *testing.T) {
	s, err := FromRecords("r", []map[string]any{{"b": 1, "a": 2}, {"c": true}}, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, s.ColumnNames(), []string{"a", "b", "c"})

	s, err = FromRecords("r", nil, []schema.Column{{Name: "x", Type: schema.ColumnTypeNumber}})
	assert.NilError(t, err)
	assert.Equal(t, s.NumRows(), 0)

	_, err = FromRecords("r", []map[string]any{{"y": 1}}, []schema.Column{{Name: "x"}})
	assert.ErrorIs(t, err, errors.ErrSchema)
}

func TestTakeAndProject(t *testing.T) {
	s := sample(t)

	taken := s.Take([]int{2, 0, 0})
	assert.Equal(t, taken.NumRows(), 3)
	assert.DeepEqual(t, taken.Records(nil)[0], map[string]any{"id": 3.0, "name": nil})

	projected, err := s.Project([]string{"name"})
	assert.NilError(t, err)
	assert.DeepEqual(t, projected.ColumnNames(), []string{"name"})

	_, err = s.Project([]string{"nope"})
	assert.ErrorIs(t, err, errors.ErrSchema)
}

func TestMutations(t *testing.T) {
	s := sample(t)

	assert.ErrorIs(t, s.AddColumn("x", []any{1.0}), errors.ErrShape)
	assert.NilError(t, s.SetColumn("x", []any{1.0, 2.0, 3.0}))
	assert.NilError(t, s.DropColumn("name"))
	assert.DeepEqual(t, s.ColumnNames(), []string{"id", "x"})

	assert.NilError(t, s.Reorder([]int{2, 1, 0}))
	col, _ := s.Column("id")
	assert.DeepEqual(t, col.Values, []any{3.0, 2.0, 1.0})

	assert.ErrorIs(t, s.Reorder([]int{0, 0, 1}), errors.ErrShape)
}

func TestAppendRows(t *testing.T) {
	s := sample(t)

	err := s.AppendRows([]map[string]any{
		{"id": 4, "name": "d"},
		{"id": 5},
	})
	assert.ErrorIs(t, err, errors.ErrSchema)
	assert.Equal(t, s.NumRows(), 3, "nothing appended")

	s.AllowGrowth(true)
	assert.NilError(t, s.AppendRows([]map[string]any{{"id": 4, "city": "Oslo"}}))
	assert.Equal(t, s.NumRows(), 4)
	city, _ := s.Column("city")
	assert.DeepEqual(t, city.Values, []any{nil, nil, nil, "Oslo"})
}

func TestSourceView(t *testing.T) {
	s := sample(t)
	view, err := s.Source([]string{"name"})
	assert.NilError(t, err)

	assert.DeepEqual(t, view.ColumnNames(), []string{"name"})
	_, ok := view.ColumnIndex("id")
	assert.Assert(t, !ok, "restricted view hides other columns")
	assert.Equal(t, view.Value(0, 1), any("b"))
}

func TestRows(t *testing.T) {
	s := sample(t)

	rows, err := s.Rows([]int{1, 1})
	assert.NilError(t, err)
	assert.Equal(t, rows[0].String("name"), "b")
	assert.Equal(t, rows[1].Position(), 1)

	_, err = s.Rows([]int{-1})
	assert.ErrorIs(t, err, errors.ErrShape)
}
