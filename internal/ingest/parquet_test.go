package ingest

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/parquet-go/parquet-go"
	"gotest.tools/v3/assert"
)

type quoteRow struct {
	Sym   string   `parquet:"sym"`
	Ts    int64    `parquet:"ts"`
	Price *float64 `parquet:"price,optional"`
}

func writeQuotes(t *testing.T, dir, name string, rows []quoteRow) string {
	t.Helper()
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	assert.NilError(t, err)
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[quoteRow](f)
	_, err = writer.Write(rows)
	assert.NilError(t, err)
	assert.NilError(t, writer.Close())
	return path
}

func price(v float64) *float64 { return &v }

func TestReadFile(t *testing.T) {
	path := writeQuotes(t, t.TempDir(), "quotes.parquet", []quoteRow{
		{Sym: "A", Ts: 1, Price: price(10)},
		{Sym: "B", Ts: 2},
	})

	rows, columns, err := ReadFile(path)
	assert.NilError(t, err)
	slices.Sort(columns)
	assert.DeepEqual(t, columns, []string{"price", "sym", "ts"})
	assert.Equal(t, len(rows), 2)
	assert.Equal(t, rows[0]["sym"], any("A"))
	assert.Equal(t, rows[0]["price"], any(10.0))
	assert.Equal(t, rows[1]["price"], nil)
}

func TestLoadGlob(t *testing.T) {
	dir := t.TempDir()
	writeQuotes(t, dir, "a.parquet", []quoteRow{{Sym: "A", Ts: 1}})
	writeQuotes(t, dir, "b.parquet", []quoteRow{{Sym: "B", Ts: 2}, {Sym: "B", Ts: 3}})

	rows, columns, err := Load(filepath.Join(dir, "*.parquet"), nil)
	assert.NilError(t, err)
	assert.Equal(t, len(rows), 3)
	assert.Equal(t, columns[len(columns)-1], FileColumn)
	assert.Equal(t, rows[0][FileColumn], any(filepath.Join(dir, "a.parquet")))
	assert.Equal(t, rows[2][FileColumn], any(filepath.Join(dir, "b.parquet")))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Load(filepath.Join(dir, "*.parquet"), nil)
	assert.ErrorContains(t, err, "no files match pattern")

	_, _, err = Load(filepath.Join(dir, "missing.parquet"), nil)
	assert.ErrorContains(t, err, "failed to open file")

	bad := filepath.Join(dir, "bad.parquet")
	assert.NilError(t, os.WriteFile(bad, []byte("not parquet"), 0644))
	_, _, err = Load(bad, nil)
	assert.ErrorContains(t, err, "failed to open parquet file")
}
