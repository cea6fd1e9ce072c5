package schema

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestNormalize(t *testing.T) {
	n := 5
	var nilPtr *int
	now := time.Now()

	assert.Equal(t, Normalize(int32(3)), any(3.0))
	assert.Equal(t, Normalize(uint8(7)), any(7.0))
	assert.Equal(t, Normalize(float32(1.5)), any(1.5))
	assert.Equal(t, Normalize(&n), any(5.0))
	assert.Assert(t, Normalize(nilPtr) == nil)
	assert.Equal(t, Normalize(&now), any(now))
	assert.Equal(t, Normalize("x"), any("x"))
}

func TestNormalizeSlice(t *testing.T) {
	out, err := NormalizeSlice([]int64{1, 2})
	assert.NilError(t, err)
	assert.DeepEqual(t, out, []any{1.0, 2.0})

	out, err = NormalizeSlice([]any{1, "a", nil})
	assert.NilError(t, err)
	assert.DeepEqual(t, out, []any{1.0, "a", nil})

	_, err = NormalizeSlice(42)
	assert.ErrorContains(t, err, "expected a slice")
}

func TestInfer(t *testing.T) {
	assert.Equal(t, Infer([]any{nil, 1.0}), ColumnTypeNumber)
	assert.Equal(t, Infer([]any{nil, nil}), ColumnTypeNull)
	assert.Equal(t, Infer([]any{"a", 1.0}), ColumnTypeAny)
	assert.Equal(t, Merge(ColumnTypeNull, ColumnTypeBool), ColumnTypeBool)
}
