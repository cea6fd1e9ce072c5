package data

import (
	"math"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestCompare(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"null first", nil, 1.0, -1},
		{"nulls equal", nil, nil, 0},
		{"numbers", 1.0, 2.0, -1},
		{"strings", "b", "a", 1},
		{"false before true", false, true, -1},
		{"bool before number", true, 0.0, -1},
		{"number before string", 99.0, "1", -1},
		{"times", now, now.Add(time.Second), -1},
		{"nan after numbers", math.NaN(), 1.0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Compare(tt.a, tt.b), tt.want)
		})
	}
}

func TestKeyDistinguishesTypes(t *testing.T) {
	assert.Assert(t, Key(1.0) != Key("1"))
	assert.Assert(t, Key("a", "bc") != Key("ab", "c"))
	assert.Assert(t, Key(nil) != Key(""))
	assert.Equal(t, Key(2.0, "x"), Key(2.0, "x"))
}

func TestKeyAgreesWithCompare(t *testing.T) {
	negZero := math.Copysign(0, -1)
	assert.Equal(t, Compare(negZero, 0.0), 0)
	assert.Equal(t, Key(negZero), Key(0.0))
}

func TestDistance(t *testing.T) {
	d, ok := Distance(1.5, 4.0)
	assert.Assert(t, ok)
	assert.Equal(t, d, 2.5)

	now := time.Now()
	d, ok = Distance(now, now.Add(-90*time.Second))
	assert.Assert(t, ok)
	assert.Equal(t, d, 90.0)

	_, ok = Distance("a", "b")
	assert.Assert(t, !ok)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, Format(nil), "NA")
	assert.Equal(t, Format(3.0), "3")
	assert.Equal(t, Format(2.5), "2.5")
	assert.Equal(t, Format(true), "true")
}
