package transaction

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestNewTransaction(t *testing.T) {
	a := NewTransaction("query")
	b := NewTransaction("set")

	assert.Assert(t, a.ID != b.ID)
	assert.Assert(t, b.Seq > a.Seq)
	assert.Assert(t, a.Active)

	a.Record(Change{Type: ChangeTypeAdd, Table: "t", Column: "x"})
	a.Close()
	assert.Assert(t, !a.Active)
	assert.Equal(t, len(a.Changes), 1)

	d := a.Duration
	a.Close()
	assert.Equal(t, a.Duration, d, "closing twice keeps the first duration")
}
