package render

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONFormatter(&buf).Format([]string{"id", "name"}, [][]any{
		{1.0, "alice"},
		{2.0, nil},
	})
	assert.NilError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 2)
	assert.Equal(t, lines[0], `{"id":1,"name":"alice"}`)
	assert.Equal(t, lines[1], `{"id":2,"name":null}`)
}

func TestText(t *testing.T) {
	out := Text([]string{"id", "name"}, [][]any{{1.0, "alice"}, {2.0, nil}})

	assert.Assert(t, strings.Contains(out, "id"))
	assert.Assert(t, strings.Contains(out, "alice"))
	assert.Assert(t, strings.Contains(out, "NA"), "nulls print as NA")
}
