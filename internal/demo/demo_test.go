package demo

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/leengari/datatable/internal/render"
	"gotest.tools/v3/assert"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := Run(&out, render.NewJSONFormatter(&out), logger)
	assert.NilError(t, err)

	text := out.String()
	assert.Assert(t, strings.Contains(text, "Volume by symbol"))
	assert.Assert(t, strings.Contains(text, `"bid":190.1`), text)
	assert.Assert(t, strings.Contains(text, `"total_qty":440`), text)
}
