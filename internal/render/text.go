package render

import (
	"io"
	"strings"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/olekukonko/tablewriter"
)

// TextFormatter outputs rows as an aligned text grid
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TextFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes the grid. Nulls print as NA.
func (f *TextFormatter) Format(names []string, rows [][]any) error {
	table := tablewriter.NewWriter(f.writer)
	table.SetHeader(names)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	cells := make([][]string, len(rows))
	for i, row := range rows {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = data.Format(v)
		}
		cells[i] = record
	}
	table.AppendBulk(cells)
	table.Render()
	return nil
}

// Text renders names and rows to a string grid
func Text(names []string, rows [][]any) string {
	var sb strings.Builder
	_ = NewTextFormatter(&sb).Format(names, rows)
	return sb.String()
}
