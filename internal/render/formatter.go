// Package render writes tables for people and pipes.
//
// Currently supported formats:
//   - Text: an aligned grid (tablewriter)
//   - JSON Lines: one JSON object per row
package render

import "io"

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes the header names and rows in the formatter's format
	Format(names []string, rows [][]any) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
