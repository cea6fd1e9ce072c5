package render

import (
	"encoding/json"
	"io"
	"time"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as JSON Lines (one JSON object per line)
func (j *JSONFormatter) Format(names []string, rows [][]any) error {
	encoder := json.NewEncoder(j.writer)
	for _, row := range rows {
		obj := make(map[string]any, len(names))
		for i, name := range names {
			v := row[i]
			if t, ok := v.(time.Time); ok {
				v = t.Format(time.RFC3339Nano)
			}
			obj[name] = v
		}
		if err := encoder.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}
