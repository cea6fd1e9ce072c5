// Package ingest loads Apache Parquet files as row-major records ready for
// engine.FromRows.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// FileColumn is added to every record of a multi-file read
const FileColumn = "_file"

// maxFiles bounds how many files one glob pattern may expand to
const maxFiles = 1000

// Reader reads one parquet file
type Reader struct {
	path   string
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens path and validates it as a parquet file
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{path: path, file: file, pqFile: pqFile}, nil
}

// Columns returns the top-level column names in file order
func (r *Reader) Columns() []string {
	fields := r.pqFile.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}

// NumRows returns the row count recorded in the file footer
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// ReadAll reads every row into memory. Byte-array cells become strings.
func (r *Reader) ReadAll() ([]map[string]any, error) {
	rows := make([]map[string]any, 0, r.NumRows())

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(map[string]any)
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row %d of %s: %w", len(rows), r.path, err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Close releases the underlying file. Safe to call more than once.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ReadFile reads a single parquet file
func ReadFile(path string) ([]map[string]any, []string, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = r.Close() }()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return rows, r.Columns(), nil
}

// Load reads a path or glob pattern. A plain path is read as is; a glob
// reads every match in lexical order and tags each record with FileColumn.
// The returned column order is the first file's, followed by FileColumn
// for globs.
func Load(pattern string, logger *slog.Logger) ([]map[string]any, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !strings.ContainsAny(pattern, "*?[]") {
		rows, columns, err := ReadFile(pattern)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("parquet file loaded",
			slog.String("path", pattern),
			slog.Int("rows", len(rows)))
		return rows, columns, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	var all []map[string]any
	var columns []string
	for _, path := range matches {
		rows, cols, err := ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if columns == nil {
			columns = append(cols, FileColumn)
		}
		for _, row := range rows {
			row[FileColumn] = path
		}
		all = append(all, rows...)

		logger.Debug("parquet file loaded",
			slog.String("path", path),
			slog.Int("rows", len(rows)))
	}

	logger.Info("parquet files loaded",
		slog.String("pattern", pattern),
		slog.Int("files", len(matches)),
		slog.Int("rows", len(all)))
	return all, columns, nil
}
