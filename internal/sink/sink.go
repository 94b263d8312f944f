// Package sink writes extracted tables to disk in one of several formats.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat indicates an output format name that no encoder handles.
var ErrUnknownFormat = errors.New("sink: unknown format")

// Format identifies a table encoding.
type Format string

// Supported formats.
const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatXLSX    Format = "xlsx"
	FormatPB      Format = "pb"
)

// Formats lists the supported formats in a stable order.
func Formats() []Format {
	return []Format{FormatCSV, FormatParquet, FormatXLSX, FormatPB}
}

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Table names a table and its columns.
type Table struct {
	Name    string
	Columns []string
}

// encoder writes all rows of t to w. Rows have len(t.Columns) fields.
type encoder func(w io.Writer, t Table, rows [][]string, header bool) error

var encoders = map[Format]encoder{
	FormatCSV:     writeCSV,
	FormatParquet: writeParquet,
	FormatXLSX:    writeXLSX,
	FormatPB:      writePB,
}

// WriteTable encodes rows into path. The table is written to a temporary file in
// the same directory and renamed into place, so path never holds a partial table.
func WriteTable(path string, t Table, rows [][]string, f Format, header bool) error {
	enc, ok := encoders[f]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	for i, row := range rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("table %s row %d: got %d fields, want %d", t.Name, i, len(row), len(t.Columns))
		}
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	bw := bufio.NewWriter(tmpFile)
	if err := enc(bw, t, rows, header); err != nil {
		_ = tmpFile.Close()    // best effort cleanup
		_ = os.Remove(tmpPath) // best effort cleanup
		return fmt.Errorf("encode %s: %w", t.Name, err)
	}
	if err := bw.Flush(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	// CreateTemp uses 0600
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
