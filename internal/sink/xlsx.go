package sink

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// writeXLSX writes rows into a single sheet named after the table.
func writeXLSX(w io.Writer, t Table, rows [][]string, header bool) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(t.Name)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	r := 1
	setRow := func(fields []string) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(fields))
		for i, v := range fields {
			values[i] = v
		}
		r++
		return sw.SetRow(cell, values)
	}

	if header {
		if err := setRow(t.Columns); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, row := range rows {
		if err := setRow(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

// sheetName trims name to the 31 characters Excel allows.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
