package sink

import (
	"encoding/csv"
	"io"
)

// writeCSV writes comma separated rows terminated by "\n", quoting only where needed.
// Unlike Python's csv.writer, encoding/csv also quotes fields with a leading space.
func writeCSV(w io.Writer, t Table, rows [][]string, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(t.Columns); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
