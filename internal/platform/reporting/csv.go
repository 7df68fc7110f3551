package reporting

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes a header row followed by data rows. The writer is
// flushed before returning.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
