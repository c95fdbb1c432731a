package commands

import (
	"encoding/csv"
	"fmt"
	"io"
)

// sheetToTSV writes the worksheet rows as tab separated values, padding every row to the
// width of the widest row. Multi-line cells are quoted.
func sheetToTSV(f io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("empty worksheet")
	}

	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	for _, row := range rows {
		record := make([]string, columns)
		copy(record, row)

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

// tsvToSheet reads the rows of a TSV file. Rows may have different lengths.
func tsvToSheet(r io.Reader) ([][]string, error) {
	rs := csv.NewReader(r)
	rs.Comma = '\t'
	rs.FieldsPerRecord = -1
	rs.LazyQuotes = true

	rows, err := rs.ReadAll()
	if err != nil {
		return nil, err
	} else if len(rows) == 0 {
		return nil, fmt.Errorf("empty TSV file")
	}

	return rows, nil
}
