package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures CSV parsing.
type CSVOptions struct {
	Delimiter  rune // default ','
	LazyQuotes bool
	TrimSpace  bool
}

// CSVTable is a parsed CSV file: the header row plus every data row.
type CSVTable struct {
	Header []string
	Rows   [][]string
}

// ReadCSV parses a whole CSV document with a header row. Rows may have
// variable field counts; short rows are padded when indexed through Column.
func ReadCSV(r io.Reader, opts CSVOptions) (*CSVTable, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	all, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read")
	}
	if len(all) == 0 {
		return nil, eris.New("csv: empty file")
	}

	if opts.TrimSpace {
		for _, row := range all {
			for i, field := range row {
				row[i] = strings.TrimSpace(field)
			}
		}
	}

	return &CSVTable{Header: all[0], Rows: all[1:]}, nil
}

// ColumnIndex returns the index of a header column, matched
// case-insensitively, or -1 when absent. Column names vary per producing
// script, so consumers remap explicitly rather than assuming a schema.
func (t *CSVTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Column returns row[idx], or "" when the row is short or the index is -1.
func Column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
