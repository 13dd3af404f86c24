package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"griddle/internal/compare"
	"griddle/internal/domain"
)

// CSVSource reads rows from a delimited file. The first record is treated
// as a header and skipped; cell values are coerced per the column types so
// numeric columns compare numerically.
type CSVSource struct {
	path  string
	comma rune
	types []string // value-type tag per column position
}

// NewCSVSource creates a local source for the given file
func NewCSVSource(path string, comma rune, columnTypes []string) *CSVSource {
	if comma == 0 {
		comma = ','
	}
	return &CSVSource{path: path, comma: comma, types: columnTypes}
}

// Remote reports whether this source is remote-sourced; always false
func (s *CSVSource) Remote() bool { return false }

// Load reads the whole file into rows. The query's sort parameters are
// ignored, ordering of local data is the grid's job.
func (s *CSVSource) Load(ctx context.Context, _ Query) ([]*domain.Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = s.comma
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as CSV: %w", s.path, err)
	}

	rows := make([]*domain.Row, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells := make([]interface{}, len(record))
		for col, raw := range record {
			cells[col] = s.coerce(col, raw)
		}
		rows = append(rows, &domain.Row{Cells: cells})
	}
	return rows, nil
}

func (s *CSVSource) coerce(col int, raw string) interface{} {
	if col >= len(s.types) || s.types[col] != compare.TypeNumber {
		return raw
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return n
}
