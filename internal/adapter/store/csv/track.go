// Package csv reads probe tracks and writes sampled results as CSV.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.ngs.io/ocean-field/internal/domain"
)

// trackColumns are the required header names.
var trackColumns = []string{"x", "y", "depth", "time"}

// LoadTrack reads a track file. See ReadTrack.
func LoadTrack(path string) ([]domain.Query, error) {
	//nolint:gosec // G304: path comes from the command line.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open track file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadTrack(file)
}

// ReadTrack reads one query per row. The header must name the x, y, depth
// and time columns; their order is free and other columns are ignored.
// x and y are meters in the dataset frame, depth is meters below the
// surface and time is seconds on the dataset time axis.
func ReadTrack(r io.Reader) ([]domain.Query, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make([]int, len(trackColumns))
	for i, name := range trackColumns {
		col, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("invalid CSV header: missing column %q in %v", name, header)
		}
		cols[i] = col
	}

	queries := make([]domain.Query, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		var vals [4]float64
		for i, col := range cols {
			if col >= len(record) {
				line, _ := reader.FieldPos(0)
				return nil, fmt.Errorf("line %d: missing %s", line, trackColumns[i])
			}
			vals[i], err = strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				line, _ := reader.FieldPos(col)
				return nil, fmt.Errorf("line %d: invalid %s: %w", line, trackColumns[i], err)
			}
		}

		queries = append(queries, domain.Query{X: vals[0], Y: vals[1], Depth: vals[2], Time: vals[3]})
	}

	if len(queries) == 0 {
		return nil, fmt.Errorf("no track points found")
	}
	return queries, nil
}
