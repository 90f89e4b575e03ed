package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"go.ngs.io/ocean-field/internal/domain"
)

// missing marks a value that could not be computed.
const missing = "NA"

var resultColumns = []string{
	"x", "y", "depth", "time",
	"value", "floor_depth", "altitude", "east", "north", "stale",
}

// ResultWriter writes one row per sampled query.
type ResultWriter struct {
	w *csv.Writer
}

// NewResultWriter writes the header to w and returns the writer.
func NewResultWriter(w io.Writer) (*ResultWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return &ResultWriter{w: cw}, nil
}

// Write appends a row. When ok is false every result column is NA; the
// vector columns are NA whenever the result has no valid vector.
func (rw *ResultWriter) Write(q domain.Query, res domain.Result, ok bool) error {
	row := []string{ftoa(q.X), ftoa(q.Y), ftoa(q.Depth), ftoa(q.Time)}
	if !ok {
		for range resultColumns[4:] {
			row = append(row, missing)
		}
		return rw.w.Write(row)
	}

	east, north := missing, missing
	if res.VectorValid {
		east, north = ftoa(res.East), ftoa(res.North)
	}
	row = append(row,
		ftoa(res.Value),
		ftoa(res.FloorDepth),
		ftoa(res.Altitude),
		east,
		north,
		strconv.FormatBool(res.Stale),
	)
	return rw.w.Write(row)
}

// Flush writes buffered rows and reports any write error.
func (rw *ResultWriter) Flush() error {
	rw.w.Flush()
	return rw.w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
