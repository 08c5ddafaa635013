// Package dataset flattens ensemble simulation results into the
// observational matrix consumed by discovery: one row per sample, one
// column per variable at each observed save step. Column names use the
// same "name@step" scheme as the traced graph, which is what lets the
// recovered and traced graphs be compared node for node.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/trace"
)

var (
	// ErrNoResults indicates an empty ensemble.
	ErrNoResults = errors.New("dataset: no simulation results")

	// ErrStepOutOfRange indicates an observed step beyond the trajectory.
	ErrStepOutOfRange = errors.New("dataset: observed step out of range")

	// ErrRaggedResults indicates trajectories of differing lengths.
	ErrRaggedResults = errors.New("dataset: trajectories have differing lengths")
)

type Dataset struct {
	Columns []string
	Rows    [][]float64
}

// Flatten extracts the state at each observed save step from every
// trajectory. stride maps save steps to trajectory indices: observed
// step k reads States[k*stride].
func Flatten(results []*sim.Result, names []string, obsSteps []int, stride int) (*Dataset, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	if stride < 1 {
		return nil, fmt.Errorf("dataset: stride must be at least 1, got %d", stride)
	}

	length := len(results[0].States)
	for _, r := range results {
		if len(r.States) != length {
			return nil, ErrRaggedResults
		}
	}
	for _, k := range obsSteps {
		if k < 0 || k*stride >= length {
			return nil, fmt.Errorf("%w: step %d (index %d of %d)", ErrStepOutOfRange, k, k*stride, length)
		}
	}

	cols := make([]string, 0, len(obsSteps)*len(names))
	for _, k := range obsSteps {
		for _, name := range names {
			cols = append(cols, trace.NodeID(name, k))
		}
	}

	rows := make([][]float64, len(results))
	for i, r := range results {
		row := make([]float64, 0, len(cols))
		for _, k := range obsSteps {
			row = append(row, r.States[k*stride]...)
		}
		rows[i] = row
	}

	return &Dataset{Columns: cols, Rows: rows}, nil
}

// ColumnStats summarizes one dataset column.
type ColumnStats struct {
	Name string
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Summary computes per-column statistics.
func (d *Dataset) Summary() []ColumnStats {
	out := make([]ColumnStats, len(d.Columns))
	col := make([]float64, len(d.Rows))
	for j, name := range d.Columns {
		for i, row := range d.Rows {
			col[i] = row[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		min, max := col[0], col[0]
		for _, v := range col {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		out[j] = ColumnStats{Name: name, Mean: mean, Std: std, Min: min, Max: max}
	}
	return out
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) ([]float64, bool) {
	for j, c := range d.Columns {
		if c != name {
			continue
		}
		col := make([]float64, len(d.Rows))
		for i, row := range d.Rows {
			col[i] = row[j]
		}
		return col, true
	}
	return nil, false
}

// WriteCSV writes the dataset with a header row.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(d.Columns); err != nil {
		return err
	}
	record := make([]string, len(d.Columns))
	for _, row := range d.Rows {
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return cw.Error()
}

// ReadCSV parses a dataset written by WriteCSV.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoResults
	}

	d := &Dataset{Columns: records[0]}
	for _, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: bad value %q: %w", s, err)
			}
			row[j] = v
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}
