package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/causalab/internal/experiment"
	"github.com/san-kum/causalab/internal/graph"
)

// ExportData is the self-contained JSON form of one run, suitable for
// piping into other tools.
type ExportData struct {
	Metadata  RunMetadata  `json:"metadata"`
	Columns   []string     `json:"columns"`
	Rows      [][]float64  `json:"rows"`
	Truth     *graph.Graph `json:"truth"`
	Recovered *graph.Graph `json:"recovered"`
}

// ExportJSON writes a stored run as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	ds, err := s.LoadDataset(runID)
	if err != nil {
		return err
	}
	truth, recovered, err := s.LoadGraphs(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Metadata:  *meta,
		Columns:   ds.Columns,
		Rows:      ds.Rows,
		Truth:     truth,
		Recovered: recovered,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a stored run's dataset as CSV.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	ds, err := s.LoadDataset(runID)
	if err != nil {
		return err
	}
	return ds.WriteCSV(w)
}

// ExportResultJSON writes a just-computed pipeline result as one JSON
// document without persisting it.
func ExportResultJSON(w io.Writer, res *experiment.PipelineResult) error {
	data := ExportData{
		Metadata: RunMetadata{
			Model:     res.Config.Model,
			Config:    res.Config,
			Report:    res.Report,
			Ambiguous: res.Recovered.Ambiguous,
			Latent:    res.Recovered.Latent,
			Tests:     res.Recovered.Tests,
		},
		Columns:   res.Dataset.Columns,
		Rows:      res.Dataset.Rows,
		Truth:     res.Truth,
		Recovered: res.Recovered.Graph,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
