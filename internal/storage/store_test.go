package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/causalab/internal/dataset"
	"github.com/san-kum/causalab/internal/discover"
	"github.com/san-kum/causalab/internal/experiment"
	"github.com/san-kum/causalab/internal/graph"
	"github.com/san-kum/causalab/internal/score"
)

func fakeResult(t *testing.T, model string) *experiment.PipelineResult {
	t.Helper()

	truth := graph.New()
	rec := graph.New()
	for _, id := range []string{"x@0", "x@1"} {
		if err := truth.AddNode(id); err != nil {
			t.Fatal(err)
		}
		if err := rec.AddNode(id); err != nil {
			t.Fatal(err)
		}
	}
	if err := truth.AddDirected("x@0", "x@1"); err != nil {
		t.Fatal(err)
	}
	if err := rec.AddUndirected("x@0", "x@1"); err != nil {
		t.Fatal(err)
	}

	return &experiment.PipelineResult{
		Config: experiment.Config{
			Model: model, Integrator: "rk4", Dt: 0.01, Duration: 0.1,
			Stride: 5, ObsSteps: []int{0, 1}, Samples: 10, Seed: 1,
			Alpha: 0.05, MaxCond: 2,
		},
		Dataset: &dataset.Dataset{
			Columns: []string{"x@0", "x@1"},
			Rows:    [][]float64{{1, 2}, {3, 4}},
		},
		Truth: truth,
		Recovered: &discover.Result{
			Graph:     rec,
			Ambiguous: []graph.Edge{{From: "x@0", To: "x@1", Kind: graph.Undirected}},
			Tests:     3,
		},
		Report: score.Compare(truth, rec),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := s.Save(fakeResult(t, "pendulum"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(runID, "pendulum_") {
		t.Errorf("runID = %s", runID)
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Model != "pendulum" {
		t.Errorf("model = %s", meta.Model)
	}
	if meta.Tests != 3 {
		t.Errorf("ci tests = %d, want 3", meta.Tests)
	}
	if meta.Report.TrueEdges != 1 {
		t.Errorf("true edges = %d, want 1", meta.Report.TrueEdges)
	}
	if len(meta.Ambiguous) != 1 {
		t.Errorf("ambiguous = %v", meta.Ambiguous)
	}

	ds, err := s.LoadDataset(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Rows) != 2 || ds.Rows[1][1] != 4 {
		t.Errorf("dataset rows = %v", ds.Rows)
	}

	truth, rec, err := s.LoadGraphs(runID)
	if err != nil {
		t.Fatal(err)
	}
	if !truth.HasDirected("x@0", "x@1") {
		t.Error("truth edge lost")
	}
	if e, ok := rec.EdgeBetween("x@0", "x@1"); !ok || e.Kind != graph.Undirected {
		t.Error("recovered edge lost")
	}
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Save(fakeResult(t, "sir")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(fakeResult(t, "hiv")); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
}

func TestListMissingBaseDir(t *testing.T) {
	s := New(t.TempDir() + "/never-created")
	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("runs = %d, want 0", len(runs))
	}
}

func TestLoadMissingRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope_123"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestExportJSON(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := s.Save(fakeResult(t, "pendulum"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Metadata.ID != runID {
		t.Errorf("exported id = %s", data.Metadata.ID)
	}
	if len(data.Columns) != 2 || len(data.Rows) != 2 {
		t.Errorf("exported dataset %v / %v", data.Columns, data.Rows)
	}
	if data.Truth == nil || !data.Truth.HasDirected("x@0", "x@1") {
		t.Error("exported truth graph wrong")
	}
}

func TestExportCSV(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := s.Save(fakeResult(t, "pendulum"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ExportCSV(&buf, runID); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "x@0,x@1\n") {
		t.Errorf("csv header wrong: %q", buf.String())
	}
}

func TestExportResultJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportResultJSON(&buf, fakeResult(t, "lotka_volterra")); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Metadata.Model != "lotka_volterra" {
		t.Errorf("model = %s", data.Metadata.Model)
	}
	if data.Recovered == nil {
		t.Error("recovered graph missing")
	}
}
