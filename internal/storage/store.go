// Package storage persists benchmark runs on the filesystem. Each run
// gets its own directory holding metadata.json, the flattened dataset
// as dataset.csv and the traced and recovered graphs as JSON.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/causalab/internal/dataset"
	"github.com/san-kum/causalab/internal/experiment"
	"github.com/san-kum/causalab/internal/graph"
	"github.com/san-kum/causalab/internal/score"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string            `json:"id"`
	Model     string            `json:"model"`
	Timestamp time.Time         `json:"timestamp"`
	Config    experiment.Config `json:"config"`
	Report    score.Report      `json:"report"`
	Ambiguous []graph.Edge      `json:"ambiguous,omitempty"`
	Latent    []graph.Edge      `json:"latent,omitempty"`
	Tests     int               `json:"ci_tests"`
}

func (s *Store) Save(res *experiment.PipelineResult) (string, error) {
	runID := fmt.Sprintf("%s_%d", res.Config.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     res.Config.Model,
		Timestamp: time.Now(),
		Config:    res.Config,
		Report:    res.Report,
		Ambiguous: res.Recovered.Ambiguous,
		Latent:    res.Recovered.Latent,
		Tests:     res.Recovered.Tests,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "dataset.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := res.Dataset.WriteCSV(csvFile); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "truth.json"), res.Truth); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "recovered.json"), res.Recovered.Graph); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadDataset(runID string) (*dataset.Dataset, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "dataset.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return dataset.ReadCSV(file)
}

// LoadGraphs returns the traced truth and the recovered graph for a run.
func (s *Store) LoadGraphs(runID string) (*graph.Graph, *graph.Graph, error) {
	truth, err := readGraph(filepath.Join(s.baseDir, runID, "truth.json"))
	if err != nil {
		return nil, nil, err
	}
	recovered, err := readGraph(filepath.Join(s.baseDir, runID, "recovered.json"))
	if err != nil {
		return nil, nil, err
	}
	return truth, recovered, nil
}

func readGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g := graph.New()
	if err := json.Unmarshal(data, g); err != nil {
		return nil, err
	}
	return g, nil
}
