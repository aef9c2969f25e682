// Package storage persists runs as a directory per run holding metadata.json
// and trajectory.csv.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name,omitempty"`
	Circuit   string             `json:"circuit"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Samples   int                `json:"samples"`
	Labels    []string           `json:"labels"`
	Params    map[string]float64 `json:"params,omitempty"`
	Damping   string             `json:"damping,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
	MaxError  float64            `json:"max_error,omitempty"`
	RMSError  float64            `json:"rms_error,omitempty"`
	Diverged  bool               `json:"diverged"`
	Warnings  []string           `json:"warnings,omitempty"`
	Config    *config.Config     `json:"config,omitempty"`
}

// Save writes a new run directory and returns its ID. meta.ID, Timestamp and
// Samples are filled in.
func (s *Store) Save(meta RunMetadata, tr *dynamo.Trajectory) (string, error) {
	now := time.Now()
	prefix := meta.Circuit
	if meta.Name != "" {
		prefix = meta.Name
	}
	meta.ID = fmt.Sprintf("%s_%d", sanitize(prefix), now.UnixNano())
	meta.Timestamp = now
	meta.Samples = tr.Len()
	meta.Diverged = tr.Diverged()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta.finite()); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteCSV(f, tr, meta.Labels); err != nil {
		return "", err
	}
	return meta.ID, f.Close()
}

// List returns every readable run, oldest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory reads a run's series back. The divergence marker is not
// persisted in the CSV; use RunMetadata.Diverged.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	tr, err := ReadCSV(f, meta.Labels)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return tr, meta, nil
}

// finite drops values encoding/json cannot represent. A diverged run keeps its
// Diverged flag; the non-finite numbers themselves stay in the CSV.
func (m RunMetadata) finite() RunMetadata {
	metrics := make(map[string]float64, len(m.Metrics))
	for k, v := range m.Metrics {
		if !isNonFinite(v) {
			metrics[k] = v
		}
	}
	m.Metrics = metrics
	if isNonFinite(m.MaxError) {
		m.MaxError = 0
	}
	if isNonFinite(m.RMSError) {
		m.RMSError = 0
	}
	return m
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func sanitize(name string) string {
	out := []rune(name)
	for i, r := range out {
		if r == '/' || r == '\\' || r == ' ' {
			out[i] = '_'
		}
	}
	return string(out)
}
