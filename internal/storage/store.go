package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/pacer/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	eventsFile   = "events.csv"
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

// RunInfo describes how a run was produced.
type RunInfo struct {
	Name     string  `json:"name"`
	Timeline string  `json:"timeline"`
	Units    string  `json:"units"`
	Clamped  bool    `json:"clamped"`
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	Step     float64 `json:"step"`
}

type RunMetadata struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Info      RunInfo             `json:"info"`
	Tracks    []string            `json:"tracks"`
	Keys      map[string][]string `json:"keys"`
	Steps     int                 `json:"steps"`
	Samples   int                 `json:"samples"`
	Events    int                 `json:"events"`
	Metrics   map[string]float64  `json:"metrics"`
}

func newRunID(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = "run"
	}
	return fmt.Sprintf("%s_%d_%s", name, time.Now().Unix(), uuid.NewString()[:8])
}

func newMetadata(id string, info RunInfo, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		ID:        id,
		Timestamp: time.Now(),
		Info:      info,
		Tracks:    result.Tracks(),
		Keys:      make(map[string][]string),
		Steps:     result.Steps,
		Samples:   len(result.Samples),
		Events:    len(result.Events),
		Metrics:   result.Metrics,
	}
	for _, tr := range meta.Tracks {
		meta.Keys[tr] = result.Keys(tr)
	}
	return meta
}

// Save writes the run under a fresh ID and returns it.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := newRunID(info.Name)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := newMetadata(runID, info, result)
	if err := writeFile(filepath.Join(runDir, metadataFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, samplesFile), func(f *os.File) error {
		return WriteSamplesCSV(f, result)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, eventsFile), func(f *os.File) error {
		return WriteEventsCSV(f, result.Events)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs in %s", ErrRunNotFound, s.baseDir)
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	f, err := s.open(runID, samplesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSamplesCSV(f)
}

func (s *Store) LoadEvents(runID string) ([]sim.EventRecord, error) {
	f, err := s.open(runID, eventsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEventsCSV(f)
}

// LoadResult reassembles the stored run into a sim.Result.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sim.Result{
		Samples: samples,
		Events:  events,
		Metrics: meta.Metrics,
		Steps:   meta.Steps,
	}
	for i, smp := range samples {
		if i == 0 || smp.Step != samples[i-1].Step {
			result.Times = append(result.Times, smp.Time)
		}
	}
	return meta, result, nil
}

func (s *Store) open(runID, name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return f, nil
}
