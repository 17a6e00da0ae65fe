package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hawkgs/snow/internal/config"
)

// Store persists headless run recordings under a base directory, one
// directory per run with metadata.json and samples.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one recorded run.
type RunMetadata struct {
	ID              string             `json:"id"`
	Mode            string             `json:"mode"`
	Timestamp       time.Time          `json:"timestamp"`
	Seed            int64              `json:"seed"`
	FPS             int                `json:"fps"`
	DurationSeconds float64            `json:"duration_seconds"`
	Intensity       int                `json:"intensity"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Sample is one tick's worth of recorded population state.
type Sample struct {
	Time       float64
	Population int
	Resting    int
	MeanSpeed  float64
}

func (s *Store) Save(cfg *config.Config, duration float64, samples []Sample, metrics map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Mode, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Mode:            cfg.Mode,
		Timestamp:       time.Now(),
		Seed:            cfg.Seed,
		FPS:             cfg.FPS,
		DurationSeconds: duration,
		Intensity:       cfg.Intensity,
		Metrics:         metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamplesCSV(csvFile, samples); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteSamplesCSV writes the per-tick samples in the store's csv layout.
func WriteSamplesCSV(out io.Writer, samples []Sample) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"time", "population", "resting", "mean_speed"}); err != nil {
		return err
	}
	for _, sm := range samples {
		row := []string{
			strconv.FormatFloat(sm.Time, 'f', 4, 64),
			strconv.Itoa(sm.Population),
			strconv.Itoa(sm.Resting),
			strconv.FormatFloat(sm.MeanSpeed, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
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

func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		pop, _ := strconv.Atoi(record[1])
		resting, _ := strconv.Atoi(record[2])
		speed, _ := strconv.ParseFloat(record[3], 64)
		samples = append(samples, Sample{
			Time:       t,
			Population: pop,
			Resting:    resting,
			MeanSpeed:  speed,
		})
	}
	return samples, nil
}
