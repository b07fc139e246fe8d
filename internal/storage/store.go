package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type BodyMeta struct {
	Name   string  `json:"name"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color,omitempty"`
}

// RunInfo describes how a run was configured.
type RunInfo struct {
	Model      string     `json:"model"`
	Preset     string     `json:"preset,omitempty"`
	Integrator string     `json:"integrator"`
	Collision  string     `json:"collision,omitempty"`
	G          float64    `json:"g"`
	SpeedUp    float64    `json:"speed_up"`
	Dt         float64    `json:"dt"`
	Duration   float64    `json:"duration"`
	Bodies     []BodyMeta `json:"bodies"`
}

// NewRunInfo describes a run of cfg started from the named preset, which
// may be empty.
func NewRunInfo(cfg *config.Config, preset string) RunInfo {
	info := RunInfo{
		Model:      cfg.Model,
		Preset:     preset,
		Integrator: cfg.Integrator,
		Collision:  cfg.Collision,
		G:          cfg.G,
		SpeedUp:    cfg.SpeedUp,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Bodies:     make([]BodyMeta, len(cfg.Bodies)),
	}
	for i, b := range cfg.Bodies {
		info.Bodies[i] = BodyMeta{Name: cfg.BodyName(i), Mass: b.Mass, Radius: b.Radius, Color: b.Color}
	}
	return info
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunInfo
	Steps   int                `json:"steps"`
	Labels  []string           `json:"labels"`
	Events  []dynamo.Event     `json:"events"`
	Metrics map[string]float64 `json:"metrics"`
	Error   string             `json:"error,omitempty"`
}

// Save writes the run to a new directory and returns its id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	ts := s.now()
	runID, runDir, err := s.createRunDir(fmt.Sprintf("%s_%d", info.Model, ts.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: ts,
		RunInfo:   info,
		Steps:     result.StepsTaken,
		Labels:    result.Labels,
		Events:    result.Events,
		Metrics:   result.Metrics,
	}
	if len(result.Errors) > 0 {
		meta.Error = result.Errors[len(result.Errors)-1].Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

// createRunDir makes a unique run directory, suffixing the id when several
// runs are saved within the same second.
func (s *Store) createRunDir(base string) (string, string, error) {
	id := base
	for n := 2; ; n++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(result.States) > 0 {
		header := []string{"time"}
		if len(result.Labels) == len(result.States[0]) {
			header = append(header, result.Labels...)
		} else {
			for i := range result.States[0] {
				header = append(header, fmt.Sprintf("x%d", i))
			}
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for i := range result.States {
			row := []string{strconv.FormatFloat(result.Times[i], 'g', -1, 64)}
			for _, val := range result.States[i] {
				row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns every stored run, newest first.
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
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Latest returns the newest stored run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs in %s", ErrRunNotFound, s.baseDir)
	}
	return &runs[0], nil
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	_, states, times, err := s.readStates(runID)
	return states, times, err
}

// LoadResult rebuilds the recorded result of a run from disk.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	header, states, times, err := s.readStates(runID)
	if err != nil {
		return nil, nil, err
	}
	labels := meta.Labels
	if len(labels) == 0 && len(header) > 1 {
		labels = header[1:]
	}
	return meta, &sim.Result{
		Labels:     labels,
		Times:      times,
		States:     states,
		Events:     meta.Events,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}, nil
}

func (s *Store) readStates(runID string) ([]string, [][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}

	if len(records) < 2 {
		var header []string
		if len(records) == 1 {
			header = records[0]
		}
		return header, [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return records[0], states, times, nil
}
