package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

type ExportData struct {
	ID         string             `json:"id,omitempty"`
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Collision  string             `json:"collision,omitempty"`
	G          float64            `json:"g"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Bodies     []BodyMeta         `json:"bodies"`
	Labels     []string           `json:"labels"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Events     []dynamo.Event     `json:"events"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(meta *RunMetadata, result *sim.Result) ExportData {
	return ExportData{
		ID:         meta.ID,
		Model:      meta.Model,
		Integrator: meta.Integrator,
		Collision:  meta.Collision,
		G:          meta.G,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      len(result.Times),
		Bodies:     meta.Bodies,
		Labels:     result.Labels,
		Times:      result.Times,
		States:     result.States,
		Events:     result.Events,
		Metrics:    result.Metrics,
	}
}

func WriteJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, result))
}

func ExportJSON(path string, meta *RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, meta, result); err != nil {
		return err
	}
	return file.Close()
}
