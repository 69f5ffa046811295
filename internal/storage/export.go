package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/pacer/internal/sim"
)

type ExportSample struct {
	Step      int                `json:"step"`
	Time      float64            `json:"time"`
	Track     string             `json:"track"`
	N         float64            `json:"n"`
	Direction int                `json:"direction"`
	KeyIndex  int                `json:"key_index"`
	Values    map[string]float64 `json:"values"`
}

type ExportEvent struct {
	Time  float64 `json:"time"`
	Track string  `json:"track"`
	Kind  string  `json:"kind"`
	Key   int     `json:"key"`
	Label string  `json:"label,omitempty"`
}

type ExportData struct {
	ID      string             `json:"id,omitempty"`
	Info    RunInfo            `json:"info"`
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	Samples []ExportSample     `json:"samples"`
	Events  []ExportEvent      `json:"events"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON writes the full run as indented JSON. Non-finite values are
// dropped from the sample maps since JSON cannot carry them.
func ExportJSON(w io.Writer, id string, info RunInfo, result *sim.Result) error {
	data := ExportData{
		ID:      id,
		Info:    info,
		Steps:   result.Steps,
		Times:   result.Times,
		Samples: make([]ExportSample, len(result.Samples)),
		Events:  make([]ExportEvent, len(result.Events)),
		Metrics: finiteOnly(result.Metrics),
	}

	for i, s := range result.Samples {
		data.Samples[i] = ExportSample{
			Step:      s.Step,
			Time:      s.Time,
			Track:     s.Track,
			N:         s.N,
			Direction: s.Direction,
			KeyIndex:  s.KeyIndex,
			Values:    finiteOnly(s.Values),
		}
	}
	for i, e := range result.Events {
		data.Events[i] = ExportEvent{
			Time:  e.Time,
			Track: e.Track,
			Kind:  e.Kind.String(),
			Key:   e.Key,
			Label: e.Label,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func finiteOnly[M ~map[string]float64](in M) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}
