package sim

import (
	"math"

	"github.com/san-kum/pacer/internal/pacer"
)

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// MaxSamples bounds the number of sample times a Config may expand to.
const MaxSamples = 1_000_000

// Config is a fixed-step sampling window. Both ends are inclusive.
type Config struct {
	From float64
	To   float64
	Step float64
}

// Times expands the window into sample times. The last time is To whenever
// the window is a whole number of steps.
func (c Config) Times() []float64 {
	steps := int(math.Floor(c.steps()))
	times := make([]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		times = append(times, c.From+float64(i)*c.Step)
	}
	return times
}

func (c Config) steps() float64 {
	return (c.To-c.From)/c.Step + 1e-9
}

// Sample is the state of one track after one tick. Step is the tick index
// within the run.
type Sample struct {
	Step      int
	Time      float64
	Track     string
	Values    pacer.Values
	N         float64
	Direction int
	KeyIndex  int
}

// EventRecord is a flattened pacer.Event. Key is -1 for track-level events.
type EventRecord struct {
	Time  float64
	Track string
	Kind  pacer.EventKind
	Key   int
	Label string
}

type Result struct {
	Times   []float64
	Samples []Sample
	Events  []EventRecord
	Metrics map[string]float64
	Steps   int
}

// Series returns the values of one key of one track, aligned with Times
// entries in which the track produced a sample. Missing keys yield NaN.
func (r *Result) Series(track, key string) (times, values []float64) {
	for _, s := range r.Samples {
		if s.Track != track {
			continue
		}
		v, ok := s.Values[key]
		if !ok {
			v = math.NaN()
		}
		times = append(times, s.Time)
		values = append(values, v)
	}
	return times, values
}

// Tracks returns the track labels in order of first appearance.
func (r *Result) Tracks() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range r.Samples {
		if !seen[s.Track] {
			seen[s.Track] = true
			out = append(out, s.Track)
		}
	}
	return out
}

// Keys returns the value names sampled for track in order of first appearance.
func (r *Result) Keys(track string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range r.Samples {
		if s.Track != track {
			continue
		}
		for _, k := range sortedKeys(s.Values) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
