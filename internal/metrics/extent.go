package metrics

import (
	"math"

	"github.com/san-kum/pacer/internal/sim"
)

// Extent is the largest absolute sampled value. With a key set, only that
// value name is considered.
type Extent struct {
	name string
	key  string
	max  float64
}

func NewExtent(key string) *Extent {
	name := "extent"
	if key != "" {
		name += ":" + key
	}
	return &Extent{name: name, key: key}
}

func (e *Extent) Name() string {
	return e.name
}

func (e *Extent) Observe(s sim.Sample) {
	for name, v := range s.Values {
		if e.key != "" && name != e.key {
			continue
		}
		e.max = math.Max(e.max, math.Abs(v))
	}
}

func (e *Extent) Value() float64 {
	return e.max
}

func (e *Extent) Reset() {
	e.max = 0
}

// Travel is the mean per-sample distance covered by all values, summed over
// value names. A track sampled at rest has zero travel.
type Travel struct {
	name    string
	last    map[string]map[string]float64
	sum     float64
	samples int
}

func NewTravel() *Travel {
	return &Travel{
		name: "travel",
		last: make(map[string]map[string]float64),
	}
}

func (t *Travel) Name() string {
	return t.name
}

func (t *Travel) Observe(s sim.Sample) {
	prev, ok := t.last[s.Track]
	next := make(map[string]float64, len(s.Values))
	for name, v := range s.Values {
		next[name] = v
		if p, seen := prev[name]; ok && seen {
			t.sum += math.Abs(v - p)
		}
	}
	t.last[s.Track] = next
	t.samples++
}

func (t *Travel) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.sum / float64(t.samples)
}

func (t *Travel) Reset() {
	t.last = make(map[string]map[string]float64)
	t.sum = 0
	t.samples = 0
}

// Smoothness is the fraction of samples in which no value jumped by more
// than threshold since the previous sample of the same track.
type Smoothness struct {
	name       string
	threshold  float64
	last       map[string]map[string]float64
	violations int
	samples    int
}

func NewSmoothness(threshold float64) *Smoothness {
	return &Smoothness{
		name:      "smoothness",
		threshold: threshold,
		last:      make(map[string]map[string]float64),
	}
}

func (s *Smoothness) Name() string {
	return s.name
}

func (s *Smoothness) Observe(sample sim.Sample) {
	prev := s.last[sample.Track]
	s.samples++
	for name, v := range sample.Values {
		if p, ok := prev[name]; ok && math.Abs(v-p) > s.threshold {
			s.violations++
			break
		}
	}
	next := make(map[string]float64, len(sample.Values))
	for name, v := range sample.Values {
		next[name] = v
	}
	s.last[sample.Track] = next
}

func (s *Smoothness) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Smoothness) Reset() {
	s.last = make(map[string]map[string]float64)
	s.violations = 0
	s.samples = 0
}
