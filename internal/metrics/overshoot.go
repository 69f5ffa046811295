package metrics

import (
	"math"

	"github.com/san-kum/pacer/internal/pacer"
	"github.com/san-kum/pacer/internal/sim"
)

type valueRange struct {
	min, max float64
}

// Overshoot is the largest distance by which any sampled value left the range
// spanned by its track's keyframes. Eases like back, elastic and spring
// produce non-zero overshoot; the polynomial families never do.
type Overshoot struct {
	name   string
	ranges map[string]map[string]valueRange
	max    float64
}

func NewOvershoot(tracks ...*pacer.Track) *Overshoot {
	o := &Overshoot{
		name:   "overshoot",
		ranges: make(map[string]map[string]valueRange),
	}
	for _, t := range tracks {
		o.Track(t)
	}
	return o
}

// Track records the keyframe value ranges of t.
func (o *Overshoot) Track(t *pacer.Track) {
	ranges := make(map[string]valueRange)
	for _, k := range t.Keys() {
		for name, v := range k.Values() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			r, ok := ranges[name]
			if !ok {
				r = valueRange{min: v, max: v}
			}
			r.min = math.Min(r.min, v)
			r.max = math.Max(r.max, v)
			ranges[name] = r
		}
	}
	o.ranges[t.Label()] = ranges
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(s sim.Sample) {
	ranges, ok := o.ranges[s.Track]
	if !ok {
		return
	}
	for name, v := range s.Values {
		r, ok := ranges[name]
		if !ok {
			continue
		}
		switch {
		case v > r.max:
			o.max = math.Max(o.max, v-r.max)
		case v < r.min:
			o.max = math.Max(o.max, r.min-v)
		}
	}
}

func (o *Overshoot) Value() float64 {
	return o.max
}

func (o *Overshoot) Reset() {
	o.max = 0
}
