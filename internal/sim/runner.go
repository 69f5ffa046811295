package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/pacer/internal/pacer"
	"github.com/san-kum/pacer/internal/scalar"
)

// Runner drives a registry through a sequence of times and records what every
// track does.
type Runner struct {
	reg       *pacer.Registry
	metrics   []Metric
	observers []Observer
	attached  map[*pacer.Track]bool
	current   *Result
}

func New(reg *pacer.Registry) *Runner {
	return &Runner{
		reg:       reg,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		attached:  make(map[*pacer.Track]bool),
	}
}

func (r *Runner) Registry() *pacer.Registry { return r.reg }

// AddMetric adds m to every run. A metric that also implements
// pacer.Observer receives the tracks' events.
func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return r.RunSchedule(ctx, cfg.Times())
}

// RunSchedule updates the registry at each time in order. Times may go
// backwards; non-finite times are resolved by the registry clock.
func (r *Runner) RunSchedule(ctx context.Context, times []float64) (*Result, error) {
	if len(times) == 0 {
		return nil, ErrEmptySchedule
	}

	result := &Result{
		Times:   make([]float64, 0, len(times)),
		Samples: make([]Sample, 0, len(times)*r.reg.Len()),
		Events:  make([]EventRecord, 0),
		Metrics: make(map[string]float64),
	}
	r.current = result
	defer func() { r.current = nil }()

	for _, m := range r.metrics {
		m.Reset()
	}

	for _, now := range times {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		r.Tick(now)
	}

	r.collect(result)
	return result, nil
}

// Tick performs one update of the registry and records its samples into the
// run in progress, if any.
func (r *Runner) Tick(now float64) []Sample {
	if !scalar.IsUseful(now) {
		now = r.reg.Now()
	}
	r.attach()
	r.reg.UpdateAll(now)

	step := 0
	if r.current != nil {
		step = r.current.Steps
	}

	var samples []Sample
	for _, t := range r.reg.Tracks() {
		if !t.IsEnabled() {
			continue
		}
		s := Sample{
			Step:      step,
			Time:      now,
			Track:     t.Label(),
			Values:    copyValues(t.Values()),
			N:         t.N(),
			Direction: t.Direction(),
			KeyIndex:  t.KeyIndex(),
		}
		for _, m := range r.metrics {
			m.Observe(s)
		}
		for _, o := range r.observers {
			o.OnSample(s)
		}
		samples = append(samples, s)
	}

	if r.current != nil {
		r.current.Times = append(r.current.Times, now)
		r.current.Samples = append(r.current.Samples, samples...)
		r.current.Steps++
	}
	return samples
}

// attach hooks the event recorder and event-aware metrics onto tracks that
// joined the registry since the last tick.
func (r *Runner) attach() {
	for _, t := range r.reg.Tracks() {
		if r.attached[t] {
			continue
		}
		r.attached[t] = true
		t.AddObserver(pacer.ObserverFunc(r.record))
		for _, m := range r.metrics {
			if o, ok := m.(pacer.Observer); ok {
				t.AddObserver(o)
			}
		}
	}
}

func (r *Runner) record(e pacer.Event) {
	if r.current == nil {
		return
	}
	rec := EventRecord{Time: e.Time, Track: e.Track.Label(), Kind: e.Kind, Key: -1}
	if e.Key != nil {
		rec.Key = e.Key.Index()
		rec.Label = e.Key.LabelText()
	}
	r.current.Events = append(r.current.Events, rec)
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if !scalar.IsUseful(cfg.From) || !scalar.IsUseful(cfg.To) || !scalar.IsUseful(cfg.Step) {
		return fmt.Errorf("%w: window must be finite", ErrInvalidConfig)
	}
	if cfg.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %f", ErrInvalidConfig, cfg.Step)
	}
	if cfg.To < cfg.From {
		return fmt.Errorf("%w: to %f is before from %f", ErrInvalidConfig, cfg.To, cfg.From)
	}
	if n := cfg.steps(); !(n < MaxSamples) {
		return fmt.Errorf("%w: window needs %.0f samples, limit is %d", ErrInvalidConfig, n+1, MaxSamples)
	}
	return nil
}

func copyValues(v pacer.Values) pacer.Values {
	out := make(pacer.Values, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

func sortedKeys(v pacer.Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
