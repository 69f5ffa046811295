package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pacer/internal/pacer"
	"github.com/san-kum/pacer/internal/sim"
)

// Script is a scripted sequence of operations on one track.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Timeline    string `yaml:"timeline"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single operation. At is used by update and reset; From, To and
// Step by sweep, which may run backwards when To < From.
type Step struct {
	Action string  `yaml:"action"`
	At     float64 `yaml:"at,omitempty"`
	From   float64 `yaml:"from,omitempty"`
	To     float64 `yaml:"to,omitempty"`
	Step   float64 `yaml:"step,omitempty"`
}

// StepResult is the track state after a step, with the events it produced.
type StepResult struct {
	Action string
	Time   float64
	Values pacer.Values
	Events []sim.EventRecord
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	return &script, nil
}

type recorder struct {
	events []sim.EventRecord
}

func (r *recorder) OnEvent(e pacer.Event) {
	rec := sim.EventRecord{Time: e.Time, Track: e.Track.Label(), Kind: e.Kind, Key: -1}
	if e.Key != nil {
		rec.Key = e.Key.Index()
		rec.Label = e.Key.LabelText()
	}
	r.events = append(r.events, rec)
}

func (r *recorder) take() []sim.EventRecord {
	out := r.events
	r.events = nil
	return out
}

// Run executes every step against tr. It attaches an event recorder to tr.
// Steps already executed are returned alongside any error.
func Run(ctx context.Context, script *Script, tr *pacer.Track) ([]StepResult, error) {
	rec := &recorder{}
	tr.AddObserver(rec)

	results := make([]StepResult, 0, len(script.Steps))
	for i, step := range script.Steps {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		if err := apply(ctx, tr, step); err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}

		results = append(results, StepResult{
			Action: step.Action,
			Time:   tr.TimeCursor(),
			Values: copyValues(tr.Values()),
			Events: rec.take(),
		})
	}

	return results, nil
}

func apply(ctx context.Context, tr *pacer.Track, step Step) error {
	switch step.Action {
	case "update":
		tr.Update(step.At)
	case "sweep":
		return sweep(ctx, tr, step)
	case "reset":
		tr.Reset(step.At)
	case "enable":
		tr.Enable()
	case "disable":
		tr.Disable()
	case "clamp":
		tr.Clamp()
	case "unclamp":
		tr.Unclamp()
	case "remove":
		tr.Remove()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, step.Action)
	}
	return nil
}

func sweep(ctx context.Context, tr *pacer.Track, step Step) error {
	if step.Step <= 0 || math.IsNaN(step.Step) || math.IsInf(step.Step, 0) {
		return fmt.Errorf("%w: sweep step must be positive, got %g", ErrInvalidStep, step.Step)
	}

	dir := 1.0
	if step.To < step.From {
		dir = -1
	}
	n := int(math.Floor(math.Abs(step.To-step.From)/step.Step + 1e-9))
	for i := 0; i <= n; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		tr.Update(step.From + dir*float64(i)*step.Step)
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
