package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pacer/internal/ease"
	"github.com/san-kum/pacer/internal/pacer"
)

const (
	DefaultUnits    = "ms"
	DefaultFrom     = 0.0
	DefaultDuration = 1000.0
	DefaultStep     = 10.0
)

type Config struct {
	Name      string           `yaml:"name"`
	Units     string           `yaml:"units,omitempty"`
	Clamped   bool             `yaml:"clamped"`
	Start     *float64         `yaml:"start,omitempty"`
	Debug     bool             `yaml:"debug,omitempty"`
	Keyframes []KeyframeConfig `yaml:"keyframes"`
	Sample    SampleConfig     `yaml:"sample"`
}

type KeyframeConfig struct {
	Time      float64            `yaml:"time"`
	Relative  bool               `yaml:"relative,omitempty"`
	Values    map[string]float64 `yaml:"values,omitempty"`
	Ease      string             `yaml:"ease,omitempty"`
	Label     string             `yaml:"label,omitempty"`
	Guarantee *bool              `yaml:"guarantee,omitempty"`
}

type SampleConfig struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
	Step float64 `yaml:"step"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:  "timeline",
		Units: DefaultUnits,
		Sample: SampleConfig{
			From: DefaultFrom,
			To:   DefaultFrom + DefaultDuration,
			Step: DefaultStep,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the timeline against the default easing catalog.
func (c *Config) Validate() error {
	return c.validate(ease.Default)
}

func (c *Config) validate(catalog *ease.Catalog) error {
	if len(c.Keyframes) == 0 {
		return fmt.Errorf("%w: %q", ErrNoKeyframes, c.Name)
	}
	for i, k := range c.Keyframes {
		if math.IsNaN(k.Time) || math.IsInf(k.Time, 0) {
			return fmt.Errorf("config: keyframe %d of %q: time must be finite", i, c.Name)
		}
		if _, err := catalog.Lookup(k.Ease); err != nil {
			return fmt.Errorf("%w: keyframe %d of %q: %q", ErrUnknownEase, i, c.Name, k.Ease)
		}
	}
	if c.Sample.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %g", ErrInvalidSample, c.Sample.Step)
	}
	if c.Sample.To < c.Sample.From {
		return fmt.Errorf("%w: to %g is before from %g", ErrInvalidSample, c.Sample.To, c.Sample.From)
	}
	return nil
}

// Build creates a track from the timeline. The track is registered with reg
// when reg is non-nil, and easings resolve against catalog (ease.Default when
// nil). Keyframes are inserted in file order, so relative times chain from the
// previous entry.
func (c *Config) Build(reg *pacer.Registry, catalog *ease.Catalog) (*pacer.Track, error) {
	if catalog == nil {
		catalog = ease.Default
	}
	if err := c.validate(catalog); err != nil {
		return nil, err
	}

	var tr *pacer.Track
	if reg != nil {
		tr = reg.NewTrack(c.Name)
	} else {
		tr = pacer.NewTrack(c.Name)
	}
	tr.SetUnits(c.Units).SetDebug(c.Debug)
	if c.Clamped {
		tr.Clamp()
	}

	for _, kc := range c.Keyframes {
		fn, err := catalog.Lookup(kc.Ease)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownEase, err)
		}
		k := tr.Insert(kc.Time, copyValues(kc.Values), !kc.Relative).
			Tween(fn).
			Label(kc.Label)
		if kc.Guarantee != nil {
			k.Guarantee(*kc.Guarantee)
		}
	}

	if c.Start != nil {
		tr.Reset(*c.Start)
	}
	return tr, nil
}

// copyValues returns nil for an absent map so the track gap-fills it.
func copyValues(in map[string]float64) pacer.Values {
	return pacer.Values(copyMap(in))
}
