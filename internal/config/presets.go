package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

var Presets = map[string]map[string]*Config{
	"ui": {
		"fade": {
			Name: "fade", Units: "ms", Clamped: true,
			Keyframes: []KeyframeConfig{
				{Time: 0, Values: map[string]float64{"alpha": 0}, Ease: "sine.inOut", Label: "hidden"},
				{Time: 300, Relative: true, Values: map[string]float64{"alpha": 1}, Label: "shown"},
			},
			Sample: SampleConfig{From: -50, To: 400, Step: 10},
		},
		"slide": {
			Name: "slide", Units: "ms", Clamped: true,
			Keyframes: []KeyframeConfig{
				{Time: 0, Values: map[string]float64{"x": -200, "alpha": 0}, Ease: "cubic.out"},
				{Time: 400, Relative: true, Values: map[string]float64{"x": 0, "alpha": 1}, Ease: "back.out"},
				{Time: 100, Relative: true, Values: map[string]float64{"x": 10, "alpha": 1}},
			},
			Sample: SampleConfig{From: 0, To: 600, Step: 10},
		},
		"pop": {
			Name: "pop", Units: "ms", Clamped: true,
			Keyframes: []KeyframeConfig{
				{Time: 0, Values: map[string]float64{"scale": 0}, Ease: "elastic.out", Label: "in"},
				{Time: 600, Values: map[string]float64{"scale": 1}, Label: "hold"},
				{Time: 400, Relative: true, Guarantee: boolPtr(false)},
				{Time: 1200, Values: map[string]float64{"scale": 0}, Label: "out"},
			},
			Sample: SampleConfig{From: 0, To: 1300, Step: 20},
		},
	},
	"motion": {
		"bounce": {
			Name: "bounce", Units: "ms", Clamped: true,
			Keyframes: []KeyframeConfig{
				{Time: 0, Values: map[string]float64{"y": 0}, Ease: "bounce.out", Label: "drop"},
				{Time: 800, Values: map[string]float64{"y": 100}, Label: "floor"},
			},
			Sample: SampleConfig{From: 0, To: 900, Step: 10},
		},
		"spring": {
			Name: "spring", Units: "ms",
			Keyframes: []KeyframeConfig{
				{Time: 0, Values: map[string]float64{"x": 0, "y": 0}, Ease: "spring"},
				{Time: 1000, Values: map[string]float64{"x": 100, "y": 50}},
			},
			Sample: SampleConfig{From: 0, To: 1000, Step: 10},
		},
		"zigzag": {
			Name: "zigzag", Units: "s",
			Keyframes: []KeyframeConfig{
				{Time: 0, Values: map[string]float64{"x": 0}, Ease: "quadratic.inOut"},
				{Time: 1, Relative: true, Values: map[string]float64{"x": 1}, Ease: "quadratic.inOut"},
				{Time: 1, Relative: true, Values: map[string]float64{"x": -1}, Ease: "quadratic.inOut"},
				{Time: 1, Relative: true, Values: map[string]float64{"x": 1}, Ease: "gween.OutBounce"},
				{Time: 1, Relative: true, Values: map[string]float64{"x": 0}},
			},
			Sample: SampleConfig{From: -0.5, To: 4.5, Step: 0.05},
		},
	},
	"demo": {
		"box": {
			Name: "box", Units: "ms", Clamped: true, Start: floatPtr(0),
			Keyframes: []KeyframeConfig{
				{Time: 0, Values: map[string]float64{"x": 40, "y": 40, "size": 20, "alpha": 0.2}, Ease: "cubic.inOut", Label: "corner"},
				{Time: 1200, Relative: true, Values: map[string]float64{"x": 280, "y": 60, "size": 40, "alpha": 1}, Ease: "bounce.out"},
				{Time: 900, Relative: true, Values: map[string]float64{"x": 240, "y": 180, "size": 30, "alpha": 0.8}, Ease: "elastic.out"},
				{Time: 1500, Relative: true, Values: map[string]float64{"x": 60, "y": 200, "size": 50, "alpha": 0.5}, Ease: "sine.inOut"},
				{Time: 1000, Relative: true, Values: map[string]float64{"x": 40, "y": 40, "size": 20, "alpha": 0.2}, Label: "loop"},
			},
			Sample: SampleConfig{From: 0, To: 4600, Step: 20},
		},
	},
}

func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	return cfg.clone()
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Groups returns the preset group names in sorted order.
func Groups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Resolve loads ref as a file path, or as a "group/name" preset when no such
// file exists.
func Resolve(ref string) (*Config, error) {
	if _, err := os.Stat(ref); err == nil {
		return Load(ref)
	}
	group, name, ok := strings.Cut(ref, "/")
	if !ok {
		return Load(ref)
	}
	if cfg := GetPreset(group, name); cfg != nil {
		return cfg, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, ref)
}

// clone deep-copies the keyframe list so callers can edit a preset freely.
func (c *Config) clone() *Config {
	out := *c
	out.Keyframes = make([]KeyframeConfig, len(c.Keyframes))
	for i, k := range c.Keyframes {
		k.Values = copyMap(k.Values)
		out.Keyframes[i] = k
	}
	if c.Start != nil {
		out.Start = floatPtr(*c.Start)
	}
	return &out
}

func copyMap(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
