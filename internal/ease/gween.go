package ease

import (
	gease "github.com/tanema/gween/ease"
)

// gweenFuncs lists the gween curves reachable as "gween.<Name>".
var gweenFuncs = map[string]gease.TweenFunc{
	"Linear":       gease.Linear,
	"InQuad":       gease.InQuad,
	"OutQuad":      gease.OutQuad,
	"InOutQuad":    gease.InOutQuad,
	"OutInQuad":    gease.OutInQuad,
	"InCubic":      gease.InCubic,
	"OutCubic":     gease.OutCubic,
	"InOutCubic":   gease.InOutCubic,
	"OutInCubic":   gease.OutInCubic,
	"InQuart":      gease.InQuart,
	"OutQuart":     gease.OutQuart,
	"InOutQuart":   gease.InOutQuart,
	"OutInQuart":   gease.OutInQuart,
	"InQuint":      gease.InQuint,
	"OutQuint":     gease.OutQuint,
	"InOutQuint":   gease.InOutQuint,
	"OutInQuint":   gease.OutInQuint,
	"InSine":       gease.InSine,
	"OutSine":      gease.OutSine,
	"InOutSine":    gease.InOutSine,
	"OutInSine":    gease.OutInSine,
	"InExpo":       gease.InExpo,
	"OutExpo":      gease.OutExpo,
	"InOutExpo":    gease.InOutExpo,
	"OutInExpo":    gease.OutInExpo,
	"InCirc":       gease.InCirc,
	"OutCirc":      gease.OutCirc,
	"InOutCirc":    gease.InOutCirc,
	"OutInCirc":    gease.OutInCirc,
	"InElastic":    gease.InElastic,
	"OutElastic":   gease.OutElastic,
	"InOutElastic": gease.InOutElastic,
	"OutInElastic": gease.OutInElastic,
	"InBack":       gease.InBack,
	"OutBack":      gease.OutBack,
	"InOutBack":    gease.InOutBack,
	"OutInBack":    gease.OutInBack,
	"InBounce":     gease.InBounce,
	"OutBounce":    gease.OutBounce,
	"InOutBounce":  gease.InOutBounce,
	"OutInBounce":  gease.OutInBounce,
}

// FromGween adapts a gween easing (begin/change/duration form) to a Func by
// evaluating it over a unit range and unit duration.
func FromGween(fn gease.TweenFunc) Func {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// GweenNames returns the names accepted after the "gween." prefix.
func GweenNames() []string {
	names := make([]string, 0, len(gweenFuncs))
	for name := range gweenFuncs {
		names = append(names, name)
	}
	return names
}
