package ease

import (
	"math"

	"github.com/san-kum/pacer/internal/scalar"
)

// Func maps normalized progress to eased progress.
type Func func(t float64) float64

// Set groups the three forms of one easing curve.
type Set struct {
	In    Func
	Out   Func
	InOut Func
}

// Linear is the identity tween and the default for every keyframe.
func Linear(t float64) float64 { return t }

// Derive builds a Set from an In primitive.
func Derive(in Func) Set {
	return Set{
		In:    in,
		Out:   func(t float64) float64 { return 1 - in(1-t) },
		InOut: inOut(in),
	}
}

// FromOut builds a Set from an Out primitive. In is its point reflection and
// InOut is composed from that In.
func FromOut(out Func) Set {
	in := func(t float64) float64 { return 1 - out(1-t) }
	return Set{In: in, Out: out, InOut: inOut(in)}
}

func inOut(in Func) Func {
	return func(t float64) float64 {
		if t < 0.5 {
			return in(t*2) / 2
		}
		return in(t*2-1)/2 + 0.5
	}
}

func sine(t float64) float64      { return 1 - math.Cos(t*math.Pi/2) }
func quadratic(t float64) float64 { return t * t }
func cubic(t float64) float64     { return t * t * t }
func quartic(t float64) float64   { return t * t * t * t }
func quintic(t float64) float64   { return t * t * t * t * t }
func circular(t float64) float64  { return 1 - math.Sqrt(1-t*t) }
func exponential(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

func elastic(t float64) float64 {
	const c4 = 2 * math.Pi / 3
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return -math.Pow(2, 10*t-10) * math.Sin((t*10-10.75)*c4)
}

// DefaultBackOvershoot is the c1 constant used by the catalog's back entry.
const DefaultBackOvershoot = 1.70158

// Back returns an In curve that dips below zero before rising; c1 controls
// the depth. Non-finite c1 falls back to DefaultBackOvershoot.
func Back(c1 float64) Func {
	if !scalar.IsUseful(c1) {
		c1 = DefaultBackOvershoot
	}
	c3 := c1 + 1
	return func(t float64) float64 {
		return c3*t*t*t - c1*t*t
	}
}

// Bounce constants used by the catalog's bounce entry.
const (
	DefaultBounceN1 = 7.5625
	DefaultBounceD1 = 2.75
)

// BounceOut returns the bounce Out primitive. It expects t already in [0, 1].
// Non-finite parameters fall back to the defaults.
func BounceOut(n1, d1 float64) Func {
	if !scalar.IsUseful(n1) {
		n1 = DefaultBounceN1
	}
	if !scalar.IsUseful(d1) {
		d1 = DefaultBounceD1
	}
	return func(t float64) float64 {
		switch {
		case t < 1/d1:
			return n1 * t * t
		case t < 2/d1:
			t -= 1.5 / d1
			return n1*t*t + 0.75
		case t < 2.5/d1:
			t -= 2.25 / d1
			return n1*t*t + 0.9375
		default:
			t -= 2.625 / d1
			return n1*t*t + 0.984375
		}
	}
}

// Built-in sets.
var (
	LinearSet   = Set{In: Linear, Out: Linear, InOut: Linear}
	Sine        = Derive(sine)
	Quadratic   = Derive(quadratic)
	Cubic       = Derive(cubic)
	Quartic     = Derive(quartic)
	Quintic     = Derive(quintic)
	Exponential = Derive(exponential)
	Circular    = Derive(circular)
	Elastic     = Derive(elastic)
	BackSet     = Derive(Back(DefaultBackOvershoot))
	Bounce      = FromOut(BounceOut(DefaultBounceN1, DefaultBounceD1))
)
