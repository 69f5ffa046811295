package ease

import (
	"github.com/charmbracelet/harmonica"
)

// Spring defaults used by the catalog's spring entry.
const (
	DefaultSpringFrequency = 12.0
	DefaultSpringDamping   = 0.4
	springSteps            = 240
)

// Spring returns an In curve tracing a damped spring released from 0 toward 1
// over one second of spring time. frequency is angular (rad/s); damping below
// 1 overshoots. The curve is tilted linearly so it starts at 0 and ends at 1
// exactly, whatever the spring's residual displacement.
func Spring(frequency, damping float64) Func {
	table := make([]float64, springSteps+1)
	s := harmonica.NewSpring(harmonica.FPS(springSteps), frequency, damping)
	pos, vel := 0.0, 0.0
	for i := 1; i <= springSteps; i++ {
		pos, vel = s.Update(pos, vel, 1)
		table[i] = pos
	}
	residual := 1 - table[springSteps]

	return func(t float64) float64 {
		return sampleTable(table, t) + t*residual
	}
}

func sampleTable(table []float64, t float64) float64 {
	last := len(table) - 1
	x := t * float64(last)
	if x <= 0 {
		return table[0]
	}
	if x >= float64(last) {
		return table[last]
	}
	i := int(x)
	frac := x - float64(i)
	return table[i] + (table[i+1]-table[i])*frac
}
