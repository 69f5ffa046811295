package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pacer/internal/ease"
)

// CurveBounds samples fn over [0, 1] and returns the value range, widened to
// include 0 and 1 so overshooting curves keep their baseline visible.
func CurveBounds(fn ease.Func, samples int) (lo, hi float64) {
	lo, hi = 0, 1
	if samples < 2 {
		samples = 2
	}
	for i := 0; i < samples; i++ {
		v := fn(float64(i) / float64(samples-1))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

// CurveCanvas draws fn on a braille canvas of w x h cells.
func CurveCanvas(fn ease.Func, w, h int) *Canvas {
	c := NewCanvas(w, h)
	lo, hi := CurveBounds(fn, c.DotsWide())
	c.PlotCurve(fn, lo, hi)
	return c
}

// CurveGraph renders fn as an asciigraph line chart with the given caption.
func CurveGraph(fn ease.Func, width, height int, caption string) string {
	if width < 2 {
		width = 2
	}
	data := make([]float64, width)
	for i := range data {
		data[i] = fn(float64(i) / float64(width-1))
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
