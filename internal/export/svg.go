package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/pacer/internal/pacer"
	"github.com/san-kum/pacer/internal/sim"
	"github.com/san-kum/pacer/internal/viz"
)

var palette = []string{"#00ffff", "#ff00ff", "#00ff88", "#ffcc00", "#ff4444", "#0088ff"}

type Point struct {
	X, Y float64
}

// bounds is a padded data rectangle mapped onto a width x height viewport.
type bounds struct {
	minX, maxX, minY, maxY float64
	width, height          float64
}

func newBounds(points []Point, width, height int, pad float64) bounds {
	b := bounds{
		minX: math.Inf(1), maxX: math.Inf(-1),
		minY: math.Inf(1), maxY: math.Inf(-1),
		width: float64(width), height: float64(height),
	}
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
		b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
	}
	if math.IsInf(b.minX, 1) {
		b.minX, b.maxX, b.minY, b.maxY = 0, 1, 0, 1
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * pad
	b.maxX += rangeX * pad
	b.minY -= rangeY * pad
	b.maxY += rangeY * pad
	return b
}

func (b bounds) x(v float64) float64 { return (v - b.minX) / (b.maxX - b.minX) * b.width }
func (b bounds) y(v float64) float64 { return b.height - (v-b.minY)/(b.maxY-b.minY)*b.height }

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// writePath emits one path for points, starting a new subpath after every
// non-finite point.
func writePath(sb *strings.Builder, points []Point, b bounds, stroke string) {
	var d strings.Builder
	move := true
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			move = true
			continue
		}
		cmd := "L"
		if move {
			cmd = "M"
			move = false
		}
		if d.Len() > 0 {
			d.WriteByte(' ')
		}
		fmt.Fprintf(&d, "%s%.1f,%.1f", cmd, b.x(p.X), b.y(p.Y))
	}
	if d.Len() == 0 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, stroke, d.String())
}

// CanvasToSVG converts a braille canvas to SVG, one circle per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.DotsWide())*scale, float64(canvas.DotsHigh())*scale)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	r := scale * 0.4
	for y := 0; y < canvas.DotsHigh(); y++ {
		for x := 0; x < canvas.DotsWide(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PathToSVG draws a single polyline through points, such as a track's x/y
// trajectory.
func PathToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	b := newBounds(points, width, height, 0.1)
	var sb strings.Builder
	header(&sb, b.width, b.height)
	writePath(&sb, points, b, strokeColor)
	sb.WriteString("</svg>")
	return sb.String()
}

// TrackPath pairs the xKey and yKey values of one track into points.
func TrackPath(result *sim.Result, track, xKey, yKey string) []Point {
	_, xs := result.Series(track, xKey)
	_, ys := result.Series(track, yKey)
	points := make([]Point, len(xs))
	for i := range xs {
		points[i] = Point{xs[i], ys[i]}
	}
	return points
}

// ResultToSVG plots every value of one track against time and marks the
// times its keyframes fired with dashed vertical lines.
func ResultToSVG(result *sim.Result, track string, width, height int) string {
	if result == nil {
		return ""
	}
	keys := result.Keys(track)
	if len(keys) == 0 {
		return ""
	}

	series := make([][]Point, len(keys))
	var all []Point
	for i, key := range keys {
		times, values := result.Series(track, key)
		for j := range times {
			series[i] = append(series[i], Point{times[j], values[j]})
		}
		all = append(all, series[i]...)
	}

	b := newBounds(all, width, height, 0.05)
	var sb strings.Builder
	header(&sb, b.width, b.height)

	for _, e := range result.Events {
		if e.Track != track || e.Kind != pacer.EventKey {
			continue
		}
		x := b.x(e.Time)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="0" x2="%.1f" y2="%.0f" stroke="#444466" stroke-dasharray="4,4"><title>%s</title></line>
`, x, x, b.height, html.EscapeString(eventTitle(e)))
	}

	for i, pts := range series {
		writePath(&sb, pts, b, palette[i%len(palette)])
	}

	for i, key := range keys {
		fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16+i*14, palette[i%len(palette)], html.EscapeString(key))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func eventTitle(e sim.EventRecord) string {
	if e.Label != "" {
		return fmt.Sprintf("%s @ %g", e.Label, e.Time)
	}
	return fmt.Sprintf("#%d @ %g", e.Key, e.Time)
}
