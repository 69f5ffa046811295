package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pacer/internal/pacer"
)

const (
	stageWidth      = 40
	stageHeight     = 10
	historyCapacity = 120
	eventCapacity   = 8
	trailCapacity   = 60
	minSpeed        = 1.0 / 64
	maxSpeed        = 64.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// eventLog keeps the most recent non-tween events of every track.
type eventLog struct {
	lines []string
}

func (l *eventLog) OnEvent(e pacer.Event) {
	if e.Kind == pacer.EventTween {
		return
	}
	line := fmt.Sprintf("%8.1f  %-8s %s", e.Time, e.Kind, e.Track.Label())
	if e.Key != nil {
		name := e.Key.LabelText()
		if name == "" {
			name = fmt.Sprintf("#%d", e.Key.Index())
		}
		line += " " + name
	}
	l.lines = append(l.lines, line)
	if len(l.lines) > eventCapacity {
		l.lines = l.lines[len(l.lines)-eventCapacity:]
	}
}

type valueRange struct {
	min, max float64
}

// Player plays a registry back in real time. Playback ping-pongs between the
// ends of the combined keyframe range plus a small margin.
type Player struct {
	reg            *pacer.Registry
	title          string
	from, to       float64
	unitsPerSecond float64
	playhead       float64
	speed          float64
	direction      float64
	running        bool
	last           time.Time
	frame          int
	ranges         map[*pacer.Track]map[string]valueRange
	history        []float64
	events         *eventLog
	canvas         *Canvas
	trail          []struct{ x, y int }
	theme          Theme
	styles         styles
	recording      bool
	frames         []*image.Paletted
	gifPath        string
	showHelp       bool
}

// NewPlayer builds a player over every track in reg and moves it to the start
// of the range.
func NewPlayer(reg *pacer.Registry, title string) Player {
	p := Player{
		reg:            reg,
		title:          title,
		unitsPerSecond: 1000,
		speed:          1,
		direction:      1,
		running:        true,
		ranges:         make(map[*pacer.Track]map[string]valueRange),
		history:        make([]float64, 0, historyCapacity),
		events:         &eventLog{},
		canvas:         NewCanvas(stageWidth, stageHeight),
		trail:          make([]struct{ x, y int }, 0, trailCapacity),
		theme:          ThemeNeon,
		styles:         newStyles(ThemeNeon),
		gifPath:        "pacer.gif",
	}

	first := true
	for _, t := range reg.Tracks() {
		t.AddObserver(p.events)
		p.ranges[t] = keyRanges(t)
		if t.Len() == 0 {
			continue
		}
		if first {
			p.from, p.to = t.TimeStart(), t.TimeStop()
			p.unitsPerSecond = unitsPerSecond(t.Units())
			first = false
			continue
		}
		p.from = math.Min(p.from, t.TimeStart())
		p.to = math.Max(p.to, t.TimeStop())
	}
	margin := (p.to - p.from) * 0.05
	p.from -= margin
	p.to += margin

	p.rewind()
	return p
}

func unitsPerSecond(units string) float64 {
	switch strings.ToLower(units) {
	case "s", "sec", "seconds":
		return 1
	case "frames", "frame", "f":
		return 60
	default:
		return 1000
	}
}

func keyRanges(t *pacer.Track) map[string]valueRange {
	ranges := make(map[string]valueRange)
	for _, k := range t.Keys() {
		for name, v := range k.Values() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			r, ok := ranges[name]
			if !ok {
				r = valueRange{v, v}
			}
			r.min, r.max = math.Min(r.min, v), math.Max(r.max, v)
			ranges[name] = r
		}
	}
	return ranges
}

func (p Player) Playhead() float64  { return p.playhead }
func (p Player) Speed() float64     { return p.speed }
func (p Player) Direction() float64 { return p.direction }
func (p Player) Running() bool      { return p.running }
func (p Player) Bounds() (float64, float64) {
	return p.from, p.to
}

// Events returns the recent event log lines, oldest first.
func (p Player) Events() []string {
	return append([]string(nil), p.events.lines...)
}

func (p Player) Init() tea.Cmd {
	return tick()
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case " ":
			p.running = !p.running
			p.last = time.Time{}
		case "r":
			p.direction = -p.direction
		case "[":
			p.scrub(-1)
		case "]":
			p.scrub(1)
		case "+", "=":
			p.speed = math.Min(p.speed*2, maxSpeed)
		case "-", "_":
			p.speed = math.Max(p.speed/2, minSpeed)
		case "0":
			p.rewind()
		case "t":
			p.theme = NextTheme(p.theme)
			p.styles = newStyles(p.theme)
		case "g":
			if p.recording {
				p.saveGIF()
				p.recording = false
				p.frames = nil
			} else {
				p.recording = true
				p.frames = make([]*image.Paletted, 0)
			}
		case "?":
			p.showHelp = !p.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		p.frame++
		if p.running {
			if !p.last.IsZero() {
				p.advance(now.Sub(p.last))
			}
			p.last = now
		}
		if p.recording {
			p.captureFrame()
		}
		return p, tick()
	}
	return p, nil
}

// advance moves the playhead by a wall-clock interval.
func (p *Player) advance(dt time.Duration) {
	p.playhead += dt.Seconds() * p.unitsPerSecond * p.speed * p.direction
	switch {
	case p.playhead > p.to:
		p.playhead = p.to
		p.direction = -1
	case p.playhead < p.from:
		p.playhead = p.from
		p.direction = 1
	}
	p.sync()
}

// scrub pauses playback and steps the playhead by one hundredth of the range.
func (p *Player) scrub(dir float64) {
	p.running = false
	p.last = time.Time{}
	step := (p.to - p.from) / 100
	if step <= 0 {
		step = 1
	}
	p.playhead = math.Max(p.from, math.Min(p.to, p.playhead+dir*step))
	p.sync()
}

// rewind resets every track and moves the playhead to the start.
func (p *Player) rewind() {
	for _, t := range p.reg.Tracks() {
		if t.Len() > 0 {
			t.Reset(t.TimeStart())
		}
	}
	p.playhead = p.from
	p.direction = 1
	p.history = p.history[:0]
	p.trail = p.trail[:0]
	p.sync()
}

func (p *Player) sync() {
	p.reg.UpdateAll(p.playhead)

	if tracks := p.reg.Tracks(); len(tracks) > 0 {
		p.history = append(p.history, tracks[0].N())
		if len(p.history) > historyCapacity {
			p.history = p.history[1:]
		}
	}
	p.draw()
}

// draw plots every track with x or y values on the stage, scaled to the
// track's keyframe range.
func (p *Player) draw() {
	p.canvas.Clear()
	w, h := p.canvas.DotsWide(), p.canvas.DotsHigh()

	for _, t := range p.reg.Tracks() {
		ranges := p.ranges[t]
		vals := t.Values()
		x, hasX := vals["x"]
		y, hasY := vals["y"]
		if !hasX && !hasY {
			continue
		}

		px, py := w/2, h/2
		if hasX {
			px = int(math.Round(fraction(ranges["x"], x) * float64(w-1)))
		}
		if hasY {
			py = int(math.Round(fraction(ranges["y"], y) * float64(h-1)))
		}
		p.canvas.Dot(px, py)
		p.trail = append(p.trail, struct{ x, y int }{px, py})
	}

	if len(p.trail) > trailCapacity {
		p.trail = p.trail[len(p.trail)-trailCapacity:]
	}
	for _, pt := range p.trail {
		p.canvas.Set(pt.x, pt.y)
	}
}

func fraction(r valueRange, v float64) float64 {
	if r.max == r.min {
		return 0.5
	}
	return (v - r.min) / (r.max - r.min)
}

func (p Player) View() string {
	s := p.styles
	var b strings.Builder

	status := "PAUSED"
	if p.running {
		status = Spinner(p.frame) + " PLAYING"
	}
	arrow := "▶"
	if p.direction < 0 {
		arrow = "◀"
	}
	if p.recording {
		status += " ● REC"
	}
	b.WriteString(s.header.Render(strings.ToUpper(p.title)) + "\n")
	b.WriteString(s.status.Render(fmt.Sprintf("%s %s x%g", status, arrow, p.speed)) + "\n\n")
	b.WriteString(s.label.Render("Time") + s.value.Render(fmt.Sprintf("%.2f", p.playhead)) + "\n")

	for _, t := range p.reg.Tracks() {
		b.WriteString("\n" + s.status.Render(t.Label()) + " " +
			s.label.Render(fmt.Sprintf("n=%.3f", t.N())) + "\n")

		vals := t.Values()
		names := make([]string, 0, len(vals))
		for name := range vals {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			v := vals[name]
			frac := fraction(p.ranges[t][name], v)
			b.WriteString(s.label.Render(name) + s.bar(frac, 20) + " " + s.value.Render(fmt.Sprintf("%.2f", v)) + "\n")
		}
	}

	if len(p.history) > 1 {
		chart := asciigraph.Plot(p.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("progress"))
		b.WriteString(s.graph.Render(chart) + "\n")
	}

	if len(p.events.lines) > 0 {
		b.WriteString("\n")
		for _, line := range p.events.lines {
			b.WriteString(s.event.Render(line) + "\n")
		}
	}

	b.WriteString(s.help.Render("SP:Pause R:Reverse [ ]:Scrub +/-:Speed 0:Rewind T:Theme G:Record Q:Quit"))

	stage := s.panel.Render(p.canvas.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, stage, "  ", b.String())
	if p.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space  pause or resume
  R      reverse playback direction
  [ ]    scrub backward / forward
  + -    double / halve speed
  0      rewind every track
  T      cycle themes
  G      toggle GIF recording
  Q      quit
`

func (p *Player) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := p.canvas.Width*charW, p.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4
	for y := 0; y < p.canvas.DotsHigh(); y++ {
		for x := 0; x < p.canvas.DotsWide(); x++ {
			if !p.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	p.frames = append(p.frames, img)
}

func (p *Player) saveGIF() {
	if len(p.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range p.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(p.gifPath)
	if err != nil {
		return
	}
	defer f.Close()
	gif.EncodeAll(f, &anim)
}
