package metrics

import (
	"github.com/san-kum/pacer/internal/pacer"
	"github.com/san-kum/pacer/internal/sim"
)

// EventCount counts track events of one kind. It is a pacer.Observer; the
// sim runner attaches it to every track it drives.
type EventCount struct {
	name  string
	kind  pacer.EventKind
	count int
}

func NewEventCount(kind pacer.EventKind) *EventCount {
	return &EventCount{
		name: "events:" + kind.String(),
		kind: kind,
	}
}

func (c *EventCount) Name() string { return c.name }

func (c *EventCount) OnEvent(e pacer.Event) {
	if e.Kind == c.kind {
		c.count++
	}
}

func (c *EventCount) Observe(sim.Sample) {}

func (c *EventCount) Value() float64 {
	return float64(c.count)
}

func (c *EventCount) Reset() {
	c.count = 0
}

// Standard returns the metric set recorded for every sampled run.
func Standard(tracks ...*pacer.Track) []sim.Metric {
	return []sim.Metric{
		NewOvershoot(tracks...),
		NewExtent(""),
		NewTravel(),
		NewEventCount(pacer.EventKey),
		NewEventCount(pacer.EventCancel),
	}
}
