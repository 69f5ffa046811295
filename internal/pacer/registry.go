package pacer

import (
	"strings"

	"github.com/san-kum/pacer/internal/scalar"
)

// Registry owns a set of tracks and updates them together. A Registry is not
// safe for concurrent use; drive it from a single goroutine.
type Registry struct {
	tracks []*Track
	clock  func() float64
}

// NewRegistry returns an empty registry using the wall clock.
func NewRegistry() *Registry {
	return &Registry{clock: Now}
}

// SetClock replaces the clock used by UpdateAll for non-finite times and by
// tracks created through NewTrack.
func (r *Registry) SetClock(clock func() float64) *Registry {
	if clock == nil {
		clock = Now
	}
	r.clock = clock
	return r
}

// Now reads the registry clock.
func (r *Registry) Now() float64 { return r.clock() }

// NewTrack creates a track and registers it.
func (r *Registry) NewTrack(label string) *Track {
	t := NewTrack(label)
	t.clock = r.clock
	r.Add(t)
	return t
}

// Add registers t, moving it out of any other registry. Removed tracks are
// ignored.
func (r *Registry) Add(t *Track) {
	if t == nil || t.removed || t.registry == r {
		return
	}
	if t.registry != nil {
		t.registry.detach(t)
	}
	t.registry = r
	r.tracks = append(r.tracks, t)
}

// Remove removes t from the registry and from play, as Track.Remove does.
func (r *Registry) Remove(t *Track) {
	if t == nil || t.registry != r {
		return
	}
	t.Remove()
}

func (r *Registry) detach(t *Track) {
	for i, x := range r.tracks {
		if x == t {
			r.tracks = append(r.tracks[:i], r.tracks[i+1:]...)
			return
		}
	}
}

// Tracks returns the registered tracks in registration order.
func (r *Registry) Tracks() []*Track {
	out := make([]*Track, len(r.tracks))
	copy(out, r.tracks)
	return out
}

func (r *Registry) Len() int { return len(r.tracks) }

// UpdateAll updates every registered track with the same time. A non-finite
// now is resolved once through the registry clock. Tracks added or removed by
// callbacks take effect from the next call.
func (r *Registry) UpdateAll(now float64) {
	if !scalar.IsUseful(now) {
		now = r.clock()
	}
	for _, t := range r.Tracks() {
		if t.registry != r {
			continue
		}
		t.Update(now)
	}
}

// UpdateAllNow updates every track at the current clock time.
func (r *Registry) UpdateAllNow() {
	r.UpdateAll(r.clock())
}

// RemoveAll removes every track. All tracks are taken out of play before any
// OnCancel callback runs.
func (r *Registry) RemoveAll() {
	tracks := r.tracks
	r.tracks = nil
	for _, t := range tracks {
		t.deactivate()
	}
	for _, t := range tracks {
		t.dispatchCancel()
	}
}

// DumpAll renders every registered track with Dump.
func (r *Registry) DumpAll() string {
	var b strings.Builder
	for i, t := range r.tracks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Dump())
	}
	return b.String()
}
