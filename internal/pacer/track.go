package pacer

import (
	"sort"

	"github.com/google/uuid"
)

// TrackCallbacks are the optional track-wide callbacks.
type TrackCallbacks struct {
	OnBeforeAll  KeyFunc
	OnAfterAll   KeyFunc
	OnEveryKey   KeyFunc
	OnEveryTween KeyFunc
}

type region uint8

const (
	regionUnset region = iota
	regionBefore
	regionInside
	regionAfter
)

// Track is an ordered sequence of keyframes plus the cursor state used to
// evaluate query times. The zero value is not usable; create tracks with
// NewTrack or Registry.NewTrack.
type Track struct {
	id    string
	label string
	units string

	keys []*Keyframe
	last *Keyframe

	keyIndex   int
	timeCursor float64
	timeStart  float64
	timeStop   float64
	duration   float64
	direction  int
	started    bool
	region     region

	values  Values
	n       float64
	segment float64

	clamped bool
	enabled bool
	removed bool
	debug   bool

	callbacks TrackCallbacks
	observers []Observer
	registry  *Registry
	clock     func() float64

	updating      bool
	pending       []*Keyframe
	pendingReset  *float64
	pendingCancel bool
}

// NewTrack returns an empty, enabled, unclamped track that belongs to no
// registry.
func NewTrack(label string) *Track {
	return &Track{
		id:        uuid.NewString(),
		label:     label,
		keyIndex:  -1,
		direction: 1,
		enabled:   true,
		values:    Values{},
		clock:     Now,
	}
}

// Insert adds a keyframe. When isAbsolute is false, time is an offset from
// the most recently inserted keyframe (insertion order, not time order); the
// first keyframe is always absolute.
func (t *Track) Insert(time float64, values Values, isAbsolute bool) *Keyframe {
	if !isAbsolute && t.last != nil {
		time += t.last.timeAbsolute
	}
	k := newKeyframe(time, values)
	t.last = k
	if t.updating {
		t.pending = append(t.pending, k)
		return k
	}
	t.add(k)
	return k
}

// InsertAbsolute adds a keyframe at an absolute time.
func (t *Track) InsertAbsolute(time float64, values Values, onKey ...KeyFunc) *Keyframe {
	return withOnKey(t.Insert(time, values, true), onKey)
}

// InsertRelative adds a keyframe offset from the most recently inserted one.
func (t *Track) InsertRelative(offset float64, values Values, onKey ...KeyFunc) *Keyframe {
	return withOnKey(t.Insert(offset, values, false), onKey)
}

func withOnKey(k *Keyframe, onKey []KeyFunc) *Keyframe {
	if len(onKey) > 0 {
		k.OnKey(onKey[0])
	}
	return k
}

func (t *Track) add(ks ...*Keyframe) {
	t.keys = append(t.keys, ks...)
	t.sortKeys()
	if !t.started && t.keys[0].values != nil {
		t.values = t.keys[0].values
	}
	if t.started {
		t.resyncCursor()
		return
	}
	t.keyIndex = -1
	t.timeCursor = t.timeStart - 1
}

// sortKeys orders keyframes by time (stable for ties), refreshes indexes and
// relative times, gap-fills nil values from the previous keyframe and
// recomputes the time bounds.
func (t *Track) sortKeys() {
	sort.SliceStable(t.keys, func(i, j int) bool {
		return t.keys[i].timeAbsolute < t.keys[j].timeAbsolute
	})
	for i, k := range t.keys {
		k.index = i
		if i == 0 {
			k.timeRelative = 0
			continue
		}
		prev := t.keys[i-1]
		k.timeRelative = k.timeAbsolute - prev.timeAbsolute
		if k.values == nil && prev.values != nil {
			k.values = prev.values
		}
	}
	t.setTimeBounds()
}

func (t *Track) setTimeBounds() {
	if len(t.keys) == 0 {
		t.timeStart, t.timeStop, t.duration = 0, 0, 0
		return
	}
	t.timeStart = t.keys[0].timeAbsolute
	t.timeStop = t.keys[len(t.keys)-1].timeAbsolute
	t.duration = t.timeStop - t.timeStart
}

// resyncCursor re-derives the cursor index and region from timeCursor after
// the key set changed under a track that has already been updated. Keyframes
// landing behind the cursor are not fired until they are crossed.
func (t *Track) resyncCursor() {
	switch {
	case t.timeCursor < t.timeStart:
		t.keyIndex = -1
		t.region = regionBefore
	case t.timeCursor >= t.timeStop:
		t.keyIndex = len(t.keys)
		t.region = regionAfter
	default:
		t.keyIndex = sort.Search(len(t.keys), func(i int) bool {
			return t.keys[i].timeAbsolute > t.timeCursor
		}) - 1
		t.region = regionInside
	}
}

// Track-wide callback setters.

// OnEveryKey sets the callback run after every keyframe's own OnKey.
func (t *Track) OnEveryKey(fn KeyFunc) *Track {
	t.callbacks.OnEveryKey = fn
	return t
}

// OnEveryTween sets the callback run after each in-range tween.
func (t *Track) OnEveryTween(fn KeyFunc) *Track {
	t.callbacks.OnEveryTween = fn
	return t
}

// OnBeforeAll sets the callback run when the cursor enters the region before
// the first keyframe.
func (t *Track) OnBeforeAll(fn KeyFunc) *Track {
	t.callbacks.OnBeforeAll = fn
	return t
}

// OnAfterAll sets the callback run when the cursor reaches the last keyframe
// or beyond.
func (t *Track) OnAfterAll(fn KeyFunc) *Track {
	t.callbacks.OnAfterAll = fn
	return t
}

func (t *Track) Callbacks() TrackCallbacks { return t.callbacks }

// SetCallbacks replaces all track-wide callbacks at once.
func (t *Track) SetCallbacks(cb TrackCallbacks) *Track {
	t.callbacks = cb
	return t
}

// AddObserver attaches o to every event this track emits.
func (t *Track) AddObserver(o Observer) *Track {
	t.observers = append(t.observers, o)
	return t
}

// Clamp restricts progress (overall and per segment) to [0, 1].
func (t *Track) Clamp() *Track {
	t.clamped = true
	return t
}

// Unclamp lets progress extrapolate outside [0, 1].
func (t *Track) Unclamp() *Track {
	t.clamped = false
	return t
}

// SetUnits records the unit of the track's time axis. Cosmetic only.
func (t *Track) SetUnits(text string) *Track {
	t.units = text
	return t
}

// SetClock replaces the wall clock used when Update receives a non-finite time.
func (t *Track) SetClock(clock func() float64) *Track {
	if clock == nil {
		clock = Now
	}
	t.clock = clock
	return t
}

// SetDebug enables diagnostic logging.
func (t *Track) SetDebug(on bool) *Track {
	t.debug = on
	return t
}

func (t *Track) ID() string               { return t.id }
func (t *Track) Label() string            { return t.label }
func (t *Track) Units() string            { return t.units }
func (t *Track) Values() Values           { return t.values }
func (t *Track) N() float64               { return t.n }
func (t *Track) SegmentProgress() float64 { return t.segment }
func (t *Track) Direction() int           { return t.direction }
func (t *Track) TimeStart() float64       { return t.timeStart }
func (t *Track) TimeStop() float64        { return t.timeStop }
func (t *Track) Duration() float64        { return t.duration }
func (t *Track) TimeCursor() float64      { return t.timeCursor }
func (t *Track) KeyIndex() int            { return t.keyIndex }
func (t *Track) Len() int                 { return len(t.keys) }
func (t *Track) IsEnabled() bool          { return t.enabled }
func (t *Track) IsClamped() bool          { return t.clamped }
func (t *Track) IsRemoved() bool          { return t.removed }

// Keys returns the keyframes in time order.
func (t *Track) Keys() []*Keyframe {
	out := make([]*Keyframe, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Track) FirstKey() *Keyframe { return keyAt(t.keys, 0) }
func (t *Track) LastKey() *Keyframe  { return keyAt(t.keys, len(t.keys)-1) }

// CurrentKey returns the keyframe the cursor last settled on, or nil while
// the cursor sits before the first or after the last keyframe.
func (t *Track) CurrentKey() *Keyframe { return keyAt(t.keys, t.keyIndex) }

func keyAt(keys []*Keyframe, i int) *Keyframe {
	if i < 0 || i >= len(keys) {
		return nil
	}
	return keys[i]
}
