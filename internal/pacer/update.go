package pacer

import (
	"log"

	"github.com/san-kum/pacer/internal/scalar"
)

// Update evaluates the track at now. It is a no-op when the track is
// disabled, removed or empty, when now equals the previous update's time, and
// when called from one of this track's own callbacks. A non-finite now is
// replaced by the track clock.
//
// Update fires OnKey/OnEveryKey for every guaranteed keyframe crossed since
// the previous call in the order of travel, then tweens the bracketing pair
// and fires either OnBeforeAll/OnAfterAll (on entering those regions) or the
// lower keyframe's OnTween followed by OnEveryTween.
func (t *Track) Update(now float64) *Track {
	if !t.enabled || t.removed || t.updating || len(t.keys) == 0 {
		return t
	}
	if !scalar.IsUseful(now) {
		now = t.clock()
	}
	if now == t.timeCursor {
		return t
	}

	t.updating = true
	defer t.finishUpdate()

	// Insertions are queued while updating, so keys is stable for the whole
	// call even if callbacks insert.
	keys := t.keys
	length := len(keys)

	direction := 1
	if now < t.timeCursor {
		direction = -1
	}
	t.direction = direction

	if t.clamped {
		t.n = scalar.NormalizeClamped(t.timeStart, t.timeStop, now)
	} else {
		t.n = scalar.Normalize(t.timeStart, t.timeStop, now)
	}

	var (
		target       int
		lower, upper *Keyframe
	)
	switch {
	case now < t.timeStart:
		target = -1
		lower, upper = keyAt(keys, 0), keyAt(keys, 1)
	case now >= t.timeStop:
		target = length
		lower, upper = keyAt(keys, length-2), keyAt(keys, length-1)
	default:
		target = seek(keys, t.keyIndex, now)
		lower, upper = keys[target], keyAt(keys, target+1)
	}

	prev := t.keyIndex
	if direction > 0 {
		for i := prev + 1; i <= min(target, length-1); i++ {
			t.arrive(keys[i], now)
		}
	} else {
		for i := min(prev, length-1); i > target; i-- {
			t.arrive(keys[i], now)
		}
	}
	t.keyIndex = target
	t.timeCursor = now
	t.started = true

	if lower == nil || upper == nil {
		if t.debug {
			log.Printf("pacer: track %q: no bracket at %v (%d keyframes), skipping tween", t.label, now, length)
		}
		return t
	}

	t.tweenKeys(lower, upper, now)

	switch {
	case target < 0:
		if t.region != regionBefore {
			t.region = regionBefore
			t.fire(t.callbacks.OnBeforeAll, EventBeforeAll, now, nil)
		}
	case target >= length:
		if t.region != regionAfter {
			t.region = regionAfter
			t.fire(t.callbacks.OnAfterAll, EventAfterAll, now, nil)
		}
	default:
		t.region = regionInside
		if lower.callbacks.OnTween != nil {
			lower.callbacks.OnTween(t.values, t)
		}
		t.fire(t.callbacks.OnEveryTween, EventTween, now, lower)
	}
	return t
}

// UpdateNow evaluates the track at the current clock time.
func (t *Track) UpdateNow() *Track {
	return t.Update(t.clock())
}

// seek walks from the previous cursor index until keys[i] <= now < keys[i+1].
// The caller guarantees keys[0] <= now < keys[len-1].
func seek(keys []*Keyframe, from int, now float64) int {
	i := from
	if i < 0 {
		i = 0
	}
	if i > len(keys)-1 {
		i = len(keys) - 1
	}
	for i+1 < len(keys) && keys[i+1].timeAbsolute <= now {
		i++
	}
	for i > 0 && keys[i].timeAbsolute > now {
		i--
	}
	return i
}

// arrive fires the keyframe callbacks for k. Unguaranteed keyframes never fire.
func (t *Track) arrive(k *Keyframe, now float64) {
	if !k.guarantee {
		return
	}
	if k.callbacks.OnKey != nil {
		k.callbacks.OnKey(k.values, t)
	}
	if t.callbacks.OnEveryKey != nil {
		t.callbacks.OnEveryKey(k.values, t)
	}
	t.emit(Event{Kind: EventKey, Time: now, Track: t, Key: k, Values: k.values})
}

func (t *Track) tweenKeys(a, b *Keyframe, now float64) {
	s := scalar.Normalize(a.timeAbsolute, b.timeAbsolute, now)
	if t.clamped {
		s = scalar.Clamp(s, 0, 1)
	}
	eased := a.tween(s)

	out := make(Values, len(a.values))
	for key, va := range a.values {
		if !scalar.IsUseful(va) {
			continue
		}
		vb, ok := b.values[key]
		if !ok || !scalar.IsUseful(vb) {
			continue
		}
		out[key] = scalar.Lerp(eased, va, vb)
	}
	t.values = out
	t.segment = s
}

func (t *Track) fire(fn KeyFunc, kind EventKind, now float64, k *Keyframe) {
	if fn != nil {
		fn(t.values, t)
	}
	t.emit(Event{Kind: kind, Time: now, Track: t, Key: k, Values: t.values})
}

func (t *Track) emit(e Event) {
	for _, o := range t.observers {
		o.OnEvent(e)
	}
}

// finishUpdate applies mutations queued by callbacks during Update.
func (t *Track) finishUpdate() {
	t.updating = false
	if len(t.pending) > 0 {
		ks := t.pending
		t.pending = nil
		t.add(ks...)
	}
	if t.pendingReset != nil {
		start := *t.pendingReset
		t.pendingReset = nil
		t.reset(start)
	}
	if t.pendingCancel {
		t.pendingCancel = false
		t.cancel()
	}
}
