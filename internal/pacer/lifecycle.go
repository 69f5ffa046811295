package pacer

import "github.com/san-kum/pacer/internal/scalar"

// Reset moves the whole track so its first keyframe sits at start, keeping
// every keyframe's offset from its predecessor, and rewinds the cursor to
// before the first keyframe. A non-finite start means the current clock
// time. The track is enabled afterwards unless it was removed.
func (t *Track) Reset(start float64) *Track {
	if !scalar.IsUseful(start) {
		start = t.clock()
	}
	if t.updating {
		t.pendingReset = &start
		return t
	}
	t.reset(start)
	return t
}

// ResetNow resets the track to start at the current clock time.
func (t *Track) ResetNow() *Track {
	return t.Reset(t.clock())
}

func (t *Track) reset(start float64) {
	t.Disable()
	cursor := start
	for _, k := range t.keys {
		cursor += k.timeRelative
		k.timeAbsolute = cursor
	}
	t.setTimeBounds()
	t.keyIndex = -1
	t.timeCursor = t.timeStart - 1
	t.started = false
	t.region = regionUnset
	t.Enable()
}

// Enable lets the next Update run. Removed tracks stay inert.
func (t *Track) Enable() *Track {
	if !t.removed {
		t.enabled = true
	}
	return t
}

// Disable makes Update a no-op until Enable. It does not abort an Update
// already in progress.
func (t *Track) Disable() *Track {
	t.enabled = false
	return t
}

// Remove disables the track for good, detaches it from its registry and
// fires OnCancel for every guaranteed keyframe still ahead of the cursor.
func (t *Track) Remove() *Track {
	if t.removed {
		return t
	}
	if t.registry != nil {
		t.registry.detach(t)
	}
	t.deactivate()
	t.dispatchCancel()
	return t
}

func (t *Track) deactivate() {
	t.removed = true
	t.enabled = false
	t.registry = nil
}

func (t *Track) dispatchCancel() {
	if t.updating {
		t.pendingCancel = true
		return
	}
	t.cancel()
}

// cancel walks the keyframes not yet crossed in the current direction of
// travel, in travel order.
func (t *Track) cancel() {
	keys := t.keys
	if t.direction >= 0 {
		for i := t.keyIndex + 1; i < len(keys); i++ {
			t.cancelKey(keys[i])
		}
		return
	}
	start := t.keyIndex
	if start > len(keys)-1 {
		start = len(keys) - 1
	}
	for i := start; i >= 0; i-- {
		t.cancelKey(keys[i])
	}
}

func (t *Track) cancelKey(k *Keyframe) {
	if !k.guarantee {
		return
	}
	if k.callbacks.OnCancel != nil {
		k.callbacks.OnCancel(k.values, t)
	}
	t.emit(Event{Kind: EventCancel, Time: t.timeCursor, Track: t, Key: k, Values: k.values})
}
