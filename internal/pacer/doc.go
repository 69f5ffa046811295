// Package pacer implements time-driven keyframe tracks.
//
// A [Track] holds timestamped value snapshots ([Keyframe]) and is polled by an
// external driver with an arbitrary, possibly non-monotonic time:
//
//	tr := pacer.NewTrack("fade").Clamp()
//	tr.InsertAbsolute(0, pacer.Values{"x": 0}).Tween(ease.Cubic.InOut)
//	tr.InsertRelative(10, pacer.Values{"x": 100}).OnKey(func(v pacer.Values, t *pacer.Track) {
//	    // fires once each time the cursor crosses t=10, in either direction
//	})
//	tr.Update(5)
//	x := tr.Values()["x"]
//
// # Cursor
//
// Update re-synchronizes a stored cursor by walking from its previous
// position instead of searching from scratch, so consecutive calls with
// nearby times cost O(1). Every guaranteed keyframe crossed between the
// previous and the current time gets its OnKey callback exactly once, in the
// order of travel, however far a single call jumps.
//
// # Relative insertion
//
// InsertRelative offsets from the most recently inserted keyframe, not from
// the chronologically last one. Inserting out of order therefore anchors the
// next relative keyframe to whatever was inserted last.
//
// # Value sharing
//
// A keyframe inserted with nil values adopts the previous sorted keyframe's
// map by reference. Both keyframes then see any later mutation of that map.
// Values returned by Track.Values are freshly allocated on every tween, except
// before the first tween, when they alias the earliest keyframe's map.
//
// # Reentrancy
//
// Callbacks run synchronously inside Update and may mutate their own track.
// While an Update is in progress, insertions, Reset and the cancel dispatch of
// Remove are queued and applied when the Update returns; Enable and Disable
// take effect on the next Update. A nested Update of the same track from one
// of its callbacks is ignored.
//
// # Thread Safety
//
// Tracks and Registries are NOT safe for concurrent use. Drive each Registry
// from a single goroutine.
package pacer
