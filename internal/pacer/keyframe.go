package pacer

import "github.com/san-kum/pacer/internal/ease"

// Values maps value names to numbers. NaN and ±Inf entries are treated as
// non-numeric and skipped during interpolation.
type Values map[string]float64

// KeyFunc is the signature shared by every keyframe and track callback.
type KeyFunc func(values Values, t *Track)

// KeyCallbacks are the optional per-keyframe callbacks.
type KeyCallbacks struct {
	OnKey    KeyFunc
	OnTween  KeyFunc
	OnCancel KeyFunc
}

// Keyframe is a timestamped value snapshot. It is returned by the Track's
// insert methods and configured through its chainable setters.
type Keyframe struct {
	timeAbsolute float64
	timeRelative float64
	values       Values
	tween        ease.Func
	label        string
	guarantee    bool
	index        int
	callbacks    KeyCallbacks
}

func newKeyframe(time float64, values Values) *Keyframe {
	return &Keyframe{
		timeAbsolute: time,
		values:       values,
		tween:        ease.Linear,
		guarantee:    true,
	}
}

// Tween sets the easing applied to the segment that starts at this keyframe.
// A nil fn restores linear interpolation.
func (k *Keyframe) Tween(fn ease.Func) *Keyframe {
	if fn == nil {
		fn = ease.Linear
	}
	k.tween = fn
	return k
}

// Label attaches a human-readable tag.
func (k *Keyframe) Label(text string) *Keyframe {
	k.label = text
	return k
}

// Guarantee controls whether OnKey fires when an update crosses this
// keyframe. Keyframes are guaranteed by default.
func (k *Keyframe) Guarantee(on bool) *Keyframe {
	k.guarantee = on
	return k
}

func (k *Keyframe) OnKey(fn KeyFunc) *Keyframe {
	k.callbacks.OnKey = fn
	return k
}

func (k *Keyframe) OnTween(fn KeyFunc) *Keyframe {
	k.callbacks.OnTween = fn
	return k
}

// OnCancel fires if the track is removed before the cursor reaches this
// keyframe.
func (k *Keyframe) OnCancel(fn KeyFunc) *Keyframe {
	k.callbacks.OnCancel = fn
	return k
}

func (k *Keyframe) TimeAbsolute() float64   { return k.timeAbsolute }
func (k *Keyframe) TimeRelative() float64   { return k.timeRelative }
func (k *Keyframe) Values() Values          { return k.values }
func (k *Keyframe) Index() int              { return k.index }
func (k *Keyframe) LabelText() string       { return k.label }
func (k *Keyframe) Guaranteed() bool        { return k.guarantee }
func (k *Keyframe) TweenFunc() ease.Func    { return k.tween }
func (k *Keyframe) Callbacks() KeyCallbacks { return k.callbacks }
