package pacer

// EventKind identifies what happened during an update.
type EventKind uint8

const (
	EventKey       EventKind = iota // a keyframe was crossed
	EventTween                      // values were tweened inside the keyframe range
	EventBeforeAll                  // the cursor entered the region before the first keyframe
	EventAfterAll                   // the cursor entered the region at or after the last keyframe
	EventCancel                     // a pending keyframe was cancelled by Remove
)

func (k EventKind) String() string {
	switch k {
	case EventKey:
		return "key"
	case EventTween:
		return "tween"
	case EventBeforeAll:
		return "before"
	case EventAfterAll:
		return "after"
	case EventCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, bool) {
	for k := EventKey; k <= EventCancel; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Event is delivered to observers at the same points the matching callbacks
// fire. Key is nil for track-level events.
type Event struct {
	Kind   EventKind
	Time   float64
	Track  *Track
	Key    *Keyframe
	Values Values
}

// Observer receives every event of the tracks it is attached to.
type Observer interface {
	OnEvent(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }
