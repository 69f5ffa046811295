package ease

import "errors"

// ErrUnknownEase indicates a name that resolves to no catalog entry.
var ErrUnknownEase = errors.New("ease: unknown easing")
