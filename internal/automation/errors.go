package automation

import "errors"

var (
	// ErrUnknownAction indicates a script step whose action is not recognised.
	ErrUnknownAction = errors.New("automation: unknown action")

	// ErrInvalidStep indicates a step with unusable parameters.
	ErrInvalidStep = errors.New("automation: invalid step")
)
