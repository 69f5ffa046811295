package sim

import "errors"

var (
	// ErrInvalidConfig indicates a sampling window the runner cannot step through.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrEmptySchedule indicates a schedule with no times.
	ErrEmptySchedule = errors.New("sim: empty schedule")
)
