package config

import "errors"

var (
	// ErrNoKeyframes indicates a timeline without keyframes.
	ErrNoKeyframes = errors.New("config: timeline has no keyframes")

	// ErrUnknownEase indicates a keyframe easing that the catalog cannot resolve.
	ErrUnknownEase = errors.New("config: unknown easing")

	// ErrInvalidSample indicates a sampling window with a non-positive step or
	// an end before its start.
	ErrInvalidSample = errors.New("config: invalid sample window")

	// ErrPresetNotFound indicates a preset reference that matches nothing.
	ErrPresetNotFound = errors.New("config: preset not found")
)
