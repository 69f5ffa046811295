package storage

import "errors"

// ErrRunNotFound indicates a run ID with no stored metadata.
var ErrRunNotFound = errors.New("storage: run not found")
