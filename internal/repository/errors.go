package repository

import "errors"

// ErrStaleVersion signals that a guarded update matched no row because the
// stored version moved on since the caller loaded it.
var ErrStaleVersion = errors.New("stale schedule version")
