package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrLoadBindings = errors.New("load bindings")
	ErrLoadLock     = errors.New("load team lock")
	ErrNamesFile    = errors.New("read binding names")
	ErrWrite        = errors.New("write file")
)
