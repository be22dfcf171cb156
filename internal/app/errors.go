package service

import "errors"

var (
	// ErrStartup wraps failures of the startup sequence.
	ErrStartup = errors.New("session startup")
	// ErrNotStarted is returned when Step or Run is called before Start.
	ErrNotStarted = errors.New("session not started")
	// ErrRebuild wraps device tree failures while handling hotplug.
	ErrRebuild = errors.New("rebuild device lookups")
)
