package evdev

import "errors"

// Sentinel errors for the evdev provider.
var (
	ErrUnsupported = errors.New("evdev: unsupported platform")
	ErrMapping     = errors.New("evdev: invalid button mapping")
	ErrWatch       = errors.New("evdev: watch input directory")
)
