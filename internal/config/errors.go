package config

import (
	"errors"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	// ErrUnknownButton marks a buttons key that names no logical button.
	ErrUnknownButton = errors.New("unknown button")
)
