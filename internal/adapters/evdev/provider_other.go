//go:build !linux

// Package evdev reads gamepads straight from Linux event devices.
package evdev

import (
	"context"

	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/pkg/logger"
)

// Provider is unavailable off Linux.
type Provider struct {
	dir     string
	pathDir string
	buttons map[string][]int
	logger  logger.Logger
}

// New always fails off Linux.
func New(_ context.Context, _ ...Option) (*Provider, error) {
	return nil, ErrUnsupported
}

// NextEvent implements input.Provider.
func (p *Provider) NextEvent() (input.Event, bool) { return input.Event{}, false }

// Gamepads implements input.Provider.
func (p *Provider) Gamepads() []input.Gamepad { return nil }

// Close is a no-op.
func (p *Provider) Close() error { return nil }
