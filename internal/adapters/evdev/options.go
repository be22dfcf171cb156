package evdev

import "github.com/okian/mjoy/pkg/logger"

// Option configures a Provider.
type Option func(*Provider)

// WithDir sets the directory holding eventN nodes.
func WithDir(dir string) Option {
	return func(p *Provider) {
		if dir != "" {
			p.dir = dir
		}
	}
}

// WithPathDir sets the directory holding the by-path joystick links.
// An empty dir disables the link watch.
func WithPathDir(dir string) Option {
	return func(p *Provider) {
		p.pathDir = dir
	}
}

// WithButtons maps logical button names to Linux key codes.
func WithButtons(buttons map[string][]int) Option {
	return func(p *Provider) {
		if buttons != nil {
			p.buttons = buttons
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}
