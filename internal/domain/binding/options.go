package binding

import (
	"time"

	"github.com/okian/mjoy/pkg/logger"
)

// Option configures a Binder.
type Option func(*Binder)

// WithClock replaces time.Now, used to drive the throttle in tests.
func WithClock(now func() time.Time) Option {
	return func(b *Binder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithCooldown sets the pause after a successful claim.
func WithCooldown(d time.Duration) Option {
	return func(b *Binder) {
		if d >= 0 {
			b.cooldown = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}
