package feedback

import (
	"math/rand/v2"
	"time"
)

// Option configures a Builder.
type Option func(*Builder)

// WithHatOnlyPlayers limits the listed players to directional indicators.
func WithHatOnlyPlayers(players []string) Option {
	return func(b *Builder) {
		for _, p := range players {
			b.hatOnly[p] = struct{}{}
		}
	}
}

// ThresholdOption configures a Threshold.
type ThresholdOption func(*Threshold)

// WithThresholdClock replaces time.Now.
func WithThresholdClock(now func() time.Time) ThresholdOption {
	return func(t *Threshold) {
		if now != nil {
			t.now = now
		}
	}
}

// WithRand sets the random source, used for reproducible tests.
func WithRand(rng *rand.Rand) ThresholdOption {
	return func(t *Threshold) {
		if rng != nil {
			t.rng = rng
		}
	}
}
