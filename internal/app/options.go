package service

import (
	"io"
	"time"

	"github.com/okian/mjoy/internal/domain/binding"
	"github.com/okian/mjoy/internal/domain/feedback"
	"github.com/okian/mjoy/internal/domain/teams"
	"github.com/okian/mjoy/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithCommands sets the operator command source drained once per tick.
func WithCommands(c CommandSource) Option {
	return func(s *Session) {
		if c != nil {
			s.commands = c
		}
	}
}

// WithNamesLoader sets how the binding worklist is read.
func WithNamesLoader(load binding.NamesLoader) Option {
	return func(s *Session) {
		if load != nil {
			s.loadNames = load
		}
	}
}

// WithTeamsEngine replaces the default 2x2 team engine.
func WithTeamsEngine(e *teams.Engine) Option {
	return func(s *Session) {
		if e != nil {
			s.teams = e
		}
	}
}

// WithFeedbackBuilder replaces the default feedback builder.
func WithFeedbackBuilder(b *feedback.Builder) Option {
	return func(s *Session) {
		if b != nil {
			s.feedback = b
		}
	}
}

// WithPollInterval sets the idle sleep between ticks with nothing pending.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithNameWidth sets the name column width of the startup table.
func WithNameWidth(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.nameWidth = n
		}
	}
}

// WithOutput sets where the startup table is printed.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

// WithClock replaces time.Now for uptime reporting.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithThresholdOptions are passed to every GameActive threshold.
func WithThresholdOptions(opts ...feedback.ThresholdOption) Option {
	return func(s *Session) {
		s.thresholdOpts = append(s.thresholdOpts, opts...)
	}
}

// WithBinderOptions are passed to every binder created by Setup.
func WithBinderOptions(opts ...binding.Option) Option {
	return func(s *Session) {
		s.binderOpts = append(s.binderOpts, opts...)
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
