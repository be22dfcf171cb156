package teams

import "github.com/okian/mjoy/pkg/logger"

// Option configures an Engine.
type Option func(*Engine)

// WithAdjacency replaces the 2x2 grid movement rule.
func WithAdjacency(adj Adjacency) Option {
	return func(e *Engine) {
		if adj != nil {
			e.adjacency = adj
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
