package devtree

import "github.com/okian/mjoy/pkg/logger"

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithDir sets the stable by-path directory to scan.
func WithDir(dir string) Option {
	return func(r *Resolver) {
		if dir != "" {
			r.dir = dir
		}
	}
}

// WithEventDir sets the directory that holds the kernel eventN nodes.
func WithEventDir(dir string) Option {
	return func(r *Resolver) {
		if dir != "" {
			r.eventDir = dir
		}
	}
}

// WithMultiPortCap drops entries whose multi-controller index is >= n.
func WithMultiPortCap(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.multiPortCap = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
