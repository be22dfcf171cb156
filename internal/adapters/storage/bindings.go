package storage

import (
	"context"
	"fmt"

	"github.com/okian/mjoy/internal/domain/model"
	"github.com/okian/mjoy/pkg/logger"
)

// Bindings reads and writes the minimal path to name table.
type Bindings struct {
	path   string
	strict bool
	logger logger.Logger
}

// BindingsOption configures Bindings.
type BindingsOption func(*Bindings)

// WithStrict makes a missing or corrupt file a load error instead of an
// empty table.
func WithStrict(strict bool) BindingsOption {
	return func(b *Bindings) { b.strict = strict }
}

// WithBindingsLogger sets a custom logger.
func WithBindingsLogger(l logger.Logger) BindingsOption {
	return func(b *Bindings) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBindings returns a store for the file at path.
func NewBindings(path string, opts ...BindingsOption) *Bindings {
	b := &Bindings{path: path}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("bindings")
	}
	return b
}

// Path returns the backing file.
func (b *Bindings) Path() string { return b.path }

// Load reads the bindings file. In lenient mode a missing or unparsable file
// yields an empty lookup and a warning.
func (b *Bindings) Load(ctx context.Context) (model.MinimalPathLookup, error) {
	var paths []model.NamedPath
	if err := readJSON(b.path, &paths); err != nil {
		if b.strict {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadBindings, b.path, err)
		}
		b.logger.Warn(ctx, "no usable bindings file, starting empty",
			logger.String("path", b.path),
			logger.Error(err),
		)
		return model.MinimalPathLookup{}, nil
	}
	return model.NewMinimalPathLookup(paths), nil
}

// Save rewrites the bindings file ordered by minimal path.
func (b *Bindings) Save(_ context.Context, mpl model.MinimalPathLookup) error {
	return writeJSON(b.path, "bindings", mpl.Sorted())
}
