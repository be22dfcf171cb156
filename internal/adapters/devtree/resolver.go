// Package devtree derives stable controller identities from the Linux
// /dev/input/by-path directory.
//
// A joystick entry looks like
//
//	pci-0000:00:14.0-usb-0:2.1:1.0-event-joystick -> ../event5
//
// The USB port chain ("2.1:1") and the interface index ("0") form the
// minimal path "2.1:1.0", which stays the same as long as the controller is
// plugged into the same physical port. The kernel event node it points at
// changes across reconnects and is only cached at runtime.
package devtree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okian/mjoy/internal/domain/model"
	"github.com/okian/mjoy/pkg/logger"
	"github.com/okian/mjoy/pkg/metrics"
)

// Defaults match a stock Linux udev layout.
const (
	DefaultDir          = "/dev/input/by-path"
	DefaultEventDir     = "/dev/input"
	defaultMultiPortCap = 4
	joystickMarker      = "event-joystick"
)

var (
	byPathPattern = regexp.MustCompile(`^pci.*usb.*:(.*:1)\.([0-9])-event-joystick$`)
	eventPattern  = regexp.MustCompile(`(?:^|/)event([0-9]+)$`)
)

// Resolver scans the device tree.
type Resolver struct {
	dir          string
	eventDir     string
	multiPortCap int
	logger       logger.Logger
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		dir:          DefaultDir,
		eventDir:     DefaultEventDir,
		multiPortCap: defaultMultiPortCap,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("devtree")
	}
	return r
}

// Discover lists every joystick in the by-path directory, in directory order.
// Entries whose multi-controller index is at or above the configured cap are
// skipped. Unreadable directories, joystick entries that do not match the
// expected shape and unreadable symlinks are returned as errors.
func (r *Resolver) Discover(ctx context.Context) ([]model.NamedPath, error) {
	start := time.Now()
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceTree, r.dir, err)
	}

	var found []model.NamedPath
	for _, entry := range entries {
		name := entry.Name()
		if !strings.Contains(name, joystickMarker) {
			continue
		}

		np, keep, err := r.resolve(name)
		if err != nil {
			return nil, err
		}
		if !keep {
			r.logger.Debug(ctx, "skipping controller above multi-port cap",
				logger.String("path", name),
				logger.Int("cap", r.multiPortCap),
			)
			continue
		}
		found = append(found, np)
	}

	metrics.RecordDiscovery(float64(time.Since(start).Microseconds())/1000, len(found))
	r.logger.Debug(ctx, "device tree scanned", logger.Int("joysticks", len(found)))
	return found, nil
}

func (r *Resolver) resolve(name string) (model.NamedPath, bool, error) {
	m := byPathPattern.FindStringSubmatch(name)
	if m == nil {
		return model.NamedPath{}, false, fmt.Errorf("%w: %s", ErrPathPattern, name)
	}
	portChain, multi := m[1], m[2]

	index, err := strconv.Atoi(multi)
	if err != nil {
		return model.NamedPath{}, false, fmt.Errorf("%w: %s: %w", ErrPathPattern, name, err)
	}
	if index >= r.multiPortCap {
		return model.NamedPath{}, false, nil
	}

	fullPath := filepath.Join(r.dir, name)
	target, err := os.Readlink(fullPath)
	if err != nil {
		return model.NamedPath{}, false, fmt.Errorf("%w: %s: %w", ErrReadLink, fullPath, err)
	}
	ev := eventPattern.FindStringSubmatch(target)
	if ev == nil {
		return model.NamedPath{}, false, fmt.Errorf("%w: %s -> %s is not an event node", ErrReadLink, fullPath, target)
	}

	return model.NamedPath{
		FullPath:      fullPath,
		MinimalPath:   portChain + "." + multi,
		RootEventPath: filepath.Join(r.eventDir, "event"+ev[1]),
	}, true, nil
}

// RebuildEventLookup rescans and maps each kernel event path to its minimal path.
func (r *Resolver) RebuildEventLookup(ctx context.Context) (model.EventPathLookup, error) {
	paths, err := r.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewEventPathLookup(paths), nil
}

// MergeInto rescans and adds controllers whose minimal path is not yet in
// mpl. Existing records keep their names. Returns the number added.
func (r *Resolver) MergeInto(ctx context.Context, mpl model.MinimalPathLookup) (int, error) {
	paths, err := r.Discover(ctx)
	if err != nil {
		return 0, err
	}
	added := mpl.Merge(paths)
	if added > 0 {
		r.logger.Info(ctx, "new controllers discovered", logger.Int("added", added))
	}
	return added, nil
}
