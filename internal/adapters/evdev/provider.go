//go:build linux

// Package evdev reads gamepads straight from Linux event devices.
//
// Hotplug is observed with inotify on the input directory and on the
// by-path directory, since udev links a joystick after its eventN node
// appears. Reads are non-blocking; NextEvent never waits.
package evdev

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/pkg/logger"
	"github.com/okian/mjoy/pkg/metrics"
)

var eventNode = regexp.MustCompile(`^event[0-9]+$`)

const (
	readBatch      = 64
	joystickMarker = "event-joystick"
	eventDirMask   = unix.IN_CREATE | unix.IN_DELETE | unix.IN_ATTRIB | unix.IN_MOVED_TO
	pathDirMask    = unix.IN_CREATE | unix.IN_DELETE | unix.IN_MOVED_TO | unix.IN_MOVED_FROM
)

// Provider implements input.Provider over /dev/input/eventN.
// It is not safe for concurrent use.
type Provider struct {
	dir     string
	pathDir string
	buttons map[string][]int
	logger  logger.Logger

	mapping Mapping
	watch   int
	pathWd  int
	devices map[string]*device
	pending []input.Event
	buf     []byte
	wbuf    []byte
}

// New opens every gamepad under the input directory and starts watching it.
func New(ctx context.Context, opts ...Option) (*Provider, error) {
	p := &Provider{
		dir:     "/dev/input",
		pathDir: "/dev/input/by-path",
		watch:   -1,
		pathWd:  -1,
		devices: map[string]*device{},
		buf:     make([]byte, eventSize*readBatch),
		wbuf:    make([]byte, 4096),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("evdev")
	}

	mapping, err := NewMapping(p.buttons)
	if err != nil {
		return nil, err
	}
	p.mapping = mapping

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("%w: inotify_init1: %w", ErrWatch, err)
	}
	if _, err := unix.InotifyAddWatch(fd, p.dir, eventDirMask); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: %s: %w", ErrWatch, p.dir, err)
	}
	p.watch = fd
	// The by-path directory only exists once udev has linked a device;
	// when it is missing it is picked up from the input directory watch.
	p.watchPathDir(ctx)

	// Scan after the watch is installed so a node created in between is not missed.
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrWatch, p.dir, err)
	}
	for _, e := range entries {
		if eventNode.MatchString(e.Name()) {
			p.open(ctx, filepath.Join(p.dir, e.Name()))
		}
	}
	metrics.UpdateConnectedGamepads(len(p.devices))
	p.logger.Info(ctx, "gamepads opened", logger.Int("count", len(p.devices)), logger.String("dir", p.dir))
	return p, nil
}

// NextEvent implements input.Provider.
func (p *Provider) NextEvent() (input.Event, bool) {
	if len(p.pending) == 0 {
		p.poll(context.Background())
	}
	if len(p.pending) == 0 {
		return input.Event{}, false
	}
	ev := p.pending[0]
	p.pending = p.pending[1:]
	return ev, true
}

// Gamepads implements input.Provider. Pads are ordered by device path.
func (p *Provider) Gamepads() []input.Gamepad {
	paths := make([]string, 0, len(p.devices))
	for path := range p.devices {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	out := make([]input.Gamepad, len(paths))
	for i, path := range paths {
		out[i] = p.devices[path]
	}
	return out
}

// Close releases every device and the directory watch.
func (p *Provider) Close() error {
	var errs []error
	for path, d := range p.devices {
		if err := d.close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.devices, path)
	}
	if p.watch >= 0 {
		if err := unix.Close(p.watch); err != nil {
			errs = append(errs, err)
		}
		p.watch = -1
	}
	return errors.Join(errs...)
}

func (p *Provider) poll(ctx context.Context) {
	p.drainWatch(ctx)
	for _, pad := range p.Gamepads() {
		p.drainDevice(ctx, pad.(*device))
	}
}

// watchPathDir installs the by-path watch. It reports whether the watch
// was newly added.
func (p *Provider) watchPathDir(ctx context.Context) bool {
	if p.pathDir == "" || p.pathWd >= 0 {
		return false
	}
	wd, err := unix.InotifyAddWatch(p.watch, p.pathDir, pathDirMask)
	if err != nil {
		if !errors.Is(err, unix.ENOENT) {
			p.logger.Warn(ctx, "by-path watch failed", logger.String("dir", p.pathDir), logger.Error(err))
			metrics.RecordErrorByComponent("evdev", "watch")
		}
		return false
	}
	p.pathWd = wd
	p.logger.Debug(ctx, "watching by-path links", logger.String("dir", p.pathDir))
	return true
}

// announceLinks reports every joystick link already present, for links
// created before the by-path watch existed.
func (p *Provider) announceLinks(ctx context.Context) {
	entries, err := os.ReadDir(p.pathDir)
	if err != nil {
		p.logger.Debug(ctx, "by-path scan failed", logger.String("dir", p.pathDir), logger.Error(err))
		return
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), joystickMarker) {
			p.pending = append(p.pending, input.Event{Kind: input.Connected, DevPath: filepath.Join(p.pathDir, e.Name())})
		}
	}
}

// pathDirIn reports whether name, seen in the input directory, is the
// by-path directory itself.
func (p *Provider) pathDirIn(name string) bool {
	return p.pathDir != "" && filepath.Clean(filepath.Dir(p.pathDir)) == filepath.Clean(p.dir) && filepath.Base(p.pathDir) == name
}

// linkEvent turns a by-path change into a hotplug event so lookups are
// rebuilt once the link exists, not only when the eventN node appears.
func (p *Provider) linkEvent(ctx context.Context, ev watchEvent) {
	if ev.Mask&unix.IN_IGNORED != 0 {
		p.pathWd = -1
		return
	}
	if !strings.HasSuffix(ev.Name, joystickMarker) {
		return
	}
	link := filepath.Join(p.pathDir, ev.Name)
	switch {
	case ev.Mask&(unix.IN_CREATE|unix.IN_MOVED_TO) != 0:
		p.pending = append(p.pending, input.Event{Kind: input.Connected, DevPath: link})
	case ev.Mask&(unix.IN_DELETE|unix.IN_MOVED_FROM) != 0:
		p.pending = append(p.pending, input.Event{Kind: input.Disconnected, DevPath: link})
	default:
		return
	}
	p.logger.Debug(ctx, "by-path link changed", logger.String("link", link), logger.Any("mask", ev.Mask))
}

func (p *Provider) drainWatch(ctx context.Context) {
	for {
		n, err := unix.Read(p.watch, p.wbuf)
		if err != nil || n <= 0 {
			if err != nil && !errors.Is(err, unix.EAGAIN) && !errors.Is(err, unix.EINTR) {
				p.logger.Warn(ctx, "inotify read failed", logger.Error(err))
				metrics.RecordErrorByComponent("evdev", "watch")
			}
			return
		}
		for _, ev := range parseWatchEvents(p.wbuf[:n]) {
			if p.pathWd >= 0 && int(ev.Wd) == p.pathWd {
				p.linkEvent(ctx, ev)
				continue
			}
			if ev.Mask&unix.IN_CREATE != 0 && p.pathDirIn(ev.Name) {
				if p.watchPathDir(ctx) {
					p.announceLinks(ctx)
				}
				continue
			}
			if !eventNode.MatchString(ev.Name) {
				continue
			}
			path := filepath.Join(p.dir, ev.Name)
			switch {
			case ev.Mask&unix.IN_DELETE != 0:
				p.drop(ctx, path)
			case ev.Mask&(unix.IN_CREATE|unix.IN_ATTRIB|unix.IN_MOVED_TO) != 0:
				// Permissions are often applied after creation; IN_ATTRIB retries.
				if p.open(ctx, path) {
					p.pending = append(p.pending, input.Event{Kind: input.Connected, DevPath: path})
				}
			}
		}
	}
}

func (p *Provider) drainDevice(ctx context.Context, d *device) {
	changed := false
read:
	for {
		n, err := unix.Read(d.fd, p.buf)
		if err != nil {
			switch {
			case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			case errors.Is(err, unix.ENODEV):
				p.drop(ctx, d.path)
			default:
				p.logger.Warn(ctx, "device read failed", logger.String("devpath", d.path), logger.Error(err))
				metrics.RecordErrorByComponent("evdev", "read")
				p.drop(ctx, d.path)
			}
			break read
		}
		if n <= 0 {
			break read
		}
		for _, ev := range decodeEvents(p.buf[:n]) {
			if ev.Type == evSyn && ev.Code == synDropped {
				if err := d.resync(p.mapping); err != nil {
					p.logger.Debug(ctx, "resync failed", logger.String("devpath", d.path), logger.Error(err))
				}
				changed = true
				continue
			}
			if d.apply(ev, p.mapping) {
				changed = true
			}
		}
	}
	if changed {
		p.pending = append(p.pending, input.Event{Kind: input.Changed, DevPath: d.path})
	}
}

// open adds path when it is a gamepad not yet tracked.
func (p *Provider) open(ctx context.Context, path string) bool {
	if _, ok := p.devices[path]; ok {
		return false
	}
	d, ok, err := openDevice(path, p.mapping)
	if err != nil {
		p.logger.Debug(ctx, "skipping input node", logger.String("devpath", path), logger.Error(err))
		return false
	}
	if !ok {
		return false
	}
	p.devices[path] = d
	metrics.UpdateConnectedGamepads(len(p.devices))
	p.logger.Info(ctx, "gamepad connected", logger.String("devpath", path))
	return true
}

func (p *Provider) drop(ctx context.Context, path string) {
	d, ok := p.devices[path]
	if !ok {
		return
	}
	_ = d.close()
	delete(p.devices, path)
	metrics.UpdateConnectedGamepads(len(p.devices))
	p.pending = append(p.pending, input.Event{Kind: input.Disconnected, DevPath: path})
	p.logger.Info(ctx, "gamepad disconnected", logger.String("devpath", path))
}
