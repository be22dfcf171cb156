//go:build linux

package evdev

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/okian/mjoy/internal/domain/input"
)

type axisBinding struct {
	control input.Control
	lo, hi  int32
}

// device is one open event node with its cached control values.
type device struct {
	path   string
	fd     int
	values map[input.Control]float64
	axes   map[uint16]axisBinding
	keys   map[uint16]struct{}
}

func (d *device) DevPath() string { return d.path }

func (d *device) Value(c input.Control) (float64, bool) {
	v, ok := d.values[c]
	return v, ok
}

// openDevice opens path and keeps it only when it carries at least one
// mapped button. ok is false for other input devices.
func openDevice(path string, m Mapping) (dev *device, ok bool, err error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", path, err)
	}
	d := &device{
		path:   path,
		fd:     fd,
		values: map[input.Control]float64{},
		axes:   map[uint16]axisBinding{},
		keys:   map[uint16]struct{}{},
	}
	ok, err = d.probe(m)
	if err != nil || !ok {
		_ = unix.Close(fd)
		return nil, false, err
	}
	return d, true, nil
}

func (d *device) probe(m Mapping) (bool, error) {
	keyBits, err := queryBits(d.fd, eviocgbit(evKey, bitsLen(keyMax)), keyMax)
	if err != nil {
		return false, err
	}
	for _, code := range m.Codes() {
		if testBit(keyBits, int(code)) {
			d.keys[code] = struct{}{}
			ctl, _ := m.Button(code)
			d.values[ctl] = 0
		}
	}
	if len(d.keys) == 0 {
		return false, nil
	}

	absBits, err := queryBits(d.fd, eviocgbit(evAbs, bitsLen(absMax)), absMax)
	if err != nil {
		return false, err
	}
	d.bindAxis(absBits, input.Horizontal, absHat0X, absX)
	d.bindAxis(absBits, input.Vertical, absHat0Y, absY)

	for _, code := range []uint16{btnDpadLeft, btnDpadRight, btnDpadUp, btnDpadDown} {
		if testBit(keyBits, int(code)) {
			d.keys[code] = struct{}{}
			ctl, _, _ := dpadAxis(code)
			if _, ok := d.values[ctl]; !ok {
				d.values[ctl] = 0.5
			}
		}
	}
	return true, d.resync(m)
}

// bindAxis attaches control to the first present code, preferring the hat.
func (d *device) bindAxis(absBits []byte, control input.Control, codes ...uint16) {
	for _, code := range codes {
		if !testBit(absBits, int(code)) {
			continue
		}
		info, err := queryAbs(d.fd, int(code))
		if err != nil {
			continue
		}
		d.axes[code] = axisBinding{control: control, lo: info.Minimum, hi: info.Maximum}
		d.values[control] = normalise(info.Value, info.Minimum, info.Maximum)
		return
	}
}

// resync reloads held keys and axis positions after the kernel dropped events.
func (d *device) resync(m Mapping) error {
	held, err := queryBits(d.fd, eviocgkey(bitsLen(keyMax)), keyMax)
	if err != nil {
		return err
	}
	for code := range d.keys {
		v := int32(0)
		if testBit(held, int(code)) {
			v = 1
		}
		d.apply(rawEvent{Type: evKey, Code: code, Value: v}, m)
	}
	for code, ax := range d.axes {
		info, err := queryAbs(d.fd, int(code))
		if err != nil {
			return err
		}
		d.values[ax.control] = normalise(info.Value, ax.lo, ax.hi)
	}
	return nil
}

// apply folds ev into the cached values and reports whether a control moved.
func (d *device) apply(ev rawEvent, m Mapping) bool {
	var (
		ctl input.Control
		v   float64
	)
	switch ev.Type {
	case evKey:
		if c, ok := m.Button(ev.Code); ok {
			ctl, v = c, 0
			if ev.Value != 0 {
				v = 1
			}
			break
		}
		c, held, ok := dpadAxis(ev.Code)
		if !ok {
			return false
		}
		ctl, v = c, 0.5
		if ev.Value != 0 {
			v = held
		}
	case evAbs:
		ax, ok := d.axes[ev.Code]
		if !ok {
			return false
		}
		ctl, v = ax.control, normalise(ev.Value, ax.lo, ax.hi)
	default:
		return false
	}
	if old, ok := d.values[ctl]; ok && old == v {
		return false
	}
	d.values[ctl] = v
	return true
}

func (d *device) close() error {
	return unix.Close(d.fd)
}
