package evdev

import (
	"fmt"
	"sort"

	"github.com/okian/mjoy/internal/domain/input"
)

// Linux input event types and absolute axis codes (linux/input-event-codes.h).
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	absX     = 0x00
	absY     = 0x01
	absHat0X = 0x10
	absHat0Y = 0x11

	btnDpadUp    = 0x220
	btnDpadDown  = 0x221
	btnDpadLeft  = 0x222
	btnDpadRight = 0x223

	keyMax = 0x2ff
	absMax = 0x3f
)

// Mapping resolves key codes to logical buttons.
type Mapping struct {
	buttons map[uint16]input.Control
}

// NewMapping builds a Mapping from configuration names (accept, decline, x,
// y, l, r, select, start) to key code lists.
func NewMapping(buttons map[string][]int) (Mapping, error) {
	m := Mapping{buttons: map[uint16]input.Control{}}
	names := make([]string, 0, len(buttons))
	for name := range buttons {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctl, ok := input.ControlByName(name)
		if !ok {
			return Mapping{}, fmt.Errorf("%w: unknown button %q", ErrMapping, name)
		}
		for _, code := range buttons[name] {
			if code < 0 || code > keyMax {
				return Mapping{}, fmt.Errorf("%w: %s code %#x out of range", ErrMapping, name, code)
			}
			if prev, dup := m.buttons[uint16(code)]; dup && prev != ctl {
				return Mapping{}, fmt.Errorf("%w: code %#x used by %s and %s", ErrMapping, code, prev, ctl)
			}
			m.buttons[uint16(code)] = ctl
		}
	}
	return m, nil
}

// Button returns the control bound to code.
func (m Mapping) Button(code uint16) (input.Control, bool) {
	c, ok := m.buttons[code]
	return c, ok
}

// Codes returns every mapped key code.
func (m Mapping) Codes() []uint16 {
	out := make([]uint16, 0, len(m.buttons))
	for code := range m.buttons {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// normalise maps v from [lo, hi] to [0, 1]. A degenerate range reads as centred.
func normalise(v, lo, hi int32) float64 {
	if hi <= lo {
		return 0.5
	}
	f := float64(v-lo) / float64(hi-lo)
	return min(max(f, 0), 1)
}

// dpadAxis maps a d-pad key to the axis it drives and the value while held.
func dpadAxis(code uint16) (input.Control, float64, bool) {
	switch code {
	case btnDpadLeft:
		return input.Horizontal, 0, true
	case btnDpadRight:
		return input.Horizontal, 1, true
	case btnDpadUp:
		return input.Vertical, 0, true
	case btnDpadDown:
		return input.Vertical, 1, true
	}
	return 0, 0, false
}
