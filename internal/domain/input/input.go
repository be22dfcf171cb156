// Package input declares the gamepad capability consumed by the engines.
//
// Providers report cached per-controller values; engines never read the raw
// event stream. Button values are in [0, 1]. Axis values are normalised so
// that 0 is fully left/up, 0.5 is centred and 1 is fully right/down.
package input

// Control names a logical button or axis.
type Control int

// Logical controls.
const (
	Accept Control = iota
	Decline
	ButtonX
	ButtonY
	ButtonL
	ButtonR
	Select
	Start
	Horizontal
	Vertical
)

var controlNames = map[Control]string{
	Accept:     "accept",
	Decline:    "decline",
	ButtonX:    "x",
	ButtonY:    "y",
	ButtonL:    "l",
	ButtonR:    "r",
	Select:     "select",
	Start:      "start",
	Horizontal: "horizontal",
	Vertical:   "vertical",
}

func (c Control) String() string {
	if s, ok := controlNames[c]; ok {
		return s
	}
	return "unknown"
}

// ControlByName maps a configuration key to a button control.
func ControlByName(name string) (Control, bool) {
	for c, s := range controlNames {
		if s == name && c != Horizontal && c != Vertical {
			return c, true
		}
	}
	return 0, false
}

// PressThreshold is the value above which accept and decline count as pressed.
const PressThreshold = 0.9

// Gamepad is one connected controller.
type Gamepad interface {
	// DevPath is the current kernel event node, e.g. /dev/input/event5.
	DevPath() string
	// Value returns the cached value of c; ok is false when the device does
	// not report it.
	Value(c Control) (v float64, ok bool)
}

// EventKind classifies provider events.
type EventKind int

// Event kinds.
const (
	Connected EventKind = iota + 1
	Disconnected
	Changed
)

func (k EventKind) String() string {
	switch k {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Event is one consumed hardware event.
type Event struct {
	Kind    EventKind
	DevPath string
}

// Provider enumerates gamepads and yields hardware events without blocking.
type Provider interface {
	// NextEvent consumes one pending event. ok is false when none is pending.
	NextEvent() (ev Event, ok bool)
	// Gamepads returns the live controllers with their cached state.
	Gamepads() []Gamepad
}

// ValueOr returns the value of c or 0 when unreported.
func ValueOr(p Gamepad, c Control) float64 {
	v, ok := p.Value(c)
	if !ok {
		return 0
	}
	return v
}

// Pressed reports whether button c is above PressThreshold.
func Pressed(p Gamepad, c Control) bool {
	return ValueOr(p, c) > PressThreshold
}

// Direction discretises an axis: below 0.1 is -1, above 0.9 is +1, else 0.
// An unreported axis is 0.
func Direction(p Gamepad, c Control) int {
	v, ok := p.Value(c)
	if !ok {
		return 0
	}
	switch {
	case v < 0.1:
		return -1
	case v > PressThreshold:
		return 1
	default:
		return 0
	}
}
