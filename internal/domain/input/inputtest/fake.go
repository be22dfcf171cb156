// Package inputtest provides in-memory gamepads for engine tests.
package inputtest

import "github.com/okian/mjoy/internal/domain/input"

// Pad is a gamepad with settable values. Axes start centred.
type Pad struct {
	Path   string
	Values map[input.Control]float64
}

// NewPad returns a pad at path with centred axes and released buttons.
func NewPad(path string) *Pad {
	return &Pad{Path: path, Values: map[input.Control]float64{
		input.Horizontal: 0.5,
		input.Vertical:   0.5,
	}}
}

// DevPath implements input.Gamepad.
func (p *Pad) DevPath() string { return p.Path }

// Value implements input.Gamepad.
func (p *Pad) Value(c input.Control) (float64, bool) {
	v, ok := p.Values[c]
	return v, ok
}

// Press sets button c fully pressed.
func (p *Pad) Press(c input.Control) *Pad {
	p.Values[c] = 1
	return p
}

// Release clears every button and recentres the axes.
func (p *Pad) Release() *Pad {
	for c := range p.Values {
		delete(p.Values, c)
	}
	p.Values[input.Horizontal] = 0.5
	p.Values[input.Vertical] = 0.5
	return p
}

// Push holds the stick at (h, v) in {-1, 0, 1}, +v meaning down.
func (p *Pad) Push(h, v int) *Pad {
	p.Values[input.Horizontal] = float64(h+1) / 2
	p.Values[input.Vertical] = float64(v+1) / 2
	return p
}

// Pads converts pads to the interface slice the engines take.
func Pads(pads ...*Pad) []input.Gamepad {
	out := make([]input.Gamepad, len(pads))
	for i, p := range pads {
		out[i] = p
	}
	return out
}

// Provider replays queued events over a fixed set of pads.
type Provider struct {
	Events []input.Event
	Live   []*Pad
}

// NextEvent implements input.Provider.
func (p *Provider) NextEvent() (input.Event, bool) {
	if len(p.Events) == 0 {
		return input.Event{}, false
	}
	ev := p.Events[0]
	p.Events = p.Events[1:]
	return ev, true
}

// Gamepads implements input.Provider.
func (p *Provider) Gamepads() []input.Gamepad {
	return Pads(p.Live...)
}
