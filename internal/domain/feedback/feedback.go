// Package feedback builds the per-team press indicators shown while a game is
// running, and owns the drifting activation threshold they are judged against.
package feedback

import (
	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/internal/domain/model"
)

// indicator maps one FeedbackButtons entry to its control and direction.
type indicator struct {
	control input.Control
	sign    int // -1 low end of an axis, +1 high end, 0 button
}

var indicators = []indicator{
	{input.Horizontal, -1}, // <
	{input.Horizontal, 1},  // >
	{input.Vertical, -1},   // ^
	{input.Vertical, 1},    // v
	{input.Accept, 0},      // A
	{input.Decline, 0},     // B
	{input.ButtonX, 0},
	{input.ButtonY, 0},
	{input.ButtonL, 0},
	{input.ButtonR, 0},
	{input.Select, 0}, // t
	{input.Start, 0},  // e
}

// Builder renders FeedbackInfo from live controllers.
type Builder struct {
	hatOnly map[string]struct{}
}

// New returns a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{hatOnly: map[string]struct{}{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Empty returns the feedback layout for lock with nothing pressed.
func (b *Builder) Empty(lock model.TeamLock, threshold float64) model.FeedbackInfo {
	return b.Build(lock, nil, nil, nil, threshold)
}

// Build computes the indicators for every rostered player. Players without a
// connected controller show nothing pressed. A team's row is the union of its
// players' rows.
func (b *Builder) Build(
	lock model.TeamLock,
	pads []input.Gamepad,
	epl model.EventPathLookup,
	mpl model.MinimalPathLookup,
	threshold float64,
) model.FeedbackInfo {
	byPlayer := make(map[string]input.Gamepad, len(pads))
	for _, pad := range pads {
		np, ok := mpl.Resolve(epl, pad.DevPath())
		if !ok || !np.Bound() {
			continue
		}
		byPlayer[np.Name()] = pad
	}

	info := model.FeedbackInfo{Threshold: threshold, Teams: make([]model.TeamFeedback, 0, len(lock.Teams))}
	for _, team := range lock.Teams {
		tf := model.TeamFeedback{
			Team:     team.Name,
			Players:  make([]model.PlayerFeedback, 0, len(team.Players)),
			Feedback: model.Unpressed(),
		}
		for _, player := range team.Players {
			row := model.Unpressed()
			if pad, ok := byPlayer[player]; ok {
				_, hatOnly := b.hatOnly[player]
				b.fill(row, pad, threshold, hatOnly)
			}
			for i := range row {
				tf.Feedback[i].Pressed = tf.Feedback[i].Pressed || row[i].Pressed
			}
			tf.Players = append(tf.Players, model.PlayerFeedback{Player: player, Feedback: row})
		}
		info.Teams = append(info.Teams, tf)
	}
	return info
}

func (b *Builder) fill(row []model.ButtonPress, pad input.Gamepad, threshold float64, hatOnly bool) {
	for i, ind := range indicators {
		if ind.sign == 0 && hatOnly {
			continue
		}
		v, ok := pad.Value(ind.control)
		if !ok {
			continue
		}
		if ind.sign == -1 {
			row[i].Pressed = v < 1-threshold
			continue
		}
		row[i].Pressed = v > threshold
	}
}
