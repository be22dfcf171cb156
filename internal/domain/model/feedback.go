package model

// FeedbackButtons lists the press indicators shown per player, in display order:
// directions, face buttons, shoulders, select (t) and start (e).
var FeedbackButtons = []string{"<", ">", "^", "v", "A", "B", "X", "Y", "L", "R", "t", "e"}

// ButtonPress is the state of one indicator.
type ButtonPress struct {
	Button  string `json:"button"`
	Pressed bool   `json:"pressed"`
}

// PlayerFeedback holds one player's indicators.
type PlayerFeedback struct {
	Player   string        `json:"player"`
	Feedback []ButtonPress `json:"feedback"`
}

// TeamFeedback holds a team's players and the union of their presses.
type TeamFeedback struct {
	Team     string           `json:"team"`
	Players  []PlayerFeedback `json:"players"`
	Feedback []ButtonPress    `json:"feedback"`
}

// FeedbackInfo is the render-ready GameActive snapshot.
type FeedbackInfo struct {
	Threshold float64        `json:"threshold"`
	Teams     []TeamFeedback `json:"teams"`
}

// Unpressed returns a fresh indicator row.
func Unpressed() []ButtonPress {
	out := make([]ButtonPress, len(FeedbackButtons))
	for i, b := range FeedbackButtons {
		out[i] = ButtonPress{Button: b}
	}
	return out
}
