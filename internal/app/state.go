package service

import (
	"github.com/okian/mjoy/internal/domain/binding"
	"github.com/okian/mjoy/internal/domain/feedback"
	"github.com/okian/mjoy/internal/domain/model"
)

// State names the engine the loop runs each tick.
type State int

// Session states. Transitions between them are driven by operator commands.
const (
	StateBinding State = iota
	StateTeamSelect
	StateGameActive
)

func (s State) String() string {
	switch s {
	case StateBinding:
		return "binding"
	case StateTeamSelect:
		return "team_select"
	case StateGameActive:
		return "game_active"
	default:
		return "unknown"
	}
}

// phase carries the data only one state needs.
type phase interface {
	state() State
}

type bindingPhase struct {
	binder *binding.Binder
}

func (*bindingPhase) state() State { return StateBinding }

type teamSelectPhase struct{}

func (*teamSelectPhase) state() State { return StateTeamSelect }

type gameActivePhase struct {
	threshold *feedback.Threshold
	info      model.FeedbackInfo
}

func (*gameActivePhase) state() State { return StateGameActive }
