// Package teams lets named controllers join, leave and move between teams.
package teams

import (
	"context"

	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/internal/domain/model"
	"github.com/okian/mjoy/pkg/logger"
	"github.com/okian/mjoy/pkg/metrics"
)

// Engine applies one tick of controller input to a roster.
type Engine struct {
	adjacency Adjacency
	logger    logger.Logger
}

// New returns an Engine using the 2x2 grid.
func New(opts ...Option) *Engine {
	e := &Engine{adjacency: Grid2x2}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("teams")
	}
	return e
}

// Tick returns the roster after applying every live controller's input, and
// whether anything changed. lock is not modified.
//
// Controllers are handled in order, so a later controller sees the moves of an
// earlier one. Controllers without a bound name are ignored.
func (e *Engine) Tick(
	ctx context.Context,
	lock model.TeamLock,
	pads []input.Gamepad,
	epl model.EventPathLookup,
	mpl model.MinimalPathLookup,
) (model.TeamLock, bool) {
	next := lock.Clone()
	changed := false

	for _, pad := range pads {
		np, ok := mpl.Resolve(epl, pad.DevPath())
		if !ok || !np.Bound() {
			continue
		}
		if e.apply(ctx, &next, np.Name(), pad) {
			changed = true
		}
	}
	return next, changed
}

func (e *Engine) apply(ctx context.Context, lock *model.TeamLock, player string, pad input.Gamepad) bool {
	current, assigned := lock.TeamOf(player)

	if input.Pressed(pad, input.Decline) {
		if assigned {
			lock.Remove(player)
			metrics.RecordTeamMutation("leave")
			e.logger.Info(ctx, "player left team",
				logger.String("player", player),
				logger.String("team", lock.Teams[current].Name),
			)
		}
		return true
	}

	if !assigned {
		if !input.Pressed(pad, input.Accept) {
			return false
		}
		if !lock.Add(0, player) {
			e.logger.Warn(ctx, "no team to join", logger.String("player", player))
			return false
		}
		metrics.RecordTeamMutation("join")
		e.logger.Info(ctx, "player joined team",
			logger.String("player", player),
			logger.String("team", lock.Teams[0].Name),
		)
		return true
	}

	dest, ok := e.adjacency(current, input.Direction(pad, input.Horizontal), input.Direction(pad, input.Vertical))
	if !ok || dest == current || dest < 0 || dest >= len(lock.Teams) {
		return false
	}
	lock.Add(dest, player)
	metrics.RecordTeamMutation("move")
	e.logger.Debug(ctx, "player moved",
		logger.String("player", player),
		logger.String("from", lock.Teams[current].Name),
		logger.String("to", lock.Teams[dest].Name),
	)
	return true
}
