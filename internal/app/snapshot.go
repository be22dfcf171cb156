package service

import (
	"github.com/okian/mjoy/internal/domain/model"
)

// snapshot is a read-only copy of loop state for other goroutines.
type snapshot struct {
	state          State
	bindings       []model.NamedPath
	boundCount     int
	roster         model.TeamLock
	feedback       *model.FeedbackInfo
	namesRemaining int
	candidate      string
	threshold      float64
	connected      int
}

// publish copies the loop-owned state into the shared snapshot.
func (s *Session) publish() {
	next := snapshot{
		state:      s.phase.state(),
		bindings:   s.mpl.Sorted(),
		boundCount: s.mpl.BoundCount(),
		roster:     s.lock.Clone(),
		connected:  len(s.provider.Gamepads()),
	}

	switch p := s.phase.(type) {
	case *bindingPhase:
		next.namesRemaining = len(p.binder.Remaining())
		next.candidate, _ = p.binder.Candidate()
	case *gameActivePhase:
		info := cloneFeedback(p.info)
		next.feedback = &info
		next.threshold = p.threshold.Value()
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
}

// Stats returns session counters for the status endpoint.
func (s *Session) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"session_id":         s.id,
		"state":              s.snap.state.String(),
		"uptime_seconds":     s.now().Sub(s.started).Seconds(),
		"names_remaining":    s.snap.namesRemaining,
		"candidate":          s.snap.candidate,
		"bound_controllers":  s.snap.boundCount,
		"known_controllers":  len(s.snap.bindings),
		"connected_gamepads": s.snap.connected,
		"teams":              len(s.snap.roster.Teams),
		"players":            s.snap.roster.PlayerCount(),
		"button_threshold":   s.snap.threshold,
		"ticks":              s.ticks.Load(),
	}
}

// Roster returns the last published team roster.
func (s *Session) Roster() model.TeamLock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.roster.Clone()
}

// Bindings returns the last published controller table ordered by minimal path.
func (s *Session) Bindings() []model.NamedPath {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.NamedPath, len(s.snap.bindings))
	copy(out, s.snap.bindings)
	return out
}

// Feedback returns the GameActive indicators. ok is false in other states.
func (s *Session) Feedback() (model.FeedbackInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.feedback == nil {
		return model.FeedbackInfo{}, false
	}
	return cloneFeedback(*s.snap.feedback), true
}

func cloneFeedback(in model.FeedbackInfo) model.FeedbackInfo {
	out := model.FeedbackInfo{Threshold: in.Threshold, Teams: make([]model.TeamFeedback, len(in.Teams))}
	for i, t := range in.Teams {
		tf := model.TeamFeedback{
			Team:     t.Team,
			Players:  make([]model.PlayerFeedback, len(t.Players)),
			Feedback: append([]model.ButtonPress(nil), t.Feedback...),
		}
		for j, p := range t.Players {
			tf.Players[j] = model.PlayerFeedback{
				Player:   p.Player,
				Feedback: append([]model.ButtonPress(nil), p.Feedback...),
			}
		}
		out.Teams[i] = tf
	}
	return out
}
