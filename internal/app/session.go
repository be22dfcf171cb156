// Package service runs the session loop: it owns the binding table and the
// team roster, and each tick lends them to the engine selected by the
// current state.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/mjoy/internal/domain/binding"
	"github.com/okian/mjoy/internal/domain/feedback"
	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/internal/domain/model"
	"github.com/okian/mjoy/internal/domain/teams"
	"github.com/okian/mjoy/pkg/logger"
	"github.com/okian/mjoy/pkg/metrics"
)

const (
	defaultPollInterval = 5 * time.Millisecond
	defaultNameWidth    = 15
)

// Resolver rebuilds device lookups from the device tree.
type Resolver interface {
	RebuildEventLookup(ctx context.Context) (model.EventPathLookup, error)
	MergeInto(ctx context.Context, mpl model.MinimalPathLookup) (int, error)
}

// BindingsStore persists the minimal path table.
type BindingsStore interface {
	Load(ctx context.Context) (model.MinimalPathLookup, error)
	Save(ctx context.Context, mpl model.MinimalPathLookup) error
}

// LockStore persists the team roster.
type LockStore interface {
	Load(ctx context.Context) model.TeamLock
	Save(ctx context.Context, lock model.TeamLock) error
}

// CommandSource yields pending operator commands without blocking.
type CommandSource interface {
	TryDequeue(ctx context.Context) (model.Command, bool)
}

// Session is the single owner of the lookups, the roster and the engine state.
// Start, Step and Run must be called from one goroutine; the snapshot
// accessors are safe to call from any goroutine.
type Session struct {
	provider input.Provider
	resolver Resolver
	bindings BindingsStore
	locks    LockStore
	commands CommandSource

	loadNames     binding.NamesLoader
	teams         *teams.Engine
	feedback      *feedback.Builder
	binderOpts    []binding.Option
	thresholdOpts []feedback.ThresholdOption

	pollInterval time.Duration
	nameWidth    int
	out          io.Writer
	now          func() time.Time

	// Loop-owned state.
	epl   model.EventPathLookup
	mpl   model.MinimalPathLookup
	lock  model.TeamLock
	phase phase
	ticks atomic.Uint64

	id      string
	started time.Time

	mu   sync.RWMutex
	snap snapshot

	logger logger.Logger
}

// New constructs a Session. Start must succeed before Step or Run.
func New(provider input.Provider, resolver Resolver, bindings BindingsStore, locks LockStore, opts ...Option) *Session {
	s := &Session{
		provider:     provider,
		resolver:     resolver,
		bindings:     bindings,
		locks:        locks,
		loadNames:    func() ([]string, error) { return nil, nil },
		pollInterval: defaultPollInterval,
		nameWidth:    defaultNameWidth,
		out:          os.Stdout,
		now:          time.Now,
		id:           uuid.NewString(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("session")
	}
	s.logger = s.logger.With(logger.String("session_id", s.id))
	if s.teams == nil {
		s.teams = teams.New()
	}
	if s.feedback == nil {
		s.feedback = feedback.New()
	}
	return s
}

// ID returns the session identifier used in logs and stats.
func (s *Session) ID() string { return s.id }

// State returns the current state. Only the loop goroutine may call it.
func (s *Session) State() State {
	if s.phase == nil {
		return StateBinding
	}
	return s.phase.state()
}

// Start loads the persisted tables, merges discovered devices, prunes players
// without a controller and enters Binding.
func (s *Session) Start(ctx context.Context) error {
	s.started = s.now()

	mpl, err := s.bindings.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}
	s.mpl = mpl

	added, err := s.resolver.MergeInto(ctx, s.mpl)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}
	s.logger.Info(ctx, "controllers loaded",
		logger.Int("known", len(s.mpl)),
		logger.Int("discovered", added),
		logger.Int("bound", s.mpl.BoundCount()),
	)
	s.saveBindings(ctx)
	s.printNames()
	metrics.UpdateBoundControllers(s.mpl.BoundCount())

	s.lock = s.locks.Load(ctx)
	if missing := s.lock.Prune(s.mpl.HasName); len(missing) > 0 {
		s.logger.Warn(ctx, "missing players, removing", logger.Strings("players", missing))
		metrics.RecordPlayersPruned(len(missing))
	}
	s.saveLock(ctx)
	s.updateTeamGauges()

	s.epl, err = s.resolver.RebuildEventLookup(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}

	s.enter(ctx, &bindingPhase{binder: s.newBinder()})
	return nil
}

// Run ticks until ctx is cancelled or an engine fails. It sleeps for the
// poll interval whenever a tick found nothing pending.
func (s *Session) Run(ctx context.Context) error {
	if s.phase == nil {
		return ErrNotStarted
	}
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		if ctx.Err() != nil {
			return nil
		}
		busy, err := s.Step(ctx)
		if err != nil {
			return err
		}
		if busy {
			continue
		}
		timer.Reset(s.pollInterval)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}

// Step runs one loop iteration: apply at most one operator command, consume
// at most one hardware event, and only when no event was pending run the
// engine for the current state. busy reports that a command or event was
// consumed. The snapshot is republished only when a command, a hotplug
// rebuild or the engine changed something.
func (s *Session) Step(ctx context.Context) (busy bool, err error) {
	if s.phase == nil {
		return false, ErrNotStarted
	}

	if s.commands != nil {
		if cmd, ok := s.commands.TryDequeue(ctx); ok {
			s.apply(ctx, cmd)
			busy = true
		}
	}

	if ev, ok := s.provider.NextEvent(); ok {
		metrics.RecordHardwareEvent(ev.Kind.String())
		if ev.Kind == input.Connected || ev.Kind == input.Disconnected {
			s.logger.Info(ctx, "controller hotplug",
				logger.String("event", ev.Kind.String()),
				logger.String("devpath", ev.DevPath),
			)
			if err := s.rebuild(ctx); err != nil {
				return true, err
			}
			s.publish()
		}
		return true, nil
	}

	changed, err := s.tick(ctx)
	if err != nil {
		return busy, err
	}
	s.ticks.Add(1)
	metrics.RecordTick(s.phase.state().String())
	if changed {
		s.publish()
	}
	return busy, nil
}

// rebuild refreshes the event lookup and adds newly attached controllers.
func (s *Session) rebuild(ctx context.Context) error {
	epl, err := s.resolver.RebuildEventLookup(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRebuild, err)
	}
	s.epl = epl

	added, err := s.resolver.MergeInto(ctx, s.mpl)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRebuild, err)
	}
	if added > 0 {
		s.logger.Info(ctx, "new controllers discovered", logger.Int("added", added))
		s.saveBindings(ctx)
	}
	metrics.RecordPathRebuild()
	return nil
}

// tick runs the engine for the current state and reports whether anything
// visible in the snapshot changed.
func (s *Session) tick(ctx context.Context) (bool, error) {
	pads := s.provider.Gamepads()

	switch p := s.phase.(type) {
	case *bindingPhase:
		status := p.binder.Status()
		candidate, _ := p.binder.Candidate()
		res, err := p.binder.Tick(ctx, pads, s.epl, s.mpl)
		if err != nil {
			return false, err
		}
		if res.Outcome == binding.Claimed {
			s.saveBindings(ctx)
		}
		next, _ := p.binder.Candidate()
		return res.Outcome != binding.Waiting || res.Status != status || next != candidate, nil

	case *teamSelectPhase:
		next, changed := s.teams.Tick(ctx, s.lock, pads, s.epl, s.mpl)
		if !changed || next.Equal(s.lock) {
			return false, nil
		}
		s.lock = next
		s.saveLock(ctx)
		s.updateTeamGauges()
		return true, nil

	case *gameActivePhase:
		p.info = s.feedback.Build(s.lock, pads, s.epl, s.mpl, p.threshold.Value())
		if v, changed := p.threshold.Update(); changed {
			metrics.UpdateButtonThreshold(v)
			s.logger.Debug(ctx, "button threshold changed",
				logger.Float64("threshold", v),
				logger.Duration("next_in", p.threshold.NextChange().Sub(s.now())),
			)
		}
		return true, nil
	}
	return false, nil
}

// apply handles an operator command.
func (s *Session) apply(ctx context.Context, cmd model.Command) {
	metrics.RecordCommand(cmd.Kind.String())

	switch cmd.Kind {
	case model.CommandSetup:
		s.enter(ctx, &bindingPhase{binder: s.newBinder()})

	case model.CommandTeams:
		if cmd.Teams < 1 {
			s.logger.Warn(ctx, "ignoring teams command", logger.Int("teams", cmd.Teams))
			return
		}
		s.lock.Resize(cmd.Teams)
		metrics.RecordTeamMutation("resize")
		s.saveLock(ctx)
		s.updateTeamGauges()
		s.enter(ctx, &teamSelectPhase{})

	case model.CommandStart:
		th := feedback.NewThreshold(s.thresholdOpts...)
		metrics.UpdateButtonThreshold(th.Value())
		s.enter(ctx, &gameActivePhase{
			threshold: th,
			info:      s.feedback.Empty(s.lock, th.Value()),
		})

	default:
		s.logger.Warn(ctx, "unknown command", logger.Int("kind", int(cmd.Kind)))
	}
}

func (s *Session) enter(ctx context.Context, p phase) {
	s.phase = p
	metrics.RecordStateChange(p.state().String())
	s.logger.Info(ctx, "state changed", logger.String("state", p.state().String()))
	s.publish()
}

func (s *Session) newBinder() *binding.Binder {
	return binding.New(s.loadNames, s.binderOpts...)
}

// saveBindings persists the table. A failed write is logged and retried on
// the next mutation.
func (s *Session) saveBindings(ctx context.Context) {
	if err := s.bindings.Save(ctx, s.mpl); err != nil {
		metrics.RecordErrorByComponent("session", "save_bindings")
		s.logger.Error(ctx, "failed to save bindings", logger.Error(err))
	}
}

func (s *Session) saveLock(ctx context.Context) {
	if err := s.locks.Save(ctx, s.lock); err != nil {
		metrics.RecordErrorByComponent("session", "save_lock")
		s.logger.Error(ctx, "failed to save team lock", logger.Error(err))
	}
}

func (s *Session) updateTeamGauges() {
	metrics.ResetTeamPlayers()
	for _, t := range s.lock.Teams {
		metrics.UpdateTeamPlayers(t.Name, len(t.Players))
	}
}

// printNames writes the name table, highest minimal path first.
func (s *Session) printNames() {
	rows := s.mpl.Sorted()
	slices.Reverse(rows)
	for _, np := range rows {
		name := np.Name()
		if !np.Bound() {
			name = "None"
		}
		fmt.Fprintf(s.out, "%-*s -> %-20s\n", s.nameWidth, name, np.MinimalPath)
	}
}
