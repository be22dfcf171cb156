// Package binding implements the workflow that hands candidate names to
// controllers. Each tick the last pending name is offered to every live
// controller; the first accept press claims it.
package binding

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/internal/domain/model"
	"github.com/okian/mjoy/pkg/logger"
	"github.com/okian/mjoy/pkg/metrics"
)

// DefaultCooldown gives players time to release accept before the next name is offered.
const DefaultCooldown = 250 * time.Millisecond

// Status is the binder state.
type Status int

// Binder states. Done is terminal.
const (
	Binding Status = iota
	Done
)

func (s Status) String() string {
	if s == Done {
		return "done"
	}
	return "binding"
}

// Outcome reports what a tick did with the current candidate.
type Outcome int

// Tick outcomes.
const (
	Waiting Outcome = iota // nothing happened, retried next tick
	Claimed                // candidate bound to a controller
	Skipped                // candidate abandoned with decline
)

// Result describes one tick.
type Result struct {
	Status  Status
	Outcome Outcome
	Name    string // candidate affected by a Claimed or Skipped outcome
	Path    string // minimal path that received a Claimed name
}

// NamesLoader returns the candidate names in file order.
type NamesLoader func() ([]string, error)

// Binder owns the candidate worklist. It is not safe for concurrent use.
type Binder struct {
	load        NamesLoader
	names       []string
	loaded      bool
	nextAttempt time.Time
	status      Status
	cooldown    time.Duration
	now         func() time.Time
	logger      logger.Logger
}

// New returns a Binder that loads its worklist lazily on the first tick.
func New(load NamesLoader, opts ...Option) *Binder {
	b := &Binder{
		load:     load,
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("binding")
	}
	return b
}

// Status returns the cached state without ticking.
func (b *Binder) Status() Status { return b.status }

// Remaining returns a copy of the pending names, last offered first.
func (b *Binder) Remaining() []string {
	out := make([]string, 0, len(b.names))
	for i := len(b.names) - 1; i >= 0; i-- {
		out = append(out, b.names[i])
	}
	return out
}

// Candidate returns the name currently on offer.
func (b *Binder) Candidate() (string, bool) {
	if b.status == Done || len(b.names) == 0 {
		return "", false
	}
	return b.names[len(b.names)-1], true
}

// Tick offers the current candidate to pads. mpl is mutated in place on a
// claim; the caller persists it.
func (b *Binder) Tick(
	ctx context.Context,
	pads []input.Gamepad,
	epl model.EventPathLookup,
	mpl model.MinimalPathLookup,
) (Result, error) {
	if b.status == Done {
		return Result{Status: Done}, nil
	}

	if !b.loaded {
		names, err := b.load()
		if err != nil {
			return Result{Status: b.status}, fmt.Errorf("%w: %w", ErrLoadNames, err)
		}
		b.names = names
		b.loaded = true
		metrics.UpdateNamesRemaining(len(b.names))
		b.logger.Info(ctx, "binding worklist loaded", logger.Int("names", len(b.names)))
	}

	if b.now().Before(b.nextAttempt) {
		return Result{Status: b.status}, nil
	}

	candidate, ok := b.Candidate()
	if !ok {
		b.status = Done
		b.logger.Info(ctx, "binding complete", logger.Int("bound", mpl.BoundCount()))
		return Result{Status: Done}, nil
	}

	res := b.attemptClaim(ctx, candidate, pads, epl, mpl)
	if res.Outcome == Waiting {
		return res, nil
	}

	b.names = b.names[:len(b.names)-1]
	b.nextAttempt = b.now().Add(b.cooldown)
	metrics.UpdateNamesRemaining(len(b.names))
	return res, nil
}

// attemptClaim applies the first decline anywhere, else the first accept
// from a resolvable controller.
func (b *Binder) attemptClaim(
	ctx context.Context,
	candidate string,
	pads []input.Gamepad,
	epl model.EventPathLookup,
	mpl model.MinimalPathLookup,
) Result {
	for _, pad := range pads {
		if input.Pressed(pad, input.Decline) {
			metrics.RecordBindingSkipped()
			b.logger.Info(ctx, "candidate skipped",
				logger.String("name", candidate),
				logger.String("devpath", pad.DevPath()),
			)
			return Result{Status: b.status, Outcome: Skipped, Name: candidate}
		}
	}

	for _, pad := range pads {
		if !input.Pressed(pad, input.Accept) {
			continue
		}
		np, ok := mpl.Resolve(epl, pad.DevPath())
		if !ok {
			b.logger.Debug(ctx, "accept from unresolved controller", logger.String("devpath", pad.DevPath()))
			continue
		}
		stolen, _ := mpl.Bind(np.MinimalPath, candidate)
		metrics.RecordBindingClaimed()
		metrics.UpdateBoundControllers(mpl.BoundCount())
		if stolen > 0 {
			metrics.RecordBindingStolen(stolen)
		}
		b.logger.Info(ctx, "name bound",
			logger.String("name", candidate),
			logger.String("minimal_path", np.MinimalPath),
			logger.Int("unbound_elsewhere", stolen),
		)
		return Result{Status: b.status, Outcome: Claimed, Name: candidate, Path: np.MinimalPath}
	}

	return Result{Status: b.status}
}
