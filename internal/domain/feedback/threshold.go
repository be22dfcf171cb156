package feedback

import (
	"math/rand/v2"
	"time"
)

// Threshold bounds and timing.
const (
	InitialThreshold = 0.9
	MinThreshold     = 0.49
	MaxThreshold     = 0.95

	firstChange = time.Second
	minInterval = 300 * time.Millisecond
	jitterSpan  = 5000 // milliseconds
)

// Threshold is the activation level a press must exceed while a game runs.
// It starts at InitialThreshold and later drifts at random intervals.
type Threshold struct {
	value float64
	next  time.Time
	now   func() time.Time
	rng   *rand.Rand
}

// NewThreshold starts a threshold whose first change is one second away.
func NewThreshold(opts ...ThresholdOption) *Threshold {
	t := &Threshold{
		value: InitialThreshold,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	t.next = t.now().Add(firstChange)
	return t
}

// Value returns the current threshold.
func (t *Threshold) Value() float64 { return t.value }

// NextChange returns when the value will next move.
func (t *Threshold) NextChange() time.Time { return t.next }

// Update moves the threshold when its timer has expired and reports whether
// it did. The next change is scheduled 0.3 to 5.3 seconds later.
func (t *Threshold) Update() (float64, bool) {
	now := t.now()
	if now.Before(t.next) {
		return t.value, false
	}
	t.next = now.Add(minInterval + time.Duration(t.rng.IntN(jitterSpan))*time.Millisecond)
	t.value = min(MinThreshold+t.rng.Float64()*0.61, MaxThreshold)
	return t.value, true
}
