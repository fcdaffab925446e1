package attention

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidConfig is returned by NewFilter when a parameter is outside
// its valid domain. It is never returned mid-operation.
var ErrInvalidConfig = errors.New("invalid filter configuration")

// Params configure a Filter. They are immutable for the lifetime of the
// filter instance.
//
//   - Cooldown: minimum gap between two notifications from one source.
//   - Window: sliding window for habituation counting.
//   - HabituateCount: detections within Window that mark a source habituated.
//   - HabituatedMult: threshold multiplier while habituated.
//   - OrientingMult: multiplier above which a stimulus always notifies.
//   - BaseThreshold: detection threshold in the un-habituated state.
type Params struct {
	Cooldown       time.Duration
	Window         time.Duration
	HabituateCount int
	HabituatedMult float64
	OrientingMult  float64
	BaseThreshold  float64
}

func DefaultParams() Params {
	return Params{
		Cooldown:       60 * time.Second,
		Window:         300 * time.Second,
		HabituateCount: 3,
		HabituatedMult: 2.0,
		OrientingMult:  2.0,
		BaseThreshold:  15.0,
	}
}

func (p Params) validate() error {
	if p.Cooldown < 0 {
		return fmt.Errorf("%w: cooldown %s is negative", ErrInvalidConfig, p.Cooldown)
	}
	if p.Window < 0 {
		return fmt.Errorf("%w: window %s is negative", ErrInvalidConfig, p.Window)
	}
	if p.HabituateCount < 1 {
		return fmt.Errorf("%w: habituate count %d is below 1", ErrInvalidConfig, p.HabituateCount)
	}
	if p.HabituatedMult < 1.0 {
		return fmt.Errorf("%w: habituated multiplier %v is below 1.0", ErrInvalidConfig, p.HabituatedMult)
	}
	if p.OrientingMult < 1.0 {
		return fmt.Errorf("%w: orienting multiplier %v is below 1.0", ErrInvalidConfig, p.OrientingMult)
	}
	return nil
}

type detection struct {
	at    time.Time
	value float64
}

// sourceHistory is the per-source mutable state: detections inside the
// habituation window plus the time of the last successful notification.
type sourceHistory struct {
	detections []detection
	lastNotify time.Time
	notified   bool
}

// Filter decides, per stimulus, whether it is novel enough to surface.
// It models three mechanisms of human attention: habituation (repeated
// stimuli from one source raise its threshold), orienting response
// (abnormally large stimuli always break through), and cooldown (no
// rapid-fire notifications from one source).
//
// Every call mutates the per-source history; identical inputs at
// different times can yield different answers. Histories for different
// sources never interact. The history map is guarded so a single Filter
// may be shared across callers.
type Filter struct {
	params Params
	now    func() time.Time

	mu      sync.Mutex
	history map[string]*sourceHistory
}

func NewFilter(params Params) (*Filter, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Filter{
		params:  params,
		now:     time.Now,
		history: make(map[string]*sourceHistory),
	}, nil
}

// WithClock replaces the time source. Intended for tests and replay.
func (f *Filter) WithClock(now func() time.Time) *Filter {
	f.now = now
	return f
}

// ShouldNotify reports whether a stimulus of the given magnitude from the
// given source should surface, plus a human-readable reason carrying the
// numbers behind the decision.
//
// Rules are evaluated in fixed precedence: orienting response first (it
// must break through even during cooldown), then the cooldown gate, then
// the habituation-adjusted threshold comparison. Only an actual firing
// arms the cooldown timer.
func (f *Filter) ShouldNotify(source string, value float64) (bool, string) {
	now := f.now()

	f.mu.Lock()
	defer f.mu.Unlock()

	h := f.history[source]
	if h == nil {
		h = &sourceHistory{}
		f.history[source] = h
	}

	orienting := f.params.BaseThreshold * f.params.OrientingMult
	if value >= orienting {
		h.lastNotify = now
		h.notified = true
		h.detections = append(h.detections, detection{at: now, value: value})
		return true, fmt.Sprintf("Orienting response (value=%.1f >= %.1f)", value, orienting)
	}

	if h.notified {
		elapsed := now.Sub(h.lastNotify)
		if elapsed < f.params.Cooldown {
			return false, fmt.Sprintf("Cooldown (%.0fs < %.0fs)",
				elapsed.Seconds(), f.params.Cooldown.Seconds())
		}
	}

	// Habituation: the count includes the detection being evaluated.
	cutoff := now.Add(-f.params.Window)
	kept := h.detections[:0]
	for _, d := range h.detections {
		if !d.at.Before(cutoff) {
			kept = append(kept, d)
		}
	}
	h.detections = append(kept, detection{at: now, value: value})

	threshold := f.params.BaseThreshold
	state := "alert"
	if len(h.detections) >= f.params.HabituateCount {
		threshold *= f.params.HabituatedMult
		state = "habituated"
	}

	if value >= threshold {
		h.lastNotify = now
		h.notified = true
		return true, fmt.Sprintf("Motion (%s, value=%.1f >= threshold=%.1f)", state, value, threshold)
	}
	return false, fmt.Sprintf("Below threshold (value=%.1f < threshold=%.1f)", value, threshold)
}

// Reset clears the history for one source, or for every source when the
// source argument is empty.
func (f *Filter) Reset(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if source == "" {
		f.history = make(map[string]*sourceHistory)
		return
	}
	delete(f.history, source)
}

// Sources returns the source identifiers with recorded history.
func (f *Filter) Sources() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.history))
	for source := range f.history {
		out = append(out, source)
	}
	return out
}
