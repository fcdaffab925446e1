package decision

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cortexkit/cortex/pck/perception"
)

// ErrInvalidConfig is returned by NewRouter when an activity weight is
// outside its valid domain. It is never returned mid-operation.
var ErrInvalidConfig = errors.New("invalid router configuration")

// Handler turns the selected event into the action to take. Handlers are
// registered per event source and invoked synchronously.
type Handler interface {
	Handle(event perception.Event) (Action, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(event perception.Event) (Action, error)

func (f HandlerFunc) Handle(event perception.Event) (Action, error) {
	return f(event)
}

// Activity is one entry in the idle behavior pool. Weight is proportional
// to selection probability and must be positive.
type Activity struct {
	Name        string
	Description string
	Weight      float64
}

func DefaultActivities() []Activity {
	return []Activity{
		{Name: "memory_review", Description: "Review and consolidate memories", Weight: 2.0},
		{Name: "research", Description: "Research topics of interest", Weight: 2.0},
		{Name: "write_notes", Description: "Write observations to notes", Weight: 1.0},
		{Name: "daily_summary", Description: "Generate daily event summary", Weight: 1.0},
		{Name: "idle", Description: "Rest (do nothing)", Weight: 0.5},
	}
}

// Router selects exactly one Action per decision cycle: the handler (or a
// generic notice) for the highest-priority event, or a weighted random
// idle activity when no events are pending. The router keeps no state
// between calls; its only mutable member is the random source, which is
// guarded so Decide may be called concurrently.
type Router struct {
	activities  []Activity
	totalWeight float64
	handlers    map[string]Handler

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRouter builds a router from an idle activity pool and a random
// source. A nil activities slice selects DefaultActivities; an explicitly
// empty slice disables idle activities (Decide falls back to a built-in
// idle action). A nil rng gets a time-seeded source; inject a seeded one
// for deterministic replay.
func NewRouter(activities []Activity, rng *rand.Rand) (*Router, error) {
	if activities == nil {
		activities = DefaultActivities()
	}
	total := 0.0
	for _, a := range activities {
		if a.Weight <= 0 {
			return nil, fmt.Errorf("%w: activity %q has weight %v", ErrInvalidConfig, a.Name, a.Weight)
		}
		total += a.Weight
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Router{
		activities:  activities,
		totalWeight: total,
		handlers:    make(map[string]Handler),
		rng:         rng,
	}, nil
}

// RegisterHandler binds a handler to an event source identifier. The
// registry is keyed by Event.Source. Registration is intended for wiring
// at construction time, before the polling loop starts.
func (r *Router) RegisterHandler(source string, handler Handler) {
	r.handlers[source] = handler
}

// Decide chooses the single next action for a batch of surviving events.
// With an empty batch it draws an idle activity; otherwise it picks the
// event with the strictly highest priority (ties broken by input order)
// and dispatches to that source's handler, falling back to a generic
// notice action. A handler failure never propagates: it is converted to
// an "error" action carrying the failure reason.
func (r *Router) Decide(events []perception.Event) Action {
	if len(events) == 0 {
		return r.chooseActivity()
	}

	top := events[0]
	for _, e := range events[1:] {
		if e.Priority > top.Priority {
			top = e
		}
	}

	handler, ok := r.handlers[top.Source]
	if !ok {
		return Action{
			Name:        "notice",
			Description: fmt.Sprintf("Notice event from %s: %s", top.Source, truncate(top.Content, 80)),
		}
	}
	return r.invoke(handler, top)
}

func (r *Router) invoke(handler Handler, event perception.Event) (action Action) {
	defer func() {
		if rec := recover(); rec != nil {
			action = errorAction(event, fmt.Sprint(rec))
		}
	}()
	action, err := handler.Handle(event)
	if err != nil {
		return errorAction(event, err.Error())
	}
	return action
}

func errorAction(event perception.Event, reason string) Action {
	return Action{
		Name:        "error",
		Description: fmt.Sprintf("Handler for %s failed: %s", event.Source, reason),
	}
}

func (r *Router) chooseActivity() Action {
	if len(r.activities) == 0 {
		return Action{Name: "idle", Description: "Rest (do nothing)"}
	}

	r.mu.Lock()
	pick := r.rng.Float64() * r.totalWeight
	r.mu.Unlock()

	for _, a := range r.activities {
		pick -= a.Weight
		if pick < 0 {
			return Action{Name: a.Name, Description: a.Description}
		}
	}
	// Float rounding can leave pick at exactly zero; the last entry wins.
	last := r.activities[len(r.activities)-1]
	return Action{Name: last.Name, Description: last.Description}
}

// truncate cuts on rune boundaries so multi-byte content never ends up
// split mid-sequence in a description.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
