// Package cortex wires the perception pipeline together: poll every
// registered source, pass each stimulus through the attention filter,
// and route the surviving batch to exactly one action per cycle.
package cortex

import (
	"go.uber.org/zap"

	"github.com/cortexkit/cortex/pck/attention"
	"github.com/cortexkit/cortex/pck/decision"
	"github.com/cortexkit/cortex/pck/perception"
)

// Runtime is the caller-driven polling loop. It schedules nothing by
// itself: the caller invokes Cycle at whatever cadence it wants.
type Runtime struct {
	filter  *attention.Filter
	router  *decision.Router
	log     *zap.Logger
	sources []perception.Source
}

func NewRuntime(filter *attention.Filter, router *decision.Router, log *zap.Logger) *Runtime {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runtime{filter: filter, router: router, log: log}
}

// AddSource registers a pollable source. Intended for wiring before the
// loop starts.
func (r *Runtime) AddSource(source perception.Source) {
	r.sources = append(r.sources, source)
}

// Cycle runs one perception cycle and returns the single action decided
// for it. A failing source is logged and skipped, never fatal.
func (r *Runtime) Cycle() decision.Action {
	var surviving []perception.Event

	for _, source := range r.sources {
		events, err := source.Check()
		if err != nil {
			r.log.Warn("source check failed",
				zap.String("source", source.Name()),
				zap.Error(err))
			continue
		}
		for _, event := range events {
			value := event.Magnitude()
			keep, reason := r.filter.ShouldNotify(event.Source, value)
			if keep {
				r.log.Info("stimulus surfaced",
					zap.String("source", event.Source),
					zap.Float64("value", value),
					zap.String("reason", reason))
				surviving = append(surviving, event)
			} else {
				r.log.Debug("stimulus suppressed",
					zap.String("source", event.Source),
					zap.Float64("value", value),
					zap.String("reason", reason))
			}
		}
	}

	action := r.router.Decide(surviving)
	r.log.Info("cycle decided",
		zap.Int("events", len(surviving)),
		zap.String("action", action.Name),
		zap.String("description", action.Description))
	return action
}
