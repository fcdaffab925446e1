// Package circadian maps time-of-day to behavioral modes, inspired by
// human cortisol/melatonin cycles. Each mode carries suggestions,
// recommended activities, and an energy level indicator.
package circadian

import (
	"encoding/json"
	"os"
	"time"
)

type Mode string

const (
	Morning   Mode = "morning"   // 06-12: information gathering
	Afternoon Mode = "afternoon" // 12-18: focused work
	Evening   Mode = "evening"   // 18-24: reflection and review
	Night     Mode = "night"     // 00-06: memory consolidation
)

// ModeForHour maps an hour of day (0-23) to a behavioral mode.
func ModeForHour(hour int) Mode {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 24:
		return Evening
	default:
		return Night
	}
}

type Suggestion struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

type ModeMeta struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	EnergyLevel string `json:"energy_level"`
}

// ModeChange is one entry in the bounded mode transition history.
type ModeChange struct {
	From Mode      `json:"from,omitempty"`
	To   Mode      `json:"to"`
	At   time.Time `json:"at"`
}

// Update is the result of one CheckAndUpdate call.
type Update struct {
	Mode        Mode
	Meta        ModeMeta
	Suggestions []Suggestion
	Activities  []string
	Changed     bool
	OldMode     Mode
}

// Status is a snapshot of the rhythm for display.
type Status struct {
	Mode        Mode
	Meta        ModeMeta
	LastChange  time.Time
	Activities  []string
	Suggestions []Suggestion
}

const historyLimit = 20

// Rhythm tracks the current behavioral mode and persists transitions as a
// single JSON document. Suggestions, activities and metadata are
// injectable; the zero overrides keep the built-in defaults.
type Rhythm struct {
	statePath   string
	suggestions map[Mode][]Suggestion
	activities  map[Mode][]string
	meta        map[Mode]ModeMeta

	current    Mode
	lastChange time.Time
	history    []ModeChange
}

// NewRhythm loads prior state from statePath when present. An empty path
// disables persistence.
func NewRhythm(statePath string) *Rhythm {
	r := &Rhythm{
		statePath:   statePath,
		suggestions: defaultSuggestions(),
		activities:  defaultActivities(),
		meta:        defaultModeMeta(),
	}
	r.loadState()
	return r
}

func (r *Rhythm) WithSuggestions(s map[Mode][]Suggestion) *Rhythm {
	r.suggestions = s
	return r
}

func (r *Rhythm) WithActivities(a map[Mode][]string) *Rhythm {
	r.activities = a
	return r
}

func (r *Rhythm) WithModeMeta(m map[Mode]ModeMeta) *Rhythm {
	r.meta = m
	return r
}

// CheckAndUpdate recomputes the mode for now and records a transition if
// it changed. State is persisted only on transitions.
func (r *Rhythm) CheckAndUpdate(now time.Time) Update {
	mode := ModeForHour(now.Hour())
	update := Update{
		Mode:        mode,
		Meta:        r.meta[mode],
		Suggestions: r.suggestions[mode],
		Activities:  r.activities[mode],
	}

	if r.current != mode {
		update.Changed = true
		update.OldMode = r.current
		r.history = append(r.history, ModeChange{From: r.current, To: mode, At: now})
		if len(r.history) > historyLimit {
			r.history = r.history[len(r.history)-historyLimit:]
		}
		r.current = mode
		r.lastChange = now
		r.saveState()
	}
	return update
}

// CurrentMode returns the mode from the last update, or the empty Mode
// before the first CheckAndUpdate.
func (r *Rhythm) CurrentMode() Mode {
	return r.current
}

func (r *Rhythm) History() []ModeChange {
	return r.history
}

// Status resolves the mode for now (updating if needed) and returns a
// display snapshot.
func (r *Rhythm) Status(now time.Time) Status {
	r.CheckAndUpdate(now)
	return Status{
		Mode:        r.current,
		Meta:        r.meta[r.current],
		LastChange:  r.lastChange,
		Activities:  r.activities[r.current],
		Suggestions: r.suggestions[r.current],
	}
}

type persistedState struct {
	CurrentMode Mode         `json:"current_mode"`
	LastChange  time.Time    `json:"last_mode_change"`
	History     []ModeChange `json:"mode_history"`
	UpdatedAt   time.Time    `json:"last_updated"`
}

func (r *Rhythm) loadState() {
	if r.statePath == "" {
		return
	}
	data, err := os.ReadFile(r.statePath)
	if err != nil {
		return
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}
	r.current = state.CurrentMode
	r.lastChange = state.LastChange
	r.history = state.History
}

func (r *Rhythm) saveState() {
	if r.statePath == "" {
		return
	}
	state := persistedState{
		CurrentMode: r.current,
		LastChange:  r.lastChange,
		History:     r.history,
		UpdatedAt:   time.Now(),
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return
	}
	// Best effort, matching load: a missing data dir only disables persistence.
	_ = os.WriteFile(r.statePath, data, 0o644)
}
