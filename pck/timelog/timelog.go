// Package timelog records task start/end times and checkpoints, so an
// agent keeps accurate time perception across long autonomous sessions.
package timelog

import (
	"encoding/json"
	"os"
	"time"
)

type Checkpoint struct {
	At         time.Time `json:"at"`
	ElapsedMin int       `json:"elapsed_min"`
	Note       string    `json:"note"`
}

// Entry is one line of the persistent timing journal.
type Entry struct {
	Type        string    `json:"type"` // "start" or "end"
	Task        string    `json:"task"`
	At          time.Time `json:"at"`
	ElapsedMin  int       `json:"elapsed_min,omitempty"`
	Checkpoints int       `json:"checkpoints,omitempty"`
	Note        string    `json:"note,omitempty"`
}

type currentTask struct {
	Name        string       `json:"name"`
	Started     time.Time    `json:"started"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

// TaskSummary is returned by EndTask and Checkpoint.
type TaskSummary struct {
	Task        string
	ElapsedMin  int
	Checkpoints int
	Note        string
}

// Status snapshots the log for display.
type Status struct {
	CurrentTime   time.Time
	CurrentTask   string
	TaskStarted   time.Time
	TaskElapsed   int
	RecentEntries []Entry
}

const recentLimit = 5

// Log tracks one current task plus a journal of past entries, persisted
// as a single JSON document.
type Log struct {
	path string
	now  func() time.Time

	current *currentTask
	entries []Entry
}

// New loads prior state from path when present. An empty path disables
// persistence.
func New(path string) *Log {
	l := &Log{path: path, now: time.Now}
	l.load()
	return l
}

// WithClock replaces the time source. Intended for tests.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// StartTask begins timing a task, auto-ending any task still running.
func (l *Log) StartTask(name string) TaskSummary {
	now := l.now()
	if l.current != nil {
		l.EndTask("(auto-ended)")
	}
	l.current = &currentTask{Name: name, Started: now}
	l.entries = append(l.entries, Entry{Type: "start", Task: name, At: now})
	l.save()
	return TaskSummary{Task: name}
}

// Checkpoint records a note against the running task. The second return
// is false when no task is running.
func (l *Log) Checkpoint(note string) (TaskSummary, bool) {
	if l.current == nil {
		return TaskSummary{}, false
	}
	now := l.now()
	elapsed := elapsedMinutes(l.current.Started, now)
	l.current.Checkpoints = append(l.current.Checkpoints, Checkpoint{
		At:         now,
		ElapsedMin: elapsed,
		Note:       note,
	})
	l.save()
	return TaskSummary{
		Task:        l.current.Name,
		ElapsedMin:  elapsed,
		Checkpoints: len(l.current.Checkpoints),
		Note:        note,
	}, true
}

// EndTask closes the running task and journals its duration. The second
// return is false when no task is running.
func (l *Log) EndTask(note string) (TaskSummary, bool) {
	if l.current == nil {
		return TaskSummary{}, false
	}
	now := l.now()
	elapsed := elapsedMinutes(l.current.Started, now)
	summary := TaskSummary{
		Task:        l.current.Name,
		ElapsedMin:  elapsed,
		Checkpoints: len(l.current.Checkpoints),
		Note:        note,
	}
	l.entries = append(l.entries, Entry{
		Type:        "end",
		Task:        summary.Task,
		At:          now,
		ElapsedMin:  elapsed,
		Checkpoints: summary.Checkpoints,
		Note:        note,
	})
	l.current = nil
	l.save()
	return summary, true
}

// Status returns the running task (if any) and the most recent entries.
func (l *Log) Status() Status {
	now := l.now()
	status := Status{CurrentTime: now}
	if n := len(l.entries); n > recentLimit {
		status.RecentEntries = l.entries[n-recentLimit:]
	} else {
		status.RecentEntries = l.entries
	}
	if l.current != nil {
		status.CurrentTask = l.current.Name
		status.TaskStarted = l.current.Started
		status.TaskElapsed = elapsedMinutes(l.current.Started, now)
	}
	return status
}

func elapsedMinutes(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}

type persisted struct {
	Entries     []Entry      `json:"entries"`
	CurrentTask *currentTask `json:"current_task"`
}

func (l *Log) load() {
	if l.path == "" {
		return
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return
	}
	var state persisted
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}
	l.entries = state.Entries
	l.current = state.CurrentTask
}

func (l *Log) save() {
	if l.path == "" {
		return
	}
	data, err := json.MarshalIndent(persisted{Entries: l.entries, CurrentTask: l.current}, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(l.path, data, 0o644)
}
