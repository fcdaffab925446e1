// Package scheduler runs registered callbacks on fixed intervals, driven
// by an external polling loop. Inspired by cron but in-process: the
// caller decides when to check, the scheduler decides what is due.
package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Callback is the work a task performs. Failures are converted to data
// in the RunResult, never propagated.
type Callback func() (any, error)

// Task is one registered periodic operation.
type Task struct {
	Name        string
	Interval    time.Duration
	Callback    Callback
	Enabled     bool
	Description string
	LastRun     time.Time
}

// ShouldRun reports whether the task is due. A task that never ran is
// always due.
func (t *Task) ShouldRun(now time.Time) bool {
	if !t.Enabled {
		return false
	}
	if t.LastRun.IsZero() {
		return true
	}
	return now.Sub(t.LastRun) >= t.Interval
}

// TimeUntilNext returns the remaining wait, zero when due.
func (t *Task) TimeUntilNext(now time.Time) time.Duration {
	if t.LastRun.IsZero() {
		return 0
	}
	remaining := t.Interval - now.Sub(t.LastRun)
	if remaining < 0 {
		return 0
	}
	return remaining
}

type RunResult struct {
	Success bool
	Result  any
	Err     string
}

// TaskStatus describes one task for display.
type TaskStatus struct {
	Enabled       bool
	Interval      time.Duration
	IntervalHuman string
	Description   string
	LastRun       time.Time
	NextIn        time.Duration
	NextInHuman   string
}

// Scheduler owns the task registry and persists last-run times as a JSON
// document, so restarts do not re-trigger everything at once.
type Scheduler struct {
	statePath string
	log       *zap.Logger
	now       func() time.Time

	tasks map[string]*Task
	saved map[string]savedTask
}

type savedTask struct {
	LastRun time.Time `json:"last_run"`
	Enabled bool      `json:"enabled"`
}

// New loads prior state from statePath when present. An empty path
// disables persistence; a nil logger disables logging.
func New(statePath string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{
		statePath: statePath,
		log:       log,
		now:       time.Now,
		tasks:     make(map[string]*Task),
		saved:     make(map[string]savedTask),
	}
	s.loadState()
	return s
}

// WithClock replaces the time source. Intended for tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Register adds a periodic task, restoring its persisted last-run time
// when one exists. Registering an existing name replaces the task.
func (s *Scheduler) Register(name string, interval time.Duration, callback Callback, enabled bool, description string) {
	task := &Task{
		Name:        name,
		Interval:    interval,
		Callback:    callback,
		Enabled:     enabled,
		Description: description,
	}
	if saved, ok := s.saved[name]; ok {
		task.LastRun = saved.LastRun
	}
	s.tasks[name] = task
}

func (s *Scheduler) Unregister(name string) bool {
	if _, ok := s.tasks[name]; !ok {
		return false
	}
	delete(s.tasks, name)
	return true
}

func (s *Scheduler) Enable(name string) bool {
	task, ok := s.tasks[name]
	if ok {
		task.Enabled = true
	}
	return ok
}

func (s *Scheduler) Disable(name string) bool {
	task, ok := s.tasks[name]
	if ok {
		task.Enabled = false
	}
	return ok
}

// CheckAndRun executes every due task and returns their results keyed by
// task name. Callback errors and panics become failed results; state is
// persisted when at least one task ran.
func (s *Scheduler) CheckAndRun() map[string]RunResult {
	now := s.now()
	results := make(map[string]RunResult)
	for name, task := range s.tasks {
		if !task.ShouldRun(now) {
			continue
		}
		result := runTask(task)
		if result.Success {
			task.LastRun = now
			s.log.Info("task ran", zap.String("task", name))
		} else {
			s.log.Warn("task failed", zap.String("task", name), zap.String("error", result.Err))
		}
		results[name] = result
	}
	if len(results) > 0 {
		s.saveState()
	}
	return results
}

func runTask(task *Task) (result RunResult) {
	defer func() {
		if r := recover(); r != nil {
			result = RunResult{Err: fmt.Sprint(r)}
		}
	}()
	out, err := task.Callback()
	if err != nil {
		return RunResult{Err: err.Error()}
	}
	return RunResult{Success: true, Result: out}
}

// Status reports every registered task.
func (s *Scheduler) Status() map[string]TaskStatus {
	now := s.now()
	status := make(map[string]TaskStatus, len(s.tasks))
	for name, task := range s.tasks {
		next := task.TimeUntilNext(now)
		status[name] = TaskStatus{
			Enabled:       task.Enabled,
			Interval:      task.Interval,
			IntervalHuman: FormatInterval(task.Interval),
			Description:   task.Description,
			LastRun:       task.LastRun,
			NextIn:        next,
			NextInHuman:   FormatInterval(next),
		}
	}
	return status
}

func (s *Scheduler) loadState() {
	if s.statePath == "" {
		return
	}
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &s.saved); err != nil {
		s.saved = make(map[string]savedTask)
	}
}

func (s *Scheduler) saveState() {
	if s.statePath == "" {
		return
	}
	state := make(map[string]savedTask, len(s.tasks))
	for name, task := range s.tasks {
		state[name] = savedTask{LastRun: task.LastRun, Enabled: task.Enabled}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(s.statePath, data, 0o644); err != nil {
		s.log.Warn("scheduler state not saved", zap.Error(err))
	}
}

// FormatInterval renders a duration the way humans schedule things:
// "45s", "5m", "2h", "2h30m".
func FormatInterval(d time.Duration) string {
	seconds := int(d.Seconds())
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		h := seconds / 3600
		m := (seconds % 3600) / 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
