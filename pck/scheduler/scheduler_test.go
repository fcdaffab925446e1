package scheduler

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type tickClock struct {
	t time.Time
}

func newTickClock() *tickClock {
	return &tickClock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
}

func (c *tickClock) Now() time.Time {
	return c.t
}

func (c *tickClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestTask_ShouldRun(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	task := &Task{Name: "sync", Interval: time.Minute, Enabled: true}
	require.True(t, task.ShouldRun(now), "never-run task is due")

	task.LastRun = now
	require.False(t, task.ShouldRun(now.Add(30*time.Second)))
	require.True(t, task.ShouldRun(now.Add(time.Minute)))

	task.Enabled = false
	require.False(t, task.ShouldRun(now.Add(time.Hour)))
}

func TestTask_TimeUntilNext(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	task := &Task{Name: "sync", Interval: time.Minute, Enabled: true}

	require.Equal(t, time.Duration(0), task.TimeUntilNext(now))
	task.LastRun = now
	require.Equal(t, 40*time.Second, task.TimeUntilNext(now.Add(20*time.Second)))
	require.Equal(t, time.Duration(0), task.TimeUntilNext(now.Add(2*time.Minute)))
}

func TestCheckAndRun(t *testing.T) {
	clock := newTickClock()
	sched := New("", nil).WithClock(clock.Now)

	runs := 0
	sched.Register("heartbeat", time.Minute, func() (any, error) {
		runs++
		return runs, nil
	}, true, "emit a heartbeat")

	results := sched.CheckAndRun()
	require.Len(t, results, 1)
	require.True(t, results["heartbeat"].Success)
	require.Equal(t, 1, results["heartbeat"].Result)

	// Not due yet.
	clock.Advance(30 * time.Second)
	require.Empty(t, sched.CheckAndRun())

	clock.Advance(30 * time.Second)
	results = sched.CheckAndRun()
	require.Len(t, results, 1)
	require.Equal(t, 2, runs)
}

func TestCheckAndRun_FailureBecomesData(t *testing.T) {
	clock := newTickClock()
	sched := New("", nil).WithClock(clock.Now)

	sched.Register("flaky", time.Minute, func() (any, error) {
		return nil, errors.New("sensor offline")
	}, true, "")
	sched.Register("panicky", time.Minute, func() (any, error) {
		panic("bad state")
	}, true, "")

	results := sched.CheckAndRun()
	require.False(t, results["flaky"].Success)
	require.Equal(t, "sensor offline", results["flaky"].Err)
	require.False(t, results["panicky"].Success)
	require.Equal(t, "bad state", results["panicky"].Err)

	// A failed run does not advance LastRun: the task stays due.
	results = sched.CheckAndRun()
	require.Len(t, results, 2)
}

func TestEnableDisableUnregister(t *testing.T) {
	sched := New("", nil)
	sched.Register("sync", time.Minute, func() (any, error) { return nil, nil }, true, "")

	require.True(t, sched.Disable("sync"))
	require.Empty(t, sched.CheckAndRun())
	require.True(t, sched.Enable("sync"))
	require.Len(t, sched.CheckAndRun(), 1)

	require.True(t, sched.Unregister("sync"))
	require.False(t, sched.Unregister("sync"))
	require.False(t, sched.Enable("missing"))
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "scheduler_state.json")
	clock := newTickClock()

	sched := New(statePath, nil).WithClock(clock.Now)
	sched.Register("sync", time.Hour, func() (any, error) { return nil, nil }, true, "")
	require.Len(t, sched.CheckAndRun(), 1)

	// A fresh scheduler restores the last-run time, so the task is not
	// re-triggered immediately after a restart.
	clock.Advance(time.Minute)
	restarted := New(statePath, nil).WithClock(clock.Now)
	restarted.Register("sync", time.Hour, func() (any, error) { return nil, nil }, true, "")
	require.Empty(t, restarted.CheckAndRun())

	clock.Advance(time.Hour)
	require.Len(t, restarted.CheckAndRun(), 1)
}

func TestStatus(t *testing.T) {
	clock := newTickClock()
	sched := New("", nil).WithClock(clock.Now)
	sched.Register("sync", 90*time.Minute, func() (any, error) { return nil, nil }, true, "sync memories")

	sched.CheckAndRun()
	clock.Advance(30 * time.Minute)

	status := sched.Status()
	require.Len(t, status, 1)
	s := status["sync"]
	require.True(t, s.Enabled)
	require.Equal(t, "1h30m", s.IntervalHuman)
	require.Equal(t, "sync memories", s.Description)
	require.Equal(t, time.Hour, s.NextIn)
	require.Equal(t, "1h", s.NextInHuman)
}

func TestFormatInterval(t *testing.T) {
	require.Equal(t, "45s", FormatInterval(45*time.Second))
	require.Equal(t, "5m", FormatInterval(5*time.Minute))
	require.Equal(t, "2h", FormatInterval(2*time.Hour))
	require.Equal(t, "2h30m", FormatInterval(150*time.Minute))
}
