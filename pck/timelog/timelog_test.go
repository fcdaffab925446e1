package timelog

import (
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

func TestStartCheckpointEnd(t *testing.T) {
	clock := newTickClock()
	log := New("").WithClock(clock.Now)

	log.StartTask("calibrate servos")

	clock.Advance(12 * time.Minute)
	cp, ok := log.Checkpoint("left arm done")
	require.True(t, ok)
	require.Equal(t, "calibrate servos", cp.Task)
	require.Equal(t, 12, cp.ElapsedMin)
	require.Equal(t, 1, cp.Checkpoints)

	clock.Advance(8 * time.Minute)
	summary, ok := log.EndTask("all done")
	require.True(t, ok)
	require.Equal(t, 20, summary.ElapsedMin)
	require.Equal(t, 1, summary.Checkpoints)
	require.Equal(t, "all done", summary.Note)
}

func TestCheckpointAndEndWithoutTask(t *testing.T) {
	log := New("")
	_, ok := log.Checkpoint("note")
	require.False(t, ok)
	_, ok = log.EndTask("note")
	require.False(t, ok)
}

func TestStartTaskAutoEndsPrevious(t *testing.T) {
	clock := newTickClock()
	log := New("").WithClock(clock.Now)

	log.StartTask("first")
	clock.Advance(5 * time.Minute)
	log.StartTask("second")

	status := log.Status()
	require.Equal(t, "second", status.CurrentTask)

	// Journal: first start, auto end, second start.
	require.Len(t, status.RecentEntries, 3)
	require.Equal(t, "end", status.RecentEntries[1].Type)
	require.Equal(t, "first", status.RecentEntries[1].Task)
	require.Equal(t, "(auto-ended)", status.RecentEntries[1].Note)
	require.Equal(t, 5, status.RecentEntries[1].ElapsedMin)
}

func TestStatusLimitsRecentEntries(t *testing.T) {
	clock := newTickClock()
	log := New("").WithClock(clock.Now)

	for i := 0; i < 4; i++ {
		log.StartTask("task")
		clock.Advance(time.Minute)
		log.EndTask("")
	}

	status := log.Status()
	require.Len(t, status.RecentEntries, recentLimit)
	require.Empty(t, status.CurrentTask)
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timestamp_log.json")
	clock := newTickClock()

	log := New(path).WithClock(clock.Now)
	log.StartTask("long haul")
	clock.Advance(30 * time.Minute)

	reloaded := New(path).WithClock(clock.Now)
	status := reloaded.Status()
	require.Equal(t, "long haul", status.CurrentTask)
	require.Equal(t, 30, status.TaskElapsed)

	summary, ok := reloaded.EndTask("after restart")
	require.True(t, ok)
	require.Equal(t, 30, summary.ElapsedMin)
}
