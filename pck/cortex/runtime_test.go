package cortex

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cortexkit/cortex/pck/attention"
	"github.com/cortexkit/cortex/pck/decision"
	"github.com/cortexkit/cortex/pck/perception"
)

// stubSource replays canned batches, one per Check call.
type stubSource struct {
	name    string
	batches [][]perception.Event
	err     error
}

func (s *stubSource) Name() string {
	return s.name
}

func (s *stubSource) Check() ([]perception.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.batches) == 0 {
		return nil, nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func motionEvent(t *testing.T, diff float64) perception.Event {
	t.Helper()
	event, err := perception.NewEvent("camera", perception.Motion, "Motion detected", 7)
	require.NoError(t, err)
	return event.WithRawData("diff_score", diff)
}

func newTestRuntime(t *testing.T) (*Runtime, *attention.Filter) {
	t.Helper()
	params := attention.DefaultParams()
	params.Cooldown = 0
	filter, err := attention.NewFilter(params)
	require.NoError(t, err)
	router, err := decision.NewRouter(nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return NewRuntime(filter, router, nil), filter
}

func TestCycle_SurfacesAndRoutes(t *testing.T) {
	runtime, _ := newTestRuntime(t)
	runtime.AddSource(&stubSource{
		name:    "camera",
		batches: [][]perception.Event{{motionEvent(t, 25.0)}},
	})

	action := runtime.Cycle()
	require.Equal(t, "notice", action.Name)
	require.Contains(t, action.Description, "camera")
}

func TestCycle_SuppressedStimulusFallsToIdleActivity(t *testing.T) {
	runtime, _ := newTestRuntime(t)
	runtime.AddSource(&stubSource{
		name:    "camera",
		batches: [][]perception.Event{{motionEvent(t, 3.0)}},
	})

	action := runtime.Cycle()
	require.NotEqual(t, "notice", action.Name, "below-threshold stimulus must not surface")
	require.NotEmpty(t, action.Name)
}

func TestCycle_SourceErrorIsSkipped(t *testing.T) {
	runtime, _ := newTestRuntime(t)
	runtime.AddSource(&stubSource{name: "broken", err: errors.New("device unplugged")})
	runtime.AddSource(&stubSource{
		name:    "camera",
		batches: [][]perception.Event{{motionEvent(t, 25.0)}},
	})

	action := runtime.Cycle()
	require.Equal(t, "notice", action.Name)
}

func TestCycle_EmptyCycleReturnsActivity(t *testing.T) {
	runtime, _ := newTestRuntime(t)
	action := runtime.Cycle()
	require.NotEmpty(t, action.Name)
	require.NotEqual(t, "notice", action.Name)
}
