package perception

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedEvent is returned when an event is constructed without its
// required fields. Malformed events are rejected here, before they can
// reach the attention filter or the router.
var ErrMalformedEvent = errors.New("malformed event")

type EventType string

const (
	Motion  EventType = "motion"
	Message EventType = "message"
	Sound   EventType = "sound"
	Bump    EventType = "bump"
)

// DefaultPriority is the salience assigned when a source has no opinion.
const DefaultPriority = 5.0

// Event is one observed stimulus. Events are value types: created by a
// source at poll time, consumed by the filter and the router in the same
// cycle, never persisted by this module.
type Event struct {
	ID        uuid.UUID
	Source    string
	Type      EventType
	Content   string
	Author    string
	URL       string
	Priority  float64
	RawData   map[string]any
	Timestamp time.Time
}

// NewEvent validates the required fields and stamps identity and creation
// time. Priority must be positive; higher means more urgent.
func NewEvent(source string, eventType EventType, content string, priority float64) (Event, error) {
	if source == "" {
		return Event{}, fmt.Errorf("%w: source is empty", ErrMalformedEvent)
	}
	if eventType == "" {
		return Event{}, fmt.Errorf("%w: type is empty", ErrMalformedEvent)
	}
	if priority <= 0 {
		return Event{}, fmt.Errorf("%w: priority %v is not positive", ErrMalformedEvent, priority)
	}
	return Event{
		ID:        uuid.New(),
		Source:    source,
		Type:      eventType,
		Content:   content,
		Priority:  priority,
		Timestamp: time.Now(),
	}, nil
}

func (e Event) WithAuthor(author string) Event {
	e.Author = author
	return e
}

func (e Event) WithURL(url string) Event {
	e.URL = url
	return e
}

func (e Event) WithTimestamp(at time.Time) Event {
	e.Timestamp = at
	return e
}

// WithRawData attaches one source-specific measurement. The raw data map
// is copied so that derived events do not alias the original.
func (e Event) WithRawData(key string, value any) Event {
	data := make(map[string]any, len(e.RawData)+1)
	for k, v := range e.RawData {
		data[k] = v
	}
	data[key] = value
	e.RawData = data
	return e
}

// Magnitude is the numeric stimulus strength fed to the attention filter.
// Sources that measure something (e.g. a frame diff score) report it under
// the "diff_score" raw data key; everything else falls back to priority.
func (e Event) Magnitude() float64 {
	if v, ok := e.RawData["diff_score"]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case float32:
			return float64(n)
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return e.Priority
}
