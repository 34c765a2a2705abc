package backoff

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAttemptStarted EventType = "attempt_started"
	EventAttemptFailed  EventType = "attempt_failed"
	EventRetryScheduled EventType = "retry_scheduled"
	EventRecovered      EventType = "recovered"
	EventExhausted      EventType = "exhausted"
	EventCancelled      EventType = "cancelled"
)

// Event describes one step of an execution. Every Execute call gets its own
// execution ID so overlapping calls can be told apart by a listener.
type Event struct {
	Type        EventType      `json:"type"`
	ExecutionID string         `json:"execution_id"`
	Timestamp   time.Time      `json:"timestamp"`
	Data        map[string]any `json:"data,omitempty"`
}

// Events returns the event channel for external listeners
func (e *Executor) Events() <-chan *Event {
	return e.eventChan
}

// emitEvent sends an event to the event channel (non-blocking)
func (e *Executor) emitEvent(eventType EventType, executionID uuid.UUID, data map[string]any) {
	event := &Event{
		Type:        eventType,
		ExecutionID: executionID.String(),
		Timestamp:   e.clock.Now(),
		Data:        data,
	}

	select {
	case e.eventChan <- event:
		// Event sent successfully
	default:
		// Channel full, drop event to avoid blocking
	}
}
