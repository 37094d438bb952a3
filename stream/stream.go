// Package stream delivers the ordered event feed of one workflow run to
// its caller. A Stream is a single-producer, single-consumer channel of
// envelope events; the producer blocks when the consumer falls behind,
// so events are never dropped or reordered. The last event of every run
// is a "done" event (or an approval-carrying done event), after which
// the stream closes.
package stream

import (
	"encoding/json"
	"time"
)

// DefaultBufferSize is the default per-stream event buffer.
const DefaultBufferSize = 64

// EventName identifies the kind of event on a workflow stream.
type EventName string

const (
	// EventWorkflowStep is a step progress notification.
	EventWorkflowStep EventName = "workflow_step"
	// EventDone is the terminal event of a run call. It carries either a
	// final reply or an approval request block.
	EventDone EventName = "done"
)

// Event is the envelope sent to the stream consumer.
type Event struct {
	// Name identifies the event kind.
	Name EventName `json:"event"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"ts"`

	// Data is the event-specific payload.
	Data json.RawMessage `json:"data"`
}

// Stream is the ordered event feed of one workflow run call.
type Stream struct {
	ch chan *Event
}

// New creates a Stream with the given buffer size. A size of zero or
// less uses DefaultBufferSize.
func New(bufferSize int) *Stream {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Stream{ch: make(chan *Event, bufferSize)}
}

// C returns the read-only event channel. It is closed after the
// terminal event has been delivered.
func (s *Stream) C() <-chan *Event { return s.ch }

// Emit delivers an event to the consumer, blocking if the buffer is
// full. Called only by the producing run goroutine.
func (s *Stream) Emit(name EventName, payload any) {
	s.ch <- &Event{
		Name:      name,
		Timestamp: time.Now().UTC(),
		Data:      mustMarshal(payload),
	}
}

// Close closes the stream. Called exactly once by the producer after
// the terminal event.
func (s *Stream) Close() { close(s.ch) }

// Collect drains the stream into a slice. Intended for tests and
// non-interactive callers that don't need incremental delivery.
func (s *Stream) Collect() []*Event {
	var events []*Event
	for evt := range s.ch {
		events = append(events, evt)
	}
	return events
}

// mustMarshal marshals data to JSON, panicking on error (programming error).
func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("stream: marshal event data: " + err.Error())
	}
	return data
}
