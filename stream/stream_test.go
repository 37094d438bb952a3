package stream_test

import (
	"testing"

	"github.com/hireflow/hireflow/stream"
)

func TestOrderedDelivery(t *testing.T) {
	s := stream.New(4)

	type payload struct {
		N int `json:"n"`
	}

	go func() {
		for i := 0; i < 10; i++ {
			s.Emit(stream.EventWorkflowStep, payload{N: i})
		}
		s.Emit(stream.EventDone, payload{N: 10})
		s.Close()
	}()

	events := s.Collect()
	if len(events) != 11 {
		t.Fatalf("got %d events, want 11", len(events))
	}
	for i, evt := range events[:10] {
		if evt.Name != stream.EventWorkflowStep {
			t.Errorf("event %d name = %q, want %q", i, evt.Name, stream.EventWorkflowStep)
		}
	}
	last := events[len(events)-1]
	if last.Name != stream.EventDone {
		t.Errorf("last event name = %q, want %q", last.Name, stream.EventDone)
	}
}

func TestBlockingBackpressure(t *testing.T) {
	// Buffer of 1: the producer must block until the consumer reads,
	// and no event may be dropped.
	s := stream.New(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			s.Emit(stream.EventWorkflowStep, i)
		}
		s.Close()
	}()

	count := 0
	for range s.C() {
		count++
	}
	<-done

	if count != 100 {
		t.Errorf("got %d events, want 100", count)
	}
}
