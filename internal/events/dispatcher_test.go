package events

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/grievance-service/internal/domain"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventComplaintCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventComplaintDeleted, func(_ context.Context, e Event) error {
		t.Error("handler for unrelated event type invoked")
		return nil
	})

	event := Event{
		ID:          "evt-1",
		Type:        EventComplaintCreated,
		ComplaintID: "c-1",
		Actor:       Actor{UserID: "u-1", Role: domain.RoleUser},
	}
	if err := d.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if len(got) != 1 || got[0].ComplaintID != "c-1" {
		t.Errorf("got %d events, want 1 for complaint c-1", len(got))
	}
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	invoked := false
	d.Subscribe(EventComplaintStatusChanged, func(context.Context, Event) error {
		return errors.New("webhook down")
	})
	d.Subscribe(EventComplaintStatusChanged, func(context.Context, Event) error {
		invoked = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintStatusChanged})
	if err == nil {
		t.Error("expected joined handler error")
	}
	if !invoked {
		t.Error("second handler skipped after first failed")
	}
}
