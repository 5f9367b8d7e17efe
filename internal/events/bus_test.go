package events

import (
	"errors"
	"testing"
)

func TestPublishInRegistrationOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(EventPointScored, func(Event) error { got = append(got, "a"); return nil })
	bus.Subscribe(EventPointScored, func(Event) error { got = append(got, "b"); return errors.New("sink down") })
	bus.Subscribe(EventPointScored, func(Event) error { got = append(got, "c"); return nil })
	bus.Subscribe(EventSetFinished, func(Event) error { got = append(got, "set"); return nil })

	bus.Publish(Event{Type: EventPointScored, Payload: PointScored{Index: 1}})

	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected a,b,c despite the failing handler, got %v", got)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	NewBus().Publish(Event{Type: EventMatchFinished})
}
