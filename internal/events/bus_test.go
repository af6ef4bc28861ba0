package events

import (
	"sync"
	"testing"
	"time"
)

func TestSubscribeReceivesMatchingEvents(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	var got []Event
	done := make(chan struct{}, 2)

	bus.Subscribe(EventEntityCreated, func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		done <- struct{}{}
	})

	bus.PublishEntityCreated("products", "prod_1")
	bus.PublishLicenseRevoked("lic_1") // different type, must not arrive
	bus.PublishEntityCreated("users", "u1")

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	for _, ev := range got {
		if ev.Type != EventEntityCreated {
			t.Errorf("received %s, want only ENTITY_CREATED", ev.Type)
		}
		if ev.Timestamp.IsZero() {
			t.Error("timestamp not stamped")
		}
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := NewEventBus()

	received := make(chan EventType, 8)
	bus.SubscribeAll(func(ev Event) {
		received <- ev.Type
	})

	bus.PublishEntityDeleted("licenses", []string{"a", "b"}, 2)
	bus.PublishMessageSent("c1", "m1", "u1")
	bus.PublishCollectionSeeded("products", 5)

	want := map[EventType]bool{
		EventEntityDeleted:  false,
		EventMessageSent:    false,
		EventCollectionSeed: false,
	}
	for i := 0; i < 3; i++ {
		select {
		case typ := <-received:
			want[typ] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("never received %s", typ)
		}
	}
}
