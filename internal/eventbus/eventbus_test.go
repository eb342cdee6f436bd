package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	bus := New()
	defer bus.Close()
	sub := bus.Subscribe()
	bus.Publish("hello")
	select {
	case got := <-sub:
		if got != "hello" {
			t.Fatalf("got %v", got)
		}
	default:
		t.Fatalf("event not delivered")
	}
}

func TestNonBlockingPublish(t *testing.T) {
	bus := New()
	defer bus.Close()
	bus.Subscribe() // never drained
	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Publish(i) // must not block once the buffer is full
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := New()
	defer bus.Close()
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed after unsubscribe")
	}
	bus.Publish("dropped") // no panic on publish after unsubscribe
}

func TestClose(t *testing.T) {
	bus := New()
	sub := bus.Subscribe()
	bus.Close()
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed after bus close")
	}
	bus.Publish("ignored")
	late := bus.Subscribe()
	if _, ok := <-late; ok {
		t.Fatalf("subscription after close should be closed immediately")
	}
	bus.Close() // idempotent
}
