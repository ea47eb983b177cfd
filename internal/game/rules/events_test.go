package rules

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	holds := 0
	resets := 0

	handle := bus.SubscribeTyped(EventHoldToggled, func(e Event) {
		holds++
	})
	bus.SubscribeTyped(EventSessionReset, func(e Event) {
		resets++
	})

	evt := NewEvent(EventHoldToggled, "s1", epoch)
	evt.SlotIndex = 0
	evt.Flag = true
	bus.Publish(evt)
	if holds != 1 || resets != 0 {
		t.Fatalf("expected holds=1 resets=0, got holds=%d resets=%d", holds, resets)
	}

	bus.Publish(NewEvent(EventSessionReset, "s1", epoch))
	if resets != 1 {
		t.Fatalf("expected resets=1, got %d", resets)
	}

	bus.Unsubscribe(handle)
	bus.Publish(evt)
	if holds != 1 {
		t.Fatalf("expected holds to stay 1 after unsubscribe, got %d", holds)
	}
}

func TestEventBusOrder(t *testing.T) {
	bus := NewEventBus()
	var seen []string

	bus.SubscribeTyped(EventPhaseChanged, func(e Event) { seen = append(seen, "typed") })
	bus.Subscribe(func(e Event) { seen = append(seen, "first") })
	second := bus.Subscribe(func(e Event) { seen = append(seen, "second") })

	bus.Publish(NewPhaseEvent("s1", StateIdle, StateInitialDeal, epoch))
	want := []string{"first", "second", "typed"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}

	seen = nil
	bus.Unsubscribe(second)
	bus.Publish(NewPhaseEvent("s1", StateInitialDeal, StateHoldPhase, epoch))
	if len(seen) != 2 || seen[0] != "first" || seen[1] != "typed" {
		t.Fatalf("unexpected delivery after unsubscribe: %v", seen)
	}
}

func TestEventBusNilListener(t *testing.T) {
	bus := NewEventBus()
	if h := bus.Subscribe(nil); h != -1 {
		t.Fatalf("expected -1 handle for nil listener, got %d", h)
	}
	if h := bus.SubscribeTyped(EventRosterDealt, nil); h != -1 {
		t.Fatalf("expected -1 handle for nil callback, got %d", h)
	}
	bus.Publish(NewEvent(EventRosterDealt, "s1", epoch))
}

func TestNewPhaseEvent(t *testing.T) {
	evt := NewPhaseEvent("s1", StateHoldPhase, StateFinalDraw, epoch)
	if evt.Type != EventPhaseChanged || evt.From != StateHoldPhase || evt.To != StateFinalDraw {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt.SlotIndex != -1 {
		t.Fatalf("expected slot index -1, got %d", evt.SlotIndex)
	}
}
