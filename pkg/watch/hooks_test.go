package watch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHooksNotifyFansOut(t *testing.T) {
	var first, second []Event
	hooks := Hooks{
		HookFunc(func(_ context.Context, event Event) error {
			first = append(first, event)
			return nil
		}),
		nil,
		HookFunc(func(_ context.Context, event Event) error {
			second = append(second, event)
			return nil
		}),
	}

	err := hooks.Notify(context.Background(), Event{
		Op:        OpPut,
		ContextID: " worker-1 ",
		Key:       "key",
		Value:     "value",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected both hooks to fire, got %d and %d", len(first), len(second))
	}
	if first[0].ContextID != "worker-1" {
		t.Fatalf("expected normalized context id, got %q", first[0].ContextID)
	}
	if first[0].OccurredAt.IsZero() {
		t.Fatalf("expected a default timestamp")
	}
}

func TestHooksNotifySkipsIncompleteEvents(t *testing.T) {
	fired := 0
	hooks := Hooks{HookFunc(func(context.Context, Event) error {
		fired++
		return nil
	})}

	if err := hooks.Notify(context.Background(), Event{Op: OpPut}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := hooks.Notify(context.Background(), Event{ContextID: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired != 0 {
		t.Fatalf("expected incomplete events to be dropped, got %d", fired)
	}
}

func TestHooksNotifyJoinsErrors(t *testing.T) {
	first := errors.New("first failure")
	second := errors.New("second failure")
	hooks := Hooks{
		HookFunc(func(context.Context, Event) error { return first }),
		HookFunc(func(context.Context, Event) error { return nil }),
		HookFunc(func(context.Context, Event) error { return second }),
	}

	err := hooks.Notify(nil, Event{Op: OpRemove, ContextID: "worker"})
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both hook errors to be joined, got %v", err)
	}
}

func TestNormalizeEventClonesMetadata(t *testing.T) {
	metadata := map[string]any{"origin": "test"}
	normalized := NormalizeEvent(Event{
		Op:        OpLoad,
		ContextID: "worker",
		Metadata:  metadata,
	})

	metadata["origin"] = "mutated"
	if normalized.Metadata["origin"] != "test" {
		t.Fatalf("expected metadata copy, got %v", normalized.Metadata["origin"])
	}
}

func TestNormalizeEventKeepsTimestamp(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	normalized := NormalizeEvent(Event{Op: OpPut, ContextID: "w", OccurredAt: at})
	if !normalized.OccurredAt.Equal(at) {
		t.Fatalf("expected explicit timestamp to be kept, got %v", normalized.OccurredAt)
	}
}

func TestEmitterAppliesDefaultChannel(t *testing.T) {
	var captured []Event
	hooks := Hooks{HookFunc(func(_ context.Context, event Event) error {
		captured = append(captured, event)
		return nil
	})}

	emitter := NewEmitter(hooks, Config{Enabled: true})
	if !emitter.Enabled() {
		t.Fatalf("expected emitter to be enabled")
	}
	if err := emitter.Emit(context.Background(), Event{Op: OpPut, ContextID: "w"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captured) != 1 || captured[0].Channel != "cstore" {
		t.Fatalf("expected default channel, got %+v", captured)
	}

	if err := emitter.Emit(context.Background(), Event{Op: OpPut, ContextID: "w", Channel: "custom"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured[1].Channel != "custom" {
		t.Fatalf("expected explicit channel to be kept, got %q", captured[1].Channel)
	}
}

func TestEmitterDisabled(t *testing.T) {
	fired := 0
	hooks := Hooks{HookFunc(func(context.Context, Event) error {
		fired++
		return nil
	})}

	emitter := NewEmitter(hooks, Config{Enabled: false})
	if emitter.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := emitter.Emit(context.Background(), Event{Op: OpPut, ContextID: "w"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fired != 0 {
		t.Fatalf("expected no emissions while disabled, got %d", fired)
	}

	if NewEmitter(nil, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}
}
