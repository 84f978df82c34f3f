package cstore

import (
	"errors"
	"sync"
	"testing"
)

type recordingLoadLogger struct {
	mu     sync.Mutex
	events []LoadEvent
}

func (l *recordingLoadLogger) LogLoad(event LoadEvent) {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
}

func (l *recordingLoadLogger) byResource(name string) (LoadEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, event := range l.events {
		if event.Resource == name {
			return event, true
		}
	}
	return LoadEvent{}, false
}

func TestInitSeedsEveryContext(t *testing.T) {
	store := NewStore(
		WithSource(MapSource{
			"test.properties": {"env": "test", "debug": "true"},
			"app.properties":  {"env": "app", "port": "8080"},
		}),
		WithDefaultSources("test.properties", "app.properties"),
	)
	if err := store.Init(); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}

	first := store.Scope("one")
	second := store.Scope("two")

	// Later default sources win on collision, and every context sees the
	// baseline, not just the first toucher.
	for _, c := range []*Context{first, second} {
		if got := c.Get("env"); got != "app" {
			t.Fatalf("expected later default source to win, got %v", got)
		}
		if got := c.Get("port"); got != "8080" {
			t.Fatalf("expected baseline entry, got %v", got)
		}
		if !c.GetBool("debug") {
			t.Fatalf("expected baseline boolean")
		}
	}

	// Baseline copies are private: mutating one context's baseline entry
	// does not leak into the other.
	first.Put("env", "mutated")
	if got := second.Get("env"); got != "app" {
		t.Fatalf("baseline mutation leaked across contexts, got %v", got)
	}

	origin, ok := first.Origin("port")
	if !ok || origin.Resource != "app.properties" {
		t.Fatalf("expected provenance to name the default source, got %+v", origin)
	}
}

func TestInitSkipsMissingDefaultSources(t *testing.T) {
	logger := &recordingLoadLogger{}
	store := NewStore(
		WithSource(MapSource{
			"app.properties": {"env": "app"},
		}),
		WithDefaultSources("missing.properties", "app.properties"),
		WithLoadLogger(logger),
	)
	if err := store.Init(); err != nil {
		t.Fatalf("missing default sources must be skipped, got %v", err)
	}
	if got := store.NewContext().Get("env"); got != "app" {
		t.Fatalf("expected remaining default source to load, got %v", got)
	}

	event, ok := logger.byResource("missing.properties")
	if !ok {
		t.Fatalf("expected the skipped source to be logged")
	}
	if !event.Skipped || event.Err == nil {
		t.Fatalf("expected a skipped event carrying the error, got %+v", event)
	}
}

func TestInitFailsOnMalformedDefaultSource(t *testing.T) {
	boom := errors.New("malformed file")
	store := NewStore(
		WithSource(SourceFunc(func(name string) (map[string]string, error) {
			return nil, boom
		})),
		WithDefaultSources("broken.properties"),
	)

	err := store.Init()
	if !errors.Is(err, boom) {
		t.Fatalf("expected malformed source to fail Init, got %v", err)
	}
	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.Resource != "broken.properties" {
		t.Fatalf("expected SourceError naming the resource, got %v", err)
	}

	// Init is idempotent: the first outcome sticks.
	if again := store.Init(); !errors.Is(again, boom) {
		t.Fatalf("expected repeated Init to return the recorded outcome, got %v", again)
	}
}

func TestImplicitBootstrapIsBestEffort(t *testing.T) {
	logger := &recordingLoadLogger{}
	boom := errors.New("malformed file")
	store := NewStore(
		WithSource(SourceFunc(func(name string) (map[string]string, error) {
			return nil, boom
		})),
		WithDefaultSources("broken.properties"),
		WithLoadLogger(logger),
	)

	// Never calling Init: first touch bootstraps best-effort and the
	// failure is logged, not fatal.
	c := store.NewContext()
	if c.Len() != 0 {
		t.Fatalf("expected empty context after failed bootstrap, got %d entries", c.Len())
	}
	event, ok := logger.byResource("broken.properties")
	if !ok || !event.Skipped {
		t.Fatalf("expected the failed source to be logged as skipped, got %+v", event)
	}

	// Init after implicit touch reports the recorded (nil) outcome.
	if err := store.Init(); err != nil {
		t.Fatalf("expected best-effort bootstrap outcome, got %v", err)
	}
}

func TestDefaultStoreIsUsable(t *testing.T) {
	store := Default()
	if store == nil {
		t.Fatalf("expected a default store")
	}
	id := NewID()
	defer store.Release(id)

	c := store.Scope(id)
	c.Put("default-store-key", "value")
	if got := c.Get("default-store-key"); got != "value" {
		t.Fatalf("expected default store to behave like any store, got %v", got)
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := map[ID]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
