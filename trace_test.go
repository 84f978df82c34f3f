package cstore

import "testing"

func TestOriginTracksResource(t *testing.T) {
	c := newBareStore().NewContext()

	c.Put("runtime-key", "value")
	origin, ok := c.Origin("runtime-key")
	if !ok || origin.Resource != OriginRuntime {
		t.Fatalf("expected runtime origin, got %+v", origin)
	}
	if origin.StoredAt.IsZero() {
		t.Fatalf("expected a stored-at timestamp")
	}

	if err := c.LoadProperties("testdata/test.properties"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	origin, ok = c.Origin("test-secret")
	if !ok || origin.Resource != "testdata/test.properties" {
		t.Fatalf("expected load origin to name the resource, got %+v", origin)
	}

	if _, ok := c.Origin("never-stored"); ok {
		t.Fatalf("expected no origin for an absent key")
	}
	if _, ok := c.Origin(nil); ok {
		t.Fatalf("expected no origin for a nil key")
	}
}

func TestOriginFollowsMutations(t *testing.T) {
	c := newBareStore().NewContext()

	if err := c.LoadProperties("testdata/test.properties"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Update("test-secret", "rotated")
	origin, ok := c.Origin("test-secret")
	if !ok || origin.Resource != OriginRuntime {
		t.Fatalf("expected update to retag origin as runtime, got %+v", origin)
	}

	c.Remove("test-secret")
	if _, ok := c.Origin("test-secret"); ok {
		t.Fatalf("expected origin to be dropped with the entry")
	}
}

func TestTraceLookup(t *testing.T) {
	store := newBareStore()
	c := store.Scope("traced")
	c.Put("key", "value")

	trace := c.Trace("key")
	if !trace.Found || trace.Value != "value" {
		t.Fatalf("expected found trace, got %+v", trace)
	}
	if trace.ContextID != "traced" || trace.Key != "key" {
		t.Fatalf("expected trace identity metadata, got %+v", trace)
	}
	if trace.Origin.Resource != OriginRuntime {
		t.Fatalf("expected runtime origin, got %+v", trace.Origin)
	}

	absent := c.Trace("missing")
	if absent.Found || absent.Value != nil {
		t.Fatalf("expected absent trace, got %+v", absent)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	c := newBareStore().Scope("json-ctx")
	c.Put("key", "value")

	payload, err := c.Trace("key").ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Key != "key" || decoded.Value != "value" || !decoded.Found {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if decoded.ContextID != "json-ctx" {
		t.Fatalf("expected context id to survive, got %q", decoded.ContextID)
	}

	if _, err := TraceFromJSON([]byte("{invalid")); err == nil {
		t.Fatalf("expected malformed payload to error")
	}
}
