package cstore

import (
	"encoding/json"
	"time"

	"github.com/goliatone/go-contextstore/internal/coerce"
)

// Origin resources for entries that were not loaded from a named property
// file.
const (
	// OriginRuntime marks entries written by Put, Update, or Merge.
	OriginRuntime = "runtime"
	// OriginSystem marks entries merged from the process environment.
	OriginSystem = "system"
)

// Provenance records which resource supplied an entry and when.
type Provenance struct {
	Resource string    `json:"resource"`
	StoredAt time.Time `json:"stored_at"`
}

func newProvenance(resource string) Provenance {
	if resource == "" {
		resource = OriginRuntime
	}
	return Provenance{Resource: resource, StoredAt: time.Now()}
}

// Trace captures provenance information for a single key lookup.
type Trace struct {
	ContextID ID         `json:"context_id"`
	Key       string     `json:"key"`
	Found     bool       `json:"found"`
	Value     any        `json:"value,omitempty"`
	Origin    Provenance `json:"origin,omitempty"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Origin returns the provenance recorded for key, and whether key is present.
func (c *Context) Origin(key any) (Provenance, bool) {
	if key == nil {
		return Provenance{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	origin, ok := c.origins[key]
	return origin, ok
}

// Trace resolves key and packages the lookup with its provenance.
func (c *Context) Trace(key any) Trace {
	trace := Trace{ContextID: c.id}
	if key == nil {
		return trace
	}
	c.mu.RLock()
	value, found := c.entries[key]
	origin := c.origins[key]
	c.mu.RUnlock()

	trace.Key = coerce.Text(key)
	trace.Found = found
	if found {
		trace.Value = value
		trace.Origin = origin
	}
	return trace
}
