package cstore

import (
	gocontext "context"
	"sync"

	"github.com/goliatone/go-contextstore/internal/coerce"
	"github.com/goliatone/go-contextstore/pkg/watch"
)

// Context is one execution context's private key-value mapping. All
// operations touch only this context; other contexts never observe them.
// A Context is safe for concurrent use from the goroutines its owner chooses
// to share it with.
type Context struct {
	id      ID
	store   *Store
	mu      sync.RWMutex
	entries map[any]any
	origins map[any]Provenance
}

// ID returns the context's identity within its store.
func (c *Context) ID() ID {
	return c.id
}

// Put associates value with key. A nil key or nil value makes the call a
// silent no-op; that is the contract, not a failure.
func (c *Context) Put(key, value any) {
	if key == nil || value == nil {
		return
	}
	c.mu.Lock()
	c.entries[key] = value
	c.origins[key] = newProvenance(OriginRuntime)
	c.mu.Unlock()
	c.notify(watch.OpPut, key, value, OriginRuntime)
}

// Update replaces the value for key only when key is already present.
// Distinct from Put, which always inserts. Nil key or value is a no-op.
func (c *Context) Update(key, value any) {
	if key == nil || value == nil {
		return
	}
	c.mu.Lock()
	_, present := c.entries[key]
	if present {
		c.entries[key] = value
		c.origins[key] = newProvenance(OriginRuntime)
	}
	c.mu.Unlock()
	if present {
		c.notify(watch.OpUpdate, key, value, OriginRuntime)
	}
}

// Remove deletes the entry for key if present. Absent keys and nil keys are
// no-ops.
func (c *Context) Remove(key any) {
	if key == nil {
		return
	}
	c.mu.Lock()
	_, present := c.entries[key]
	delete(c.entries, key)
	delete(c.origins, key)
	c.mu.Unlock()
	if present {
		c.notify(watch.OpRemove, key, nil, "")
	}
}

// Get returns the value stored under key, or nil when key is nil or absent.
// An optional default is returned instead of nil. This is the sole primitive
// read; every typed getter goes through it.
func (c *Context) Get(key any, def ...any) any {
	var value any
	if key != nil {
		c.mu.RLock()
		value = c.entries[key]
		c.mu.RUnlock()
	}
	if value == nil && len(def) > 0 {
		return def[0]
	}
	return value
}

// GetBool reads key and parses its text with the lax boolean policy: only
// "true" (case-insensitive) is true, everything else — "false", malformed
// text, non-boolean content — is false. The optional default applies only
// when key is absent, never to a present value that fails to look boolean.
func (c *Context) GetBool(key any, def ...bool) bool {
	value := c.Get(key)
	if value == nil {
		if len(def) > 0 {
			return def[0]
		}
		return false
	}
	return coerce.Bool(coerce.Text(value))
}

// GetInt reads key and parses its text as a base-10 integer. Both an absent
// key and a parse failure fall back to the optional default (or 0) — unlike
// GetBool, whose parse never fails.
func (c *Context) GetInt(key any, def ...int) int {
	fallback := 0
	if len(def) > 0 {
		fallback = def[0]
	}
	value := c.Get(key)
	if value == nil {
		return fallback
	}
	n, ok := coerce.Int(coerce.Text(value))
	if !ok {
		return fallback
	}
	return n
}

// GetFloat mirrors GetInt for floating-point values, with 0.0 as the implicit
// default.
func (c *Context) GetFloat(key any, def ...float64) float64 {
	fallback := 0.0
	if len(def) > 0 {
		fallback = def[0]
	}
	value := c.Get(key)
	if value == nil {
		return fallback
	}
	f, ok := coerce.Float(coerce.Text(value))
	if !ok {
		return fallback
	}
	return f
}

// Has reports whether key maps to a value in this context.
func (c *Context) Has(key any) bool {
	if key == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Items returns a copy of the keys currently present in this context.
func (c *Context) Items() []any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]any, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of entries in this context.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear empties this context. Other contexts are unaffected.
func (c *Context) Clear() {
	c.mu.Lock()
	c.entries = make(map[any]any)
	c.origins = make(map[any]Provenance)
	c.mu.Unlock()
	c.notify(watch.OpClear, nil, nil, "")
}

// Merge copies every entry of each source into this context, overwriting on
// collision. Later sources win over earlier ones.
func (c *Context) Merge(sources ...map[string]string) {
	c.mergeFrom(OriginRuntime, sources...)
}

// MergeValues merges untyped mappings, applying the same ordering rule as
// Merge. Nil keys and values inside a source are skipped.
func (c *Context) MergeValues(maps ...map[any]any) {
	c.mu.Lock()
	for _, m := range maps {
		for key, value := range m {
			if key == nil || value == nil {
				continue
			}
			c.entries[key] = value
			c.origins[key] = newProvenance(OriginRuntime)
		}
	}
	c.mu.Unlock()
	c.notify(watch.OpLoad, nil, nil, OriginRuntime)
}

func (c *Context) mergeFrom(resource string, sources ...map[string]string) {
	c.mu.Lock()
	for _, source := range sources {
		for key, value := range source {
			c.entries[key] = value
			c.origins[key] = newProvenance(resource)
		}
	}
	c.mu.Unlock()
	c.notify(watch.OpLoad, nil, nil, resource)
}

// LoadProperties loads each named resource through the store's source
// collaborator and merges it into this context, in order. The first resource
// that cannot be found or parsed fails the whole operation; earlier resources
// stay merged.
func (c *Context) LoadProperties(names ...string) error {
	for _, name := range names {
		mapping, event, err := c.store.loadSource(name)
		c.store.cfg.loadLogger.LogLoad(event)
		if err != nil {
			return err
		}
		c.mergeFrom(name, mapping)
	}
	return nil
}

// LoadSystem merges the process environment mapping into this context.
// Failures of the system source propagate exactly like LoadProperties.
func (c *Context) LoadSystem() error {
	mapping, err := c.store.cfg.system.Load(OriginSystem)
	if err != nil {
		return wrapSourceError(OriginSystem, err)
	}
	c.mergeFrom(OriginSystem, mapping)
	return nil
}

// Snapshot returns a stringified-key copy of the entries, suitable for
// evaluator environments and diagnostics.
func (c *Context) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.entries))
	for key, value := range c.entries {
		out[coerce.Text(key)] = value
	}
	return out
}

func (c *Context) notify(op watch.Op, key, value any, resource string) {
	hooks := c.store.cfg.hooks
	if !hooks.Enabled() {
		return
	}
	event := watch.Event{
		Op:        op,
		ContextID: string(c.id),
		Value:     value,
		Resource:  resource,
	}
	if key != nil {
		event.Key = coerce.Text(key)
	}
	_ = hooks.Notify(gocontext.Background(), event)
}
