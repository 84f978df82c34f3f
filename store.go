// Package cstore provides an isolated key-value store per execution context.
// Each context owns a private mapping pre-populated from property sources,
// with typed accessors that apply default-value and parse-failure fallback
// policies. Contexts never observe each other's entries; the only shared
// state is the registry that lazily creates them.
package cstore

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ID identifies one execution context inside a Store.
type ID string

// NewID mints a fresh context identity backed by a UUIDv7, so identities sort
// by creation time.
func NewID() ID {
	return ID(uuid.Must(uuid.NewV7()).String())
}

// DefaultSources is the fixed, ordered list of resource names loaded during
// bootstrap. Later entries win on key collision.
var DefaultSources = []string{
	"test.properties",
	"build.properties",
	"app.properties",
	"store.properties",
}

// Store is a process-wide registry of per-execution-context mappings. The
// registry is the only cross-context shared state; operations on individual
// contexts never contend with each other.
type Store struct {
	mu       sync.RWMutex
	contexts map[ID]*Context
	cfg      storeConfig

	bootstrapOnce sync.Once
	bootstrapErr  error
	baseline      map[string]string
	baselineFrom  map[string]string
}

// NewStore constructs a Store. Without options it loads DefaultSources
// through a FileSource rooted at the working directory, best-effort, on first
// touch.
func NewStore(opts ...Option) *Store {
	cfg := applyOptions(opts)
	if cfg.source == nil {
		cfg.source = NewFileSource()
	}
	if cfg.system == nil {
		cfg.system = EnvSource{}
	}
	if cfg.defaultSources == nil {
		cfg.defaultSources = append([]string(nil), DefaultSources...)
	}
	if cfg.loadLogger == nil {
		cfg.loadLogger = noopLoadLogger{}
	}
	if cfg.evalLogger == nil {
		cfg.evalLogger = noopEvalLogger{}
	}
	return &Store{
		contexts: make(map[ID]*Context),
		cfg:      cfg,
	}
}

// Init loads the bootstrap sources exactly once and reports how it went.
// A default source that does not exist is skipped (and logged); a source that
// exists but cannot be parsed is a hard error. Init is idempotent: repeated
// calls return the first outcome.
//
// Callers that never invoke Init still get the baseline: the first context
// created triggers the same load in best-effort mode, where every failure is
// logged and skipped.
func (s *Store) Init() error {
	s.bootstrapOnce.Do(func() {
		s.bootstrapErr = s.loadBaseline(true)
	})
	return s.bootstrapErr
}

func (s *Store) ensureBaseline() {
	s.bootstrapOnce.Do(func() {
		// Implicit first touch: bootstrap failures are logged, never fatal.
		_ = s.loadBaseline(false)
	})
}

func (s *Store) loadBaseline(strict bool) error {
	baseline := make(map[string]string)
	origins := make(map[string]string)
	for _, name := range s.cfg.defaultSources {
		mapping, event, err := s.loadSource(name)
		if err != nil {
			if strict && !isNotFound(err) {
				s.cfg.loadLogger.LogLoad(event)
				return err
			}
			event.Skipped = true
			s.cfg.loadLogger.LogLoad(event)
			continue
		}
		s.cfg.loadLogger.LogLoad(event)
		for key, value := range mapping {
			baseline[key] = value
			origins[key] = name
		}
	}
	s.mu.Lock()
	s.baseline = baseline
	s.baselineFrom = origins
	s.mu.Unlock()
	return nil
}

// Scope returns the private context for id, creating it on first touch.
// Creation is race-safe: concurrent first touches of the same id observe the
// same context.
func (s *Store) Scope(id ID) *Context {
	s.ensureBaseline()

	s.mu.RLock()
	c, ok := s.contexts[id]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.contexts[id]; ok {
		return c
	}
	c = s.newContext(id)
	s.contexts[id] = c
	return c
}

// NewContext mints a fresh identity and returns its context.
func (s *Store) NewContext() *Context {
	return s.Scope(NewID())
}

// newContext seeds a context from the bootstrap baseline. Caller holds s.mu.
func (s *Store) newContext(id ID) *Context {
	entries := make(map[any]any, len(s.baseline))
	origins := make(map[any]Provenance, len(s.baseline))
	for key, value := range s.baseline {
		entries[key] = value
		origins[key] = newProvenance(s.baselineFrom[key])
	}
	return &Context{
		id:      id,
		store:   s,
		entries: entries,
		origins: origins,
	}
}

// Release drops the context for id from the registry. Entries held only by
// that context become unreachable. Releasing an unknown id is a no-op.
func (s *Store) Release(id ID) {
	s.mu.Lock()
	delete(s.contexts, id)
	s.mu.Unlock()
}

// Len returns the number of live contexts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}

// Has reports whether a context exists for id without creating one.
func (s *Store) Has(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.contexts[id]
	return ok
}

func (s *Store) loadSource(name string) (map[string]string, LoadEvent, error) {
	start := time.Now()
	mapping, err := s.cfg.source.Load(name)
	event := LoadEvent{
		Resource: name,
		Keys:     len(mapping),
		Duration: time.Since(start),
		Err:      err,
	}
	if err != nil {
		return nil, event, wrapSourceError(name, err)
	}
	return mapping, event, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrSourceNotFound)
}

var defaultStore = NewStore()

// Default returns the process-wide store used by callers that do not manage
// their own Store instance.
func Default() *Store {
	return defaultStore
}
