// Package watch defines mutation hooks for context stores. Store mutations
// (put, update, remove, clear, source loads) are normalized into events and
// fanned out to zero or more hooks. The store invokes hooks synchronously and
// fire-and-forget; hook errors surface only to callers of Hooks.Notify.
package watch

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Op identifies the mutation that produced an event.
type Op string

const (
	OpPut    Op = "put"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
	OpLoad   Op = "load"
)

// Event describes a single context mutation that can be fanned out to hooks.
// IDs and keys are stringly-typed to avoid coupling call sites to the store's
// key and identity types.
type Event struct {
	Op         Op
	ContextID  string
	Key        string
	Value      any
	Resource   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Hook receives normalized mutation events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []Hook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify forwards the event to all hooks, returning a joined error if any
// fail. It normalizes the event and short-circuits when required fields are
// missing.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}

	normalized := NormalizeEvent(event)
	if normalized.Op == "" || normalized.ContextID == "" {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// NormalizeEvent trims whitespace, clones metadata, and ensures a timestamp is
// present.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.Op = Op(strings.TrimSpace(string(event.Op)))
	normalized.ContextID = strings.TrimSpace(event.ContextID)
	normalized.Key = strings.TrimSpace(event.Key)
	normalized.Resource = strings.TrimSpace(event.Resource)
	normalized.Channel = strings.TrimSpace(event.Channel)
	normalized.Metadata = cloneMap(event.Metadata)
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
