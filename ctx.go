package cstore

import "context"

type ctxKey struct{}

// Attach stores the context-store Context in ctx so it can be threaded
// explicitly through call chains instead of relying on goroutine-local state.
func Attach(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the Context previously attached to ctx.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Context)
	return c, ok
}

// FromContextOrNew returns the attached Context, or mints a fresh one from
// store and returns the derived context carrying it.
func FromContextOrNew(ctx context.Context, store *Store) (context.Context, *Context) {
	if c, ok := FromContext(ctx); ok {
		return ctx, c
	}
	c := store.NewContext()
	return Attach(ctx, c), c
}
