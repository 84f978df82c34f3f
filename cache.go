package cstore

// ProgramCache stores compiled expression programs keyed by expression
// strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache used by the store's evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *storeConfig) {
		cfg.programCache = cache
	}
}
