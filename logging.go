package cstore

import "time"

// LoadEvent describes one property-source load attempt for logging.
type LoadEvent struct {
	Resource string
	Keys     int
	Duration time.Duration
	Skipped  bool
	Err      error
}

// LoadLogger records source load events.
type LoadLogger interface {
	LogLoad(LoadEvent)
}

// LoadLoggerFunc adapts a function to LoadLogger.
type LoadLoggerFunc func(LoadEvent)

// LogLoad implements LoadLogger.
func (f LoadLoggerFunc) LogLoad(event LoadEvent) {
	if f != nil {
		f(event)
	}
}

type noopLoadLogger struct{}

func (noopLoadLogger) LogLoad(LoadEvent) {}

// WithLoadLogger attaches a load logger to the store.
func WithLoadLogger(logger LoadLogger) Option {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.loadLogger = noopLoadLogger{}
			return
		}
		cfg.loadLogger = logger
	}
}

// EvalEvent describes an evaluation attempt for logging.
type EvalEvent struct {
	Engine   string
	Expr     string
	Context  string
	Duration time.Duration
	Err      error
}

// EvalLogger records evaluator events.
type EvalLogger interface {
	LogEvaluation(EvalEvent)
}

// EvalLoggerFunc adapts a function to EvalLogger.
type EvalLoggerFunc func(EvalEvent)

// LogEvaluation implements EvalLogger.
func (f EvalLoggerFunc) LogEvaluation(event EvalEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvalLogger struct{}

func (noopEvalLogger) LogEvaluation(EvalEvent) {}

// WithEvalLogger attaches an evaluator logger to the store.
func WithEvalLogger(logger EvalLogger) Option {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.evalLogger = noopEvalLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}
