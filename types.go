package cstore

import (
	"time"

	"github.com/goliatone/go-contextstore/pkg/watch"
)

// Response stores the result produced by an evaluator.
type Response struct {
	Value any
}

// EvalContext carries inputs needed when evaluating an expression against a
// context's entries.
type EvalContext struct {
	Entries   map[string]any
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
	ContextID ID
}

func (ctx EvalContext) withDefaultNow() EvalContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EvalContext) withDefaultMaps() EvalContext {
	if ctx.Entries == nil {
		ctx.Entries = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) withDefaults() EvalContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EvalContext) contextLabel() string {
	if ctx.ContextID != "" {
		return string(ctx.ContextID)
	}
	return "unknown"
}

func (ctx EvalContext) contextBinding() map[string]any {
	if ctx.ContextID == "" {
		return nil
	}
	return map[string]any{"id": string(ctx.ContextID)}
}

// Evaluator executes expressions against an evaluation context.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Store at construction time.
type Option func(*storeConfig)

type storeConfig struct {
	source         Source
	system         Source
	defaultSources []string
	loadLogger     LoadLogger
	evaluator      Evaluator
	programCache   ProgramCache
	functions      *FunctionRegistry
	evalLogger     EvalLogger
	hooks          watch.Hooks
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithSource configures the property-source collaborator used by
// LoadProperties and bootstrap loading. Defaults to a FileSource rooted at the
// working directory.
func WithSource(source Source) Option {
	return func(cfg *storeConfig) {
		cfg.source = source
	}
}

// WithSystemSource overrides the source consulted by LoadSystem. Defaults to
// the process environment.
func WithSystemSource(source Source) Option {
	return func(cfg *storeConfig) {
		cfg.system = source
	}
}

// WithDefaultSources replaces the ordered list of resource names loaded during
// bootstrap. Later names win on key collision. Passing no names disables
// bootstrap loading entirely.
func WithDefaultSources(names ...string) Option {
	return func(cfg *storeConfig) {
		cfg.defaultSources = append(make([]string, 0, len(names)), names...)
	}
}

// WithEvaluator configures the evaluator used by Context.Evaluate.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *storeConfig) {
		cfg.evaluator = e
	}
}

// WithWatchHooks attaches mutation hooks notified on context changes. Hooks
// are cloned and nil entries dropped to preserve immutability.
func WithWatchHooks(hooks watch.Hooks) Option {
	normalized := cloneWatchHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.hooks = normalized
	}
}

func cloneWatchHooks(hooks watch.Hooks) watch.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]watch.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return watch.Hooks(normalized)
}
