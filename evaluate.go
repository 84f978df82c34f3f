package cstore

import (
	"fmt"
	"time"
)

// Evaluate executes expr against a snapshot of this context's entries using
// the store's configured evaluator (expr-lang by default). Entries whose keys
// stringify to valid identifiers are bound directly into the expression
// environment; all entries are reachable through the `entries` map.
func (c *Context) Evaluate(expr string) (Response, error) {
	return c.EvaluateWith(EvalContext{}, expr)
}

// EvaluateWith executes expr using ctx, filling ctx.Entries from the context
// snapshot when the caller leaves it nil.
func (c *Context) EvaluateWith(ctx EvalContext, expr string) (Response, error) {
	if expr == "" {
		return Response{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := c.store.resolveEvaluator()
	if err != nil {
		return Response{}, err
	}
	if ctx.Entries == nil {
		ctx.Entries = c.Snapshot()
	}
	if ctx.ContextID == "" {
		ctx.ContextID = c.id
	}
	ctx = ctx.withDefaults()

	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvalError(engine, expr, ctx.contextLabel(), evalErr)
	c.store.cfg.evalLogger.LogEvaluation(EvalEvent{
		Engine:   engine,
		Expr:     expr,
		Context:  ctx.contextLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response{}, evalErr
	}
	return Response{Value: value}, nil
}

func (s *Store) resolveEvaluator() (Evaluator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := s.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := s.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*cstore.exprEvaluator":
		return "expr"
	case "*cstore.celEvaluator":
		return "cel"
	case "*cstore.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}

// validIdentifier reports whether name can be bound as a top-level variable in
// expression environments. Keys that fail (for example dotted or hyphenated
// property names) remain reachable through the `entries` binding.
func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	switch name {
	case "now", "args", "metadata", "entries", "ctx", "call", "true", "false", "null", "in":
		return false
	}
	return true
}
