package cstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoEvaluator indicates no evaluator could be resolved.
	ErrNoEvaluator = errors.New("cstore: evaluator not configured")
	// ErrSourceNotFound indicates a named property resource could not be
	// located by the configured source.
	ErrSourceNotFound = errors.New("cstore: property source not found")
)

// SourceError captures the resource name alongside the originating load error.
type SourceError struct {
	Resource string
	Err      error
}

func (e *SourceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("cstore: load %q: %v", e.Resource, e.Err)
}

func (e *SourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapSourceError(resource string, err error) error {
	if err == nil {
		return nil
	}
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		if srcErr.Resource == "" {
			srcErr.Resource = resource
		}
		return err
	}
	return &SourceError{Resource: resource, Err: err}
}

// EvalError captures evaluator metadata alongside the originating error.
type EvalError struct {
	Engine  string
	Expr    string
	Context string
	Err     error
}

func (e *EvalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("cstore: %s evaluator %s context=%s: %v", e.Engine, describeExpression(e.Expr), e.Context, e.Err)
}

func (e *EvalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEngineError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "cstore:") {
		return err
	}
	return fmt.Errorf("cstore: %s evaluator: %w", engine, err)
}

func wrapEvalError(engine, expr, contextLabel string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Context == "" {
			evalErr.Context = contextLabel
		}
		return evalErr
	}

	return &EvalError{
		Engine:  engine,
		Expr:    expr,
		Context: contextLabel,
		Err:     err,
	}
}
