// Package types defines the core type system for goxpath.
//
// This package contains type definitions for:
//   - Value: the evaluation result (Boolean, Number, String, Nodes)
//   - Expr: the expression tree variants
//   - Expression: a compiled expression with its source text
//   - Error types: structured errors with codes
package types

// Expression represents a compiled XPath expression.
//
// An Expression can be evaluated multiple times against different nodes by
// passing it to [evaluator.Evaluator.Eval]. It is safe for concurrent use by
// multiple goroutines.
type Expression struct {
	root   Expr
	source string
}

// NewExpression creates a new Expression from a parsed tree.
func NewExpression(root Expr, source string) *Expression {
	return &Expression{
		root:   root,
		source: source,
	}
}

// Root returns the expression tree.
func (e *Expression) Root() Expr {
	return e.root
}

// Source returns the original source text of the expression.
func (e *Expression) Source() string {
	return e.source
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	if e == nil {
		return "<nil>"
	}
	return e.source
}
