package evaluator

import (
	"fmt"
	"maps"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/types"
)

// EvalContext maintains evaluation state: the context node, the function
// library, variable bindings and, while a predicate is being evaluated, the
// proximity position and size of the node-set being filtered.
//
// A context is built per top-level evaluation and derived for every node a
// predicate or path visits. It is never shared beyond that evaluation.
type EvalContext struct {
	// node is the context node
	node document.Node

	// functions is the library consulted by function calls
	functions Library

	// variables stores $name bindings
	variables map[string]types.Value

	// position and size are 1-based; both are 1 outside predicates
	position int
	size     int

	// depth tracks nesting to prevent stack overflow
	depth int
}

// NewContext creates a new evaluation context for node using the given
// function library. The library is read, never modified.
func NewContext(node document.Node, functions Library) *EvalContext {
	return &EvalContext{
		node:      node,
		functions: functions,
		position:  1,
		size:      1,
	}
}

// forNode derives the context used while visiting one node of a node-set.
func (c *EvalContext) forNode(node document.Node, position, size int) *EvalContext {
	return &EvalContext{
		node:      node,
		functions: c.functions,
		variables: c.variables,
		position:  position,
		size:      size,
		depth:     c.depth + 1,
	}
}

// WithVariables returns a copy of the context with additional bindings.
// Existing bindings with the same name are shadowed.
func (c *EvalContext) WithVariables(vars map[string]types.Value) *EvalContext {
	if len(vars) == 0 {
		return c
	}
	merged := make(map[string]types.Value, len(c.variables)+len(vars))
	maps.Copy(merged, c.variables)
	maps.Copy(merged, vars)

	clone := *c
	clone.variables = merged
	return &clone
}

// Node returns the context node.
func (c *EvalContext) Node() document.Node {
	return c.node
}

// Position returns the context position.
func (c *EvalContext) Position() int {
	return c.position
}

// Size returns the context size.
func (c *EvalContext) Size() int {
	return c.size
}

// Depth returns the current nesting depth.
func (c *EvalContext) Depth() int {
	return c.depth
}

// Functions returns the function library.
func (c *EvalContext) Functions() Library {
	return c.functions
}

// Function looks up a function by name.
func (c *EvalContext) Function(name string) (Function, bool) {
	fn, ok := c.functions[name]
	return fn, ok
}

// Variable looks up a variable binding.
func (c *EvalContext) Variable(name string) (types.Value, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// String returns a string representation of the context.
func (c *EvalContext) String() string {
	return fmt.Sprintf("Context{node=%s, position=%d, size=%d, depth=%d}", c.node, c.position, c.size, c.depth)
}
