// Package functions provides types for registering custom XPath functions.
//
// Users of goxpath can define their own functions and register them via
// [evaluator.WithFunctions] or [evaluator.WithCustomFunction], making them
// callable by name inside expressions.
//
// # Example
//
//	value, err := goxpath.Eval(`greet(/user/name)`, doc,
//	    evaluator.WithCustomFunction("greet", 1, 1, func(_ functions.Call, args ...types.Value) (types.Value, error) {
//	        return types.String("Hello, " + args[0].AsString() + "!"), nil
//	    }),
//	)
package functions

import (
	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/types"
)

// Call describes the evaluation context a custom function runs in.
type Call struct {
	// Node is the context node.
	Node document.Node
	// Position and Size are the context position and size.
	Position int
	Size     int
}

// CustomFunc is the signature for user-defined custom functions.
// args contains the evaluated function arguments in order.
type CustomFunc func(call Call, args ...types.Value) (types.Value, error)

// CustomFunctionDef describes a user-defined function together with the
// number of arguments it accepts.
type CustomFunctionDef struct {
	// Name is the function name as it appears inside expressions.
	Name string
	// MinArgs and MaxArgs bound the argument count; MaxArgs -1 means unlimited.
	MinArgs int
	MaxArgs int
	// Fn is the implementation.
	Fn CustomFunc
}
