package evaluator

import (
	"fmt"
	"maps"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/functions"
	"github.com/sandrolain/goxpath/pkg/types"
)

// Function is a callable library entry: given the context and the already
// evaluated arguments, it produces a value.
type Function interface {
	Call(ctx *EvalContext, args []types.Value) (types.Value, error)
}

// FunctionFunc adapts an ordinary function to the Function interface.
type FunctionFunc func(ctx *EvalContext, args []types.Value) (types.Value, error)

// Call implements Function.
func (f FunctionFunc) Call(ctx *EvalContext, args []types.Value) (types.Value, error) {
	return f(ctx, args)
}

// FunctionDef is a Function that validates its argument count before
// running Impl.
type FunctionDef struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 for unlimited
	Impl    FunctionFunc
}

// Call implements Function.
func (d *FunctionDef) Call(ctx *EvalContext, args []types.Value) (types.Value, error) {
	if len(args) < d.MinArgs {
		return nil, types.NewError(types.ErrArgumentCountMismatch,
			fmt.Sprintf("function %s() requires at least %d arguments, got %d", d.Name, d.MinArgs, len(args)), -1).WithToken(d.Name)
	}
	if d.MaxArgs != -1 && len(args) > d.MaxArgs {
		return nil, types.NewError(types.ErrArgumentCountMismatch,
			fmt.Sprintf("function %s() accepts at most %d arguments, got %d", d.Name, d.MaxArgs, len(args)), -1).WithToken(d.Name)
	}
	return d.Impl(ctx, args)
}

// Library maps function names to functions. Libraries are treated as
// immutable once handed to a context; With and Merge return copies.
type Library map[string]Function

// With returns a copy of the library with name bound to fn.
func (l Library) With(name string, fn Function) Library {
	out := make(Library, len(l)+1)
	maps.Copy(out, l)
	out[name] = fn
	return out
}

// Merge returns a copy of the library extended with other's entries.
// Entries of other win on conflicts.
func (l Library) Merge(other Library) Library {
	out := make(Library, len(l)+len(other))
	maps.Copy(out, l)
	maps.Copy(out, other)
	return out
}

// Names returns the function names, unordered.
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	return names
}

// CoreLibrary returns a fresh copy of the XPath 1.0 core function library.
func CoreLibrary() Library {
	lib := make(Library, len(coreFunctions))
	for _, def := range coreFunctions {
		lib[def.Name] = def
	}
	return lib
}

var coreFunctions = []*FunctionDef{
	// Node-set functions
	{Name: "last", MinArgs: 0, MaxArgs: 0, Impl: fnLast},
	{Name: "position", MinArgs: 0, MaxArgs: 0, Impl: fnPosition},
	{Name: "count", MinArgs: 1, MaxArgs: 1, Impl: fnCount},
	{Name: "id", MinArgs: 1, MaxArgs: 1, Impl: fnID},
	{Name: "local-name", MinArgs: 0, MaxArgs: 1, Impl: fnLocalName},
	{Name: "namespace-uri", MinArgs: 0, MaxArgs: 1, Impl: fnNamespaceURI},
	{Name: "name", MinArgs: 0, MaxArgs: 1, Impl: fnName},

	// String functions
	{Name: "string", MinArgs: 0, MaxArgs: 1, Impl: fnString},
	{Name: "concat", MinArgs: 2, MaxArgs: -1, Impl: fnConcat},
	{Name: "starts-with", MinArgs: 2, MaxArgs: 2, Impl: fnStartsWith},
	{Name: "contains", MinArgs: 2, MaxArgs: 2, Impl: fnContains},
	{Name: "substring-before", MinArgs: 2, MaxArgs: 2, Impl: fnSubstringBefore},
	{Name: "substring-after", MinArgs: 2, MaxArgs: 2, Impl: fnSubstringAfter},
	{Name: "substring", MinArgs: 2, MaxArgs: 3, Impl: fnSubstring},
	{Name: "string-length", MinArgs: 0, MaxArgs: 1, Impl: fnStringLength},
	{Name: "normalize-space", MinArgs: 0, MaxArgs: 1, Impl: fnNormalizeSpace},
	{Name: "translate", MinArgs: 3, MaxArgs: 3, Impl: fnTranslate},

	// Boolean functions
	{Name: "boolean", MinArgs: 1, MaxArgs: 1, Impl: fnBoolean},
	{Name: "not", MinArgs: 1, MaxArgs: 1, Impl: fnNot},
	{Name: "true", MinArgs: 0, MaxArgs: 0, Impl: fnTrue},
	{Name: "false", MinArgs: 0, MaxArgs: 0, Impl: fnFalse},
	{Name: "lang", MinArgs: 1, MaxArgs: 1, Impl: fnLang},

	// Number functions
	{Name: "number", MinArgs: 0, MaxArgs: 1, Impl: fnNumber},
	{Name: "sum", MinArgs: 1, MaxArgs: 1, Impl: fnSum},
	{Name: "floor", MinArgs: 1, MaxArgs: 1, Impl: fnFloor},
	{Name: "ceiling", MinArgs: 1, MaxArgs: 1, Impl: fnCeiling},
	{Name: "round", MinArgs: 1, MaxArgs: 1, Impl: fnRound},
}

// customFunction adapts a user-defined function to the library.
func customFunction(def functions.CustomFunctionDef) *FunctionDef {
	return &FunctionDef{
		Name:    def.Name,
		MinArgs: def.MinArgs,
		MaxArgs: def.MaxArgs,
		Impl: func(ctx *EvalContext, args []types.Value) (types.Value, error) {
			call := functions.Call{
				Node:     ctx.Node(),
				Position: ctx.Position(),
				Size:     ctx.Size(),
			}
			return def.Fn(call, args...)
		},
	}
}

// nodesetArg returns argument i as a node-set or a type error naming fn.
func nodesetArg(fn string, args []types.Value, i int) (*document.Nodeset, error) {
	nodes, ok := args[i].(types.Nodes)
	if !ok {
		return nil, types.NewError(types.ErrNodesetExpected,
			fmt.Sprintf("argument %d of %s() must be a node-set, got %s", i+1, fn, args[i].Kind()), -1).WithToken(fn)
	}
	return nodes.Set, nil
}

// contextOrArg returns the single argument, or the context node as a
// node-set when the function was called without arguments.
func contextOrArg(ctx *EvalContext, args []types.Value) types.Value {
	if len(args) == 0 {
		return types.NewNodes(ctx.Node())
	}
	return args[0]
}
