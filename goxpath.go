// Package goxpath evaluates XPath 1.0 style expressions against XML and HTML
// documents.
//
// An expression is scanned into tokens, the tokens are disambiguated with
// one token of lookahead, a recursive-descent parser builds an expression
// tree and the evaluator walks that tree from a context node, producing a
// boolean, a number, a string or a node-set.
//
// # Quick Start
//
//	doc, err := document.ParseString(`<catalog><book year="2005"/></catalog>`)
//
//	// Simple evaluation
//	result, err := goxpath.Eval("count(//book[@year > 2000])", doc)
//
//	// Compile once, evaluate many times
//	expr, err := goxpath.Compile("//book/@year")
//	ev := evaluator.New()
//	result1, _ := ev.Eval(expr, doc1.Root())
//	result2, _ := ev.Eval(expr, doc2.Root())
//
//	// With options
//	result, err := goxpath.Eval("upper-case(//title)", doc,
//	    ext.WithString(),
//	    goxpath.WithVariables(map[string]types.Value{"min": types.Number(10)}),
//	)
//
// # More Information
//
// For detailed documentation, see:
//   - Documents: github.com/sandrolain/goxpath/pkg/document
//   - Parser: github.com/sandrolain/goxpath/pkg/parser
//   - Evaluator: github.com/sandrolain/goxpath/pkg/evaluator
//   - Functions: github.com/sandrolain/goxpath/pkg/functions
//   - Types: github.com/sandrolain/goxpath/pkg/types
package goxpath

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/parser"
	"github.com/sandrolain/goxpath/pkg/types"
)

// Version returns the current version of goxpath.
func Version() string {
	return "v0.1.0-dev"
}

// EvalOption configures evaluation; see the evaluator package for the full set.
type EvalOption = evaluator.EvalOption

// Re-exported evaluation options.
var (
	WithCaching        = evaluator.WithCaching
	WithConcurrency    = evaluator.WithConcurrency
	WithDebug          = evaluator.WithDebug
	WithLogger         = evaluator.WithLogger
	WithMaxDepth       = evaluator.WithMaxDepth
	WithVariables      = evaluator.WithVariables
	WithCustomFunction = evaluator.WithCustomFunction
)

// Compile compiles an expression for repeated evaluation.
//
// The compiled expression can be evaluated multiple times against different
// documents. It is safe for concurrent use.
//
// Example:
//
//	expr, err := goxpath.Compile("//item[price > 100]")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, _ := evaluator.New().Eval(expr, doc.Root())
func Compile(query string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(query, opts...)
}

// MustCompile is like Compile but panics if the expression cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(query string) *types.Expression {
	expr, err := Compile(query)
	if err != nil {
		panic(fmt.Sprintf("goxpath: Compile(%q): %v", query, err))
	}
	return expr
}

// Eval compiles query and evaluates it with the document root as the
// context node.
//
// For repeated evaluations of the same expression, use Compile instead.
//
// Example:
//
//	result, err := goxpath.Eval("string(/user/name)", doc)
func Eval(query string, doc *document.Document, opts ...EvalOption) (types.Value, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	return EvalNode(query, doc.Root(), opts...)
}

// EvalNode compiles query and evaluates it with node as the context node.
func EvalNode(query string, node document.Node, opts ...EvalOption) (types.Value, error) {
	return evaluator.New(opts...).EvalQuery(query, node)
}

// EvalMany compiles and evaluates independent queries against the same
// node, concurrently unless concurrency is disabled. Results keep the order
// of queries; the slot of a failed query is nil and every failure is
// reported in the returned *multierror.Error.
func EvalMany(ctx context.Context, queries []string, node document.Node, opts ...EvalOption) ([]types.Value, error) {
	var merr *multierror.Error
	valid := make([]*types.Expression, 0, len(queries))
	slots := make([]int, 0, len(queries))
	for i, q := range queries {
		expr, err := Compile(q)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("query %d (%s): %w", i, q, err))
			continue
		}
		valid = append(valid, expr)
		slots = append(slots, i)
	}

	results := make([]types.Value, len(queries))
	values, err := evaluator.New(opts...).EvalMany(ctx, valid, node)
	for j, v := range values {
		results[slots[j]] = v
	}
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	return results, merr.ErrorOrNil()
}
