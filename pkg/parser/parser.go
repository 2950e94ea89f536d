package parser

// Package parser turns XPath expression text into an expression tree.
//
// The parser uses a hand-written recursive descent approach. It runs in
// three stages that can also be driven separately:
//   - Lexer: scans the input into raw tokens (names stay ambiguous)
//   - Disambiguator: resolves names into function names, axis names and
//     node-type tests with one token of lookahead
//   - Parser: builds the expression tree from the disambiguated tokens
//
// # Example
//
//	expr, err := parser.Parse("//book[@year > 2000]/title")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tree := expr.Root()

import (
	"github.com/sandrolain/goxpath/pkg/types"
)

// Parse parses an XPath expression and returns the compiled Expression.
//
// If parsing fails, it returns a *types.Error with position information.
//
// Example:
//
//	expr, err := parser.Parse("count(//item)")
//	if err != nil {
//	    var xerr *types.Error
//	    if errors.As(err, &xerr) {
//	        fmt.Printf("Parse error at position %d\n", xerr.Position)
//	    }
//	    return
//	}
func Parse(query string) (*types.Expression, error) {
	p := NewParser(query)
	return p.Parse()
}

// Compile is Parse with options, provided for API consistency.
func Compile(query string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(query, opts...)
	return p.Parse()
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(query string, opts ...CompileOption) *types.Expression {
	expr, err := Compile(query, opts...)
	if err != nil {
		panic("parser: Compile(" + query + "): " + err.Error())
	}
	return expr
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits nesting depth to prevent stack overflow.
	// Zero or negative disables the limit.
	MaxDepth int
}

// WithMaxDepth sets the maximum nesting depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
