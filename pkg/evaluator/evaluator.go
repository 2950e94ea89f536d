package evaluator

// Package evaluator implements the XPath expression evaluation engine.
//
// The evaluator receives an expression tree from the parser and evaluates it
// against a document node. It supports:
//   - Location paths over all thirteen axes, with predicates
//   - Boolean, number, string and node-set values with XPath coercions
//   - A pluggable function library (core functions, extensions, custom)
//   - Variable bindings
//   - Concurrent evaluation of independent expressions
//
// # Example
//
//	ev := evaluator.New()
//	result, err := ev.Eval(expr, doc.Root())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// A single expression tree is evaluated synchronously. Independent
// expressions can be evaluated in parallel:
//
//	results, err := ev.EvalMany(ctx, exprs, doc.Root())

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/sandrolain/goxpath/pkg/cache"
	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/functions"
	"github.com/sandrolain/goxpath/pkg/parser"
	"github.com/sandrolain/goxpath/pkg/types"
)

// Evaluator evaluates XPath expressions against documents.
type Evaluator struct {
	opts      EvalOptions
	logger    *slog.Logger
	cache     *cache.Cache // non-nil when Caching is enabled
	functions Library
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables caching of compiled expressions by query string.
	Caching bool
	// CacheSize sets the maximum number of cached expressions.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// Concurrency enables concurrent evaluation in EvalMany.
	Concurrency bool
	// MaxDepth limits context nesting during evaluation.
	MaxDepth int
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Functions extends the core library. Entries override core functions
	// of the same name.
	Functions Library
	// CustomFunctions holds user-defined functions to register with the evaluator.
	CustomFunctions []functions.CustomFunctionDef
	// Variables are bound in every top-level context.
	Variables map[string]types.Value
}

// defaultConcurrency controls the default value of EvalOptions.Concurrency.
// It is false on WebAssembly targets, see evaluator_wasm.go.
var defaultConcurrency = true

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 1000

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Concurrency: defaultConcurrency,
		MaxDepth:    DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New(options.CacheSize)
	}

	lib := CoreLibrary()
	if len(options.Functions) > 0 {
		lib = lib.Merge(options.Functions)
	}
	for _, cfd := range options.CustomFunctions {
		lib[cfd.Name] = customFunction(cfd)
	}

	return &Evaluator{
		opts:      options,
		logger:    options.Logger,
		cache:     c,
		functions: lib,
	}
}

var defaultEvaluator = New()

// Evaluate evaluates expr in ctx with a default evaluator.
func Evaluate(expr types.Expr, ctx *EvalContext) (types.Value, error) {
	return defaultEvaluator.Evaluate(expr, ctx)
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Functions returns the evaluator's function library. Callers must not
// modify it; use Library.With or Library.Merge to derive a new one.
func (e *Evaluator) Functions() Library {
	return e.functions
}

// Context builds a top-level context for node with the evaluator's library
// and variables.
func (e *Evaluator) Context(node document.Node) *EvalContext {
	return NewContext(node, e.functions).WithVariables(e.opts.Variables)
}

// Evaluate evaluates expr in ctx. The library and variables of ctx are used
// as given.
func (e *Evaluator) Evaluate(expr types.Expr, ctx *EvalContext) (types.Value, error) {
	if expr == nil {
		return nil, fmt.Errorf("invalid expression")
	}
	if ctx == nil {
		return nil, fmt.Errorf("nil evaluation context")
	}
	return e.evalNode(expr, ctx)
}

// Eval evaluates a compiled expression with node as the context node.
func (e *Evaluator) Eval(expr *types.Expression, node document.Node) (types.Value, error) {
	if expr == nil || expr.Root() == nil {
		return nil, fmt.Errorf("invalid expression")
	}
	return e.evalNode(expr.Root(), e.Context(node))
}

// Compile parses query, going through the cache when one is configured.
func (e *Evaluator) Compile(query string) (*types.Expression, error) {
	compile := func() (*types.Expression, error) {
		return parser.Compile(query)
	}
	if e.cache == nil {
		return compile()
	}
	return e.cache.GetOrCompile(query, compile)
}

// EvalQuery compiles query and evaluates it with node as the context node.
func (e *Evaluator) EvalQuery(query string, node document.Node) (types.Value, error) {
	expr, err := e.Compile(query)
	if err != nil {
		return nil, err
	}
	return e.Eval(expr, node)
}

// EvalMany evaluates independent expressions against the same node. Results
// are returned in input order; a failed expression leaves a nil slot and its
// error is collected in the returned *multierror.Error. Cancelling ctx stops
// expressions that have not started yet.
func (e *Evaluator) EvalMany(ctx context.Context, exprs []*types.Expression, node document.Node) ([]types.Value, error) {
	results := make([]types.Value, len(exprs))
	errs := make([]error, len(exprs))

	run := func(i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return
		}
		v, err := e.Eval(exprs[i], node)
		if err != nil {
			errs[i] = fmt.Errorf("expression %d (%s): %w", i, exprs[i], err)
			return
		}
		results[i] = v
	}

	if e.opts.Debug {
		e.logger.Debug("evaluating batch",
			"expressions", len(exprs),
			"concurrent", e.opts.Concurrency)
	}

	if e.opts.Concurrency && len(exprs) > 1 {
		var wg sync.WaitGroup
		for i := range exprs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				run(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range exprs {
			run(i)
		}
	}

	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return results, merr.ErrorOrNil()
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithCaching enables or disables expression compilation caching.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external expression cache.
// The evaluator will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithConcurrency enables or disables concurrent evaluation in EvalMany.
func WithConcurrency(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Concurrency = enabled
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum context nesting depth.
// Zero or negative disables the limit.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithFunctions adds the entries of lib to the evaluator's library.
// Later calls override earlier ones.
func WithFunctions(lib Library) EvalOption {
	return func(opts *EvalOptions) {
		if opts.Functions == nil {
			opts.Functions = make(Library, len(lib))
		}
		for name, fn := range lib {
			opts.Functions[name] = fn
		}
	}
}

// WithCustomFunction registers a user-defined function with the evaluator.
// minArgs and maxArgs bound the argument count; maxArgs -1 means unlimited.
//
// Example:
//
//	goxpath.Eval(`greet(/user/name)`, doc, evaluator.WithCustomFunction("greet", 1, 1,
//	    func(_ functions.Call, args ...types.Value) (types.Value, error) {
//	        return types.String("Hello, " + args[0].AsString() + "!"), nil
//	    }))
func WithCustomFunction(name string, minArgs, maxArgs int, fn functions.CustomFunc) EvalOption {
	return func(opts *EvalOptions) {
		opts.CustomFunctions = append(opts.CustomFunctions, functions.CustomFunctionDef{
			Name:    name,
			MinArgs: minArgs,
			MaxArgs: maxArgs,
			Fn:      fn,
		})
	}
}

// WithCustomFunctions registers several user-defined functions at once,
// typically the definitions exported by an extension package.
func WithCustomFunctions(defs ...functions.CustomFunctionDef) EvalOption {
	return func(opts *EvalOptions) {
		opts.CustomFunctions = append(opts.CustomFunctions, defs...)
	}
}

// WithVariables binds variables in every top-level context.
func WithVariables(vars map[string]types.Value) EvalOption {
	return func(opts *EvalOptions) {
		if opts.Variables == nil {
			opts.Variables = make(map[string]types.Value, len(vars))
		}
		for name, v := range vars {
			opts.Variables[name] = v
		}
	}
}
