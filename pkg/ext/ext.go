// Package ext provides optional extension functions for goxpath that go
// beyond the XPath 1.0 core function library.
//
// The extension functions live in sub-packages grouped by category:
//   - extstring  – upper-case, lower-case, title-case, ends-with, matches, replace, string-join, …
//   - extnumeric – abs, sign, trunc, log, min, max, avg, median, …
//   - extid      – generate-id, uuid, hash
//
// # Integration – all extensions at once
//
//	import "github.com/sandrolain/goxpath/pkg/ext"
//
//	result, err := goxpath.Eval(expr, doc, ext.WithAll())
//
// # Integration – by category
//
//	result, err := goxpath.Eval(expr, doc,
//	    ext.WithString(),
//	    ext.WithNumeric(),
//	)
//
// # Integration – single function from a sub-package
//
//	import "github.com/sandrolain/goxpath/pkg/ext/extstring"
//
//	result, err := goxpath.Eval(expr, doc,
//	    evaluator.WithCustomFunctions(extstring.Matches()),
//	)
package ext

import (
	"fmt"
	"sort"

	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/ext/extid"
	"github.com/sandrolain/goxpath/pkg/ext/extnumeric"
	"github.com/sandrolain/goxpath/pkg/ext/extstring"
	"github.com/sandrolain/goxpath/pkg/functions"
)

var packs = map[string]func() []functions.CustomFunctionDef{
	"string":  extstring.All,
	"numeric": extnumeric.All,
	"id":      extid.All,
}

// Names returns the names of the available extension packs, sorted.
func Names() []string {
	names := make([]string, 0, len(packs))
	for name := range packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every extension function definition.
func All() []functions.CustomFunctionDef {
	var all []functions.CustomFunctionDef
	for _, name := range Names() {
		all = append(all, packs[name]()...)
	}
	return all
}

// ByName returns an EvalOption registering the named packs. Unknown names
// are reported as an error.
func ByName(names ...string) (evaluator.EvalOption, error) {
	var defs []functions.CustomFunctionDef
	for _, name := range names {
		pack, ok := packs[name]
		if !ok {
			return nil, fmt.Errorf("unknown extension pack %q (available: %v)", name, Names())
		}
		defs = append(defs, pack()...)
	}
	return evaluator.WithCustomFunctions(defs...), nil
}

// WithAll returns an EvalOption that registers all extension functions.
func WithAll() evaluator.EvalOption {
	return evaluator.WithCustomFunctions(All()...)
}

// WithString returns an EvalOption for the extended string functions.
func WithString() evaluator.EvalOption {
	return evaluator.WithCustomFunctions(extstring.All()...)
}

// WithNumeric returns an EvalOption for the extended numeric functions.
func WithNumeric() evaluator.EvalOption {
	return evaluator.WithCustomFunctions(extnumeric.All()...)
}

// WithID returns an EvalOption for the identifier and digest functions.
func WithID() evaluator.EvalOption {
	return evaluator.WithCustomFunctions(extid.All()...)
}
