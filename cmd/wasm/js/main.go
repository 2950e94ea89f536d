//go:build js && wasm

// Command goxpath-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `goxpath` object with the following API:
//
//	goxpath.version()                    → string
//	goxpath.eval(query, xml[, isHTML])   → resultJSON  (throws on error)
//	goxpath.compile(query)               → { eval(xml[, isHTML]) → resultJSON }  (throws on error)
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o goxpath.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	const gx = await load()
//	const result = gx.eval('count(//b)', '<a><b/><b/></a>')
//	console.log(JSON.parse(result)) // 2
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/goxpath"
	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/ext"
	"github.com/sandrolain/goxpath/pkg/types"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

// parseArgs parses the document text and optional HTML flag found at args[i:].
func parseArgs(fn string, args []js.Value, i int) *document.Document {
	isHTML := len(args) > i+1 && args[i+1].Truthy()
	doc, err := document.ParseString(args[i].String(), document.WithHTML(isHTML))
	if err != nil {
		jsThrow(fmt.Sprintf("%s: invalid document: %v", fn, err))
	}
	return doc
}

func marshal(fn string, v types.Value) string {
	out, err := json.Marshal(v)
	if err != nil {
		jsThrow(fmt.Sprintf("%s: marshal result: %v", fn, err))
	}
	return string(out)
}

var ev = evaluator.New(evaluator.WithConcurrency(false), evaluator.WithCaching(true), ext.WithAll())

// jsEval implements goxpath.eval(query, xml[, isHTML]) → resultJSON.
func jsEval(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		jsThrow("goxpath.eval requires 2 arguments: query (string) and document (string)")
	}
	doc := parseArgs("goxpath.eval", args, 1)

	result, err := ev.EvalQuery(args[0].String(), doc.Root())
	if err != nil {
		jsThrow(fmt.Sprintf("goxpath.eval: %v", err))
	}
	return marshal("goxpath.eval", result)
}

// jsCompile implements goxpath.compile(query) → { eval(xml[, isHTML]) → resultJSON }.
func jsCompile(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		jsThrow("goxpath.compile requires 1 argument: query (string)")
	}

	expr, err := goxpath.Compile(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("goxpath.compile: %v", err))
	}

	evalFn := js.FuncOf(func(_ js.Value, innerArgs []js.Value) any {
		if len(innerArgs) < 1 {
			jsThrow("compiled.eval requires 1 argument: document (string)")
		}
		doc := parseArgs("compiled.eval", innerArgs, 0)
		r, err := ev.Eval(expr, doc.Root())
		if err != nil {
			jsThrow(fmt.Sprintf("compiled.eval: %v", err))
		}
		return marshal("compiled.eval", r)
	})

	return js.ValueOf(map[string]any{"eval": evalFn})
}

func main() {
	api := map[string]any{
		"eval":    js.FuncOf(jsEval),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) any {
			return goxpath.Version()
		}),
	}
	js.Global().Set("goxpath", js.ValueOf(api))

	// Block forever: the JS event loop owns execution from here.
	select {}
}
