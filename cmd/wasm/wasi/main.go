//go:build wasip1

// Command goxpath-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "query": "<xpath>", "document": "<xml or html text>", "html": false, "extensions": ["string"] }
//	stdout: { "result": <value> }        on success
//	        { "error":  "<message>" }    on failure (exit code 1)
//
// Node-set results are encoded as an array of {kind, name, path, value}.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o goxpath.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"query":"count(//b)","document":"<a><b/><b/></a>"}' | wasmtime goxpath.wasm
//
// The pkg/wasmhost package runs the module in-process through wazero.
package main

import (
	"encoding/json"
	"os"

	"github.com/sandrolain/goxpath"
	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/ext"
)

type request struct {
	Query      string   `json:"query"`
	Document   string   `json:"document"`
	HTML       bool     `json:"html"`
	Extensions []string `json:"extensions"`
}

type response struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	doc, err := document.ParseString(req.Document, document.WithHTML(req.HTML))
	if err != nil {
		writeResponse(response{Error: "invalid document: " + err.Error()}, 1)
	}

	opts := []goxpath.EvalOption{goxpath.WithConcurrency(false)}
	if len(req.Extensions) > 0 {
		extOpt, err := ext.ByName(req.Extensions...)
		if err != nil {
			writeResponse(response{Error: err.Error()}, 1)
		}
		opts = append(opts, extOpt)
	}

	result, err := goxpath.Eval(req.Query, doc, opts...)
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	writeResponse(response{Result: result}, 0)
}
