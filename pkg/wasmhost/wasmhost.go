// Package wasmhost runs the WASI build of goxpath (cmd/wasm/wasi) inside a
// wazero sandbox, so that queries can be evaluated in an isolated module
// with its own memory.
//
// # Example
//
//	bin, _ := os.ReadFile("goxpath.wasm")
//	r, err := wasmhost.New(ctx, bin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close(ctx)
//
//	resp, err := r.Eval(ctx, wasmhost.Request{Query: "count(//b)", Document: "<a><b/></a>"})
package wasmhost

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// Request is the JSON document written to the module's stdin.
type Request struct {
	Query      string   `json:"query"`
	Document   string   `json:"document"`
	HTML       bool     `json:"html,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
}

// Response is the JSON document the module writes to stdout. Exactly one of
// Result and Error is set.
type Response struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Runner owns a wazero runtime with the compiled goxpath module. Each Eval
// instantiates a fresh module instance. A Runner is safe for concurrent use.
type Runner struct {
	runtime wazero.Runtime
	module  wazero.CompiledModule
}

// New compiles the wasip1 binary bin.
func New(ctx context.Context, bin []byte) (*Runner, error) {
	rt := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(err, "instantiate WASI")
	}
	mod, err := rt.CompileModule(ctx, bin)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(err, "compile module")
	}
	return &Runner{runtime: rt, module: mod}, nil
}

// Load reads and compiles the binary stored at path.
func Load(ctx context.Context, path string) (*Runner, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return New(ctx, bin)
}

// Eval runs one request through a new module instance. Query failures are
// reported in Response.Error; the returned error covers host failures only.
func (r *Runner) Eval(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, errors.Wrap(err, "encode request")
	}

	var stdout, stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithArgs("goxpath").
		WithStdin(bytes.NewReader(payload)).
		WithStdout(&stdout).
		WithStderr(&stderr)

	mod, err := r.runtime.InstantiateModule(ctx, r.module, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		exitErr, ok := errors.Cause(err).(*sys.ExitError)
		if !ok {
			return Response{}, errors.Wrap(err, "run module")
		}
		// exit code 1 carries an error response on stdout
		if exitErr.ExitCode() > 1 {
			return Response{}, errors.Errorf("module exited with code %d: %s", exitErr.ExitCode(), stderr.String())
		}
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return Response{}, errors.Wrapf(err, "decode response %q", stdout.String())
	}
	return resp, nil
}

// Close releases the runtime and the compiled module.
func (r *Runner) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}
