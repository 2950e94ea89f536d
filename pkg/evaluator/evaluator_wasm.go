//go:build (js && wasm) || wasip1

package evaluator

// init disables concurrent batch evaluation on WebAssembly targets.
//
// js/wasm runs goroutines cooperatively on the single JavaScript thread, and
// the Go runtime does not support the WASI threads proposal on wasip1, so
// EvalMany evaluates sequentially there.
func init() {
	defaultConcurrency = false
}
