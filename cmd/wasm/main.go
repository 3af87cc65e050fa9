//go:build js && wasm

// Command wasm exposes the evasion engine to the browser via WebAssembly.
// After loading, it registers two global JavaScript functions:
//
//	runEvasion(jsonString) -> jsonString
//	evasionInputSchema() -> jsonString
//
// runEvasion takes a JSON-encoded SimulationInput and returns the
// JSON-encoded SimulationLog, the same contract the CLI uses. Failures are
// returned as {error: message}.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/cxd309/evasion-engine/internal/engine"
)

func main() {
	js.Global().Set("runEvasion", js.FuncOf(runEvasion))
	js.Global().Set("evasionInputSchema", js.FuncOf(inputSchema))
	select {} // keep the WASM module alive until the page is closed
}

func runEvasion(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}

func inputSchema(_ js.Value, _ []js.Value) any {
	out, err := json.Marshal(engine.InputSchema())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return string(out)
}
