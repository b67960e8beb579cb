// Package wasmicon compiles a WebAssembly module into Xtensa ESP32
// assembly text.
package wasmicon

import (
	"fmt"

	"github.com/hota1024/wasmicon/internal/ir"
	"github.com/hota1024/wasmicon/internal/wasm"
	"github.com/hota1024/wasmicon/internal/xtensa"
)

// Compile decodes a binary wasm module, reshapes it into the function-
// centric logical form, and lowers it to Xtensa assembly text.
func Compile(data []byte) (string, error) {
	mod, err := wasm.Decode(data)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	logical, err := ir.Parse(mod)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}

	asm, err := xtensa.Generate(logical)
	if err != nil {
		return "", fmt.Errorf("codegen: %w", err)
	}

	return asm, nil
}
