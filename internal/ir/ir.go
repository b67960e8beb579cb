// Package ir reshapes a decoded binary wasm.Module into the function-
// centric logical Module the code generator walks, per spec.md §4.2.
package ir

import "github.com/hota1024/wasmicon/internal/wasm"

// Function is one defined (non-imported) function, indexed by its global
// function index — imports occupy the lower indices, per spec.md §3.
type Function struct {
	Index uint32

	// TypeIndex is the raw type-section index from the binary module,
	// carried through unvalidated — the parser does not check it against
	// Module.Types, per spec.md §4.2; the generator resolves and range-
	// checks it.
	TypeIndex uint32

	Label  string
	Export string // "" if the function is not exported
	HasExport bool

	Params  []wasm.ValueType
	Results []wasm.ValueType
	Locals  []wasm.ValueType

	// ParamsLocals is Params followed by Locals, the order local indices
	// address a function's frame in.
	ParamsLocals []wasm.ValueType

	Instructions []wasm.Instruction
}

// Module is the parser's function-indexed view of a wasm module. Imports,
// globals, and the type section pass through unchanged from the binary
// module — Types is kept so the generator can resolve each Function's
// TypeIndex itself.
type Module struct {
	Functions []Function
	Imports   []wasm.Import
	Globals   []wasm.Global
	Types     []wasm.FuncType
}
