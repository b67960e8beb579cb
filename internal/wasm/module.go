// Package wasm decodes the WebAssembly binary format into the binary Module
// described by spec.md §3. It implements only what decoding requires: no
// type checking, no validation beyond what the grammar demands.
package wasm

// ValueType is a WebAssembly value type.
type ValueType byte

// The closed set of value types this decoder recognizes.
const (
	ValueTypeI32      ValueType = 0x7F
	ValueTypeI64      ValueType = 0x7E
	ValueTypeF32      ValueType = 0x7D
	ValueTypeF64      ValueType = 0x7C
	ValueTypeV128     ValueType = 0x7B
	ValueTypeFuncRef  ValueType = 0x70
	ValueTypeExternRef ValueType = 0x6F
)

func (v ValueType) String() string {
	switch v {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeV128:
		return "v128"
	case ValueTypeFuncRef:
		return "funcref"
	case ValueTypeExternRef:
		return "externref"
	default:
		return "unknown"
	}
}

// IsRefType reports whether v is one of the two reference types.
func (v ValueType) IsRefType() bool {
	return v == ValueTypeFuncRef || v == ValueTypeExternRef
}

// FuncType is a function signature: an ordered sequence of parameter types
// followed by an ordered sequence of result types.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// BlockTypeKind distinguishes the three encodings of a block's BlockType
// immediate (spec.md §4.1).
type BlockTypeKind byte

const (
	BlockTypeEmpty BlockTypeKind = iota
	BlockTypeValue
	BlockTypeIndex
)

// BlockType is the immediate of a block/loop/if instruction.
type BlockType struct {
	Kind  BlockTypeKind
	Value ValueType // meaningful iff Kind == BlockTypeValue
	Index uint32    // meaningful iff Kind == BlockTypeIndex
}

// Limits describes the size constraints of a table or memory.
type Limits struct {
	Min uint32
	Max uint32
	HasMax bool
}

// TableType describes a table's element type and size limits.
type TableType struct {
	ElemType ValueType // always a ref type
	Limits   Limits
}

// GlobalType describes a global's value type and mutability.
type GlobalType struct {
	ValType ValueType
	Mutable bool
}

// ImportKind discriminates the four forms an import descriptor can take.
type ImportKind byte

const (
	ImportKindFunc ImportKind = iota
	ImportKindTable
	ImportKindMemory
	ImportKindGlobal
)

// ImportDesc is the tagged descriptor of an import (spec.md §3).
type ImportDesc struct {
	Kind      ImportKind
	TypeIndex uint32 // meaningful iff Kind == ImportKindFunc
	Table     TableType
	Memory    Limits
	Global    GlobalType
}

// Import is a single entry of the import section.
type Import struct {
	Module string
	Field  string
	Desc   ImportDesc
}

// ExportKind mirrors ImportKind for the export descriptor.
type ExportKind = ImportKind

// Reuse the ImportKind constants for exports; the wire encoding is identical.
const (
	ExportKindFunc   = ImportKindFunc
	ExportKindTable  = ImportKindTable
	ExportKindMemory = ImportKindMemory
	ExportKindGlobal = ImportKindGlobal
)

// Export is a single entry of the export section.
type Export struct {
	Name string
	Kind ExportKind
	Index uint32
}

// Global is a single entry of the global section: a type plus a
// constant-producing init expression (a single instruction followed by End).
type Global struct {
	Type GlobalType
	Init Instruction
}

// Element is a table-initializer segment. Only the active-on-table-0,
// func-ref form is supported, per spec.md §3 and §6.
type Element struct {
	// FuncIndices is the vector of function indices used to initialize the
	// table, starting at the offset produced by Offset.
	FuncIndices []uint32
	// Offset is the constant-producing init expression giving the starting
	// table index.
	Offset Instruction
}

// Local is one run of the code section's locals declaration, not yet
// expanded: Count copies of ValType contribute Count entries to a
// function's locals.
type Local struct {
	Count   uint32
	ValType ValueType
}

// Code is one entry of the code section: a function body's locals
// declaration (already flattened, see decodeLocals) and its instruction
// stream.
type Code struct {
	Locals       []ValueType
	Instructions []Instruction
}

// Data is a data segment. Only the active-on-memory-0 form is supported.
type Data struct {
	Offset Instruction
	Init   []byte
}

// Module is the output of Decode: a structured view of every wasm section
// that was present in the input. A section that was absent leaves the
// corresponding field nil/empty/zero.
type Module struct {
	Version uint32

	Types     []FuncType
	Imports   []Import
	Functions []uint32 // type indices, one per non-imported function
	Tables    []TableType
	Memories  []Limits
	Globals   []Global
	Exports   []Export
	Start     *uint32
	Elements  []Element
	Code      []Code
	Data      []Data
	DataCount *uint32
}

// NumFuncImports counts the imports whose descriptor is ImportKindFunc.
func (m *Module) NumFuncImports() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == ImportKindFunc {
			n++
		}
	}
	return n
}
