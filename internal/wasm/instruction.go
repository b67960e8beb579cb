package wasm

// Instruction is a decoded wasm instruction: an opcode plus its immediate,
// if any. Imm holds one of the immediate types below (an *Imm type or
// MemArg), a 0xFC-family value (a bare uint32 sub-opcode or one of the
// decoded* wrappers in instructions.go), or nil for opcodes with no
// immediate. This mirrors the "opcode + interface{} immediate" shape used
// throughout this pack's wasm decoders rather than one giant sum-of-structs
// variant per opcode.
type Instruction struct {
	Op  byte
	Imm any
}

// BlockImm is the immediate of block, loop, and if.
type BlockImm struct {
	Type BlockType
}

// BrImm is the immediate of br and br_if: a relative branch depth.
type BrImm struct {
	Depth uint32
}

// BrTableImm is the immediate of br_table.
type BrTableImm struct {
	Depths  []uint32
	Default uint32
}

// CallImm is the immediate of call.
type CallImm struct {
	FuncIndex uint32
}

// CallIndirectImm is the immediate of call_indirect.
type CallIndirectImm struct {
	TypeIndex  uint32
	TableIndex uint32
}

// LocalImm is the immediate of local.get/set/tee.
type LocalImm struct {
	Index uint32
}

// GlobalImm is the immediate of global.get/set.
type GlobalImm struct {
	Index uint32
}

// TableImm is the immediate of table.get/set and the single-table-operand
// 0xFC table instructions.
type TableImm struct {
	Index uint32
}

// MemArg is the (align, offset) immediate of a memory load/store.
type MemArg struct {
	Align  uint32
	Offset uint32
}

// SelectTypedImm is the immediate of the typed `select t*` form.
type SelectTypedImm struct {
	Types []ValueType
}

// RefNullImm is the immediate of ref.null.
type RefNullImm struct {
	RefType ValueType
}

// RefFuncImm is the immediate of ref.func.
type RefFuncImm struct {
	FuncIndex uint32
}

// I32ConstImm is the immediate of i32.const.
type I32ConstImm struct{ Value int32 }

// I64ConstImm is the immediate of i64.const.
type I64ConstImm struct{ Value int64 }

// F32ConstImm is the immediate of f32.const.
type F32ConstImm struct{ Value float32 }

// F64ConstImm is the immediate of f64.const.
type F64ConstImm struct{ Value float64 }

// MemoryInitImm is the immediate of memory.init.
type MemoryInitImm struct{ DataIndex uint32 }

// DataDropImm is the immediate of data.drop.
type DataDropImm struct{ DataIndex uint32 }

// ElemDropImm is the immediate of elem.drop.
type ElemDropImm struct{ ElemIndex uint32 }

// TableInitImm is the immediate of table.init.
type TableInitImm struct {
	ElemIndex  uint32
	TableIndex uint32
}

// TableCopyImm is the immediate of table.copy.
type TableCopyImm struct {
	DstTableIndex uint32
	SrcTableIndex uint32
}
