package wasm

import "fmt"

// decodeInstruction decodes a single instruction and its immediate,
// enumerating the opcode table from spec.md §6. An opcode outside this
// table fails with ErrUnimplementedOpcode, per spec.md §4.1.
func decodeInstruction(c *cursor) (Instruction, error) {
	op, err := c.readByte()
	if err != nil {
		return Instruction{}, err
	}

	switch op {
	case OpUnreachable, OpNop, OpElse, OpEnd, OpReturn,
		OpDrop, OpSelect,
		OpRefIsNull,
		OpI32Eqz, OpI32Eq, OpI32Ne, OpI32LtS, OpI32LtU, OpI32GtS, OpI32GtU, OpI32LeS, OpI32LeU, OpI32GeS, OpI32GeU,
		OpI64Eqz, OpI64Eq, OpI64Ne, OpI64LtS, OpI64LtU, OpI64GtS, OpI64GtU, OpI64LeS, OpI64LeU, OpI64GeS, OpI64GeU,
		OpF32Eq, OpF32Ne, OpF32Lt, OpF32Gt, OpF32Le, OpF32Ge,
		OpF64Eq, OpF64Ne, OpF64Lt, OpF64Gt, OpF64Le, OpF64Ge,
		OpI32Clz, OpI32Ctz, OpI32Popcnt, OpI32Add, OpI32Sub, OpI32Mul, OpI32DivS, OpI32DivU, OpI32RemS, OpI32RemU,
		OpI32And, OpI32Or, OpI32Xor, OpI32Shl, OpI32ShrS, OpI32ShrU, OpI32Rotl, OpI32Rotr,
		OpI64Clz, OpI64Ctz, OpI64Popcnt, OpI64Add, OpI64Sub, OpI64Mul, OpI64DivS, OpI64DivU, OpI64RemS, OpI64RemU,
		OpI64And, OpI64Or, OpI64Xor, OpI64Shl, OpI64ShrS, OpI64ShrU, OpI64Rotl, OpI64Rotr,
		OpF32Abs, OpF32Neg, OpF32Ceil, OpF32Floor, OpF32Trunc, OpF32Nearest, OpF32Sqrt,
		OpF32Add, OpF32Sub, OpF32Mul, OpF32Div, OpF32Min, OpF32Max, OpF32Copysign,
		OpF64Abs, OpF64Neg, OpF64Ceil, OpF64Floor, OpF64Trunc, OpF64Nearest, OpF64Sqrt,
		OpF64Add, OpF64Sub, OpF64Mul, OpF64Div, OpF64Min, OpF64Max, OpF64Copysign,
		OpI32WrapI64, OpI32TruncF32S, OpI32TruncF32U, OpI32TruncF64S, OpI32TruncF64U,
		OpI64ExtendI32S, OpI64ExtendI32U, OpI64TruncF32S, OpI64TruncF32U, OpI64TruncF64S, OpI64TruncF64U,
		OpF32ConvertI32S, OpF32ConvertI32U, OpF32ConvertI64S, OpF32ConvertI64U, OpF32DemoteF64,
		OpF64ConvertI32S, OpF64ConvertI32U, OpF64ConvertI64S, OpF64ConvertI64U, OpF64PromoteF32,
		OpI32ReinterpretF32, OpI64ReinterpretF64, OpF32ReinterpretI32, OpF64ReinterpretI64,
		OpI32Extend8S, OpI32Extend16S, OpI64Extend8S, OpI64Extend16S, OpI64Extend32S:
		return Instruction{Op: op}, nil

	case OpBlock, OpLoop, OpIf:
		bt, err := decodeBlockType(c)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: BlockImm{Type: bt}}, nil

	case OpBr, OpBrIf:
		depth, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: BrImm{Depth: depth}}, nil

	case OpBrTable:
		n, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		depths := make([]uint32, n)
		for i := range depths {
			d, err := c.readVarUint32()
			if err != nil {
				return Instruction{}, err
			}
			depths[i] = d
		}
		def, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: BrTableImm{Depths: depths, Default: def}}, nil

	case OpCall:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: CallImm{FuncIndex: idx}}, nil

	case OpCallIndirect:
		typeIdx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		tableIdx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: CallIndirectImm{TypeIndex: typeIdx, TableIndex: tableIdx}}, nil

	case OpSelectTyped:
		n, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		types := make([]ValueType, n)
		for i := range types {
			vt, err := decodeValueType(c)
			if err != nil {
				return Instruction{}, err
			}
			types[i] = vt
		}
		return Instruction{Op: op, Imm: SelectTypedImm{Types: types}}, nil

	case OpLocalGet, OpLocalSet, OpLocalTee:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: LocalImm{Index: idx}}, nil

	case OpGlobalGet, OpGlobalSet:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: GlobalImm{Index: idx}}, nil

	case OpTableGet, OpTableSet:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: TableImm{Index: idx}}, nil

	case OpI32Load, OpI64Load, OpF32Load, OpF64Load,
		OpI32Load8S, OpI32Load8U, OpI32Load16S, OpI32Load16U,
		OpI64Load8S, OpI64Load8U, OpI64Load16S, OpI64Load16U, OpI64Load32S, OpI64Load32U,
		OpI32Store, OpI64Store, OpF32Store, OpF64Store,
		OpI32Store8, OpI32Store16, OpI64Store8, OpI64Store16, OpI64Store32:
		align, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		offset, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: MemArg{Align: align, Offset: offset}}, nil

	case OpMemorySize, OpMemoryGrow:
		if _, err := c.readByte(); err != nil { // reserved 0x00 byte
			return Instruction{}, err
		}
		return Instruction{Op: op}, nil

	case OpI32Const:
		v, err := c.readVarInt32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: I32ConstImm{Value: v}}, nil

	case OpI64Const:
		v, err := c.readVarInt64()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: I64ConstImm{Value: v}}, nil

	case OpF32Const:
		v, err := c.readF32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: F32ConstImm{Value: v}}, nil

	case OpF64Const:
		v, err := c.readF64()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: F64ConstImm{Value: v}}, nil

	case OpRefNull:
		rt, err := decodeRefType(c)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: RefNullImm{RefType: rt}}, nil

	case OpRefFunc:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Imm: RefFuncImm{FuncIndex: idx}}, nil

	case OpMiscPrefix:
		return decodeMiscInstruction(c)

	default:
		return Instruction{}, fmt.Errorf("%w: 0x%02x", ErrUnimplementedOpcode, op)
	}
}

// decodeMiscInstruction decodes the 0xFC-prefixed family: saturating
// truncation, bulk memory, and table operations (spec.md §4.1, §6).
func decodeMiscInstruction(c *cursor) (Instruction, error) {
	sub, err := c.readVarUint32()
	if err != nil {
		return Instruction{}, err
	}

	switch byte(sub) {
	case MiscI32TruncSatF32S, MiscI32TruncSatF32U, MiscI32TruncSatF64S, MiscI32TruncSatF64U,
		MiscI64TruncSatF32S, MiscI64TruncSatF32U, MiscI64TruncSatF64S, MiscI64TruncSatF64U:
		return Instruction{Op: OpMiscPrefix, Imm: sub}, nil

	case MiscMemoryInit:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		if _, err := c.readByte(); err != nil { // memory index, always 0x00
			return Instruction{}, err
		}
		return Instruction{Op: OpMiscPrefix, Imm: memoryInitDecoded{MemoryInitImm{DataIndex: idx}}}, nil

	case MiscDataDrop:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMiscPrefix, Imm: dataDropDecoded{DataDropImm{DataIndex: idx}}}, nil

	case MiscMemoryCopy:
		if _, err := c.readByte(); err != nil { // dst memory index
			return Instruction{}, err
		}
		if _, err := c.readByte(); err != nil { // src memory index
			return Instruction{}, err
		}
		return Instruction{Op: OpMiscPrefix, Imm: memoryCopyDecoded{}}, nil

	case MiscMemoryFill:
		if _, err := c.readByte(); err != nil { // memory index
			return Instruction{}, err
		}
		return Instruction{Op: OpMiscPrefix, Imm: memoryFillDecoded{}}, nil

	case MiscTableInit:
		elemIdx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		tableIdx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMiscPrefix, Imm: tableInitDecoded{TableInitImm{ElemIndex: elemIdx, TableIndex: tableIdx}}}, nil

	case MiscElemDrop:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMiscPrefix, Imm: elemDropDecoded{ElemDropImm{ElemIndex: idx}}}, nil

	case MiscTableCopy:
		dst, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		src, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMiscPrefix, Imm: tableCopyDecoded{TableCopyImm{DstTableIndex: dst, SrcTableIndex: src}}}, nil

	case MiscTableGrow, MiscTableSize, MiscTableFill:
		idx, err := c.readVarUint32()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMiscPrefix, Imm: tableOpDecoded{sub: byte(sub), imm: TableImm{Index: idx}}}, nil

	default:
		return Instruction{}, fmt.Errorf("%w: %d", ErrInvalidSubInstruction, sub)
	}
}

// The decoded* wrapper types give each 0xFC sub-opcode family immediate
// shape its own type, so the sub-opcode need not be re-read out of a bare
// uint32. They are unexported, so only this package can type-switch on
// them; the saturating-truncation forms carry the bare uint32 sub-opcode.
type (
	memoryInitDecoded struct{ MemoryInitImm }
	dataDropDecoded    struct{ DataDropImm }
	memoryCopyDecoded  struct{}
	memoryFillDecoded  struct{}
	tableInitDecoded   struct{ TableInitImm }
	elemDropDecoded    struct{ ElemDropImm }
	tableCopyDecoded   struct{ TableCopyImm }
	tableOpDecoded     struct {
		sub byte
		imm TableImm
	}
)
