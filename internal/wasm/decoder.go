package wasm

import "fmt"

// wasmMagic is the 4-byte header every wasm binary starts with.
var wasmMagic = [4]byte{0x00, 0x61, 0x73, 0x6D}

// Decode parses a complete wasm binary module, per spec.md §4.1. It reports
// the first error encountered; decoding is not restartable.
func Decode(data []byte) (*Module, error) {
	c := newCursor(data)

	magic, err := c.readBytes(4)
	if err != nil {
		return nil, wrapErr("header", err)
	}
	if [4]byte(magic) != wasmMagic {
		return nil, wrapErr("header", ErrInvalidMagicHeader)
	}

	version, err := c.readU32LE()
	if err != nil {
		return nil, wrapErr("header", err)
	}
	if version != 1 {
		return nil, wrapErr("header", ErrInvalidVersion)
	}

	m := &Module{Version: version}

	for !c.atEnd() {
		id, err := c.readByte()
		if err != nil {
			return nil, wrapErr("section header", err)
		}

		size, err := c.readVarUint32()
		if err != nil {
			return nil, wrapErr("section size", err)
		}

		sc, err := c.subCursor(int(size))
		if err != nil {
			return nil, wrapErr("section payload", err)
		}

		if err := decodeSection(SectionID(id), sc, m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func decodeSection(id SectionID, c *cursor, m *Module) error {
	switch id {
	case SectionCustom:
		// Payload already consumed by subCursor; nothing to keep.
		return nil
	case SectionType:
		return wrapErr("type section", decodeTypeSection(c, m))
	case SectionImport:
		return wrapErr("import section", decodeImportSection(c, m))
	case SectionFunction:
		return wrapErr("function section", decodeFunctionSection(c, m))
	case SectionTable:
		return wrapErr("table section", decodeTableSection(c, m))
	case SectionMemory:
		return wrapErr("memory section", decodeMemorySection(c, m))
	case SectionGlobal:
		return wrapErr("global section", decodeGlobalSection(c, m))
	case SectionExport:
		return wrapErr("export section", decodeExportSection(c, m))
	case SectionStart:
		return wrapErr("start section", decodeStartSection(c, m))
	case SectionElement:
		return wrapErr("element section", decodeElementSection(c, m))
	case SectionCode:
		return wrapErr("code section", decodeCodeSection(c, m))
	case SectionData:
		return wrapErr("data section", decodeDataSection(c, m))
	case SectionDataCount:
		return wrapErr("data count section", decodeDataCountSection(c, m))
	default:
		return wrapErr(fmt.Sprintf("section id 0x%02x", byte(id)), ErrInvalidSectionID)
	}
}

func decodeValueType(c *cursor) (ValueType, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	switch ValueType(b) {
	case ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64, ValueTypeV128,
		ValueTypeFuncRef, ValueTypeExternRef:
		return ValueType(b), nil
	default:
		return 0, ErrInvalidValueType
	}
}

func decodeRefType(c *cursor) (ValueType, error) {
	v, err := decodeValueType(c)
	if err != nil {
		return 0, err
	}
	if !v.IsRefType() {
		return 0, ErrInvalidRefType
	}
	return v, nil
}

// decodeBlockType implements the three-way encoding in spec.md §4.1: 0x40
// for Empty, a value-type byte for Value, otherwise the byte is re-parsed
// (from the same position) as a signed LEB128 type index.
func decodeBlockType(c *cursor) (BlockType, error) {
	b, err := c.peekByte()
	if err != nil {
		return BlockType{}, err
	}
	if b == blockTypeEmptyByte {
		c.pos++
		return BlockType{Kind: BlockTypeEmpty}, nil
	}
	switch ValueType(b) {
	case ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64, ValueTypeV128,
		ValueTypeFuncRef, ValueTypeExternRef:
		c.pos++
		return BlockType{Kind: BlockTypeValue, Value: ValueType(b)}, nil
	}
	idx, err := c.readVarInt32()
	if err != nil {
		return BlockType{}, err
	}
	if idx < 0 {
		return BlockType{}, ErrInvalidBlockType
	}
	return BlockType{Kind: BlockTypeIndex, Index: uint32(idx)}, nil
}

func decodeLimits(c *cursor) (Limits, error) {
	kind, err := c.readByte()
	if err != nil {
		return Limits{}, err
	}
	min, err := c.readVarUint32()
	if err != nil {
		return Limits{}, err
	}
	switch kind {
	case limitsMinOnly:
		return Limits{Min: min}, nil
	case limitsMinMax:
		max, err := c.readVarUint32()
		if err != nil {
			return Limits{}, err
		}
		return Limits{Min: min, Max: max, HasMax: true}, nil
	default:
		return Limits{}, ErrInvalidLimitsKind
	}
}

func decodeFuncType(c *cursor) (FuncType, error) {
	form, err := c.readByte()
	if err != nil {
		return FuncType{}, err
	}
	if form != functionTypeByte {
		return FuncType{}, ErrInvalidTypeKind
	}
	params, err := decodeValueTypeVec(c)
	if err != nil {
		return FuncType{}, err
	}
	results, err := decodeValueTypeVec(c)
	if err != nil {
		return FuncType{}, err
	}
	return FuncType{Params: params, Results: results}, nil
}

func decodeValueTypeVec(c *cursor) ([]ValueType, error) {
	n, err := c.readVarUint32()
	if err != nil {
		return nil, err
	}
	out := make([]ValueType, n)
	for i := range out {
		v, err := decodeValueType(c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decodeConstExpr reads a single constant-producing instruction followed by
// End, per spec.md §3's invariant on init expressions.
func decodeConstExpr(c *cursor) (Instruction, error) {
	instr, err := decodeInstruction(c)
	if err != nil {
		return Instruction{}, err
	}
	switch instr.Op {
	case OpI32Const, OpI64Const, OpF32Const, OpF64Const, OpGlobalGet, OpRefNull, OpRefFunc:
	default:
		return Instruction{}, ErrInvalidGlobalInitExpr
	}
	end, err := c.readByte()
	if err != nil {
		return Instruction{}, err
	}
	if end != OpEnd {
		return Instruction{}, ErrInvalidGlobalInitExpr
	}
	return instr, nil
}
