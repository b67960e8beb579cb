package wasm

func decodeTypeSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Types = make([]FuncType, n)
	for i := range m.Types {
		ft, err := decodeFuncType(c)
		if err != nil {
			return err
		}
		m.Types[i] = ft
	}
	return nil
}

func decodeImportSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Imports = make([]Import, n)
	for i := range m.Imports {
		modName, err := c.readName()
		if err != nil {
			return err
		}
		field, err := c.readName()
		if err != nil {
			return err
		}
		desc, err := decodeImportDesc(c)
		if err != nil {
			return err
		}
		m.Imports[i] = Import{Module: modName, Field: field, Desc: desc}
	}
	return nil
}

func decodeImportDesc(c *cursor) (ImportDesc, error) {
	kind, err := c.readByte()
	if err != nil {
		return ImportDesc{}, err
	}
	switch kind {
	case byte(ImportKindFunc):
		idx, err := c.readVarUint32()
		if err != nil {
			return ImportDesc{}, err
		}
		return ImportDesc{Kind: ImportKindFunc, TypeIndex: idx}, nil
	case byte(ImportKindTable):
		elem, err := decodeRefType(c)
		if err != nil {
			return ImportDesc{}, err
		}
		lim, err := decodeLimits(c)
		if err != nil {
			return ImportDesc{}, err
		}
		return ImportDesc{Kind: ImportKindTable, Table: TableType{ElemType: elem, Limits: lim}}, nil
	case byte(ImportKindMemory):
		lim, err := decodeLimits(c)
		if err != nil {
			return ImportDesc{}, err
		}
		return ImportDesc{Kind: ImportKindMemory, Memory: lim}, nil
	case byte(ImportKindGlobal):
		gt, err := decodeGlobalType(c)
		if err != nil {
			return ImportDesc{}, err
		}
		return ImportDesc{Kind: ImportKindGlobal, Global: gt}, nil
	default:
		return ImportDesc{}, ErrInvalidImportDesc
	}
}

func decodeGlobalType(c *cursor) (GlobalType, error) {
	vt, err := decodeValueType(c)
	if err != nil {
		return GlobalType{}, err
	}
	mb, err := c.readByte()
	if err != nil {
		return GlobalType{}, err
	}
	return GlobalType{ValType: vt, Mutable: mb == 1}, nil
}

func decodeFunctionSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Functions = make([]uint32, n)
	for i := range m.Functions {
		idx, err := c.readVarUint32()
		if err != nil {
			return err
		}
		m.Functions[i] = idx
	}
	return nil
}

func decodeTableSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Tables = make([]TableType, n)
	for i := range m.Tables {
		elem, err := decodeRefType(c)
		if err != nil {
			return err
		}
		lim, err := decodeLimits(c)
		if err != nil {
			return err
		}
		m.Tables[i] = TableType{ElemType: elem, Limits: lim}
	}
	return nil
}

func decodeMemorySection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Memories = make([]Limits, n)
	for i := range m.Memories {
		lim, err := decodeLimits(c)
		if err != nil {
			return err
		}
		m.Memories[i] = lim
	}
	return nil
}

func decodeGlobalSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Globals = make([]Global, n)
	for i := range m.Globals {
		gt, err := decodeGlobalType(c)
		if err != nil {
			return err
		}
		init, err := decodeConstExpr(c)
		if err != nil {
			return err
		}
		m.Globals[i] = Global{Type: gt, Init: init}
	}
	return nil
}

func decodeExportSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Exports = make([]Export, n)
	for i := range m.Exports {
		name, err := c.readName()
		if err != nil {
			return err
		}
		kind, err := c.readByte()
		if err != nil {
			return err
		}
		if kind > byte(ImportKindGlobal) {
			return ErrInvalidExportDesc
		}
		idx, err := c.readVarUint32()
		if err != nil {
			return err
		}
		m.Exports[i] = Export{Name: name, Kind: ExportKind(kind), Index: idx}
	}
	return nil
}

func decodeStartSection(c *cursor, m *Module) error {
	idx, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Start = &idx
	return nil
}

// decodeElementSection supports only the active-on-table-0, func-ref-init
// form required by spec.md §3: flag byte 0, offset expr, vec(funcidx).
func decodeElementSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Elements = make([]Element, n)
	for i := range m.Elements {
		flag, err := c.readVarUint32()
		if err != nil {
			return err
		}
		if flag != 0 {
			return ErrUnsupportedElementPrefix
		}
		offset, err := decodeConstExpr(c)
		if err != nil {
			return err
		}
		count, err := c.readVarUint32()
		if err != nil {
			return err
		}
		indices := make([]uint32, count)
		for j := range indices {
			idx, err := c.readVarUint32()
			if err != nil {
				return err
			}
			indices[j] = idx
		}
		m.Elements[i] = Element{Offset: offset, FuncIndices: indices}
	}
	return nil
}

// decodeCodeSection decodes each function body's locals declaration (a
// run-length encoding expanded to a flat sequence) and instruction stream.
func decodeCodeSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Code = make([]Code, n)
	for i := range m.Code {
		size, err := c.readVarUint32()
		if err != nil {
			return err
		}
		bc, err := c.subCursor(int(size))
		if err != nil {
			return err
		}
		locals, err := decodeLocals(bc)
		if err != nil {
			return err
		}
		instrs, err := decodeInstructions(bc)
		if err != nil {
			return err
		}
		m.Code[i] = Code{Locals: locals, Instructions: instrs}
	}
	return nil
}

func decodeLocals(c *cursor) ([]ValueType, error) {
	groups, err := c.readVarUint32()
	if err != nil {
		return nil, err
	}
	var out []ValueType
	for i := uint32(0); i < groups; i++ {
		count, err := c.readVarUint32()
		if err != nil {
			return nil, err
		}
		vt, err := decodeValueType(c)
		if err != nil {
			return nil, err
		}
		for j := uint32(0); j < count; j++ {
			out = append(out, vt)
		}
	}
	return out, nil
}

// decodeInstructions parses instructions until the cursor is exhausted; the
// final instruction is always End, per spec.md §3.
func decodeInstructions(c *cursor) ([]Instruction, error) {
	var out []Instruction
	for !c.atEnd() {
		instr, err := decodeInstruction(c)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}

// decodeDataSection supports only the active-on-memory-0 form (flag 0)
// required by spec.md §3.
func decodeDataSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.Data = make([]Data, n)
	for i := range m.Data {
		flag, err := c.readVarUint32()
		if err != nil {
			return err
		}
		if flag != 0 {
			return ErrUnsupportedDataPrefix
		}
		offset, err := decodeConstExpr(c)
		if err != nil {
			return err
		}
		size, err := c.readVarUint32()
		if err != nil {
			return err
		}
		init, err := c.readBytes(int(size))
		if err != nil {
			return err
		}
		m.Data[i] = Data{Offset: offset, Init: append([]byte(nil), init...)}
	}
	return nil
}

func decodeDataCountSection(c *cursor, m *Module) error {
	n, err := c.readVarUint32()
	if err != nil {
		return err
	}
	m.DataCount = &n
	return nil
}
