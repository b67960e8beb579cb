package ir

import (
	"fmt"

	"github.com/hota1024/wasmicon/internal/wasm"
)

// Parse turns a decoded binary module into the function-centric logical
// module the generator iterates, per spec.md §4.2's algorithm.
//
// The parser does not validate that type indices are in range; an
// out-of-range access is reported by the generator as fatal, not here.
// A function whose type index is out of range carries a nil Params/Results
// and its raw TypeIndex forward for the generator to reject.
func Parse(m *wasm.Module) (*Module, error) {
	numFuncImports := m.NumFuncImports()

	exportNames := make(map[uint32]string, len(m.Exports))
	for _, exp := range m.Exports {
		if exp.Kind == wasm.ExportKindFunc {
			exportNames[exp.Index] = exp.Name
		}
	}

	if len(m.Functions) != len(m.Code) {
		return nil, fmt.Errorf("ir: function section has %d entries but code section has %d", len(m.Functions), len(m.Code))
	}

	functions := make([]Function, len(m.Functions))
	for i, typeIdx := range m.Functions {
		globalIdx := uint32(numFuncImports + i)
		body := m.Code[i]

		label := fmt.Sprintf("func_%d", globalIdx)
		exportName, hasExport := exportNames[globalIdx]
		if hasExport {
			label = exportName
		}

		var params, results []wasm.ValueType
		if int(typeIdx) < len(m.Types) {
			sig := m.Types[typeIdx]
			params = sig.Params
			results = sig.Results
		}

		paramsLocals := make([]wasm.ValueType, 0, len(params)+len(body.Locals))
		paramsLocals = append(paramsLocals, params...)
		paramsLocals = append(paramsLocals, body.Locals...)

		functions[i] = Function{
			Index:        globalIdx,
			TypeIndex:    typeIdx,
			Label:        label,
			Export:       exportName,
			HasExport:    hasExport,
			Params:       params,
			Results:      results,
			Locals:       body.Locals,
			ParamsLocals: paramsLocals,
			Instructions: body.Instructions,
		}
	}

	return &Module{
		Functions: functions,
		Imports:   m.Imports,
		Globals:   m.Globals,
		Types:     m.Types,
	}, nil
}
