package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hota1024/wasmicon/internal/wasm"
)

func TestParse_FunctionCountMatchesCodeSection(t *testing.T) {
	m := &wasm.Module{
		Types:     []wasm.FuncType{{}},
		Functions: []uint32{0, 0},
		Code: []wasm.Code{
			{Instructions: []wasm.Instruction{{Op: wasm.OpEnd}}},
			{Instructions: []wasm.Instruction{{Op: wasm.OpEnd}}},
		},
	}

	logical, err := Parse(m)
	require.NoError(t, err)
	require.Len(t, logical.Functions, 2)
}

func TestParse_ImportsOccupyLowFunctionIndices(t *testing.T) {
	m := &wasm.Module{
		Imports: []wasm.Import{
			{Module: "wasmicon", Field: "reg32_write", Desc: wasm.ImportDesc{Kind: wasm.ImportKindFunc}},
		},
		Types:     []wasm.FuncType{{Params: []wasm.ValueType{wasm.ValueTypeI32}, Results: []wasm.ValueType{wasm.ValueTypeI32}}},
		Functions: []uint32{0},
		Exports:   []wasm.Export{{Name: "add", Kind: wasm.ExportKindFunc, Index: 1}},
		Code: []wasm.Code{
			{Instructions: []wasm.Instruction{{Op: wasm.OpEnd}}},
		},
	}

	logical, err := Parse(m)
	require.NoError(t, err)
	require.Len(t, logical.Functions, 1)

	fn := logical.Functions[0]
	require.Equal(t, uint32(1), fn.Index, "the defined function's global index starts after the one func import")
	require.Equal(t, "add", fn.Label)
	require.True(t, fn.HasExport)
}

func TestParse_ParamsLocalsIsParamsThenLocals(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{
			Params:  []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI32},
			Results: []wasm.ValueType{wasm.ValueTypeI32},
		}},
		Functions: []uint32{0},
		Code: []wasm.Code{
			{
				Locals:       []wasm.ValueType{wasm.ValueTypeI32},
				Instructions: []wasm.Instruction{{Op: wasm.OpEnd}},
			},
		},
	}

	logical, err := Parse(m)
	require.NoError(t, err)
	require.Equal(t, []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI32, wasm.ValueTypeI32}, logical.Functions[0].ParamsLocals)
}

func TestParse_FunctionCodeCountMismatchIsRejected(t *testing.T) {
	m := &wasm.Module{
		Types:     []wasm.FuncType{{}},
		Functions: []uint32{0, 0},
		Code:      []wasm.Code{{Instructions: []wasm.Instruction{{Op: wasm.OpEnd}}}},
	}

	_, err := Parse(m)
	require.Error(t, err)
}

func TestParse_OutOfRangeTypeIndexIsNotRejectedHere(t *testing.T) {
	// Per spec.md §4.2, the parser does not validate type indices; an
	// out-of-range index is carried through for the generator to reject.
	m := &wasm.Module{
		Types:     []wasm.FuncType{{}},
		Functions: []uint32{5},
		Code:      []wasm.Code{{Instructions: []wasm.Instruction{{Op: wasm.OpEnd}}}},
	}

	logical, err := Parse(m)
	require.NoError(t, err)
	require.Len(t, logical.Functions, 1)

	fn := logical.Functions[0]
	require.Equal(t, uint32(5), fn.TypeIndex)
	require.Nil(t, fn.Params)
	require.Nil(t, fn.Results)
}

func TestParse_UnexportedFunctionGetsSyntheticLabel(t *testing.T) {
	m := &wasm.Module{
		Types:     []wasm.FuncType{{}},
		Functions: []uint32{0},
		Code:      []wasm.Code{{Instructions: []wasm.Instruction{{Op: wasm.OpEnd}}}},
	}

	logical, err := Parse(m)
	require.NoError(t, err)
	require.Equal(t, "func_0", logical.Functions[0].Label)
	require.False(t, logical.Functions[0].HasExport)
}
