package xtensa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hota1024/wasmicon/internal/ir"
	"github.com/hota1024/wasmicon/internal/wasm"
)

func types(vs ...wasm.ValueType) []wasm.ValueType { return vs }

func TestGenerate_AddFunction(t *testing.T) {
	mod := &ir.Module{
		Types: []wasm.FuncType{{Params: types(wasm.ValueTypeI32, wasm.ValueTypeI32), Results: types(wasm.ValueTypeI32)}},
		Functions: []ir.Function{{
			Index:        0,
			Label:        "add",
			Export:       "add",
			HasExport:    true,
			Params:       types(wasm.ValueTypeI32, wasm.ValueTypeI32),
			Results:      types(wasm.ValueTypeI32),
			ParamsLocals: types(wasm.ValueTypeI32, wasm.ValueTypeI32),
			Instructions: []wasm.Instruction{
				{Op: wasm.OpLocalGet, Imm: wasm.LocalImm{Index: 0}},
				{Op: wasm.OpLocalGet, Imm: wasm.LocalImm{Index: 1}},
				{Op: wasm.OpI32Add},
				{Op: wasm.OpEnd},
			},
		}},
	}

	out, err := Generate(mod)
	require.NoError(t, err)
	require.Contains(t, out, ".global\tadd")
	require.Contains(t, out, "entry\tsp,")
	require.Contains(t, out, "s32i.n\ta2, sp, 0")
	require.Contains(t, out, "s32i.n\ta3, sp, 4")
	require.Contains(t, out, "add\ta2, a2, a3")
	require.Contains(t, out, "retw.n")
	require.Less(t, strings.Index(out, "retw.n"), strings.Index(out, ".size"))
}

func TestGenerate_I32ConstUsesLiteralPool(t *testing.T) {
	mod := &ir.Module{
		Types: []wasm.FuncType{{Results: types(wasm.ValueTypeI32)}},
		Functions: []ir.Function{{
			Label:   "c",
			Export:  "c",
			HasExport: true,
			Results: types(wasm.ValueTypeI32),
			Instructions: []wasm.Instruction{
				{Op: wasm.OpI32Const, Imm: wasm.I32ConstImm{Value: 42}},
				{Op: wasm.OpEnd},
			},
		}},
	}

	out, err := Generate(mod)
	require.NoError(t, err)
	require.Contains(t, out, ".literal\tL0, 42")
	require.Contains(t, out, "l32r\ta2, L0")
}

func TestGenerate_IfElse(t *testing.T) {
	mod := &ir.Module{
		Types: []wasm.FuncType{{Params: types(wasm.ValueTypeI32), Results: types(wasm.ValueTypeI32)}},
		Functions: []ir.Function{{
			Label:        "ift",
			Export:       "ift",
			HasExport:    true,
			Params:       types(wasm.ValueTypeI32),
			Results:      types(wasm.ValueTypeI32),
			ParamsLocals: types(wasm.ValueTypeI32),
			Instructions: []wasm.Instruction{
				{Op: wasm.OpLocalGet, Imm: wasm.LocalImm{Index: 0}},
				{Op: wasm.OpIf, Imm: wasm.BlockImm{Type: wasm.BlockType{Kind: wasm.BlockTypeValue, Value: wasm.ValueTypeI32}}},
				{Op: wasm.OpI32Const, Imm: wasm.I32ConstImm{Value: 1}},
				{Op: wasm.OpElse},
				{Op: wasm.OpI32Const, Imm: wasm.I32ConstImm{Value: 2}},
				{Op: wasm.OpEnd}, // closes the if
				{Op: wasm.OpEnd}, // closes the function body
			},
		}},
	}

	out, err := Generate(mod)
	require.NoError(t, err)
	require.Contains(t, out, ".literal\tL0, 1")
	require.Contains(t, out, ".literal\tL1, 2")
	require.Contains(t, out, "beqz\ta2, L2")
	require.Contains(t, out, "j\tL3")
	require.Contains(t, out, "L2:\n")
	require.Contains(t, out, "L3:\n")

	// The false-branch label must appear before the end label, and the
	// forward jump must appear before the false-branch label.
	require.Less(t, strings.Index(out, "j\tL3"), strings.Index(out, "L2:"))
	require.Less(t, strings.Index(out, "L2:"), strings.Index(out, "L3:"))
}

func TestGenerate_HostRegisterWriteCall(t *testing.T) {
	mod := &ir.Module{
		Imports: []wasm.Import{
			{Module: "wasmicon", Field: "reg32_write", Desc: wasm.ImportDesc{Kind: wasm.ImportKindFunc}},
		},
		Types: []wasm.FuncType{{Params: types(wasm.ValueTypeI32, wasm.ValueTypeI32)}},
		Functions: []ir.Function{{
			Index:        1,
			Label:        "w",
			Export:       "w",
			HasExport:    true,
			Params:       types(wasm.ValueTypeI32, wasm.ValueTypeI32),
			ParamsLocals: types(wasm.ValueTypeI32, wasm.ValueTypeI32),
			Instructions: []wasm.Instruction{
				{Op: wasm.OpLocalGet, Imm: wasm.LocalImm{Index: 0}},
				{Op: wasm.OpLocalGet, Imm: wasm.LocalImm{Index: 1}},
				{Op: wasm.OpCall, Imm: wasm.CallImm{FuncIndex: 0}},
				{Op: wasm.OpEnd},
			},
		}},
	}

	out, err := Generate(mod)
	require.NoError(t, err)
	require.Contains(t, out, "memw")
	require.Contains(t, out, "s32i.n\ta3, a2, 0")
	require.NotContains(t, out, "call8")
}

func TestGenerate_GlobalGetReadsLiteralPool(t *testing.T) {
	mod := &ir.Module{
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValueTypeI32}, Init: wasm.Instruction{Op: wasm.OpI32Const, Imm: wasm.I32ConstImm{Value: 7}}},
		},
		Types: []wasm.FuncType{{Results: types(wasm.ValueTypeI32)}},
		Functions: []ir.Function{{
			Label:     "g",
			Export:    "g",
			HasExport: true,
			Results:   types(wasm.ValueTypeI32),
			Instructions: []wasm.Instruction{
				{Op: wasm.OpGlobalGet, Imm: wasm.GlobalImm{Index: 0}},
				{Op: wasm.OpEnd},
			},
		}},
	}

	out, err := Generate(mod)
	require.NoError(t, err)
	require.Contains(t, out, ".literal\tL0, 7")
	require.Contains(t, out, "l32r\ta2, L0")
}

func TestGenerate_SubOperandOrder(t *testing.T) {
	mod := &ir.Module{
		Types: []wasm.FuncType{{Params: types(wasm.ValueTypeI32, wasm.ValueTypeI32), Results: types(wasm.ValueTypeI32)}},
		Functions: []ir.Function{{
			Label:        "sub",
			Export:       "sub",
			HasExport:    true,
			Params:       types(wasm.ValueTypeI32, wasm.ValueTypeI32),
			Results:      types(wasm.ValueTypeI32),
			ParamsLocals: types(wasm.ValueTypeI32, wasm.ValueTypeI32),
			Instructions: []wasm.Instruction{
				{Op: wasm.OpLocalGet, Imm: wasm.LocalImm{Index: 0}},
				{Op: wasm.OpLocalGet, Imm: wasm.LocalImm{Index: 1}},
				{Op: wasm.OpI32Sub},
				{Op: wasm.OpEnd},
			},
		}},
	}

	out, err := Generate(mod)
	require.NoError(t, err)
	require.Contains(t, out, "sub\ta2, a2, a3")
}

func TestGenerate_UnsupportedInstructionFailsClosed(t *testing.T) {
	mod := &ir.Module{
		Types: []wasm.FuncType{{}},
		Functions: []ir.Function{{
			Label: "loopy",
			Instructions: []wasm.Instruction{
				{Op: wasm.OpLoop, Imm: wasm.BlockImm{}},
				{Op: wasm.OpEnd},
				{Op: wasm.OpEnd},
			},
		}},
	}

	_, err := Generate(mod)
	require.Error(t, err)
	var cgErr *CodeGenError
	require.ErrorAs(t, err, &cgErr)
}

func TestGenerate_OutOfRangeTypeIndexIsRejected(t *testing.T) {
	// The parser does not validate TypeIndex (see internal/ir), so the
	// generator is the one place this gets checked, per spec.md §4.2.
	mod := &ir.Module{
		Types: []wasm.FuncType{{}},
		Functions: []ir.Function{{
			Label:     "bad",
			TypeIndex: 3,
			Instructions: []wasm.Instruction{
				{Op: wasm.OpEnd},
			},
		}},
	}

	_, err := Generate(mod)
	require.Error(t, err)
	var cgErr *CodeGenError
	require.ErrorAs(t, err, &cgErr)
}

func TestGenerate_MultiResultFunctionIsRejected(t *testing.T) {
	mod := &ir.Module{
		Types: []wasm.FuncType{{Results: types(wasm.ValueTypeI32, wasm.ValueTypeI32)}},
		Functions: []ir.Function{{
			Label:   "two",
			Results: types(wasm.ValueTypeI32, wasm.ValueTypeI32),
			Instructions: []wasm.Instruction{
				{Op: wasm.OpEnd},
			},
		}},
	}

	_, err := Generate(mod)
	require.Error(t, err)
}

func TestGenerate_SleepMsIsRejectedNotCopiedFromRead(t *testing.T) {
	mod := &ir.Module{
		Imports: []wasm.Import{
			{Module: "wasmicon", Field: "sleep_ms", Desc: wasm.ImportDesc{Kind: wasm.ImportKindFunc}},
		},
		Types: []wasm.FuncType{{}},
		Functions: []ir.Function{{
			Label: "s",
			Instructions: []wasm.Instruction{
				{Op: wasm.OpI32Const, Imm: wasm.I32ConstImm{Value: 10}},
				{Op: wasm.OpCall, Imm: wasm.CallImm{FuncIndex: 0}},
				{Op: wasm.OpEnd},
			},
		}},
	}

	_, err := Generate(mod)
	require.Error(t, err)
	var unsupported *UnsupportedInstructionError
	require.ErrorAs(t, err, &unsupported)
}
