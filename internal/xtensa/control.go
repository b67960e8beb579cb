package xtensa

import (
	"github.com/hota1024/wasmicon/internal/ir"
	"github.com/hota1024/wasmicon/internal/wasm"
)

// generateBody lowers fn's flat instruction stream into w, per spec.md
// §4.3.3. Only `if`/`else`/`end` nest; every other structured opcode
// (block, loop, br, br_if, br_table, call_indirect) is rejected outright
// rather than partially lowered.
func (g *Generator) generateBody(w *AsmWriter, fn *ir.Function) error {
	_, term, err := g.lowerSeq(w, fn.Instructions, 0)
	if err != nil {
		return err
	}
	if term == wasm.OpEnd {
		w.Op("retw.n")
	}
	return nil
}

// lowerSeq lowers instructions starting at pos until it hits an End or
// Else opcode, which it consumes and returns as the terminator. Callers
// recursing into an if's then-branch use the terminator to tell whether an
// else-branch follows.
func (g *Generator) lowerSeq(w *AsmWriter, instrs []wasm.Instruction, pos int) (int, byte, error) {
	for pos < len(instrs) {
		instr := instrs[pos]
		switch instr.Op {
		case wasm.OpEnd:
			return pos + 1, wasm.OpEnd, nil
		case wasm.OpElse:
			return pos + 1, wasm.OpElse, nil
		case wasm.OpIf:
			next, err := g.lowerIf(w, instrs, pos)
			if err != nil {
				return 0, 0, err
			}
			pos = next
		case wasm.OpReturn:
			g.emitReturn(w)
			pos++
		default:
			if err := g.lowerInstr(w, instr); err != nil {
				return 0, 0, err
			}
			pos++
		}
	}
	return pos, 0, nil
}

// lowerIf lowers an if/[else]/end triple starting at instrs[pos] (the If
// opcode itself), per spec.md §4.3.3's recursive-descent scheme:
//
//	pop condition into a2
//	mint Lfalse; beqz a2, Lfalse
//	recurse over the then-branch
//	if terminated by Else:
//	    mint Lend; j Lend; place Lfalse; recurse over the else-branch; place Lend
//	if terminated by End:
//	    place Lfalse directly
func (g *Generator) lowerIf(w *AsmWriter, instrs []wasm.Instruction, pos int) (int, error) {
	g.emitPop(w, RegA(2))
	lfalse := g.mintLabel()
	w.Op("beqz", RegA(2), Symbol(lfalse))

	pos, term, err := g.lowerSeq(w, instrs, pos+1)
	if err != nil {
		return 0, err
	}

	switch term {
	case wasm.OpElse:
		lend := g.mintLabel()
		w.Op("j", Symbol(lend))
		w.Label(lfalse)

		pos, term2, err := g.lowerSeq(w, instrs, pos)
		if err != nil {
			return 0, err
		}
		if term2 != wasm.OpEnd {
			return 0, unsupportedInstruction("else without matching end")
		}
		w.Label(lend)
		return pos, nil
	case wasm.OpEnd:
		w.Label(lfalse)
		return pos, nil
	default:
		return 0, unsupportedInstruction("if without matching end")
	}
}

// emitReturn pops the single return value into a2 and returns.
func (g *Generator) emitReturn(w *AsmWriter) {
	g.emitPop(w, RegA(2))
	w.Op("retw.n")
}
