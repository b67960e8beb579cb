package xtensa

import (
	"errors"
	"fmt"
)

// Sentinel errors for the codegen-error taxonomy in spec.md §7.
var (
	ErrUnsupportedGlobalInit = errors.New("xtensa: unsupported global init expression")
)

// UnsupportedInstructionError reports an instruction the generator has no
// lowering for, per spec.md §7's UnsupportedInstruction(name).
type UnsupportedInstructionError struct {
	Name string
}

func (e *UnsupportedInstructionError) Error() string {
	return fmt.Sprintf("xtensa: unsupported instruction: %s", e.Name)
}

func unsupportedInstruction(name string) error {
	return &UnsupportedInstructionError{Name: name}
}

// CodeGenError wraps a code-generation failure with the function it
// occurred in, so callers can report "function add: %v" style messages.
type CodeGenError struct {
	Function string
	Err      error
}

func (e *CodeGenError) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("xtensa: %v", e.Err)
	}
	return fmt.Sprintf("xtensa: function %s: %v", e.Function, e.Err)
}

func (e *CodeGenError) Unwrap() error { return e.Err }
