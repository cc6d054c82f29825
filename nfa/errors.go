package nfa

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySequence  = errors.New("empty symbol sequence")
	ErrMissingOperand = errors.New("missing operand")
	ErrInvalidUTF8    = errors.New("symbol sequence is not valid UTF-8")
)

// OperandError reports an operator that was applied while the fragment stack
// held fewer operands than it needs.
type OperandError struct {
	Op   rune
	Pos  int
	Need int
	Have int
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("operator %q at %d needs %d operand(s), stack has %d", e.Op, e.Pos, e.Need, e.Have)
}

func (e *OperandError) Unwrap() error {
	return ErrMissingOperand
}
