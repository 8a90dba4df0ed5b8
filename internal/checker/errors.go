package checker

import (
	"errors"
	"fmt"

	"github.com/espressolang/espresso/internal/ast"
)

// UnboundNameError reports a reference to a name no enclosing scope binds
type UnboundNameError struct {
	Name string
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("unbound name '%s'", e.Name)
}

// TypeMismatchError reports a producer whose head constructor the
// consumer does not accept
type TypeMismatchError struct {
	Expected Kind // what the consumer accepts
	Found    Kind // what the producer supplies
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Found)
}

// ArityMismatchError reports a call whose argument count differs from
// the callee's parameter count
type ArityMismatchError struct {
	Expected int // parameters
	Found    int // arguments
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("arity mismatch: function takes %d argument(s), call supplies %d", e.Expected, e.Found)
}

// UnknownTypeError reports an annotation naming a type that does not exist
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type '%s'", e.Name)
}

// DuplicateNameError reports two top-level functions with the same name
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("function '%s' is already defined", e.Name)
}

// Error attaches a source position and context note to one of the
// errors above. Use errors.As to reach the underlying kind.
type Error struct {
	Line   int
	Column int
	Note   string // e.g. "in call to 'f'"
	Err    error
}

func (e *Error) Error() string {
	if e.Note != "" {
		return fmt.Sprintf("%d:%d: %s (%s)", e.Line, e.Column, e.Err, e.Note)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// at positions err at node unless it already carries a position
func at(node ast.Node, note string, err error) error {
	var located *Error
	if errors.As(err, &located) {
		return err
	}
	line, col := node.Pos()
	return &Error{Line: line, Column: col, Note: note, Err: err}
}
