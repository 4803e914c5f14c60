package rtti

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyValue    = errors.New("dispatch on an empty value")
	ErrNoMember      = errors.New("no such member")
	ErrDuplicateType = errors.New("type already registered")
	ErrSealed        = errors.New("registry is sealed")
	ErrLayoutCycle   = errors.New("type contains itself by value")
	ErrCatalog       = errors.New("invalid primitive catalog")
)

// Error is implemented by the errors raised for violated contracts. They are
// never returned; they are the argument of a panic.
type Error interface {
	error
	RuntimeError()
}

// TypeMismatchError is raised when a value of the wrong type reaches an
// operation that accepts a fixed set of types.
type TypeMismatchError struct {
	Op       string
	Got      *Type
	Expected []*Type
}

func (*TypeMismatchError) RuntimeError() {}

func (e *TypeMismatchError) Error() string {
	got := "empty"
	if e.Got != nil {
		got = e.Got.name
	}
	switch len(e.Expected) {
	case 0:
		return fmt.Sprintf("rtti: %s: unexpected argument of type %s", e.Op, got)
	case 1:
		return fmt.Sprintf("rtti: %s: argument is %s, not %s", e.Op, got, e.Expected[0].name)
	}
	msg := fmt.Sprintf("rtti: %s: argument is %s, not one of ", e.Op, got)
	for i, t := range e.Expected {
		if i > 0 {
			msg += ", "
		}
		msg += t.name
	}
	return msg
}

// ArityError is raised when a member is called with an argument count it
// does not accept.
type ArityError struct {
	Member *Member
	Got    int
}

func (*ArityError) RuntimeError() {}

func (e *ArityError) Error() string {
	if e.Member.Overloaded {
		return fmt.Sprintf("rtti: %s takes at most %d arguments, got %d", e.Member.Name, e.Member.ArgumentCount, e.Got)
	}
	return fmt.Sprintf("rtti: %s takes %d arguments, got %d", e.Member.Name, e.Member.ArgumentCount, e.Got)
}

// Mismatch panics with a *TypeMismatchError for the argument v.
func Mismatch(op string, v Any, expected ...*Type) {
	panic(&TypeMismatchError{Op: op, Got: v.typ, Expected: expected})
}
