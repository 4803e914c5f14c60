package rtti

import "fmt"

// Args holds the arguments moved into a member call. Whatever is still in
// a slot when the member returns is released by the caller of the member.
type Args []Any

// Len returns the number of arguments.
func (a Args) Len() int { return len(a) }

// At returns a view of the i-th argument, or Empty when there is none.
func (a Args) At(i int) Any {
	if i < 0 || i >= len(a) {
		return Empty
	}
	return a[i].Borrow()
}

// Type returns the type of the i-th argument, or nil when there is none.
func (a Args) Type(i int) *Type {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i].typ
}

// Take moves the i-th argument out of the call, leaving Empty behind so that
// it survives the clean-up after the call.
func (a Args) Take(i int) Any {
	if i < 0 || i >= len(a) {
		return Empty
	}
	return Move(&a[i])
}

func (a Args) release() {
	for i := range a {
		a[i].Release()
	}
}

// Invoke calls m on the instance obj, ignored for static members, and then
// releases every argument the member did not take.
func (m *Member) Invoke(obj any, args ...Any) Any {
	return m.InvokeArgs(obj, args)
}

// InvokeArgs is Invoke with the arguments in a caller-owned slice. The slots
// are Empty when it returns.
func (m *Member) InvokeArgs(obj any, args Args) Any {
	if len(args) > m.ArgumentCount || (!m.Overloaded && len(args) != m.ArgumentCount) {
		panic(&ArityError{Member: m, Got: len(args)})
	}
	if m.Static {
		obj = nil
	}
	result := m.Func(obj, args)
	args.release()
	return result
}

func (m *Member) String() string {
	if m.Static {
		return fmt.Sprintf("static %s/%d", m.Name, m.ArgumentCount)
	}
	return fmt.Sprintf("%s/%d", m.Name, m.ArgumentCount)
}

// Invoke calls the member called name on self. The arguments are moved into
// the call. The result is Empty when self is Empty or its type has no such
// member; the arguments are released in that case too.
func Invoke(self Any, name string, args ...Any) Any {
	result, _ := Call(self, name, args...)
	return result
}

// Call is Invoke with the missing capability reported as an error.
func Call(self Any, name string, args ...Any) (Any, error) {
	if self.typ == nil {
		Args(args).release()
		return Empty, fmt.Errorf("%w: %s", ErrEmptyValue, name)
	}
	m := self.typ.FindMember(name)
	if m == nil {
		Args(args).release()
		return Empty, fmt.Errorf("%w: %s.%s", ErrNoMember, self.typ.name, name)
	}
	return m.InvokeArgs(self.value, args), nil
}
