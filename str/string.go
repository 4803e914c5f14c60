// Package str implements a growable byte string that can either own its
// buffer or borrow existing text, and registers it with the rtti model.
package str

import (
	"bytes"
	"unsafe"

	"golang.org/x/exp/slices"

	"omibyte.io/objmodel/internal/allocator"
)

// String is a growable byte string. A zero capacity marks a borrowed view
// whose bytes must never be written; an owned buffer holds cap bytes and is
// always NUL-terminated at len. Borrowed views of Go strings are terminated
// implicitly.
//
// Like the boxed values that carry it, a String has value semantics: copying
// the struct shares the buffer, and exactly one copy may be freed.
type String struct {
	data []byte
	len  int
	cap  int
	mem  allocator.Handle
}

// New returns the empty string.
func New() String {
	return String{}
}

// Borrow returns a view of text without copying it.
func Borrow(text string) String {
	return String{
		data: unsafe.Slice(unsafe.StringData(text), len(text)),
		len:  len(text),
	}
}

// FromText returns an owned copy of text.
func FromText(text string) String {
	ref := Borrow(text)
	return ref.Copy()
}

// Copy returns an owned copy of s.
func (s *String) Copy() String {
	c := New()
	c.Append(*s)
	return c
}

// Free releases an owned buffer and resets s to the empty string.
func (s *String) Free() {
	if s.cap != 0 {
		allocator.Free(s.mem)
	}
	*s = String{}
}

// Cstr returns the text up to the first NUL byte.
func (s *String) Cstr() string {
	return string(s.cstr())
}

func (s *String) cstr() []byte {
	b := s.data[:s.len]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return b
}

// Bytes returns the s.Len() bytes of s without the terminator. The result
// aliases s and is invalidated by the next mutation.
func (s *String) Bytes() []byte {
	return s.data[:s.len:s.len]
}

func (s *String) Len() int { return s.len }

// Cap returns the owned capacity including the terminator, or 0 for a view.
func (s *String) Cap() int { return s.cap }

// Owned reports whether s owns its buffer.
func (s *String) Owned() bool { return s.cap != 0 }

// Equal reports whether lhs and rhs hold the same text.
func Equal(lhs, rhs String) bool {
	return Compare(lhs, rhs) == 0
}

// Compare compares the text of lhs and rhs byte-wise, up to the first NUL of
// each, and returns -1, 0 or +1.
func Compare(lhs, rhs String) int {
	return bytes.Compare(lhs.cstr(), rhs.cstr())
}

// Reserve makes room for minimum bytes plus the terminator.
func (s *String) Reserve(minimum int) {
	if s.cap <= minimum+1 {
		s.grow(minimum)
	}
}

// Append adds the bytes of rhs to the end of s.
func (s *String) Append(rhs String) {
	if rhs.len == 0 {
		return
	}
	src := rhs.data[:rhs.len]
	s.Reserve(s.len + rhs.len)
	copy(s.data[s.len:], src)
	s.len += rhs.len
	s.data[s.len] = 0
}

// Prepend inserts the bytes of rhs at the start of s.
func (s *String) Prepend(rhs String) {
	if rhs.len == 0 {
		return
	}
	src := rhs.data[:rhs.len]
	s.Reserve(s.len + rhs.len)

	// Shifting s may overwrite rhs when both share a buffer
	if &src[0] == &s.data[0] {
		src = slices.Clone(src)
	}
	copy(s.data[rhs.len:], s.data[:s.len])
	copy(s.data, src)
	s.len += rhs.len
	s.data[s.len] = 0
}

// Push appends the byte c.
func (s *String) Push(c byte) {
	s.Reserve(s.len + 1)
	s.data[s.len] = c
	s.len++
	s.data[s.len] = 0
}

// Pop removes the last byte. A borrowed view is copied into an owned buffer
// first; popping the empty string does nothing.
func (s *String) Pop() {
	if s.len == 0 {
		return
	}
	if s.cap == 0 {
		s.Reserve(s.len)
	}
	s.len--
	s.data[s.len] = 0
}

// grow reallocates to hold at least minimum bytes plus the terminator,
// doubling the capacity when that is enough.
func (s *String) grow(minimum int) {
	if minimum == 0 {
		return
	}
	if minimum < s.len {
		minimum = s.len
	}

	newSize := minimum + 1
	if s.cap*2 >= minimum+1 {
		newSize = s.cap * 2
	}

	if s.cap != 0 {
		// Grow the owned buffer, keeping its contents
		buf := s.data[:s.len+1]
		s.data = slices.Grow(buf, newSize-len(buf))[:newSize]
		s.mem = allocator.Realloc(s.mem, uintptr(newSize))
	} else {
		// Copy the borrowed text into a buffer of our own
		buf := make([]byte, newSize)
		copy(buf, s.data[:s.len])
		buf[s.len] = 0
		s.data = buf
		s.mem = allocator.Alloc(uintptr(newSize))
	}
	s.cap = newSize
}
