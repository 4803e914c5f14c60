// Package vector implements a growable array over any rtti element type.
package vector

import (
	"fmt"
	"io"
	"strings"

	"omibyte.io/objmodel/internal/allocator"
	"omibyte.io/objmodel/rtti"
)

// Vector holds len constructed instances of elem in a contiguous buffer.
// Push and Pop move raw instances in and out; Copy and Free run the
// element's constructor and destructor.
type Vector struct {
	elem *rtti.Type
	data any
	len  int
	cap  int
	mem  allocator.Handle
}

// New returns an empty vector of elem.
func New(elem *rtti.Type) Vector {
	if elem == nil {
		panic("vector: nil element type")
	}
	return Vector{elem: elem}
}

// Elem returns the element type.
func (v *Vector) Elem() *rtti.Type { return v.elem }

func (v *Vector) Len() int { return v.len }

func (v *Vector) Cap() int { return v.cap }

// Copy returns a vector holding copies of every element. Complex elements
// are copy constructed; the copies share nothing with v.
func (v *Vector) Copy() Vector {
	c := New(v.elem)
	c.Reserve(v.len)
	for i := 0; i < v.len; i++ {
		if v.elem.Kind() != rtti.ComplexKind {
			c.Push(v.slot(i))
			continue
		}
		item := rtti.Copy(rtti.Ref(v.elem, v.slot(i)))
		c.Push(item.Value())
		// The vector holds the instance now; only the block goes
		item.SoftRelease()
	}
	return c
}

// Free destroys every element, releases the buffer and leaves v empty.
func (v *Vector) Free() {
	if v.elem.Kind() == rtti.ComplexKind {
		for i := 0; i < v.len; i++ {
			obj := rtti.Ref(v.elem, v.slot(i))
			obj.ReleaseRef()
		}
	}
	if v.mem != 0 {
		allocator.Free(v.mem)
	}
	v.data = nil
	v.mem = 0
	v.len = 0
	v.cap = 0
}

// At returns a view of the i-th element, or Empty when i is out of range.
// Complex views are valid until the element is popped or v is freed.
func (v *Vector) At(i int) rtti.Any {
	if i < 0 || i >= v.len {
		return rtti.Empty
	}
	return rtti.Ref(v.elem, v.slot(i))
}

// Reserve makes room for at least n elements.
func (v *Vector) Reserve(n int) {
	if v.cap < n {
		v.grow(n)
	}
}

// Push copies the instance item points to into a new slot at the end. The
// vector takes over the instance; no constructor runs.
func (v *Vector) Push(item any) {
	layout := v.elem.Layout()
	if layout != nil && !layout.Points(item) {
		panic(&rtti.TypeMismatchError{Op: "Vector.Push", Expected: []*rtti.Type{v.elem}})
	}
	v.Reserve(v.len + 1)
	if layout != nil {
		layout.Assign(v.slot(v.len), item)
	}
	v.len++
}

// Pop moves the last element into the instance result points to. The caller
// owns it afterwards; no destructor runs. Popping an empty vector panics.
func (v *Vector) Pop(result any) {
	if v.len == 0 {
		panic("vector: pop from empty vector")
	}
	layout := v.elem.Layout()
	if layout != nil && !layout.Points(result) {
		panic(&rtti.TypeMismatchError{Op: "Vector.Pop", Expected: []*rtti.Type{v.elem}})
	}
	v.len--
	if layout != nil {
		slot := v.slot(v.len)
		layout.Assign(result, slot)
		layout.Assign(slot, layout.New())
	}
}

// Print writes the elements as [e0, e1, ...] followed by a newline.
func (v *Vector) Print(w io.Writer) error {
	_, err := fmt.Fprintln(w, v.String())
	return err
}

func (v *Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < v.len; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(rtti.Sprint(v.At(i)))
	}
	sb.WriteByte(']')
	return sb.String()
}

// slot returns a pointer to the i-th instance, or nil for void elements.
func (v *Vector) slot(i int) any {
	layout := v.elem.Layout()
	if layout == nil {
		return nil
	}
	return layout.Slot(v.data, i)
}

// grow reallocates the buffer, doubling the capacity when that is enough.
func (v *Vector) grow(minimum int) {
	if minimum == 0 || minimum < v.cap {
		return
	}
	newCap := v.cap * 2
	if newCap < minimum {
		newCap = minimum
	}

	if layout := v.elem.Layout(); layout != nil {
		buf := layout.MakeSlots(newCap)
		if v.data != nil {
			layout.CopySlots(buf, v.data, v.len)
		}
		v.data = buf
	}

	size := uintptr(newCap) * v.elem.Size()
	if v.mem != 0 {
		v.mem = allocator.Realloc(v.mem, size)
	} else {
		v.mem = allocator.Alloc(size)
	}
	v.cap = newCap
}
