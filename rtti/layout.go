package rtti

import "unsafe"

// Layout describes the storage of one instance of a type. Instances are held
// as pointers (*T) to the Go value that backs them; assignment between two
// instances copies the bytes of the value, exactly like memcpy, and never
// runs a constructor or destructor.
type Layout interface {
	Size() uintptr
	Align() uintptr

	// New allocates a zeroed instance and returns its pointer.
	New() any
	// Zero returns the zero value held inline for primitive and pointer kinds.
	Zero() any
	// Holds reports whether v is a value of the type.
	Holds(v any) bool
	// Points reports whether p is a pointer to an instance of the type.
	Points(p any) bool

	// Assign copies the instance at src into the instance at dst.
	Assign(dst, src any)
	// Load returns a copy of the value at p.
	Load(p any) any
	// Store writes the value v to the instance at dst.
	Store(dst, v any)

	// MakeSlots allocates a contiguous buffer of n instances.
	MakeSlots(n int) any
	// Slot returns a pointer to the i-th instance of a buffer.
	Slot(slots any, i int) any
	// CopySlots copies the first n instances of src into dst.
	CopySlots(dst, src any, n int)

	// At converts a raw address into an instance pointer.
	At(p unsafe.Pointer) any
	// Addr returns the raw address of an instance pointer.
	Addr(p any) unsafe.Pointer
}

// LayoutOf returns the layout of instances backed by the Go type T.
func LayoutOf[T any]() Layout {
	return layout[T]{}
}

type layout[T any] struct{}

func (layout[T]) Size() uintptr {
	var v T
	return unsafe.Sizeof(v)
}

func (layout[T]) Align() uintptr {
	var v T
	return unsafe.Alignof(v)
}

func (layout[T]) New() any { return new(T) }

func (layout[T]) Zero() any {
	var v T
	return v
}

func (layout[T]) Holds(v any) bool {
	_, ok := v.(T)
	return ok
}

func (layout[T]) Points(p any) bool {
	q, ok := p.(*T)
	return ok && q != nil
}

func (layout[T]) Assign(dst, src any) {
	*dst.(*T) = *src.(*T)
}

func (layout[T]) Load(p any) any {
	return *p.(*T)
}

func (layout[T]) Store(dst, v any) {
	*dst.(*T) = v.(T)
}

func (layout[T]) MakeSlots(n int) any {
	return make([]T, n)
}

func (layout[T]) Slot(slots any, i int) any {
	return &slots.([]T)[i]
}

func (layout[T]) CopySlots(dst, src any, n int) {
	copy(dst.([]T)[:n], src.([]T)[:n])
}

func (layout[T]) At(p unsafe.Pointer) any {
	return (*T)(p)
}

func (layout[T]) Addr(p any) unsafe.Pointer {
	return unsafe.Pointer(p.(*T))
}
