package rtti

import (
	"omibyte.io/objmodel/internal/allocator"
)

// Any is a type-erased value. The kind of its type decides what the payload
// is and whether the value owns storage:
//
//   - no type: the Empty value, which carries nothing
//   - void, primitive and pointer kinds: the payload is held inline by value
//   - complex kind: the payload is a pointer to an instance. The value owns
//     the instance's block unless it was made with Ref.
//
// Copying an Any copies its ownership too. Exactly one copy may be released;
// use Move to hand a value over and Borrow to lend it.
type Any struct {
	typ   *Type
	value any
	owned allocator.Handle
}

// Empty is the value without a type.
var Empty = Any{}

// Type returns the descriptor of v, or nil for Empty.
func (v Any) Type() *Type { return v.typ }

// IsEmpty reports whether v is the Empty value.
func (v Any) IsEmpty() bool { return v.typ == nil }

// Owned reports whether v owns a complex instance.
func (v Any) Owned() bool { return v.owned != 0 }

// Value returns the payload: the inline value for void, primitive and
// pointer kinds, the instance pointer for complex kinds.
func (v Any) Value() any { return v.value }

// Borrow returns a non-owning view of v. Releasing the view never affects v.
func (v Any) Borrow() Any {
	v.owned = 0
	return v
}

// As returns the inline payload of v as a T.
func As[T any](v Any) (T, bool) {
	t, ok := v.value.(T)
	return t, ok
}

// Instance returns the instance pointer of a complex value.
func Instance[T any](v Any) (*T, bool) {
	if v.typ == nil || v.typ.kind != ComplexKind {
		return nil, false
	}
	p, ok := v.value.(*T)
	return p, ok
}

// Cstr returns the text of a cstr value and reports whether v was one.
func (v Any) Cstr() (string, bool) {
	if v.typ != Cstr {
		return "", false
	}
	return v.value.(string), true
}

// Move returns *v and leaves Empty in its place, handing over ownership.
func Move(v *Any) Any {
	moved := *v
	*v = Empty
	return moved
}

// MakeDefault returns a default constructed value of t. Complex types run
// their constructor with no arguments; other kinds hold their zero value.
func MakeDefault(t *Type) Any {
	if t == nil {
		return Empty
	}
	switch t.kind {
	case VoidKind:
		return Any{typ: t}
	case PrimitiveKind, PointerKind:
		return Any{typ: t, value: t.layout.Zero()}
	case ComplexKind:
		return t.constructor.Invoke(nil)
	}
	return Empty
}

func FromBool(b bool) Any       { return Any{typ: Bool, value: b} }
func FromInt8(i int8) Any       { return Any{typ: Int8, value: i} }
func FromUint8(u uint8) Any     { return Any{typ: Uint8, value: u} }
func FromInt16(i int16) Any     { return Any{typ: Int16, value: i} }
func FromUint16(u uint16) Any   { return Any{typ: Uint16, value: u} }
func FromInt32(i int32) Any     { return Any{typ: Int32, value: i} }
func FromUint32(u uint32) Any   { return Any{typ: Uint32, value: u} }
func FromInt64(i int64) Any     { return Any{typ: Int64, value: i} }
func FromUint64(u uint64) Any   { return Any{typ: Uint64, value: u} }
func FromSize(s uint) Any       { return Any{typ: Size, value: s} }
func FromFloat32(f float32) Any { return Any{typ: Float32, value: f} }
func FromFloat64(f float64) Any { return Any{typ: Float64, value: f} }
func FromTypeRef(t *Type) Any   { return Any{typ: TypeRef, value: t} }

// FromCstr wraps borrowed text. Nothing is copied and nothing is owned.
func FromCstr(text string) Any {
	return Any{typ: Cstr, value: text}
}

// FromComplex adopts the instance at p. For complex types the returned value
// takes ownership of *p; the caller must not release its contents again.
// Pointer kinds wrap p itself, primitives copy the value p points to.
func FromComplex(t *Type, p any) Any {
	switch t.kind {
	case PrimitiveKind:
		if !t.layout.Points(p) {
			panic(&TypeMismatchError{Op: "FromComplex", Expected: []*Type{t}})
		}
		return Any{typ: t, value: t.layout.Load(p)}
	case PointerKind:
		if !t.layout.Holds(p) {
			panic(&TypeMismatchError{Op: "FromComplex", Expected: []*Type{t}})
		}
		return Any{typ: t, value: p}
	case ComplexKind:
		if !t.layout.Points(p) {
			panic(&TypeMismatchError{Op: "FromComplex", Expected: []*Type{t}})
		}
		return Any{typ: t, value: p, owned: allocator.Alloc(t.size)}
	}
	return Empty
}

// CopyComplex allocates a new instance of t and copies the bytes of *p into
// it. The nested resources of *p are now shared with the result, which owns
// them. Other kinds behave like FromComplex.
func CopyComplex(t *Type, p any) Any {
	if t.kind != ComplexKind {
		return FromComplex(t, p)
	}
	if !t.layout.Points(p) {
		panic(&TypeMismatchError{Op: "CopyComplex", Expected: []*Type{t}})
	}
	owned := allocator.Alloc(t.size)
	inst := t.layout.New()
	t.layout.Assign(inst, p)
	return Any{typ: t, value: inst, owned: owned}
}

// Ref returns a non-owning view of the instance stored at p, which must
// point to storage of t. Primitive and pointer kinds are loaded inline.
func Ref(t *Type, p any) Any {
	if t.kind == VoidKind {
		return Any{typ: t}
	}
	if !t.layout.Points(p) {
		panic(&TypeMismatchError{Op: "Ref", Expected: []*Type{t}})
	}
	if t.kind == ComplexKind {
		return Any{typ: t, value: p}
	}
	return Any{typ: t, value: t.layout.Load(p)}
}

// Copy returns an independent copy of v. Complex values are copy constructed
// by calling the type's constructor with a view of v; v is left untouched.
func Copy(v Any) Any {
	if v.typ == nil {
		return Empty
	}
	if v.typ.kind == ComplexKind {
		return v.typ.constructor.Invoke(nil, v.Borrow())
	}
	return v
}

// Unpack copies the logical instance held by v into dst, which must point to
// storage of v's type. Ownership of v is unchanged.
func Unpack(v Any, dst any) {
	if v.typ == nil || v.typ.kind == VoidKind {
		return
	}
	if !v.typ.layout.Points(dst) {
		panic(&TypeMismatchError{Op: "Unpack", Got: v.typ})
	}
	if v.typ.kind == ComplexKind {
		v.typ.layout.Assign(dst, v.value)
		return
	}
	v.typ.layout.Store(dst, v.value)
}

// Release destroys what v owns and resets it to Empty. Releasing a value
// that owns nothing, including Empty and borrowed views, only resets it.
func (v *Any) Release() {
	if v.typ != nil && v.typ.kind == ComplexKind && v.owned != 0 {
		if dtor := v.typ.destructor; dtor != nil {
			dtor.Invoke(v.value)
		}
		allocator.Free(v.owned)
	}
	*v = Empty
}

// SoftRelease frees the block owned by v without running the destructor and
// resets v to Empty. It is used once the instance's bytes have been copied
// somewhere else that now owns its contents.
func (v *Any) SoftRelease() {
	if v.typ != nil && v.typ.kind == ComplexKind && v.owned != 0 {
		allocator.Free(v.owned)
	}
	*v = Empty
}

// ReleaseRef destroys the instance v refers to without freeing its storage,
// which belongs to someone else. Owned values are released as usual.
func (v *Any) ReleaseRef() {
	if v.owned != 0 {
		v.Release()
		return
	}
	if v.typ != nil && v.typ.kind == ComplexKind && v.typ.destructor != nil {
		v.typ.destructor.Invoke(v.value)
	}
	*v = Empty
}
