package rtti

import "unsafe"

// FieldOf reads the named field of a complex value. Primitive and pointer
// fields are copied out; complex fields come back as views into v that are
// valid as long as v is. The result is Empty when v has no such field or a
// pointer field is nil.
func FieldOf(v Any, name string) Any {
	if v.typ == nil || v.typ.kind != ComplexKind {
		return Empty
	}
	f := v.typ.FindField(name)
	if f == nil || f.Type == nil || f.Type.layout == nil {
		return Empty
	}

	p := unsafe.Add(v.typ.layout.Addr(v.value), f.Offset)
	if f.IsPointer {
		p = *(*unsafe.Pointer)(p)
		if p == nil {
			return Empty
		}
	}
	return Ref(f.Type, f.Type.layout.At(p))
}
