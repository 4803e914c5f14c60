package vector

import (
	"unsafe"

	"omibyte.io/objmodel/rtti"
)

// Type describes Vector values.
var Type *rtti.Type

func init() {
	b := rtti.NewBuilder(rtti.ComplexKind, "Vector", rtti.LayoutOf[Vector]())
	Type = b.Type()

	var v Vector
	b.Fields(&rtti.Field{
		Name:   "elem",
		Type:   rtti.TypeRef,
		Offset: unsafe.Offsetof(v.elem),
	}).Constructor(&rtti.Member{
		Name:          ".ctor",
		Func:          construct,
		ArgumentCount: 1,
		Return:        Type,
		Static:        true,
		Overloaded:    true,
	}).Destructor(&rtti.Member{
		Name:   ".dtor",
		Func:   destruct,
		Return: rtti.Void,
	}).Members(
		&rtti.Member{
			Name:   "len",
			Func:   memberLen,
			Return: rtti.Size,
		},
		&rtti.Member{
			Name:          "push",
			Func:          memberPush,
			ArgumentCount: 1,
			Return:        rtti.Void,
		},
		&rtti.Member{
			Name: "pop",
			Func: memberPop,
		},
		&rtti.Member{
			Name:          "at",
			Func:          memberAt,
			ArgumentCount: 1,
			Arguments:     []*rtti.Type{rtti.Size},
		},
		&rtti.Member{
			Name:   "print",
			Func:   memberPrint,
			Return: rtti.Cstr,
		},
	).Finish()

	rtti.Global.MustRegister(Type)
}

// Box adopts v into a boxed value that owns it.
func Box(v Vector) rtti.Any {
	return rtti.FromComplex(Type, &v)
}

func construct(_ any, args rtti.Args) rtti.Any {
	switch args.Len() {
	case 0:
		return Box(New(rtti.Void))
	case 1:
		arg := args.At(0)
		switch arg.Type() {
		case rtti.TypeRef:
			if elem, _ := rtti.As[*rtti.Type](arg); elem != nil {
				return Box(New(elem))
			}
		case Type:
			if args[0].Owned() {
				return args.Take(0)
			}
			src, _ := rtti.Instance[Vector](arg)
			return Box(src.Copy())
		}
	}
	return rtti.Empty
}

func destruct(obj any, _ rtti.Args) rtti.Any {
	obj.(*Vector).Free()
	return rtti.Empty
}

func memberLen(obj any, _ rtti.Args) rtti.Any {
	return rtti.FromSize(uint(obj.(*Vector).Len()))
}

// memberPush takes its argument: an owned complex element is moved into the
// vector, a borrowed one is copied first.
func memberPush(obj any, args rtti.Args) rtti.Any {
	v := obj.(*Vector)
	if args.Type(0) != v.elem {
		rtti.Mismatch("Vector.push", args.At(0), v.elem)
	}

	item := args.Take(0)
	switch {
	case v.elem.Kind() == rtti.VoidKind:
		v.Push(nil)
	case v.elem.Kind() != rtti.ComplexKind:
		p := v.elem.Layout().New()
		rtti.Unpack(item, p)
		v.Push(p)
	default:
		if !item.Owned() {
			item = rtti.Copy(item)
		}
		v.Push(item.Value())
		item.SoftRelease()
	}
	return rtti.VoidValue
}

// memberPop returns the last element as an owned value, or Empty when the
// vector is empty.
func memberPop(obj any, _ rtti.Args) rtti.Any {
	v := obj.(*Vector)
	if v.len == 0 {
		return rtti.Empty
	}
	if v.elem.Kind() == rtti.VoidKind {
		v.Pop(nil)
		return rtti.MakeDefault(v.elem)
	}

	p := v.elem.Layout().New()
	v.Pop(p)
	if v.elem.Kind() == rtti.ComplexKind {
		return rtti.FromComplex(v.elem, p)
	}
	return rtti.Ref(v.elem, p)
}

func memberAt(obj any, args rtti.Args) rtti.Any {
	i, ok := rtti.As[uint](args.At(0))
	if !ok {
		rtti.Mismatch("Vector.at", args.At(0), rtti.Size)
	}
	v := obj.(*Vector)
	if i >= uint(v.Len()) {
		return rtti.Empty
	}
	return v.At(int(i))
}

func memberPrint(obj any, _ rtti.Args) rtti.Any {
	return rtti.FromCstr(obj.(*Vector).String())
}
