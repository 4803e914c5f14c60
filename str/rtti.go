package str

import (
	"omibyte.io/objmodel/rtti"
)

var (
	// Type describes String values.
	Type *rtti.Type
	// PtrType describes borrowed *String arguments.
	PtrType *rtti.Type
)

func init() {
	b := rtti.NewBuilder(rtti.ComplexKind, "String", rtti.LayoutOf[String]())
	Type = b.Type()

	PtrType = rtti.NewBuilder(rtti.PointerKind, "String*", rtti.LayoutOf[*String]()).
		Subtype(Type).
		Finish()

	b.Constructor(&rtti.Member{
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
			Name:   "cstr",
			Func:   memberCstr,
			Return: rtti.Cstr,
		},
		&rtti.Member{
			Name:   "len",
			Func:   memberLen,
			Return: rtti.Size,
		},
		&rtti.Member{
			Name:          "append",
			Func:          memberAppend,
			ArgumentCount: 1,
			Arguments:     []*rtti.Type{Type},
			Return:        rtti.Void,
		},
		&rtti.Member{
			Name:          "prepend",
			Func:          memberPrepend,
			ArgumentCount: 1,
			Arguments:     []*rtti.Type{Type},
			Return:        rtti.Void,
		},
		&rtti.Member{
			Name:          "push",
			Func:          memberPush,
			ArgumentCount: 1,
			Arguments:     []*rtti.Type{rtti.Uint8},
			Return:        rtti.Void,
		},
		&rtti.Member{
			Name:   "pop",
			Func:   memberPop,
			Return: rtti.Void,
		},
		&rtti.Member{
			Name:          "equal",
			Func:          memberEqual,
			ArgumentCount: 1,
			Arguments:     []*rtti.Type{Type},
			Return:        rtti.Bool,
		},
		&rtti.Member{
			Name:          "compare",
			Func:          memberCompare,
			ArgumentCount: 1,
			Arguments:     []*rtti.Type{Type},
			Return:        rtti.Int32,
		},
	).Finish()

	rtti.Global.MustRegister(Type, PtrType)
}

// Box adopts s into a boxed value that owns it.
func Box(s String) rtti.Any {
	return rtti.FromComplex(Type, &s)
}

func construct(_ any, args rtti.Args) rtti.Any {
	switch args.Len() {
	case 0:
		return rtti.FromComplex(Type, new(String))
	case 1:
		arg := args.At(0)
		switch arg.Type() {
		case rtti.Cstr:
			text, _ := arg.Cstr()
			return Box(FromText(text))
		case Type:
			if args[0].Owned() {
				// A temporary moved into the call becomes the result
				return args.Take(0)
			}
			src, _ := rtti.Instance[String](arg)
			return Box(src.Copy())
		case PtrType:
			if src, _ := rtti.As[*String](arg); src != nil {
				return Box(src.Copy())
			}
			return Box(New())
		}
	}
	return rtti.Empty
}

func destruct(obj any, _ rtti.Args) rtti.Any {
	obj.(*String).Free()
	return rtti.Empty
}

func memberCstr(obj any, _ rtti.Args) rtti.Any {
	return rtti.FromCstr(obj.(*String).Cstr())
}

func memberLen(obj any, _ rtti.Args) rtti.Any {
	return rtti.FromSize(uint(obj.(*String).Len()))
}

// operand reads a String, String* or cstr argument without taking it.
func operand(op string, arg rtti.Any) String {
	switch arg.Type() {
	case Type:
		src, _ := rtti.Instance[String](arg)
		return *src
	case PtrType:
		if src, _ := rtti.As[*String](arg); src != nil {
			return *src
		}
		return New()
	case rtti.Cstr:
		text, _ := arg.Cstr()
		return Borrow(text)
	}
	rtti.Mismatch(op, arg, Type, PtrType, rtti.Cstr)
	return String{}
}

func memberAppend(obj any, args rtti.Args) rtti.Any {
	obj.(*String).Append(operand("String.append", args.At(0)))
	return rtti.VoidValue
}

func memberPrepend(obj any, args rtti.Args) rtti.Any {
	obj.(*String).Prepend(operand("String.prepend", args.At(0)))
	return rtti.VoidValue
}

func memberPush(obj any, args rtti.Args) rtti.Any {
	arg := args.At(0)
	switch arg.Type() {
	case rtti.Uint8:
		c, _ := rtti.As[uint8](arg)
		obj.(*String).Push(c)
	case rtti.Int8:
		c, _ := rtti.As[int8](arg)
		obj.(*String).Push(byte(c))
	default:
		rtti.Mismatch("String.push", arg, rtti.Uint8, rtti.Int8)
	}
	return rtti.VoidValue
}

func memberPop(obj any, _ rtti.Args) rtti.Any {
	obj.(*String).Pop()
	return rtti.VoidValue
}

func memberEqual(obj any, args rtti.Args) rtti.Any {
	return rtti.FromBool(Equal(*obj.(*String), operand("String.equal", args.At(0))))
}

func memberCompare(obj any, args rtti.Args) rtti.Any {
	return rtti.FromInt32(int32(Compare(*obj.(*String), operand("String.compare", args.At(0)))))
}
