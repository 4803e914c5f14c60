// Package rtti implements a small runtime type-information object model:
// immutable type descriptors, a type-erased boxed value whose ownership
// follows its descriptor, and dispatch of named members on boxed values.
package rtti

import "fmt"

// Kind describes how instances of a type are stored inside a boxed value.
type Kind int

const (
	VoidKind      Kind = iota // no data
	PrimitiveKind             // stored inline by value
	PointerKind               // stored inline, never owning
	ComplexKind               // owned heap block with a constructor and destructor
)

func (k Kind) String() string {
	switch k {
	case VoidKind:
		return "void"
	case PrimitiveKind:
		return "primitive"
	case PointerKind:
		return "pointer"
	case ComplexKind:
		return "complex"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type is the descriptor of one type. Descriptors are singletons: two values
// have the same type exactly when their *Type pointers are equal. A Type is
// read-only once its Builder has been finished.
type Type struct {
	kind        Kind
	size        uintptr
	alignment   uintptr
	name        string
	subtype     *Type
	constructor *Member
	destructor  *Member
	fields      []*Field
	members     []*Member
	interfaces  []*Interface
	layout      Layout

	fieldIndex  map[string]*Field
	memberIndex map[string]*Member
	built       bool
}

// Field is a named sub-value of a complex type located at a byte offset from
// the start of an instance.
type Field struct {
	Name      string
	Type      *Type
	Offset    uintptr
	IsPointer bool // the field holds a pointer to a Type instance
}

// Member is a named operation registered on a type. Overloaded members accept
// up to ArgumentCount arguments and inspect their runtime types themselves.
type Member struct {
	Name string

	// Func receives the instance pointer (nil for static members) and the
	// arguments moved into the call.
	Func func(obj any, args Args) Any

	ArgumentCount int     // maximum if overloaded
	Arguments     []*Type // nil when there is no single correct signature
	Return        *Type
	Static        bool
	Overloaded    bool
}

// Interface is a named group of members a type claims to provide.
type Interface struct {
	Name    string
	Members []*Member
}

func (t *Type) Kind() Kind                 { return t.kind }
func (t *Type) Size() uintptr              { return t.size }
func (t *Type) Alignment() uintptr         { return t.alignment }
func (t *Type) Name() string               { return t.name }
func (t *Type) Subtype() *Type             { return t.subtype }
func (t *Type) Constructor() *Member       { return t.constructor }
func (t *Type) Destructor() *Member        { return t.destructor }
func (t *Type) Layout() Layout             { return t.layout }
func (t *Type) NumFields() int             { return len(t.fields) }
func (t *Type) Field(i int) *Field         { return t.fields[i] }
func (t *Type) NumMembers() int            { return len(t.members) }
func (t *Type) Member(i int) *Member       { return t.members[i] }
func (t *Type) NumInterfaces() int         { return len(t.interfaces) }
func (t *Type) Interface(i int) *Interface { return t.interfaces[i] }

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// FindField returns the first field declared with the given name, or nil.
func (t *Type) FindField(name string) *Field {
	if t == nil {
		return nil
	}
	return t.fieldIndex[name]
}

// FindMember returns the first member declared with the given name, or nil.
func (t *Type) FindMember(name string) *Member {
	if t == nil {
		return nil
	}
	return t.memberIndex[name]
}

// Implements reports whether t provides a member for every member name of
// iface. When it does not, missing holds the first name that was not found.
func (t *Type) Implements(iface *Interface) (missing string, ok bool) {
	for _, m := range iface.Members {
		if t.FindMember(m.Name) == nil {
			return m.Name, false
		}
	}
	return "", true
}

// Builder assembles a Type. The descriptor is available from Type before it
// is finished so that members can refer to their own type.
type Builder struct {
	t *Type
}

// NewBuilder starts a descriptor. The layout fixes size and alignment; it may
// be nil only for void types.
func NewBuilder(kind Kind, name string, layout Layout) *Builder {
	t := &Type{
		kind:   kind,
		name:   name,
		layout: layout,
	}
	if layout != nil {
		t.size = layout.Size()
		t.alignment = layout.Align()
	}
	return &Builder{t: t}
}

// Type returns the descriptor being built.
func (b *Builder) Type() *Type {
	return b.t
}

func (b *Builder) check() {
	if b.t.built {
		panic(fmt.Sprintf("rtti: descriptor %s modified after it was finished", b.t.name))
	}
}

// Subtype sets the pointee of a pointer type.
func (b *Builder) Subtype(sub *Type) *Builder {
	b.check()
	b.t.subtype = sub
	return b
}

// Constructor sets the constructor member and also lists it as a member.
func (b *Builder) Constructor(m *Member) *Builder {
	b.check()
	b.t.constructor = m
	b.t.members = append(b.t.members, m)
	return b
}

// Destructor sets the destructor member and also lists it as a member.
func (b *Builder) Destructor(m *Member) *Builder {
	b.check()
	b.t.destructor = m
	b.t.members = append(b.t.members, m)
	return b
}

// Members appends members in declaration order.
func (b *Builder) Members(ms ...*Member) *Builder {
	b.check()
	b.t.members = append(b.t.members, ms...)
	return b
}

// Fields appends fields in declaration order.
func (b *Builder) Fields(fs ...*Field) *Builder {
	b.check()
	b.t.fields = append(b.t.fields, fs...)
	return b
}

// Interfaces appends the interfaces the type claims to implement.
func (b *Builder) Interfaces(is ...*Interface) *Builder {
	b.check()
	b.t.interfaces = append(b.t.interfaces, is...)
	return b
}

// Finish freezes the descriptor and builds its lookup indexes. Complex types
// must have a constructor.
func (b *Builder) Finish() *Type {
	b.check()
	t := b.t
	if t.kind == ComplexKind && t.constructor == nil {
		panic(fmt.Sprintf("rtti: complex type %s has no constructor", t.name))
	}
	if t.kind != VoidKind && t.layout == nil {
		panic(fmt.Sprintf("rtti: type %s has no layout", t.name))
	}

	// The first declaration of a name wins
	t.fieldIndex = make(map[string]*Field, len(t.fields))
	for _, f := range t.fields {
		if _, ok := t.fieldIndex[f.Name]; !ok {
			t.fieldIndex[f.Name] = f
		}
	}
	t.memberIndex = make(map[string]*Member, len(t.members))
	for _, m := range t.members {
		if _, ok := t.memberIndex[m.Name]; !ok {
			t.memberIndex[m.Name] = m
		}
	}

	t.built = true
	return t
}
