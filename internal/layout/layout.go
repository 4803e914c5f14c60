// Package layout computes field tables for Go struct declarations, as a
// starting point for hand-written rtti descriptors.
package layout

import (
	"errors"
	"fmt"
	"go/types"
)

var (
	ErrNotFound  = errors.New("type not found")
	ErrNotStruct = errors.New("type is not a struct")
)

// Spec describes one field of a struct.
type Spec struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Offset    int64  `yaml:"offset"`
	Size      int64  `yaml:"size"`
	Alignment int64  `yaml:"alignment"`
	IsPointer bool   `yaml:"pointer"`
}

// Struct describes a named struct type.
type Struct struct {
	Name      string `yaml:"name"`
	Size      int64  `yaml:"size"`
	Alignment int64  `yaml:"alignment"`
	Fields    []Spec `yaml:"fields"`
}

// Lookup finds the struct type called name in pkg and computes its layout.
func Lookup(pkg *types.Package, name string, sizes types.Sizes) (Struct, error) {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return Struct{}, fmt.Errorf("%w: %s.%s", ErrNotFound, pkg.Path(), name)
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return Struct{}, fmt.Errorf("%w: %s.%s", ErrNotFound, pkg.Path(), name)
	}
	st, ok := tn.Type().Underlying().(*types.Struct)
	if !ok {
		return Struct{}, fmt.Errorf("%w: %s.%s", ErrNotStruct, pkg.Path(), name)
	}
	return Of(name, st, sizes), nil
}

// Of computes the layout of st.
func Of(name string, st *types.Struct, sizes types.Sizes) Struct {
	if sizes == nil {
		sizes = types.SizesFor("gc", "amd64")
	}

	vars := make([]*types.Var, st.NumFields())
	for i := range vars {
		vars[i] = st.Field(i)
	}
	offsets := sizes.Offsetsof(vars)

	s := Struct{
		Name:      name,
		Size:      sizes.Sizeof(st),
		Alignment: sizes.Alignof(st),
		Fields:    make([]Spec, len(vars)),
	}
	for i, v := range vars {
		_, isPtr := v.Type().Underlying().(*types.Pointer)
		s.Fields[i] = Spec{
			Name:      v.Name(),
			Type:      types.TypeString(v.Type(), types.RelativeTo(v.Pkg())),
			Offset:    offsets[i],
			Size:      sizes.Sizeof(v.Type()),
			Alignment: sizes.Alignof(v.Type()),
			IsPointer: isPtr,
		}
	}
	return s
}
