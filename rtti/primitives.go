package rtti

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed primitives.yaml
var rawPrimitives []byte

// Built-in descriptors, created from the primitive catalog at start-up.
var (
	Void    *Type
	Bool    *Type
	Int8    *Type
	Uint8   *Type
	Int16   *Type
	Uint16  *Type
	Int32   *Type
	Uint32  *Type
	Int64   *Type
	Uint64  *Type
	Size    *Type
	Float32 *Type
	Float64 *Type
	Cstr    *Type
	TypeRef *Type
)

// VoidValue is the result of members that return nothing meaningful.
var VoidValue Any

// PrimitiveInfo is one entry of the primitive catalog.
type PrimitiveInfo struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"`
	Go        string  `yaml:"go"`
	Size      uintptr `yaml:"size"`
	Alignment uintptr `yaml:"alignment"`
}

var goLayouts = map[string]Layout{
	"bool":       LayoutOf[bool](),
	"int8":       LayoutOf[int8](),
	"uint8":      LayoutOf[uint8](),
	"int16":      LayoutOf[int16](),
	"uint16":     LayoutOf[uint16](),
	"int32":      LayoutOf[int32](),
	"uint32":     LayoutOf[uint32](),
	"int64":      LayoutOf[int64](),
	"uint64":     LayoutOf[uint64](),
	"uint":       LayoutOf[uint](),
	"float32":    LayoutOf[float32](),
	"float64":    LayoutOf[float64](),
	"string":     LayoutOf[string](),
	"*rtti.Type": LayoutOf[*Type](),
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "void":
		return VoidKind, nil
	case "primitive":
		return PrimitiveKind, nil
	case "pointer":
		return PointerKind, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrCatalog, s)
}

// Build checks the entry against its Go layout and returns the descriptor.
func (p PrimitiveInfo) Build() (*Type, error) {
	kind, err := parseKind(p.Kind)
	if err != nil {
		return nil, err
	}
	if kind == VoidKind {
		return NewBuilder(VoidKind, p.Name, nil).Finish(), nil
	}

	layout, ok := goLayouts[p.Go]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no Go type %q", ErrCatalog, p.Name, p.Go)
	}
	if p.Size != 0 && p.Size != layout.Size() {
		return nil, fmt.Errorf("%w: %s: size %d, Go type %s has %d", ErrCatalog, p.Name, p.Size, p.Go, layout.Size())
	}
	if p.Alignment != 0 && p.Alignment != layout.Align() {
		return nil, fmt.Errorf("%w: %s: alignment %d, Go type %s has %d", ErrCatalog, p.Name, p.Alignment, p.Go, layout.Align())
	}
	return NewBuilder(kind, p.Name, layout).Finish(), nil
}

// ParseCatalog decodes a primitive catalog document.
func ParseCatalog(data []byte) ([]PrimitiveInfo, error) {
	var doc struct {
		Primitives []PrimitiveInfo `yaml:"primitives"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalog, err)
	}
	return doc.Primitives, nil
}

func init() {
	infos, err := ParseCatalog(rawPrimitives)
	if err != nil {
		panic(err)
	}

	builtins := map[string]**Type{
		"void":     &Void,
		"bool":     &Bool,
		"int8_t":   &Int8,
		"uint8_t":  &Uint8,
		"int16_t":  &Int16,
		"uint16_t": &Uint16,
		"int32_t":  &Int32,
		"uint32_t": &Uint32,
		"int64_t":  &Int64,
		"uint64_t": &Uint64,
		"size_t":   &Size,
		"float":    &Float32,
		"double":   &Float64,
		"cstr":     &Cstr,
		"type":     &TypeRef,
	}

	for _, info := range infos {
		t, err := info.Build()
		if err != nil {
			panic(err)
		}
		if dst, ok := builtins[info.Name]; ok {
			*dst = t
			delete(builtins, info.Name)
		}
		if err = Global.Register(t); err != nil {
			panic(err)
		}
	}

	for name := range builtins {
		panic(fmt.Errorf("%w: missing built-in %s", ErrCatalog, name))
	}

	VoidValue = Any{typ: Void}
}
