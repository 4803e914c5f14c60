package rtti

import (
	"io"
	"strconv"
	"strings"
)

// Print writes the text form of v to w. Complex values use their "print"
// member when they have one, then their "cstr" member (quoted), then their
// fields; anything else prints as <Name>.
func Print(w io.Writer, v Any) error {
	var sb strings.Builder
	appendValue(&sb, v)
	_, err := io.WriteString(w, sb.String())
	return err
}

// Sprint returns the text Print would write.
func Sprint(v Any) string {
	var sb strings.Builder
	appendValue(&sb, v)
	return sb.String()
}

func appendValue(sb *strings.Builder, v Any) {
	if v.typ == nil {
		sb.WriteString("<empty>")
		return
	}

	switch x := v.value.(type) {
	case bool:
		sb.WriteString(strconv.FormatBool(x))
		return
	case int8:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
		return
	case int16:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
		return
	case int32:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
		return
	case int64:
		sb.WriteString(strconv.FormatInt(x, 10))
		return
	case uint8:
		sb.WriteString(strconv.FormatUint(uint64(x), 10))
		return
	case uint16:
		sb.WriteString(strconv.FormatUint(uint64(x), 10))
		return
	case uint32:
		sb.WriteString(strconv.FormatUint(uint64(x), 10))
		return
	case uint64:
		sb.WriteString(strconv.FormatUint(x, 10))
		return
	case uint:
		sb.WriteString(strconv.FormatUint(uint64(x), 10))
		return
	case float32:
		sb.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 32))
		return
	case float64:
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		return
	case string:
		sb.WriteString(strconv.Quote(x))
		return
	case *Type:
		sb.WriteString(x.String())
		return
	}

	switch v.typ.kind {
	case VoidKind:
		sb.WriteString("void")
	case PrimitiveKind:
		sb.WriteString("<" + v.typ.name + ">")
	case PointerKind:
		sub := v.typ.subtype
		if sub == nil || sub.layout == nil || !sub.layout.Points(v.value) {
			sb.WriteString("<" + v.typ.name + ">")
			return
		}
		sb.WriteByte('&')
		appendValue(sb, Ref(sub, v.value))
	case ComplexKind:
		appendComplex(sb, v)
	}
}

func appendComplex(sb *strings.Builder, v Any) {
	if v.typ.FindMember("print") != nil {
		if text, ok := Invoke(v.Borrow(), "print").Cstr(); ok {
			sb.WriteString(text)
			return
		}
	}
	if v.typ.FindMember("cstr") != nil {
		if text, ok := Invoke(v.Borrow(), "cstr").Cstr(); ok {
			sb.WriteString(strconv.Quote(text))
			return
		}
	}
	if len(v.typ.fields) == 0 {
		sb.WriteString("<" + v.typ.name + ">")
		return
	}

	sb.WriteString(v.typ.name)
	sb.WriteByte('{')
	for i, f := range v.typ.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		if f.IsPointer && FieldOf(v, f.Name).IsEmpty() {
			sb.WriteString("nil")
			continue
		}
		appendValue(sb, FieldOf(v, f.Name))
	}
	sb.WriteByte('}')
}
