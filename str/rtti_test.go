package str

import (
	"errors"
	"testing"

	"omibyte.io/objmodel/rtti"
)

func cstr(t *testing.T, v rtti.Any) string {
	t.Helper()
	text, ok := rtti.Invoke(v, "cstr").Cstr()
	if !ok {
		t.Fatalf("cstr of %s did not return text", v.Type())
	}
	return text
}

func TestReflectiveScenario(t *testing.T) {
	checkLeaks(t)

	s := rtti.MakeDefault(Type)
	defer s.Release()

	rtti.Invoke(s, "append", rtti.FromCstr("Cool!"))
	if got := cstr(t, s); got != "Cool!" {
		t.Errorf("expected Cool!, got %q", got)
	}

	rtti.Invoke(s, "prepend", rtti.FromCstr("You Are "))
	if got := cstr(t, s); got != "You Are Cool!" {
		t.Errorf("expected You Are Cool!, got %q", got)
	}
	if n, _ := rtti.As[uint](rtti.Invoke(s, "len")); n != 13 {
		t.Errorf("expected length 13, got %d", n)
	}
}

func TestConstructorOverloads(t *testing.T) {
	checkLeaks(t)
	ctor := Type.Constructor()

	t.Run("default", func(t *testing.T) {
		v := ctor.Invoke(nil)
		defer v.Release()
		if got := cstr(t, v); got != "" {
			t.Errorf("expected empty text, got %q", got)
		}
	})

	t.Run("cstr", func(t *testing.T) {
		v := ctor.Invoke(nil, rtti.FromCstr("text"))
		defer v.Release()
		p, _ := rtti.Instance[String](v)
		if !p.Owned() || p.Cstr() != "text" {
			t.Errorf("expected an owned copy of text, got %q", p.Cstr())
		}
	})

	t.Run("copy", func(t *testing.T) {
		src := Box(FromText("original"))
		defer src.Release()

		v := rtti.Copy(src)
		defer v.Release()
		a, _ := rtti.Instance[String](src)
		b, _ := rtti.Instance[String](v)
		if a == b || &a.data[0] == &b.data[0] {
			t.Fatalf("copy shares storage with its source")
		}
		rtti.Invoke(v, "push", rtti.FromUint8('!'))
		if cstr(t, src) != "original" || cstr(t, v) != "original!" {
			t.Errorf("copies are not independent")
		}
	})

	t.Run("move", func(t *testing.T) {
		src := Box(FromText("moved"))
		p, _ := rtti.Instance[String](src)

		v := ctor.Invoke(nil, rtti.Move(&src))
		defer v.Release()
		if q, _ := rtti.Instance[String](v); q != p {
			t.Errorf("an owned argument must become the result")
		}
	})

	t.Run("pointer", func(t *testing.T) {
		s := FromText("pointed")
		defer s.Free()

		v := ctor.Invoke(nil, rtti.FromComplex(PtrType, &s))
		defer v.Release()
		if cstr(t, v) != "pointed" {
			t.Errorf("expected a copy of pointed")
		}

		var nilString *String
		w := ctor.Invoke(nil, rtti.FromComplex(PtrType, nilString))
		defer w.Release()
		if cstr(t, w) != "" {
			t.Errorf("expected an empty string from a nil pointer")
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if v := ctor.Invoke(nil, rtti.FromInt32(1)); !v.IsEmpty() {
			t.Errorf("expected Empty for an unsupported argument")
		}
	})
}

func TestMembers(t *testing.T) {
	checkLeaks(t)

	s := Box(FromText("abc"))
	defer s.Release()

	rtti.Invoke(s, "push", rtti.FromInt8('d'))
	rtti.Invoke(s, "pop")
	rtti.Invoke(s, "pop")
	if got := cstr(t, s); got != "ab" {
		t.Errorf("expected ab, got %q", got)
	}

	other := Box(FromText("ab"))
	if eq, _ := rtti.As[bool](rtti.Invoke(s, "equal", rtti.Move(&other))); !eq {
		t.Errorf("expected ab to equal ab")
	}

	ptr := FromText("b")
	defer ptr.Free()
	if c, _ := rtti.As[int32](rtti.Invoke(s, "compare", rtti.FromComplex(PtrType, &ptr))); c != -1 {
		t.Errorf("expected ab < b, got %d", c)
	}

	err := func() (err error) {
		defer func() { err, _ = recover().(error) }()
		rtti.Invoke(s, "append", rtti.FromFloat64(1))
		return nil
	}()
	var mismatch *rtti.TypeMismatchError
	if !errors.As(err, &mismatch) || mismatch.Got != rtti.Float64 {
		t.Errorf("expected a type mismatch, got %v", err)
	}
}

func TestPrintString(t *testing.T) {
	checkLeaks(t)

	v := Box(FromText("quoted"))
	defer v.Release()
	if got := rtti.Sprint(v); got != `"quoted"` {
		t.Errorf("expected \"quoted\", got %s", got)
	}
}

func TestRegistered(t *testing.T) {
	for _, want := range []*rtti.Type{Type, PtrType} {
		if got, ok := rtti.Global.Lookup(want.Name()); !ok || got != want {
			t.Errorf("%s is not registered", want.Name())
		}
	}
	if PtrType.Subtype() != Type {
		t.Errorf("String* must point to String")
	}
}
