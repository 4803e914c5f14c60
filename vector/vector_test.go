package vector

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"omibyte.io/objmodel/internal/allocator"
	"omibyte.io/objmodel/rtti"
	"omibyte.io/objmodel/str"
)

func checkLeaks(t *testing.T) {
	t.Helper()
	live := allocator.Live()
	t.Cleanup(func() {
		if n := allocator.Live() - live; n != 0 {
			t.Errorf("%d blocks leaked", n)
		}
	})
}

func TestPushPop(t *testing.T) {
	checkLeaks(t)

	v := New(rtti.Int32)
	defer v.Free()

	for i := int32(0); i < 10; i++ {
		v.Push(&i)
	}
	if v.Len() != 10 || v.Cap() < 10 {
		t.Fatalf("expected 10 elements, got %d of %d", v.Len(), v.Cap())
	}
	if got, _ := rtti.As[int32](v.At(3)); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if !v.At(10).IsEmpty() || !v.At(-1).IsEmpty() {
		t.Errorf("out of range access must be Empty")
	}

	var popped []int32
	for v.Len() > 0 {
		var x int32
		v.Pop(&x)
		popped = append(popped, x)
	}
	want := []int32{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	if diff := cmp.Diff(want, popped); diff != "" {
		t.Errorf("pop order mismatch (-want +got):\n%s", diff)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("pop from an empty vector did not panic")
		}
	}()
	var x int32
	v.Pop(&x)
}

func TestPushChecksType(t *testing.T) {
	v := New(rtti.Int32)
	defer func() {
		if _, ok := recover().(*rtti.TypeMismatchError); !ok {
			t.Errorf("expected a type mismatch")
		}
		v.Free()
	}()
	x := int64(1)
	v.Push(&x)
}

func TestGrowth(t *testing.T) {
	checkLeaks(t)

	v := New(rtti.Float64)
	defer v.Free()

	caps := []int{}
	for i := 0; i < 9; i++ {
		f := float64(i)
		v.Push(&f)
		caps = append(caps, v.Cap())
	}
	if diff := cmp.Diff([]int{1, 2, 4, 4, 8, 8, 8, 8, 16}, caps); diff != "" {
		t.Errorf("capacity mismatch (-want +got):\n%s", diff)
	}

	v.Reserve(100)
	if v.Cap() != 100 {
		t.Errorf("expected capacity 100, got %d", v.Cap())
	}
	if got, _ := rtti.As[float64](v.At(8)); got != 8 {
		t.Errorf("growing lost element 8: %v", got)
	}
}

func TestVoidElements(t *testing.T) {
	v := New(rtti.Void)
	v.Push(nil)
	v.Push(nil)
	if v.Len() != 2 || v.At(0).Type() != rtti.Void {
		t.Errorf("expected two void elements")
	}
	v.Pop(nil)
	if v.String() != "[void]" {
		t.Errorf("unexpected text %s", v.String())
	}
	v.Free()
}

func TestPrint(t *testing.T) {
	checkLeaks(t)

	v := New(str.Type)
	defer v.Free()

	hello := str.FromText("Hello")
	v.Push(&hello)
	there := str.FromText("there")
	v.Push(&there)

	var buf bytes.Buffer
	if err := v.Print(&buf); err != nil {
		t.Fatal(err)
	}
	if want := "[\"Hello\", \"there\"]\n"; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	empty := New(rtti.Int8)
	if empty.String() != "[]" {
		t.Errorf("expected [], got %s", empty.String())
	}
}

func TestCopyIsDeep(t *testing.T) {
	checkLeaks(t)

	a := New(str.Type)
	for _, text := range []string{"one", "two", "three"} {
		s := str.FromText(text)
		a.Push(&s)
	}

	b := a.Copy()
	if b.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", b.Len())
	}
	for i := 0; i < 3; i++ {
		pa, _ := rtti.Instance[str.String](a.At(i))
		pb, _ := rtti.Instance[str.String](b.At(i))
		if pa == pb || &pa.Bytes()[0] == &pb.Bytes()[0] {
			t.Errorf("element %d is shared", i)
		}
		if !str.Equal(*pa, *pb) {
			t.Errorf("element %d differs: %q and %q", i, pa.Cstr(), pb.Cstr())
		}
	}

	// Freeing one vector leaves the other intact
	a.Free()
	if got := b.String(); got != `["one", "two", "three"]` {
		t.Errorf("copy changed after the original was freed: %s", got)
	}
	b.Free()
}

func TestPopMovesOwnership(t *testing.T) {
	checkLeaks(t)

	v := New(str.Type)
	s := str.FromText("owned")
	v.Push(&s)

	var out str.String
	v.Pop(&out)
	v.Free()
	if out.Cstr() != "owned" {
		t.Errorf("popped element was destroyed with the vector")
	}
	out.Free()
}
