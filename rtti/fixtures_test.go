package rtti

import (
	"errors"
	"sync"
	"testing"
	"unsafe"

	"omibyte.io/objmodel/internal/allocator"
)

type point struct {
	X, Y int32
}

type line struct {
	From, To point
	Next     *point
}

var (
	fixturesOnce sync.Once

	pointType    *Type
	pointPtrType *Type
	lineType     *Type

	// destroyed counts point destructor calls.
	destroyed int
)

// fixtures builds the test descriptors. The built-in descriptors only exist
// once the package is initialized, so this cannot run from a var block.
func fixtures() {
	fixturesOnce.Do(func() {
		var p point
		pb := NewBuilder(ComplexKind, "point", LayoutOf[point]())
		pointType = pb.Type()
		pb.Fields(
			&Field{Name: "x", Type: Int32, Offset: unsafe.Offsetof(p.X)},
			&Field{Name: "y", Type: Int32, Offset: unsafe.Offsetof(p.Y)},
		).Constructor(&Member{
			Name:          ".ctor",
			Func:          constructPoint,
			ArgumentCount: 1,
			Return:        pointType,
			Static:        true,
			Overloaded:    true,
		}).Destructor(&Member{
			Name: ".dtor",
			Func: func(any, Args) Any {
				destroyed++
				return Empty
			},
			Return: Void,
		}).Members(
			&Member{
				Name:          "move",
				Func:          movePoint,
				ArgumentCount: 2,
				Arguments:     []*Type{Int32, Int32},
				Return:        Void,
			},
			&Member{
				Name:   "sum",
				Func:   sumPoint,
				Return: Int64,
			},
			&Member{
				Name:   "sum",
				Func:   func(any, Args) Any { return FromInt64(-1) },
				Return: Int64,
			},
		).Finish()

		pointPtrType = NewBuilder(PointerKind, "point*", LayoutOf[*point]()).
			Subtype(pointType).
			Finish()

		var l line
		lb := NewBuilder(ComplexKind, "line", LayoutOf[line]())
		lineType = lb.Type()
		lb.Fields(
			&Field{Name: "from", Type: pointType, Offset: unsafe.Offsetof(l.From)},
			&Field{Name: "to", Type: pointType, Offset: unsafe.Offsetof(l.To)},
			&Field{Name: "next", Type: pointType, Offset: unsafe.Offsetof(l.Next), IsPointer: true},
		).Constructor(&Member{
			Name:       ".ctor",
			Func:       func(any, Args) Any { return FromComplex(lineType, &line{}) },
			Return:     lineType,
			Static:     true,
			Overloaded: true,
		}).Finish()
	})
}

func constructPoint(_ any, args Args) Any {
	switch args.Len() {
	case 0:
		return FromComplex(pointType, &point{})
	case 1:
		src, ok := Instance[point](args.At(0))
		if !ok {
			Mismatch("point.ctor", args.At(0), pointType)
		}
		c := *src
		return FromComplex(pointType, &c)
	}
	return Empty
}

func movePoint(obj any, args Args) Any {
	dx, _ := As[int32](args.At(0))
	dy, _ := As[int32](args.At(1))
	p := obj.(*point)
	p.X += dx
	p.Y += dy
	return VoidValue
}

func sumPoint(obj any, _ Args) Any {
	p := obj.(*point)
	return FromInt64(int64(p.X) + int64(p.Y))
}

func newPoint(x, y int32) Any {
	return FromComplex(pointType, &point{X: x, Y: y})
}

// checkLeaks fails t when the test body changes the number of live blocks.
func checkLeaks(t *testing.T) {
	t.Helper()
	live := allocator.Live()
	t.Cleanup(func() {
		if n := allocator.Live() - live; n != 0 {
			t.Errorf("%d blocks leaked", n)
		}
	})
}

// expectPanic runs f and returns the error it panicked with, failing t when
// f returns normally or panics with something other than an E.
func expectPanic[E error](t *testing.T, f func()) E {
	t.Helper()
	var target E
	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.As(err, &target) {
				t.Fatalf("expected %T panic, got %v", target, r)
			}
		}()
		f()
	}()
	return target
}
