package funcbox

import (
	"reflect"

	"github.com/on-the-ground/funcbox_go/funcbox/internal/opreg"
	"github.com/on-the-ground/funcbox_go/shared/helper"
)

// opTable is the fixed quadruple of behaviors for one concrete callable type
// under one signature. The four operations are not independent: whichever
// type copy duplicates is the type move relocates, invoke calls and destroy
// releases. They therefore live together behind a single pointer instead of
// four pointers per box. What results is the hand-built equivalent of a
// compiler-generated vtable.
//
// copy must leave both boxes untouched when it fails. move and destroy
// cannot fail; that is guaranteed up front by the storage strategy selection,
// not discovered at runtime.
type opTable[A, R any] struct {
	copy    func(dst, src *storage[A, R]) error
	move    func(dst, src *storage[A, R])
	invoke  func(src *storage[A, R], arg A) (R, error)
	destroy func(src *storage[A, R])
}

// tableOf returns the one table instance for concrete type T under the
// (A, R) signature. The address is stable for the process lifetime, which is
// what lets Target test the held type by pointer comparison.
func tableOf[A, R any, T Callable[A, R]]() *opTable[A, R] {
	key := opreg.Key{
		Concrete: reflect.TypeFor[T](),
		Arg:      reflect.TypeFor[A](),
		Ret:      reflect.TypeFor[R](),
	}
	return helper.MustGetTypedValue[*opTable[A, R]](func() (any, error) {
		return opreg.LoadOrStore(key, func() any { return newOpTable[A, R, T]() }), nil
	})
}

// emptyOps returns the shared empty-state table for the (A, R) signature.
// An empty box points here instead of at nil, so every operation dispatches
// unconditionally: copy and move of an empty box propagate emptiness, invoke
// reports ErrEmptyCall, destroy is a no-op. Comparing a box's table against
// this address is the sole emptiness test; there is no separate flag.
func emptyOps[A, R any]() *opTable[A, R] {
	key := opreg.Key{
		Arg: reflect.TypeFor[A](),
		Ret: reflect.TypeFor[R](),
	}
	return helper.MustGetTypedValue[*opTable[A, R]](func() (any, error) {
		return opreg.LoadOrStore(key, func() any { return newEmptyOpTable[A, R]() }), nil
	})
}

func newEmptyOpTable[A, R any]() *opTable[A, R] {
	return &opTable[A, R]{
		copy: func(dst, _ *storage[A, R]) error {
			dst.ops = emptyOps[A, R]()
			return nil
		},
		move: func(dst, _ *storage[A, R]) {
			dst.ops = emptyOps[A, R]()
		},
		invoke: func(_ *storage[A, R], _ A) (R, error) {
			var zero R
			return zero, ErrEmptyCall
		},
		destroy: func(_ *storage[A, R]) {},
	}
}
