package funcbox

import (
	"reflect"
	"unsafe"
)

// storage strategy for one concrete callable type. The decision is a pure
// function of the type, made once when its table is built, and every
// operation of that table assumes it.
type strategy uint8

const (
	// strategyWord keeps the callable's raw bits in storage.word.
	strategyWord strategy = iota
	// strategyRef keeps the callable's own pointer word in storage.ref.
	strategyRef
	// strategyBoxed keeps the callable in a dedicated heap cell addressed
	// by storage.ref.
	strategyBoxed
)

const (
	wordBytes = unsafe.Sizeof(uintptr(0))
	wordAlign = unsafe.Alignof(uintptr(0))
)

var disposerType = reflect.TypeFor[Disposer]()

// strategyOf decides how instances of rt are stored. Inline storage requires
// that relocating the value by plain bit copy is unconditionally safe: no
// Dispose hook that a relocated-then-destroyed slot would run against stale
// state, and bits the collector does not need to trace (word) or exactly one
// pointer word it can trace in place (ref). Everything else is boxed, and
// only the box address ever moves.
func strategyOf(rt reflect.Type) strategy {
	switch {
	case rt.Implements(disposerType):
		return strategyBoxed
	case pointerShaped(rt.Kind()):
		return strategyRef
	case fitsWord(rt):
		return strategyWord
	default:
		return strategyBoxed
	}
}

// pointerShaped reports whether values of the kind are represented as a
// single pointer word. These are the Go analogue of a function pointer
// fitting the inline buffer.
func pointerShaped(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Func, reflect.Map, reflect.Chan:
		return true
	default:
		return false
	}
}

func fitsWord(rt reflect.Type) bool {
	return rt.Size() <= wordBytes &&
		uintptr(rt.Align()) <= wordAlign &&
		pointerFree(rt)
}

// pointerFree reports whether rt's representation contains no pointers at
// any depth. Only such bits may live in the untyped word slot.
func pointerFree(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return rt.Len() == 0 || pointerFree(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if !pointerFree(rt.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// newOpTable builds the operation table for concrete type T under the (A, R)
// signature. Called exactly once per table by the registry.
func newOpTable[A, R any, T Callable[A, R]]() *opTable[A, R] {
	switch strategyOf(reflect.TypeFor[T]()) {
	case strategyWord:
		return wordOps[A, R, T]()
	case strategyRef:
		return refOps[A, R, T]()
	default:
		return boxedOps[A, R, T]()
	}
}

// hasCloneHook is resolved once per table build so that copying hookless
// types never touches an interface conversion.
func hasCloneHook[T any]() bool {
	return reflect.TypeFor[T]().Implements(reflect.TypeFor[Cloner[T]]())
}

func cloneValue[T any](v T) (T, error) {
	return any(v).(Cloner[T]).Clone()
}

func wordOps[A, R any, T Callable[A, R]]() *opTable[A, R] {
	cloneable := hasCloneHook[T]()
	return &opTable[A, R]{
		copy: func(dst, src *storage[A, R]) error {
			v := *wordAt[T](src)
			if cloneable {
				dup, err := cloneValue(v)
				if err != nil {
					return err
				}
				v = dup
			}
			*wordAt[T](dst) = v
			dst.ops = src.ops
			return nil
		},
		move: func(dst, src *storage[A, R]) {
			// The source keeps its table: the moved-from slot stays
			// formally occupied until whoever owns it destroys it.
			*wordAt[T](dst) = *wordAt[T](src)
			dst.ops = src.ops
		},
		invoke: func(src *storage[A, R], arg A) (R, error) {
			return (*wordAt[T](src)).Invoke(arg)
		},
		destroy: func(src *storage[A, R]) {
			src.word = 0
		},
	}
}

func refOps[A, R any, T Callable[A, R]]() *opTable[A, R] {
	cloneable := hasCloneHook[T]()
	return &opTable[A, R]{
		copy: func(dst, src *storage[A, R]) error {
			v := *refAt[T](src)
			if cloneable {
				dup, err := cloneValue(v)
				if err != nil {
					return err
				}
				v = dup
			}
			*refAt[T](dst) = v
			dst.ops = src.ops
			return nil
		},
		move: func(dst, src *storage[A, R]) {
			*refAt[T](dst) = *refAt[T](src)
			dst.ops = src.ops
		},
		invoke: func(src *storage[A, R], arg A) (R, error) {
			return (*refAt[T](src)).Invoke(arg)
		},
		destroy: func(src *storage[A, R]) {
			src.ref = nil
		},
	}
}

func boxedOps[A, R any, T Callable[A, R]]() *opTable[A, R] {
	cloneable := hasCloneHook[T]()
	disposable := reflect.TypeFor[T]().Implements(disposerType)
	return &opTable[A, R]{
		copy: func(dst, src *storage[A, R]) error {
			v := *boxAt[T](src)
			if cloneable {
				dup, err := cloneValue(v)
				if err != nil {
					return err
				}
				v = dup
			}
			cell := new(T)
			*cell = v
			dst.ref = unsafe.Pointer(cell)
			dst.ops = src.ops
			boxAllocs.Add(1)
			return nil
		},
		move: func(dst, src *storage[A, R]) {
			// Transferring the cell address is the one place a move
			// mutates its source: the source is reset to the empty
			// state so its eventual destroy cannot dispose the cell
			// a second time.
			dst.ref = src.ref
			dst.ops = src.ops
			src.ops = emptyOps[A, R]()
			src.ref = nil
		},
		invoke: func(src *storage[A, R], arg A) (R, error) {
			return (*boxAt[T](src)).Invoke(arg)
		},
		destroy: func(src *storage[A, R]) {
			if disposable {
				any(*boxAt[T](src)).(Disposer).Dispose()
			}
			src.ref = nil
			boxReleases.Add(1)
		},
	}
}

// bindStorage writes a freshly bound callable into its slot according to the
// type's strategy. The caller installs the table afterwards.
func bindStorage[A, R any, T Callable[A, R]](s *storage[A, R], val T) {
	switch strategyOf(reflect.TypeFor[T]()) {
	case strategyWord:
		*wordAt[T](s) = val
	case strategyRef:
		*refAt[T](s) = val
	default:
		cell := new(T)
		*cell = val
		s.ref = unsafe.Pointer(cell)
		boxAllocs.Add(1)
	}
}
