package funcbox

import "reflect"

// Func is the user-facing box. Its zero value is a usable empty box. All
// work happens inside the operation table the storage points at; whether the
// box holds a small inline callable, a pointer-shaped one, a heap cell, or
// nothing at all, the method bodies below are identical.
//
// Duplicate a Func with Clone or Move, not by assigning the struct: a plain
// assignment aliases the held cell instead of copying the held value.
type Func[A, R any] struct {
	stg storage[A, R]
}

// table normalizes the zero value: a Func that has never been bound carries
// a nil table pointer, which every entry point resolves to the signature's
// empty-state table before dispatching.
func (f *Func[A, R]) table() *opTable[A, R] {
	if f.stg.ops == nil {
		f.stg.ops = emptyOps[A, R]()
	}
	return f.stg.ops
}

// Bind boxes a concrete callable. The storage strategy is selected from T
// once, together with T's operation table; the value is then written into
// its slot without duplication (Cloner hooks fire on clones, not on binds).
//
// A and R must be named explicitly; T is inferred from the argument:
//
//	f := funcbox.Bind[int, int](myCallable)
func Bind[A, R any, T Callable[A, R]](val T) Func[A, R] {
	var f Func[A, R]
	tab := tableOf[A, R, T]()
	bindStorage(&f.stg, val)
	f.stg.ops = tab
	return f
}

// Lift boxes a plain unary function.
func Lift[A, R any](fn func(A) (R, error)) Func[A, R] {
	return Bind[A, R](Fn[A, R](fn))
}

// Args2 bundles a two-argument call into the box's unary signature.
type Args2[A1, A2 any] struct {
	First  A1
	Second A2
}

// Args3 bundles a three-argument call into the box's unary signature.
type Args3[A1, A2, A3 any] struct {
	First  A1
	Second A2
	Third  A3
}

// Lift2 boxes a two-argument function.
func Lift2[A1, A2, R any](fn func(A1, A2) (R, error)) Func[Args2[A1, A2], R] {
	return Lift(func(args Args2[A1, A2]) (R, error) {
		return fn(args.First, args.Second)
	})
}

// Lift3 boxes a three-argument function.
func Lift3[A1, A2, A3, R any](fn func(A1, A2, A3) (R, error)) Func[Args3[A1, A2, A3], R] {
	return Lift(func(args Args3[A1, A2, A3]) (R, error) {
		return fn(args.First, args.Second, args.Third)
	})
}

// Call invokes the held callable. An empty box reports ErrEmptyCall; any
// failure of the held callable itself propagates unchanged.
func (f *Func[A, R]) Call(arg A) (R, error) {
	return f.table().invoke(&f.stg, arg)
}

// IsEmpty reports whether the box holds nothing. Emptiness is exactly
// "points at the signature's empty-state table".
func (f *Func[A, R]) IsEmpty() bool {
	return f.table() == emptyOps[A, R]()
}

// Clone produces an independent copy of the box. If the held callable's
// Cloner hook fails, the failure is returned and the source is untouched.
func (f *Func[A, R]) Clone() (Func[A, R], error) {
	var dst Func[A, R]
	if err := f.table().copy(&dst.stg, &f.stg); err != nil {
		return Func[A, R]{}, err
	}
	return dst, nil
}

// Move transfers the held callable into a new box. It cannot fail. A box
// holding a heap cell is left empty; an inline box keeps its table and its
// slot stays formally occupied until released, matching ordinary move
// semantics where the moved-from value's cleanup still runs with its owner.
func (f *Func[A, R]) Move() Func[A, R] {
	var dst Func[A, R]
	f.table().move(&dst.stg, &f.stg)
	return dst
}

// CloneFrom reassigns the box to an independent copy of rhs with the strong
// guarantee: if duplication fails, f is left exactly as it was and the
// failure is returned. Self-assignment is a no-op.
//
// Destroy-then-copy alone would not do: a failing copy would leave f
// destroyed. Instead f's value is parked in a backup through the
// never-failing move, the copy is attempted, and on failure the backup is
// moved straight back.
func (f *Func[A, R]) CloneFrom(rhs *Func[A, R]) error {
	if f == rhs {
		return nil
	}

	var backup storage[A, R]
	f.table().move(&backup, &f.stg)
	// Re-read the table: a heap-cell move has just reset f to the empty
	// state, so this destroy is a no-op there, and only zeroes the slot
	// for inline strategies.
	f.table().destroy(&f.stg)

	if err := rhs.table().copy(&f.stg, &rhs.stg); err != nil {
		backup.ops.move(&f.stg, &backup)
		backup.ops.destroy(&backup)
		return err
	}
	backup.ops.destroy(&backup)
	return nil
}

// MoveFrom reassigns the box by transferring rhs's held callable into it,
// releasing whatever f held before. It cannot fail. Self-assignment is a
// no-op.
func (f *Func[A, R]) MoveFrom(rhs *Func[A, R]) {
	if f == rhs {
		return
	}
	f.table().destroy(&f.stg)
	rhs.table().move(&f.stg, &rhs.stg)
}

// Release destroys the held callable, running its Disposer hook if it has
// one, and resets the box to the empty state. Releasing an empty box is a no-op.
// Unlike a destructed C++ object, a released Go value stays reachable, so
// the box stays fully usable afterwards.
func (f *Func[A, R]) Release() {
	f.table().destroy(&f.stg)
	f.stg = storage[A, R]{ops: emptyOps[A, R]()}
}

// Target reports whether the box holds exactly a T, and if so returns a
// pointer to the held value in place. The check is a single pointer
// comparison against T's table, whose address is the per-type identity.
//
//	if d, ok := funcbox.Target[doubler](&f); ok { ... }
func Target[T Callable[A, R], A, R any](f *Func[A, R]) (*T, bool) {
	if f.table() != tableOf[A, R, T]() {
		return nil, false
	}
	switch strategyOf(reflect.TypeFor[T]()) {
	case strategyWord:
		return wordAt[T](&f.stg), true
	case strategyRef:
		return refAt[T](&f.stg), true
	default:
		return boxAt[T](&f.stg), true
	}
}
