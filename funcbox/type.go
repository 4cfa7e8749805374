package funcbox

// Callable is the call-signature contract a held value must satisfy:
// one argument of type A in, one result of type R or a failure out.
// Multi-argument signatures go through Args2/Args3 and the LiftN adapters.
type Callable[A, R any] interface {
	Invoke(A) (R, error)
}

// Fn adapts a plain function to the Callable contract, the same way
// http.HandlerFunc adapts handlers. Func values are pointer-shaped, so a
// lifted Fn is stored inline without a heap cell.
type Fn[A, R any] func(A) (R, error)

func (fn Fn[A, R]) Invoke(arg A) (R, error) {
	return fn(arg)
}

// Cloner lets a callable control how it is duplicated when its box is
// cloned. Duplication may fail; the failure propagates verbatim to the
// caller of Clone or CloneFrom, and CloneFrom guarantees the target box is
// left exactly as it was. Types without the hook are duplicated by plain
// assignment, which cannot fail.
type Cloner[T any] interface {
	Clone() (T, error)
}

// Disposer lets a callable release resources when its box is released or
// reassigned. Dispose must not fail and runs exactly once per held value.
// A Disposer is always stored behind a heap cell: its bits may not be
// relocated by a plain copy, or a stale slot could be disposed twice.
type Disposer interface {
	Dispose()
}
