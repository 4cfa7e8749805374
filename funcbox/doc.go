// Package funcbox provides a polymorphic callable container for Go.
//
// A Func[A, R] is a value-semantic box that can hold any callable whose
// signature is Invoke(A) (R, error), without the holder knowing the concrete
// callable's type. The box behaves like an ordinary value: it can be cloned,
// moved, reassigned, and released, and a clone is always an independent deep
// value with no ownership shared between boxes.
//
// # How does it work?
//
// Go interfaces already erase types, but they do it with a heap-allocated
// pair of words and no say over storage. funcbox instead keeps a per-type
// table of four operations (copy, move, invoke, destroy) and a fixed-layout
// storage slot per box. Small pointer-free callables and pointer-shaped
// callables (funcs, pointers, maps, channels) live directly inside the box;
// everything else lives in a single dedicated heap cell owned by the box.
// Which representation is in use is decided once per concrete type and
// carried entirely by the table pointer; the box itself has no tag.
//
// # Value semantics
//
//   - Clone produces an independent copy; a callable may customize (or fail)
//     its duplication by implementing Cloner.
//   - Move transfers ownership and cannot fail.
//   - CloneFrom reassigns with the strong guarantee: if duplication of the
//     right-hand side fails, the left-hand side is left exactly as it was.
//   - Release runs the held callable's Disposer hook, if any, and empties
//     the box. An empty box reports ErrEmptyCall when invoked.
//
// Duplicate boxes with Clone or Move, never with plain struct assignment:
// an assigned Func aliases the same heap cell as its source, and releasing
// either alias disposes the value out from under the other.
//
// A Func is a plain mutable value: distinct boxes may be used from distinct
// goroutines freely, but a single box must not be shared without external
// synchronization. The only process-wide state is the immutable operation
// table registry.
//
// Example:
//
//	double := funcbox.Lift(func(x int) (int, error) { return 2 * x, nil })
//	v, err := double.Call(21) // 42, nil
//
//	if fn, ok := funcbox.Target[funcbox.Fn[int, int]](&double); ok {
//	    // fn points at the held callable
//	    _ = fn
//	}
package funcbox
