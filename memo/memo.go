// Package memo tableizes a boxed callable: results of a deterministic
// callable are cached so repeated calls with the same argument never reach
// the callable again. The cache is bounded by generation rotation rather
// than eviction bookkeeping.
package memo

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/on-the-ground/funcbox_go/funcbox"
)

// KeyFunc derives a stable string key from an argument. Two arguments that
// should hit the same cache entry must map to the same key.
type KeyFunc[A any] func(A) string

// StringerKey keys arguments by their String method.
func StringerKey[A fmt.Stringer]() KeyFunc[A] {
	return func(arg A) string {
		return arg.String()
	}
}

// SprintKey keys arguments by their fmt.Sprint rendering. Convenient for
// comparable scalar arguments; prefer StringerKey or a hand-written KeyFunc
// for anything with an ambiguous default formatting.
func SprintKey[A any]() KeyFunc[A] {
	return func(arg A) string {
		return fmt.Sprint(arg)
	}
}

// memoized is the wrapper callable a Memoized box holds. Results are stored
// under the xxhash digest of the derived key. Failed calls are never cached:
// the next call with the same argument reaches the callable again.
type memoized[A, R any] struct {
	inner *funcbox.Func[A, R]
	keyFn KeyFunc[A]
	table *cache[R]
}

func (m memoized[A, R]) Invoke(arg A) (R, error) {
	digest := xxhash.Sum64String(m.keyFn(arg))
	if res, ok := m.table.load(digest); ok {
		return res, nil
	}
	res, err := m.inner.Call(arg)
	if err != nil {
		return res, err
	}
	m.table.store(digest, res)
	return res, nil
}

// Memoized moves f into a caching wrapper box holding at most maxSize live
// entries per generation. The wrapper is itself an ordinary box: it can be
// cloned, probed, released, and re-wrapped like any other.
func Memoized[A, R any](f *funcbox.Func[A, R], keyFn KeyFunc[A], maxSize uint32) funcbox.Func[A, R] {
	inner := f.Move()
	return funcbox.Bind[A, R](memoized[A, R]{
		inner: &inner,
		keyFn: keyFn,
		table: newCache[R](maxSize),
	})
}
