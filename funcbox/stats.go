package funcbox

import "sync/atomic"

// Process-wide heap-cell accounting for the boxed strategy. Inline
// strategies never touch these. Tests use the counters to verify that a
// boxed callable costs exactly one cell, that reassignment releases the
// previous cell, and that inline callables cost none.
var (
	boxAllocs   atomic.Uint64
	boxReleases atomic.Uint64
)

// BoxStats returns the running totals of heap cells allocated and released
// by boxed storage. allocs - releases is the number of live cells.
func BoxStats() (allocs, releases uint64) {
	return boxAllocs.Load(), boxReleases.Load()
}
