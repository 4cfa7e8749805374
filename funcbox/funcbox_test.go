package funcbox_test

import (
	"errors"
	"testing"

	"github.com/on-the-ground/funcbox_go/funcbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doubler fits the inline word: small and pointer-free.
type doubler struct {
	factor int
}

func (d doubler) Invoke(x int) (int, error) {
	return d.factor * x, nil
}

// tripler is word-sized too; used as the "unrelated type" in probe tests.
type tripler struct {
	factor int
}

func (tr tripler) Invoke(x int) (int, error) {
	return 3 * tr.factor * x, nil
}

var errCloneMarker = errors.New("clone refused")

// flakyPipe is too large for the inline word, so it lives in a heap cell.
// Its clone hook fails on demand, which is what the strong-guarantee tests
// need.
type flakyPipe struct {
	weights [3]int64
	fail    bool
}

func (p flakyPipe) Invoke(x int) (int, error) {
	return x + int(p.weights[0]), nil
}

func (p flakyPipe) Clone() (flakyPipe, error) {
	if p.fail {
		return flakyPipe{}, errCloneMarker
	}
	return p, nil
}

// closerFn counts its disposals through an external cell.
type closerFn struct {
	disposed *int
}

func (c closerFn) Invoke(x int) (int, error) {
	return x, nil
}

func (c closerFn) Dispose() {
	*c.disposed++
}

func TestZeroValueIsUsableEmptyBox(t *testing.T) {
	var f funcbox.Func[int, int]

	assert.True(t, f.IsEmpty())

	_, err := f.Call(1)
	assert.ErrorIs(t, err, funcbox.ErrEmptyCall)

	// destroy of an empty box is a guaranteed no-op
	f.Release()
	assert.True(t, f.IsEmpty())
}

func TestEmptyCallForOtherSignatures(t *testing.T) {
	var f funcbox.Func[funcbox.Args2[int, string], bool]

	_, err := f.Call(funcbox.Args2[int, string]{First: 1, Second: "x"})
	assert.ErrorIs(t, err, funcbox.ErrEmptyCall)
}

func TestBindWordStrategy(t *testing.T) {
	allocs0, releases0 := funcbox.BoxStats()

	f := funcbox.Bind[int, int](doubler{factor: 2})
	require.False(t, f.IsEmpty())

	v, err := f.Call(21)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	d, ok := funcbox.Target[doubler](&f)
	require.True(t, ok)
	assert.Equal(t, 2, d.factor)

	_, ok = funcbox.Target[tripler](&f)
	assert.False(t, ok)

	f.Release()
	assert.True(t, f.IsEmpty())

	allocs1, releases1 := funcbox.BoxStats()
	assert.Equal(t, allocs0, allocs1, "inline callables must not touch the heap-cell accounting")
	assert.Equal(t, releases0, releases1)
}

func TestBindBoxedStrategy(t *testing.T) {
	allocs0, _ := funcbox.BoxStats()

	f := funcbox.Bind[int, int](flakyPipe{weights: [3]int64{10, 0, 0}})

	v, err := f.Call(1)
	require.NoError(t, err)
	assert.Equal(t, 11, v)

	p, ok := funcbox.Target[flakyPipe](&f)
	require.True(t, ok)
	assert.Equal(t, int64(10), p.weights[0])

	allocs1, _ := funcbox.BoxStats()
	assert.Equal(t, allocs0+1, allocs1, "a boxed callable costs exactly one heap cell")

	_, releases0 := funcbox.BoxStats()
	f.Release()
	_, releases1 := funcbox.BoxStats()
	assert.Equal(t, releases0+1, releases1, "release frees the cell exactly once")
}

func TestLiftFamily(t *testing.T) {
	double := funcbox.Lift(func(x int) (int, error) { return 2 * x, nil })
	v, err := double.Call(8)
	require.NoError(t, err)
	assert.Equal(t, 16, v)

	fn, ok := funcbox.Target[funcbox.Fn[int, int]](&double)
	require.True(t, ok)
	v, err = fn.Invoke(4)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	concat := funcbox.Lift2(func(a, b string) (string, error) { return a + b, nil })
	s, err := concat.Call(funcbox.Args2[string, string]{First: "func", Second: "box"})
	require.NoError(t, err)
	assert.Equal(t, "funcbox", s)

	clamp := funcbox.Lift3(func(v, lo, hi int) (int, error) {
		return max(lo, min(v, hi)), nil
	})
	v, err = clamp.Call(funcbox.Args3[int, int, int]{First: 17, Second: 0, Third: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestCloneIsIndependent(t *testing.T) {
	orig := funcbox.Bind[int, int](doubler{factor: 2})

	dup, err := orig.Clone()
	require.NoError(t, err)

	// copy-then-invoke agrees with the original
	v1, err := orig.Call(5)
	require.NoError(t, err)
	v2, err := dup.Call(5)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)

	// mutating the original through the probe leaves the clone alone
	d, ok := funcbox.Target[doubler](&orig)
	require.True(t, ok)
	d.factor = 7

	v1, _ = orig.Call(5)
	v2, _ = dup.Call(5)
	assert.Equal(t, 35, v1)
	assert.Equal(t, 10, v2)
}

func TestCloneBoxedIsDeep(t *testing.T) {
	allocs0, _ := funcbox.BoxStats()

	orig := funcbox.Bind[int, int](flakyPipe{weights: [3]int64{1, 2, 3}})
	dup, err := orig.Clone()
	require.NoError(t, err)

	allocs1, _ := funcbox.BoxStats()
	assert.Equal(t, allocs0+2, allocs1)

	p, ok := funcbox.Target[flakyPipe](&orig)
	require.True(t, ok)
	p.weights[0] = 100

	v, err := dup.Call(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "the clone owns its own cell")

	orig.Release()
	dup.Release()
}

func TestCloneOfEmptyIsEmpty(t *testing.T) {
	var f funcbox.Func[int, int]

	dup, err := f.Clone()
	require.NoError(t, err)
	assert.True(t, dup.IsEmpty())
}

func TestMoveBoxedLeavesSourceEmpty(t *testing.T) {
	f := funcbox.Bind[int, int](flakyPipe{weights: [3]int64{5, 0, 0}})

	g := f.Move()
	assert.True(t, f.IsEmpty())

	v, err := g.Call(1)
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	_, ok := funcbox.Target[flakyPipe](&g)
	assert.True(t, ok)

	_, releases0 := funcbox.BoxStats()
	f.Release() // empty: must not release anything
	_, releases1 := funcbox.BoxStats()
	assert.Equal(t, releases0, releases1)

	g.Release()
	_, releases2 := funcbox.BoxStats()
	assert.Equal(t, releases1+1, releases2)
}

func TestMoveInlineKeepsBothSlotsCallable(t *testing.T) {
	f := funcbox.Bind[int, int](doubler{factor: 2})

	g := f.Move()

	// the inline moved-from slot stays formally occupied until released
	v, err := g.Call(3)
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	f.Release()
	assert.True(t, f.IsEmpty())

	v, err = g.Call(4)
	require.NoError(t, err)
	assert.Equal(t, 8, v)
}

func TestMoveFromReleasesPreviousValue(t *testing.T) {
	disposed := 0
	f := funcbox.Bind[int, int](closerFn{disposed: &disposed})

	rhs := funcbox.Bind[int, int](doubler{factor: 4})
	f.MoveFrom(&rhs)

	assert.Equal(t, 1, disposed, "the displaced callable is disposed exactly once")

	v, err := f.Call(2)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	f.Release()
	assert.Equal(t, 1, disposed, "an inline value has no disposal to run")
}

func TestSelfAssignmentIsNoOp(t *testing.T) {
	disposed := 0
	f := funcbox.Bind[int, int](closerFn{disposed: &disposed})

	require.NoError(t, f.CloneFrom(&f))
	f.MoveFrom(&f)

	assert.Equal(t, 0, disposed)
	assert.False(t, f.IsEmpty())

	v, err := f.Call(9)
	require.NoError(t, err)
	assert.Equal(t, 9, v)

	_, ok := funcbox.Target[closerFn](&f)
	assert.True(t, ok)

	f.Release()
	assert.Equal(t, 1, disposed)
}

func TestReleaseDisposesOnce(t *testing.T) {
	disposed := 0
	f := funcbox.Bind[int, int](closerFn{disposed: &disposed})

	f.Release()
	f.Release()
	assert.Equal(t, 1, disposed)
}

func TestCallAllocsInline(t *testing.T) {
	f := funcbox.Bind[int, int](doubler{factor: 2})
	g := funcbox.Lift(func(x int) (int, error) { return x + 1, nil })
	f.Call(1)
	g.Call(1)

	assert.Zero(t, testing.AllocsPerRun(100, func() {
		f.Call(21)
	}))
	assert.Zero(t, testing.AllocsPerRun(100, func() {
		g.Call(21)
	}))
}
