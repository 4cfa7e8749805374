package funcbox

import "unsafe"

// storage is the entire representation of a box. Its layout never changes
// regardless of what is held. The C++-style single address-sized buffer is
// split into two slots here because the collector needs an exact pointer map:
// word may hold raw bits of a small pointer-free callable, ref may hold
// either a pointer-shaped callable's own pointer word or the address of a
// heap box. Which slot is live, and how to read it, is known only to the
// operation table that ops points at.
type storage[A, R any] struct {
	word uintptr
	ref  unsafe.Pointer
	ops  *opTable[A, R]
}

// wordAt reinterprets the word slot as a *T. Valid only under the word
// strategy, which admits T solely when its bits fit the slot and contain no
// pointers.
func wordAt[T any, A, R any](s *storage[A, R]) *T {
	return (*T)(unsafe.Pointer(&s.word))
}

// refAt reinterprets the ref slot as a *T. Valid only under the ref
// strategy, which admits T solely when its representation is a single
// pointer word.
func refAt[T any, A, R any](s *storage[A, R]) *T {
	return (*T)(unsafe.Pointer(&s.ref))
}

// boxAt returns the heap cell addressed by the ref slot. Valid only under
// the boxed strategy.
func boxAt[T any, A, R any](s *storage[A, R]) *T {
	return (*T)(s.ref)
}
