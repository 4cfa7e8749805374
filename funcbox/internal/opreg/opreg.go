// Package opreg keeps the process-wide registry of operation tables.
//
// Each (concrete type, signature) combination gets exactly one table
// instance for the lifetime of the process, so the table's address is a
// stable identity for "what is in this box". The registry is the only state
// shared between boxes; entries are built once and never mutated.
package opreg

import (
	"reflect"
	"sync"
)

// Key identifies one table: the held callable's concrete type plus the
// signature's argument and return types. A nil Concrete keys the signature's
// empty-state table.
type Key struct {
	Concrete reflect.Type
	Arg      reflect.Type
	Ret      reflect.Type
}

var tables sync.Map

// LoadOrStore returns the table registered under key, building and
// registering it first if absent. Concurrent first calls race benignly: the
// first stored instance wins and every caller observes the same address
// afterwards.
func LoadOrStore(key Key, build func() any) any {
	if v, ok := tables.Load(key); ok {
		return v
	}
	v, _ := tables.LoadOrStore(key, build())
	return v
}
