package domain

// DocumentIDSet is a possibly-sparse set of document ids scoped to one
// (account, collection) pair for bulk removal. Implementations may back it
// with anything that can enumerate a finite membership; no ordering or
// maximum size is assumed, and the set is never mutated by this module.
type DocumentIDSet interface {
	// Enumerate returns every member of the set.
	Enumerate() []uint32
}

// IDList is a plain slice implementation of DocumentIDSet.
type IDList []uint32

// Enumerate returns the ids as given.
func (l IDList) Enumerate() []uint32 {
	return l
}
