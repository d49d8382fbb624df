package grid

import "github.com/google/btree"

type entry struct {
	ref      Ref
	contents Contents
}

func lessEntry(a, b entry) bool {
	return a.ref.Less(b.ref)
}

// Store maps cell references to their contents, ordered row-major.
// No entry exists for a cell until it is first written.
type Store struct {
	tree *btree.BTreeG[entry]
}

func NewStore() *Store {
	return &Store{tree: btree.NewG(8, lessEntry)}
}

// Put inserts or overwrites the contents at ref.
func (s *Store) Put(ref Ref, c Contents) {
	s.tree.ReplaceOrInsert(entry{ref: ref, contents: c})
}

// Get returns the stored contents; unwritten cells yield empty contents
// and false.
func (s *Store) Get(ref Ref) (Contents, bool) {
	e, ok := s.tree.Get(entry{ref: ref})
	return e.contents, ok
}

func (s *Store) Len() int { return s.tree.Len() }

func (s *Store) Clear() { s.tree.Clear(false) }

// Ascend calls fn for every stored cell in row-major order until fn
// returns false. fn must not modify the store.
func (s *Store) Ascend(fn func(Ref, Contents) bool) {
	s.tree.Ascend(func(e entry) bool {
		return fn(e.ref, e.contents)
	})
}

// Refs returns all stored references in row-major order.
func (s *Store) Refs() []Ref {
	refs := make([]Ref, 0, s.tree.Len())
	s.Ascend(func(r Ref, _ Contents) bool {
		refs = append(refs, r)
		return true
	})
	return refs
}

// Bounds returns the largest row and column index in use, or -1, -1 when
// the store is empty.
func (s *Store) Bounds() (maxRow, maxCol int) {
	maxRow, maxCol = -1, -1
	s.Ascend(func(r Ref, _ Contents) bool {
		maxRow = max(maxRow, r.Row)
		maxCol = max(maxCol, r.Col)
		return true
	})
	return maxRow, maxCol
}
