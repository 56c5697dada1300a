package container

import (
	"cmp"
	"iter"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/rbtree"
)

// Set is an ordered set of unique keys.
type Set[K any] struct {
	arena *alloc.Arena[rbtree.Node[K]]
	tree  *rbtree.Tree[K, K, K]
	less  func(a, b K) bool
}

// NewSet creates a set ordered by cmp.Less.
func NewSet[K cmp.Ordered]() *Set[K] {
	return NewSetFunc(cmp.Less[K])
}

// NewSetFunc creates a set ordered by less, a strict weak ordering.
func NewSetFunc[K any](less func(a, b K) bool) *Set[K] {
	arena := rbtree.NewAllocator[K]()

	return &Set[K]{
		arena: arena,
		tree:  rbtree.New[K, K, K](arena, assoc.SetTraits[K]{}, less),
		less:  less,
	}
}

// Emplace inserts key unless an equivalent key exists.
func (s *Set[K]) Emplace(key K) (SetIterator[K], bool) {
	return s.tree.Emplace(key)
}

// Find returns an iterator to key, or End().
func (s *Set[K]) Find(key K) SetIterator[K] {
	return s.tree.Find(key)
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	return s.tree.Contains(key)
}

// LowerBound returns an iterator to the first key not less than key.
func (s *Set[K]) LowerBound(key K) SetIterator[K] {
	return s.tree.LowerBound(key)
}

// UpperBound returns an iterator to the first key greater than key.
func (s *Set[K]) UpperBound(key K) SetIterator[K] {
	return s.tree.UpperBound(key)
}

// Erase removes key and returns an iterator to the next key.
func (s *Set[K]) Erase(key K) (SetIterator[K], error) {
	return s.tree.EraseKey(key)
}

// EraseIter removes the key at it and returns an iterator to the next key.
func (s *Set[K]) EraseIter(it SetIterator[K]) (SetIterator[K], error) {
	return s.tree.Erase(it)
}

// Begin returns an iterator to the smallest key.
func (s *Set[K]) Begin() SetIterator[K] {
	return s.tree.Begin()
}

// End returns the past-the-end iterator.
func (s *Set[K]) End() SetIterator[K] {
	return s.tree.End()
}

// Len returns the number of keys.
func (s *Set[K]) Len() int {
	return s.tree.Len()
}

// Empty reports whether the set has no keys.
func (s *Set[K]) Empty() bool {
	return s.tree.Empty()
}

// Clear removes every key.
func (s *Set[K]) Clear() {
	s.tree.Clear()
}

// All iterates the keys in order.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range s.tree.All() {
			if !yield(*key) {
				return
			}
		}
	}
}

// Backward iterates the keys in reverse order.
func (s *Set[K]) Backward() iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range s.tree.Backward() {
			if !yield(*key) {
				return
			}
		}
	}
}

// Clone returns a deep copy with its own arena.
func (s *Set[K]) Clone() *Set[K] {
	arena := rbtree.NewAllocator[K]()
	arena.HibernationThreshold = s.arena.HibernationThreshold

	return &Set[K]{arena: arena, tree: s.tree.Clone(arena), less: s.less}
}

// Move hands the keys and the arena to a new set and leaves the receiver empty.
func (s *Set[K]) Move() *Set[K] {
	moved := &Set[K]{arena: s.arena, tree: s.tree, less: s.less}
	fresh := NewSetFunc(s.less)
	fresh.arena.HibernationThreshold = s.arena.HibernationThreshold
	*s = *fresh

	return moved
}

// Equal reports whether both sets hold equivalent keys.
func (s *Set[K]) Equal(other *Set[K]) bool {
	return s.tree.EqualFunc(other.tree, func(a, b *K) bool {
		return !s.less(*a, *b) && !s.less(*b, *a)
	})
}

// Arena returns the node arena for introspection and hibernation tuning.
func (s *Set[K]) Arena() *alloc.Arena[rbtree.Node[K]] {
	return s.arena
}

// Hibernate compresses the arena. The set must not be used until Boot.
func (s *Set[K]) Hibernate() error {
	return s.arena.Hibernate(rbtree.NodeCodec[K]())
}

// Boot restores a hibernated set.
func (s *Set[K]) Boot() error {
	return s.arena.Boot(rbtree.NodeCodec[K]())
}

// CheckInvariants verifies the underlying tree.
func (s *Set[K]) CheckInvariants() error {
	return s.tree.CheckInvariants()
}
