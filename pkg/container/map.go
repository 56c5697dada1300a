package container

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/rbtree"
)

// Map is an ordered map with unique keys.
type Map[K, M any] struct {
	arena *alloc.Arena[rbtree.Node[assoc.Pair[K, M]]]
	tree  *rbtree.Tree[assoc.Pair[K, M], K, M]
	less  func(a, b K) bool
}

// NewMap creates a map ordered by cmp.Less.
func NewMap[K cmp.Ordered, M any]() *Map[K, M] {
	return NewMapFunc[K, M](cmp.Less[K])
}

// NewMapFunc creates a map ordered by less, a strict weak ordering.
func NewMapFunc[K, M any](less func(a, b K) bool) *Map[K, M] {
	arena := rbtree.NewAllocator[assoc.Pair[K, M]]()

	return &Map[K, M]{
		arena: arena,
		tree:  rbtree.New[assoc.Pair[K, M], K, M](arena, assoc.MapTraits[K, M]{}, less),
		less:  less,
	}
}

// Emplace inserts key with value unless the key exists. The existing element wins.
func (m *Map[K, M]) Emplace(key K, value M) (MapIterator[K, M], bool) {
	return m.tree.Emplace(assoc.MakePair(key, value))
}

// TryEmplace inserts key with value unless the key exists.
func (m *Map[K, M]) TryEmplace(key K, value M) (MapIterator[K, M], bool) {
	return m.TryEmplaceFunc(key, func() M { return value })
}

// TryEmplaceFunc inserts key with build() unless the key exists. build runs only on insertion.
func (m *Map[K, M]) TryEmplaceFunc(key K, build func() M) (MapIterator[K, M], bool) {
	return m.tree.TryEmplace(key, func() assoc.Pair[K, M] {
		return assoc.MakePair(key, build())
	})
}

// Set inserts key with value or assigns value to the existing key.
// It reports whether the key was inserted.
func (m *Map[K, M]) Set(key K, value M) bool {
	it, inserted := m.TryEmplace(key, value)
	if !inserted {
		it.Value().Value = value
	}

	return inserted
}

// Index returns the mapped value of key, inserting the zero value first when
// the key is absent. The pointer is valid until the next insertion.
func (m *Map[K, M]) Index(key K) *M {
	it, _ := m.TryEmplaceFunc(key, func() M {
		var zero M

		return zero
	})

	return &it.Value().Value
}

// At returns the mapped value of key. A missing key fails with assoc.ErrOutOfRange.
func (m *Map[K, M]) At(key K) (*M, error) {
	it := m.tree.Find(key)
	if it.IsEnd() {
		return nil, fmt.Errorf("at %v: %w", key, assoc.ErrOutOfRange)
	}

	return &it.Value().Value, nil
}

// Find returns an iterator to key, or End().
func (m *Map[K, M]) Find(key K) MapIterator[K, M] {
	return m.tree.Find(key)
}

// Contains reports whether key is present.
func (m *Map[K, M]) Contains(key K) bool {
	return m.tree.Contains(key)
}

// LowerBound returns an iterator to the first key not less than key.
func (m *Map[K, M]) LowerBound(key K) MapIterator[K, M] {
	return m.tree.LowerBound(key)
}

// UpperBound returns an iterator to the first key greater than key.
func (m *Map[K, M]) UpperBound(key K) MapIterator[K, M] {
	return m.tree.UpperBound(key)
}

// Erase removes key and returns an iterator to the next key.
func (m *Map[K, M]) Erase(key K) (MapIterator[K, M], error) {
	return m.tree.EraseKey(key)
}

// EraseIter removes the element at it and returns an iterator to the next key.
func (m *Map[K, M]) EraseIter(it MapIterator[K, M]) (MapIterator[K, M], error) {
	return m.tree.Erase(it)
}

// Begin returns an iterator to the smallest key.
func (m *Map[K, M]) Begin() MapIterator[K, M] {
	return m.tree.Begin()
}

// End returns the past-the-end iterator.
func (m *Map[K, M]) End() MapIterator[K, M] {
	return m.tree.End()
}

// Len returns the number of elements.
func (m *Map[K, M]) Len() int {
	return m.tree.Len()
}

// Empty reports whether the map has no elements.
func (m *Map[K, M]) Empty() bool {
	return m.tree.Empty()
}

// Clear removes every element.
func (m *Map[K, M]) Clear() {
	m.tree.Clear()
}

// All iterates key and mapped value pairs in key order.
func (m *Map[K, M]) All() iter.Seq2[K, M] {
	return func(yield func(K, M) bool) {
		for pair := range m.tree.All() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Backward iterates key and mapped value pairs in reverse key order.
func (m *Map[K, M]) Backward() iter.Seq2[K, M] {
	return func(yield func(K, M) bool) {
		for pair := range m.tree.Backward() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Keys iterates the keys in order.
func (m *Map[K, M]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for pair := range m.tree.All() {
			if !yield(pair.Key) {
				return
			}
		}
	}
}

// Values iterates the mapped values in key order.
func (m *Map[K, M]) Values() iter.Seq[M] {
	return func(yield func(M) bool) {
		for pair := range m.tree.All() {
			if !yield(pair.Value) {
				return
			}
		}
	}
}

// Clone returns a deep copy with its own arena.
func (m *Map[K, M]) Clone() *Map[K, M] {
	arena := rbtree.NewAllocator[assoc.Pair[K, M]]()
	arena.HibernationThreshold = m.arena.HibernationThreshold

	return &Map[K, M]{arena: arena, tree: m.tree.Clone(arena), less: m.less}
}

// Move hands the elements and the arena to a new map and leaves the receiver empty.
func (m *Map[K, M]) Move() *Map[K, M] {
	moved := &Map[K, M]{arena: m.arena, tree: m.tree, less: m.less}
	fresh := NewMapFunc[K, M](m.less)
	fresh.arena.HibernationThreshold = m.arena.HibernationThreshold
	*m = *fresh

	return moved
}

// EqualFunc reports whether both maps hold equivalent keys with mapped values equal under eq.
func (m *Map[K, M]) EqualFunc(other *Map[K, M], eq func(a, b M) bool) bool {
	return m.tree.EqualFunc(other.tree, func(a, b *assoc.Pair[K, M]) bool {
		return !m.less(a.Key, b.Key) && !m.less(b.Key, a.Key) && eq(a.Value, b.Value)
	})
}

// Arena returns the node arena for introspection and hibernation tuning.
func (m *Map[K, M]) Arena() *alloc.Arena[rbtree.Node[assoc.Pair[K, M]]] {
	return m.arena
}

// Hibernate compresses the arena. The map must not be used until Boot.
func (m *Map[K, M]) Hibernate() error {
	return m.arena.Hibernate(rbtree.NodeCodec[assoc.Pair[K, M]]())
}

// Boot restores a hibernated map.
func (m *Map[K, M]) Boot() error {
	return m.arena.Boot(rbtree.NodeCodec[assoc.Pair[K, M]]())
}

// CheckInvariants verifies the underlying tree.
func (m *Map[K, M]) CheckInvariants() error {
	return m.tree.CheckInvariants()
}

// MapsEqual reports whether both maps hold equivalent keys with equal mapped values.
func MapsEqual[K any, M comparable](a, b *Map[K, M]) bool {
	return a.EqualFunc(b, equalKeys[M])
}
