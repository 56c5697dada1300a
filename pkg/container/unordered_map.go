package container

import (
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/hashtable"
	"github.com/Sumatoshi-tech/assoc/pkg/ilist"
)

// UnorderedMap is a hash map with unique keys iterated in first-insertion order.
type UnorderedMap[K, M any] struct {
	arena *alloc.Arena[ilist.Node[assoc.Pair[K, M]]]
	table *hashtable.Table[assoc.Pair[K, M], K, M]
	build func(arena *alloc.Arena[ilist.Node[assoc.Pair[K, M]]]) *hashtable.Table[assoc.Pair[K, M], K, M]
}

// NewUnorderedMap creates a map hashed by hashtable.DefaultHasher and compared with ==.
func NewUnorderedMap[K comparable, M any](opts ...hashtable.Option) *UnorderedMap[K, M] {
	return NewUnorderedMapFunc[K, M](hashtable.DefaultHasher[K](), equalKeys[K], opts...)
}

// NewUnorderedMapFunc creates a map with a custom hasher and key equality.
// Keys that are equal must hash equally.
func NewUnorderedMapFunc[K, M any](
	hasher hashtable.Hasher[K],
	equal func(a, b K) bool,
	opts ...hashtable.Option,
) *UnorderedMap[K, M] {
	build := func(arena *alloc.Arena[ilist.Node[assoc.Pair[K, M]]]) *hashtable.Table[assoc.Pair[K, M], K, M] {
		return hashtable.New[assoc.Pair[K, M], K, M](arena, assoc.MapTraits[K, M]{}, hasher, equal, opts...)
	}
	arena := hashtable.NewAllocator[assoc.Pair[K, M]]()

	return &UnorderedMap[K, M]{arena: arena, table: build(arena), build: build}
}

// Emplace inserts key with value unless the key exists. The existing element wins.
func (m *UnorderedMap[K, M]) Emplace(key K, value M) (UnorderedMapIterator[K, M], bool) {
	return m.table.Emplace(assoc.MakePair(key, value))
}

// TryEmplace inserts key with value unless the key exists.
func (m *UnorderedMap[K, M]) TryEmplace(key K, value M) (UnorderedMapIterator[K, M], bool) {
	return m.TryEmplaceFunc(key, func() M { return value })
}

// TryEmplaceFunc inserts key with build() unless the key exists. build runs only on insertion.
func (m *UnorderedMap[K, M]) TryEmplaceFunc(key K, build func() M) (UnorderedMapIterator[K, M], bool) {
	return m.table.TryEmplace(key, func() assoc.Pair[K, M] {
		return assoc.MakePair(key, build())
	})
}

// Set inserts key with value or assigns value to the existing key.
// It reports whether the key was inserted.
func (m *UnorderedMap[K, M]) Set(key K, value M) bool {
	it, inserted := m.TryEmplace(key, value)
	if !inserted {
		it.Value().Value = value
	}

	return inserted
}

// Index returns the mapped value of key, inserting the zero value first when
// the key is absent. The pointer is valid until the next insertion.
func (m *UnorderedMap[K, M]) Index(key K) *M {
	it, _ := m.TryEmplaceFunc(key, func() M {
		var zero M

		return zero
	})

	return &it.Value().Value
}

// At returns the mapped value of key. A missing key fails with assoc.ErrOutOfRange.
func (m *UnorderedMap[K, M]) At(key K) (*M, error) {
	it := m.table.Find(key)
	if it.IsEnd() {
		return nil, fmt.Errorf("at %v: %w", key, assoc.ErrOutOfRange)
	}

	return &it.Value().Value, nil
}

// Find returns an iterator to key, or End().
func (m *UnorderedMap[K, M]) Find(key K) UnorderedMapIterator[K, M] {
	return m.table.Find(key)
}

// Contains reports whether key is present.
func (m *UnorderedMap[K, M]) Contains(key K) bool {
	return m.table.Contains(key)
}

// Erase removes key and returns an iterator to the element inserted after it.
func (m *UnorderedMap[K, M]) Erase(key K) (UnorderedMapIterator[K, M], error) {
	return m.table.EraseKey(key)
}

// EraseIter removes the element at it and returns an iterator to the element inserted after it.
func (m *UnorderedMap[K, M]) EraseIter(it UnorderedMapIterator[K, M]) (UnorderedMapIterator[K, M], error) {
	return m.table.Erase(it)
}

// Begin returns an iterator to the earliest inserted element.
func (m *UnorderedMap[K, M]) Begin() UnorderedMapIterator[K, M] {
	return m.table.Begin()
}

// End returns the past-the-end iterator.
func (m *UnorderedMap[K, M]) End() UnorderedMapIterator[K, M] {
	return m.table.End()
}

// Len returns the number of elements.
func (m *UnorderedMap[K, M]) Len() int {
	return m.table.Len()
}

// Empty reports whether the map has no elements.
func (m *UnorderedMap[K, M]) Empty() bool {
	return m.table.Empty()
}

// Clear removes every element and keeps the bucket count.
func (m *UnorderedMap[K, M]) Clear() {
	m.table.Clear()
}

// Bucket returns the bucket index of key.
func (m *UnorderedMap[K, M]) Bucket(key K) int {
	return m.table.Bucket(key)
}

// BucketCount returns the number of buckets.
func (m *UnorderedMap[K, M]) BucketCount() int {
	return m.table.BucketCount()
}

// BucketSize returns the number of elements in bucket idx.
func (m *UnorderedMap[K, M]) BucketSize(idx int) int {
	return m.table.BucketSize(idx)
}

// LoadFactor returns Len()/BucketCount().
func (m *UnorderedMap[K, M]) LoadFactor() float64 {
	return m.table.LoadFactor()
}

// MaxLoadFactor returns the load factor bound.
func (m *UnorderedMap[K, M]) MaxLoadFactor() float64 {
	return m.table.MaxLoadFactor()
}

// Rehash grows the map to at least count buckets.
func (m *UnorderedMap[K, M]) Rehash(count int) {
	m.table.Rehash(count)
}

// Reserve makes room for count elements without further rehashing.
func (m *UnorderedMap[K, M]) Reserve(count int) {
	m.table.Reserve(count)
}

// Rehashes returns how many times the buckets were rebuilt.
func (m *UnorderedMap[K, M]) Rehashes() int {
	return m.table.Rehashes()
}

// All iterates key and mapped value pairs in insertion order.
func (m *UnorderedMap[K, M]) All() iter.Seq2[K, M] {
	return func(yield func(K, M) bool) {
		for pair := range m.table.All() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Keys iterates the keys in insertion order.
func (m *UnorderedMap[K, M]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for pair := range m.table.All() {
			if !yield(pair.Key) {
				return
			}
		}
	}
}

// Values iterates the mapped values in insertion order.
func (m *UnorderedMap[K, M]) Values() iter.Seq[M] {
	return func(yield func(M) bool) {
		for pair := range m.table.All() {
			if !yield(pair.Value) {
				return
			}
		}
	}
}

// Clone returns a deep copy with its own arena and the same bucket count.
func (m *UnorderedMap[K, M]) Clone() *UnorderedMap[K, M] {
	arena := hashtable.NewAllocator[assoc.Pair[K, M]]()
	arena.HibernationThreshold = m.arena.HibernationThreshold

	return &UnorderedMap[K, M]{arena: arena, table: m.table.Clone(arena), build: m.build}
}

// Move hands the elements and the arena to a new map and leaves the receiver
// empty with its initial bucket count.
func (m *UnorderedMap[K, M]) Move() *UnorderedMap[K, M] {
	moved := &UnorderedMap[K, M]{arena: m.arena, table: m.table, build: m.build}

	arena := hashtable.NewAllocator[assoc.Pair[K, M]]()
	arena.HibernationThreshold = m.arena.HibernationThreshold
	m.arena = arena
	m.table = m.build(arena)

	return moved
}

// EqualFunc reports whether both maps hold the same keys with mapped values
// equal under eq, regardless of insertion order.
func (m *UnorderedMap[K, M]) EqualFunc(other *UnorderedMap[K, M], eq func(a, b M) bool) bool {
	return m.table.EqualFunc(other.table, func(a, b *assoc.Pair[K, M]) bool {
		return eq(a.Value, b.Value)
	})
}

// Arena returns the node arena for introspection and hibernation tuning.
func (m *UnorderedMap[K, M]) Arena() *alloc.Arena[ilist.Node[assoc.Pair[K, M]]] {
	return m.arena
}

// Hibernate compresses the arena. The map must not be used until Boot.
func (m *UnorderedMap[K, M]) Hibernate() error {
	return m.arena.Hibernate(ilist.NodeCodec[assoc.Pair[K, M]]())
}

// Boot restores a hibernated map.
func (m *UnorderedMap[K, M]) Boot() error {
	return m.arena.Boot(ilist.NodeCodec[assoc.Pair[K, M]]())
}

// CheckInvariants verifies the underlying table.
func (m *UnorderedMap[K, M]) CheckInvariants() error {
	return m.table.CheckInvariants()
}

// UnorderedMapsEqual reports whether both maps hold the same keys with equal mapped values.
func UnorderedMapsEqual[K any, M comparable](a, b *UnorderedMap[K, M]) bool {
	return a.EqualFunc(b, equalKeys[M])
}
