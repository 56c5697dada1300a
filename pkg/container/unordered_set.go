package container

import (
	"iter"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/hashtable"
	"github.com/Sumatoshi-tech/assoc/pkg/ilist"
)

// UnorderedSet is a hash set of unique keys iterated in first-insertion order.
type UnorderedSet[K any] struct {
	arena *alloc.Arena[ilist.Node[K]]
	table *hashtable.Table[K, K, K]
	build func(arena *alloc.Arena[ilist.Node[K]]) *hashtable.Table[K, K, K]
}

// NewUnorderedSet creates a set hashed by hashtable.DefaultHasher and compared with ==.
func NewUnorderedSet[K comparable](opts ...hashtable.Option) *UnorderedSet[K] {
	return NewUnorderedSetFunc(hashtable.DefaultHasher[K](), equalKeys[K], opts...)
}

// NewUnorderedSetFunc creates a set with a custom hasher and key equality.
func NewUnorderedSetFunc[K any](hasher hashtable.Hasher[K], equal func(a, b K) bool, opts ...hashtable.Option) *UnorderedSet[K] {
	build := func(arena *alloc.Arena[ilist.Node[K]]) *hashtable.Table[K, K, K] {
		return hashtable.New[K, K, K](arena, assoc.SetTraits[K]{}, hasher, equal, opts...)
	}
	arena := hashtable.NewAllocator[K]()

	return &UnorderedSet[K]{arena: arena, table: build(arena), build: build}
}

// Emplace inserts key unless an equal key exists.
func (s *UnorderedSet[K]) Emplace(key K) (UnorderedSetIterator[K], bool) {
	return s.table.Emplace(key)
}

// Find returns an iterator to key, or End().
func (s *UnorderedSet[K]) Find(key K) UnorderedSetIterator[K] {
	return s.table.Find(key)
}

// Contains reports whether key is present.
func (s *UnorderedSet[K]) Contains(key K) bool {
	return s.table.Contains(key)
}

// Erase removes key and returns an iterator to the key inserted after it.
func (s *UnorderedSet[K]) Erase(key K) (UnorderedSetIterator[K], error) {
	return s.table.EraseKey(key)
}

// EraseIter removes the key at it and returns an iterator to the key inserted after it.
func (s *UnorderedSet[K]) EraseIter(it UnorderedSetIterator[K]) (UnorderedSetIterator[K], error) {
	return s.table.Erase(it)
}

// Begin returns an iterator to the earliest inserted key.
func (s *UnorderedSet[K]) Begin() UnorderedSetIterator[K] {
	return s.table.Begin()
}

// End returns the past-the-end iterator.
func (s *UnorderedSet[K]) End() UnorderedSetIterator[K] {
	return s.table.End()
}

// Len returns the number of keys.
func (s *UnorderedSet[K]) Len() int {
	return s.table.Len()
}

// Empty reports whether the set has no keys.
func (s *UnorderedSet[K]) Empty() bool {
	return s.table.Empty()
}

// Clear removes every key and keeps the bucket count.
func (s *UnorderedSet[K]) Clear() {
	s.table.Clear()
}

// BucketCount returns the number of buckets.
func (s *UnorderedSet[K]) BucketCount() int {
	return s.table.BucketCount()
}

// BucketSize returns the number of keys in bucket idx.
func (s *UnorderedSet[K]) BucketSize(idx int) int {
	return s.table.BucketSize(idx)
}

// LoadFactor returns Len()/BucketCount().
func (s *UnorderedSet[K]) LoadFactor() float64 {
	return s.table.LoadFactor()
}

// Rehash grows the set to at least count buckets.
func (s *UnorderedSet[K]) Rehash(count int) {
	s.table.Rehash(count)
}

// Reserve makes room for count keys without further rehashing.
func (s *UnorderedSet[K]) Reserve(count int) {
	s.table.Reserve(count)
}

// All iterates the keys in insertion order.
func (s *UnorderedSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range s.table.All() {
			if !yield(*key) {
				return
			}
		}
	}
}

// Clone returns a deep copy with its own arena.
func (s *UnorderedSet[K]) Clone() *UnorderedSet[K] {
	arena := hashtable.NewAllocator[K]()
	arena.HibernationThreshold = s.arena.HibernationThreshold

	return &UnorderedSet[K]{arena: arena, table: s.table.Clone(arena), build: s.build}
}

// Move hands the keys and the arena to a new set and leaves the receiver empty.
func (s *UnorderedSet[K]) Move() *UnorderedSet[K] {
	moved := &UnorderedSet[K]{arena: s.arena, table: s.table, build: s.build}

	arena := hashtable.NewAllocator[K]()
	arena.HibernationThreshold = s.arena.HibernationThreshold
	s.arena = arena
	s.table = s.build(arena)

	return moved
}

// Equal reports whether both sets hold the same keys regardless of insertion order.
func (s *UnorderedSet[K]) Equal(other *UnorderedSet[K]) bool {
	return s.table.EqualFunc(other.table, func(_, _ *K) bool { return true })
}

// Arena returns the node arena for introspection and hibernation tuning.
func (s *UnorderedSet[K]) Arena() *alloc.Arena[ilist.Node[K]] {
	return s.arena
}

// Hibernate compresses the arena. The set must not be used until Boot.
func (s *UnorderedSet[K]) Hibernate() error {
	return s.arena.Hibernate(ilist.NodeCodec[K]())
}

// Boot restores a hibernated set.
func (s *UnorderedSet[K]) Boot() error {
	return s.arena.Boot(ilist.NodeCodec[K]())
}

// CheckInvariants verifies the underlying table.
func (s *UnorderedSet[K]) CheckInvariants() error {
	return s.table.CheckInvariants()
}
