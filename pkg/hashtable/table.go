// Package hashtable implements the unordered engine behind UnorderedMap and
// UnorderedSet: separate chaining over an insertion-ordered iteration list.
//
// The list owns every stored value. Buckets only hold list positions, so a
// rehash re-files positions without moving values and never invalidates
// element iterators. Iteration follows first-insertion order.
//
// Mutating a table while iterating over it is not supported.
package hashtable

import (
	"iter"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/ilist"
)

const (
	// DefaultBucketCount is the number of buckets of a new table.
	DefaultBucketCount = 8

	// MaxLoadFactor is the bound on Len()/BucketCount() restored after every insertion.
	MaxLoadFactor = 0.75
)

type config struct {
	bucketCount int
}

// Option configures a Table.
type Option func(*config)

// WithBucketCount sets the initial number of buckets. Non-positive values keep the default.
func WithBucketCount(count int) Option {
	return func(cfg *config) {
		if count > 0 {
			cfg.bucketCount = count
		}
	}
}

// Table is a hash table with unique keys.
type Table[V, K, M any] struct {
	list    *ilist.List[V]
	traits  assoc.Traits[V, K, M]
	hasher  Hasher[K]
	equal   func(a, b K) bool
	buckets [][]uint32

	// Bucket count handed to an emptied table.
	initialBuckets int

	rehashes int
}

// NewAllocator creates an arena suitable for Table nodes.
func NewAllocator[V any]() *alloc.Arena[ilist.Node[V]] {
	return ilist.NewAllocator[V]()
}

// New creates an empty table drawing list nodes from allocator.
func New[V, K, M any](
	allocator alloc.Allocator[ilist.Node[V]],
	traits assoc.Traits[V, K, M],
	hasher Hasher[K],
	equal func(a, b K) bool,
	opts ...Option,
) *Table[V, K, M] {
	cfg := config{bucketCount: DefaultBucketCount}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Table[V, K, M]{
		list:           ilist.New(allocator),
		traits:         traits,
		hasher:         hasher,
		equal:          equal,
		buckets:        make([][]uint32, cfg.bucketCount),
		initialBuckets: cfg.bucketCount,
	}
}

// Allocator returns the bound nodes allocator.
func (table *Table[V, K, M]) Allocator() alloc.Allocator[ilist.Node[V]] {
	return table.list.Allocator()
}

// Len returns the number of elements.
func (table *Table[V, K, M]) Len() int {
	return table.list.Len()
}

// Empty reports whether the table has no elements.
func (table *Table[V, K, M]) Empty() bool {
	return table.list.Len() == 0
}

// Begin returns an iterator to the earliest inserted element, or End().
func (table *Table[V, K, M]) Begin() Iterator[V, K, M] {
	return Iterator[V, K, M]{table, table.list.Begin()}
}

// End returns the past-the-end iterator.
func (table *Table[V, K, M]) End() Iterator[V, K, M] {
	return Iterator[V, K, M]{table, table.list.End()}
}

// Bucket returns the index of the bucket key belongs to.
func (table *Table[V, K, M]) Bucket(key K) int {
	return int(table.hasher.Hash(key) % uint64(len(table.buckets)))
}

// BucketCount returns the number of buckets.
func (table *Table[V, K, M]) BucketCount() int {
	return len(table.buckets)
}

// BucketSize returns the number of elements filed in bucket idx.
//
// REQUIRES: 0 <= idx < BucketCount().
func (table *Table[V, K, M]) BucketSize(idx int) int {
	doAssert(idx >= 0 && idx < len(table.buckets))

	return len(table.buckets[idx])
}

// LoadFactor returns Len()/BucketCount().
func (table *Table[V, K, M]) LoadFactor() float64 {
	return float64(table.list.Len()) / float64(len(table.buckets))
}

// MaxLoadFactor returns the fixed load factor bound.
func (table *Table[V, K, M]) MaxLoadFactor() float64 {
	return MaxLoadFactor
}

// Rehashes returns how many times the buckets were rebuilt.
func (table *Table[V, K, M]) Rehashes() int {
	return table.rehashes
}

// Find returns an iterator to the element with a key equal to key, or End().
func (table *Table[V, K, M]) Find(key K) Iterator[V, K, M] {
	return Iterator[V, K, M]{table, table.find(key, table.Bucket(key))}
}

// Contains reports whether an element with a key equal to key exists.
func (table *Table[V, K, M]) Contains(key K) bool {
	return table.find(key, table.Bucket(key)) != table.list.End()
}

// Emplace inserts value unless an element with an equal key exists.
// The node is constructed before the lookup; on a duplicate it is discarded
// and the iterator to the existing element is returned with false.
func (table *Table[V, K, M]) Emplace(value V) (Iterator[V, K, M], bool) {
	nodeIdx := table.list.Make(value)
	key := table.traits.ExtractKey(table.list.Value(nodeIdx))

	found := table.find(key, table.Bucket(key))
	if found != table.list.End() {
		table.list.Discard(nodeIdx)

		return Iterator[V, K, M]{table, found}, false
	}

	table.link(key, nodeIdx)

	return Iterator[V, K, M]{table, nodeIdx}, true
}

// TryEmplace inserts build() under key unless an element with an equal key exists.
// build runs only when the key is absent and must produce a value whose key equals key.
func (table *Table[V, K, M]) TryEmplace(key K, build func() V) (Iterator[V, K, M], bool) {
	found := table.find(key, table.Bucket(key))
	if found != table.list.End() {
		return Iterator[V, K, M]{table, found}, false
	}

	nodeIdx := table.list.Make(build())
	table.link(key, nodeIdx)

	return Iterator[V, K, M]{table, nodeIdx}, true
}

// Erase removes the element at it and returns an iterator to the element
// inserted after it. Erasing End() fails with assoc.ErrOutOfRange.
func (table *Table[V, K, M]) Erase(it Iterator[V, K, M]) (Iterator[V, K, M], error) {
	if it.node == table.list.End() {
		return table.End(), assoc.ErrOutOfRange
	}

	doAssert(it.table == table)

	key := table.traits.ExtractKey(table.list.Value(it.node))
	bucket := table.Bucket(key)
	refs := table.buckets[bucket]
	pos := slices.Index(refs, it.node)
	doAssert(pos >= 0)

	table.buckets[bucket] = slices.Delete(refs, pos, pos+1)

	return Iterator[V, K, M]{table, table.list.Erase(it.node)}, nil
}

// EraseKey removes the element with a key equal to key and returns an iterator to
// the element inserted after it. A missing key fails with assoc.ErrOutOfRange.
func (table *Table[V, K, M]) EraseKey(key K) (Iterator[V, K, M], error) {
	return table.Erase(table.Find(key))
}

// Rehash grows the table to at least max(count, ceil(Len()/MaxLoadFactor)) buckets
// and re-files every element. It never shrinks the table.
func (table *Table[V, K, M]) Rehash(count int) {
	target := max(count, minBuckets(table.list.Len()))
	if target <= len(table.buckets) {
		return
	}

	table.rebuild(target)
}

// Reserve makes room for count elements without further rehashing.
func (table *Table[V, K, M]) Reserve(count int) {
	table.Rehash(minBuckets(count))
}

// Clear destroys every element and keeps the bucket count.
func (table *Table[V, K, M]) Clear() {
	table.list.Clear()

	for idx := range table.buckets {
		table.buckets[idx] = nil
	}
}

// Clone copies the elements in insertion order into allocator and rebuilds the buckets.
func (table *Table[V, K, M]) Clone(allocator alloc.Allocator[ilist.Node[V]]) *Table[V, K, M] {
	clone := &Table[V, K, M]{
		list:           table.list.Clone(allocator),
		traits:         table.traits,
		hasher:         table.hasher,
		equal:          table.equal,
		initialBuckets: table.initialBuckets,
	}
	clone.fill(len(table.buckets))

	return clone
}

// Move hands the elements to a new table and leaves the receiver empty
// with a fresh sentinel and its initial bucket count.
func (table *Table[V, K, M]) Move() *Table[V, K, M] {
	moved := &Table[V, K, M]{
		list:           table.list.Move(),
		traits:         table.traits,
		hasher:         table.hasher,
		equal:          table.equal,
		buckets:        table.buckets,
		initialBuckets: table.initialBuckets,
		rehashes:       table.rehashes,
	}
	table.buckets = make([][]uint32, table.initialBuckets)
	table.rehashes = 0

	return moved
}

// Release destroys every element and frees the sentinel. The table must not be used afterwards.
func (table *Table[V, K, M]) Release() {
	table.list.Release()
	table.buckets = nil
}

// All iterates the stored values in insertion order.
func (table *Table[V, K, M]) All() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for _, value := range table.list.All() {
			if !yield(value) {
				return
			}
		}
	}
}

// EqualFunc reports whether both tables hold the same number of elements and
// every element of the receiver has an element with an equal key in other for which eq holds.
func (table *Table[V, K, M]) EqualFunc(other *Table[V, K, M], eq func(a, b *V) bool) bool {
	if table.Len() != other.Len() {
		return false
	}

	for _, value := range table.list.All() {
		match := other.Find(table.traits.ExtractKey(value))
		if match.IsEnd() || !eq(value, match.Value()) {
			return false
		}
	}

	return true
}

func (table *Table[V, K, M]) find(key K, bucket int) uint32 {
	for _, ref := range table.buckets[bucket] {
		if table.equal(table.traits.ExtractKey(table.list.Value(ref)), key) {
			return ref
		}
	}

	return table.list.End()
}

// link files the detached node nodeIdx holding key, doubling the buckets first
// when the insertion would exceed the load factor.
func (table *Table[V, K, M]) link(key K, nodeIdx uint32) {
	if float64(table.list.Len()+1)/float64(len(table.buckets)) > MaxLoadFactor {
		table.Rehash(len(table.buckets) * 2)
	}

	table.list.PushBack(nodeIdx)

	bucket := table.Bucket(key)
	table.buckets[bucket] = append(table.buckets[bucket], nodeIdx)
}

func (table *Table[V, K, M]) rebuild(count int) {
	table.fill(count)
	table.rehashes++
}

// fill replaces the buckets with count empty ones and re-files every list node.
func (table *Table[V, K, M]) fill(count int) {
	table.buckets = make([][]uint32, count)

	for idx, value := range table.list.All() {
		bucket := table.Bucket(table.traits.ExtractKey(value))
		table.buckets[bucket] = append(table.buckets[bucket], idx)
	}
}

// minBuckets returns the smallest bucket count keeping count elements within MaxLoadFactor.
func minBuckets(count int) int {
	return int(math.Ceil(float64(count) / MaxLoadFactor))
}

func doAssert(condition bool) {
	if !condition {
		panic("hashtable internal assertion failed")
	}
}
