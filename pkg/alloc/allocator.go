// Package alloc provides the node allocation capability shared by the
// associative container engines: an index-addressed arena with explicit
// allocate/construct/destroy/deallocate steps and optional hibernation.
package alloc

import (
	"maps"
	"math"
)

// Null is the reserved slot index. It is never handed out by Allocate.
const Null uint32 = 0

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

// maxSlots is the exclusive upper bound of slot indices; [math.MaxUint32] is reserved.
const maxSlots = math.MaxUint32

// Allocator is the capability the engines use to create and retire nodes.
//
// Allocate hands out raw slots without constructing anything in them,
// Construct places a value into an allocated slot, Destroy clears a
// constructed slot without releasing it, and Deallocate releases slots
// which are no longer constructed. Node returns the slot storage; the
// pointer stays valid until the next Allocate call.
type Allocator[N any] interface {
	Allocate(count int) uint32
	Deallocate(idx uint32, count int)
	Construct(idx uint32, value N)
	Destroy(idx uint32)
	Node(idx uint32) *N
}

// Stats holds allocator usage counters.
type Stats struct {
	Allocations   int64
	Deallocations int64
	Constructions int64
	Destructions  int64
}

// Arena is a slab Allocator. Slot 0 is reserved on the first allocation
// so that the zero index can never name a live node.
type Arena[N any] struct {
	storage []N
	live    []bool
	gaps    map[uint32]bool
	stats   Stats

	// HibernationThreshold is the minimum slab size Hibernate compresses.
	HibernationThreshold int

	hibernatedData       [hibernatedSections][]byte
	hibernatedStorageLen int
	hibernatedGapsLen    int
	hibernatedNodesLen   int
}

// NewArena creates an empty arena.
func NewArena[N any]() *Arena[N] {
	return &Arena[N]{
		storage: []N{},
		live:    []bool{},
		gaps:    map[uint32]bool{},
	}
}

// Size returns the number of slots in the slab, including the reserved slot and gaps.
func (arena *Arena[N]) Size() int {
	return len(arena.storage)
}

// Used returns the number of allocated slots, including the reserved slot.
func (arena *Arena[N]) Used() int {
	arena.mustBeAwake()

	return len(arena.storage) - len(arena.gaps)
}

// Live returns the number of constructed slots.
func (arena *Arena[N]) Live() int {
	arena.mustBeAwake()

	return int(arena.stats.Constructions - arena.stats.Destructions)
}

// Stats returns the usage counters.
func (arena *Arena[N]) Stats() Stats {
	return arena.stats
}

// Clone copies the arena, including its gaps and construction state.
func (arena *Arena[N]) Clone() *Arena[N] {
	if arena.storage == nil {
		panic("cannot clone a hibernated allocator")
	}

	clone := &Arena[N]{
		HibernationThreshold: arena.HibernationThreshold,
		storage:              make([]N, len(arena.storage), cap(arena.storage)),
		live:                 make([]bool, len(arena.live), cap(arena.live)),
		gaps:                 map[uint32]bool{},
		stats:                arena.stats,
	}
	copy(clone.storage, arena.storage)
	copy(clone.live, arena.live)
	maps.Copy(clone.gaps, arena.gaps)

	return clone
}

// Allocate reserves count consecutive slots and returns the index of the first one.
// A single slot reuses a previously deallocated one when available.
func (arena *Arena[N]) Allocate(count int) uint32 {
	arena.mustBeAwake()
	doAssert(count > 0)

	if count == 1 && len(arena.gaps) > 0 {
		var idx uint32

		for idx = range arena.gaps {
			break
		}

		delete(arena.gaps, idx)
		arena.stats.Allocations++

		return idx
	}

	if len(arena.storage) == 0 {
		// Zero is reserved.
		arena.appendSlots(1)
	}

	if len(arena.storage)+count >= maxSlots {
		panic("the arena has reached the maximum value for uint32 indices")
	}

	first := len(arena.storage)
	arena.appendSlots(count)
	arena.stats.Allocations += int64(count)

	return uint32(first)
}

func (arena *Arena[N]) appendSlots(count int) {
	need := len(arena.storage) + count
	if need > cap(arena.storage) {
		capSize := max(need, (cap(arena.storage)*growCapacityNumerator)/growCapacityDenominator)

		storage := make([]N, len(arena.storage), capSize)
		copy(storage, arena.storage)
		arena.storage = storage

		live := make([]bool, len(arena.live), capSize)
		copy(live, arena.live)
		arena.live = live
	}

	var zero N

	for range count {
		arena.storage = append(arena.storage, zero)
		arena.live = append(arena.live, false)
	}
}

// Deallocate releases count slots starting at idx. The slots must not be constructed.
func (arena *Arena[N]) Deallocate(idx uint32, count int) {
	arena.mustBeAwake()
	doAssert(count > 0)

	if idx == Null {
		panic("slot #0 is special and cannot be deallocated")
	}

	for slot := idx; slot < idx+uint32(count); slot++ {
		doAssert(int(slot) < len(arena.storage))
		doAssert(!arena.gaps[slot])
		doAssert(!arena.live[slot])

		arena.gaps[slot] = true
	}

	arena.stats.Deallocations += int64(count)
}

// Construct places value into the allocated slot idx.
func (arena *Arena[N]) Construct(idx uint32, value N) {
	arena.checkAllocated(idx)
	doAssert(!arena.live[idx])

	arena.storage[idx] = value
	arena.live[idx] = true
	arena.stats.Constructions++
}

// Destroy clears the constructed slot idx without releasing it.
func (arena *Arena[N]) Destroy(idx uint32) {
	arena.checkAllocated(idx)
	doAssert(arena.live[idx])

	var zero N

	arena.storage[idx] = zero
	arena.live[idx] = false
	arena.stats.Destructions++
}

// Node returns the storage of slot idx.
func (arena *Arena[N]) Node(idx uint32) *N {
	return &arena.storage[idx]
}

func (arena *Arena[N]) checkAllocated(idx uint32) {
	arena.mustBeAwake()
	doAssert(idx != Null && int(idx) < len(arena.storage))
	doAssert(!arena.gaps[idx])
}

func (arena *Arena[N]) mustBeAwake() {
	if arena.storage == nil {
		panic("hibernated allocators cannot be used")
	}
}

func doAssert(condition bool) {
	if !condition {
		panic("alloc internal assertion failed")
	}
}
