// Package ilist implements the iteration list of the hash engine: a
// circular doubly linked list of arena slots headed by a sentinel slot.
//
// The sentinel's next link is the first element and the sentinel itself is
// the end position, so walking from End() forward and backward wraps around.
// Nodes can be made detached, linked later and unlinked again without being
// destroyed, which lets the owner decide on duplicates before linking.
package ilist

import (
	"iter"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
)

// Node is a list slot. Detached nodes have both links set to alloc.Null.
type Node[V any] struct {
	value V
	prev  uint32
	next  uint32
}

// List is a sentinel-headed circular list over an allocator.
type List[V any] struct {
	allocator alloc.Allocator[Node[V]]
	head      uint32
	count     int
}

// NewAllocator creates an arena suitable for List nodes.
func NewAllocator[V any]() *alloc.Arena[Node[V]] {
	return alloc.NewArena[Node[V]]()
}

// New creates an empty list and allocates its sentinel from allocator.
func New[V any](allocator alloc.Allocator[Node[V]]) *List[V] {
	list := &List[V]{allocator: allocator}
	list.init()

	return list
}

func (list *List[V]) init() {
	list.head = list.allocator.Allocate(1)
	list.allocator.Construct(list.head, Node[V]{prev: list.head, next: list.head})
	list.count = 0
}

// Allocator returns the allocator the list draws its nodes from.
func (list *List[V]) Allocator() alloc.Allocator[Node[V]] {
	return list.allocator
}

// Len returns the number of linked elements.
func (list *List[V]) Len() int {
	return list.count
}

// Begin returns the first element, or End() when the list is empty.
func (list *List[V]) Begin() uint32 {
	return list.node(list.head).next
}

// End returns the sentinel position.
func (list *List[V]) End() uint32 {
	return list.head
}

// Next returns the position after idx. The successor of the last element is End().
func (list *List[V]) Next(idx uint32) uint32 {
	nd := list.node(idx)
	doAssert(nd.next != alloc.Null)

	return nd.next
}

// Prev returns the position before idx. The predecessor of End() is the last element.
func (list *List[V]) Prev(idx uint32) uint32 {
	nd := list.node(idx)
	doAssert(nd.prev != alloc.Null)

	return nd.prev
}

// Value returns the value stored at idx. The pointer is valid until the next allocation.
func (list *List[V]) Value(idx uint32) *V {
	doAssert(idx != list.head)

	return &list.node(idx).value
}

// Make constructs a detached node holding value and returns its position.
func (list *List[V]) Make(value V) uint32 {
	idx := list.allocator.Allocate(1)
	list.allocator.Construct(idx, Node[V]{value: value})

	return idx
}

// Link inserts the detached node idx before pos.
func (list *List[V]) Link(pos, idx uint32) {
	nd := list.node(idx)
	doAssert(idx != list.head && nd.prev == alloc.Null && nd.next == alloc.Null)

	before := list.node(pos).prev
	nd.prev = before
	nd.next = pos
	list.node(before).next = idx
	list.node(pos).prev = idx
	list.count++
}

// PushBack links the detached node idx at the tail.
func (list *List[V]) PushBack(idx uint32) {
	list.Link(list.head, idx)
}

// Unlink detaches idx from the list without destroying it.
func (list *List[V]) Unlink(idx uint32) {
	doAssert(idx != list.head)

	nd := list.node(idx)
	doAssert(nd.prev != alloc.Null && nd.next != alloc.Null)

	prev, next := nd.prev, nd.next
	nd.prev = alloc.Null
	nd.next = alloc.Null
	list.node(prev).next = next
	list.node(next).prev = prev
	list.count--
}

// Discard destroys and deallocates the detached node idx.
func (list *List[V]) Discard(idx uint32) {
	nd := list.node(idx)
	doAssert(idx != list.head && nd.prev == alloc.Null && nd.next == alloc.Null)

	list.allocator.Destroy(idx)
	list.allocator.Deallocate(idx, 1)
}

// Erase unlinks and discards idx, returning the position that followed it.
func (list *List[V]) Erase(idx uint32) uint32 {
	doAssert(idx != list.head)

	next := list.Next(idx)
	list.Unlink(idx)
	list.Discard(idx)

	return next
}

// Clear erases every element. The sentinel stays.
func (list *List[V]) Clear() {
	for idx := list.Begin(); idx != list.head; {
		idx = list.Erase(idx)
	}
}

// Clone copies the elements in order into a new list drawing from allocator.
func (list *List[V]) Clone(allocator alloc.Allocator[Node[V]]) *List[V] {
	clone := New(allocator)

	for idx := list.Begin(); idx != list.head; idx = list.Next(idx) {
		clone.PushBack(clone.Make(*list.Value(idx)))
	}

	return clone
}

// Move hands the elements to a new list and leaves the receiver empty with a fresh sentinel.
func (list *List[V]) Move() *List[V] {
	moved := &List[V]{allocator: list.allocator, head: list.head, count: list.count}
	list.init()

	return moved
}

// Release erases every element and frees the sentinel. The list must not be used afterwards.
func (list *List[V]) Release() {
	if list.head == alloc.Null {
		return
	}

	list.Clear()

	nd := list.node(list.head)
	nd.prev = alloc.Null
	nd.next = alloc.Null
	list.allocator.Destroy(list.head)
	list.allocator.Deallocate(list.head, 1)
	list.head = alloc.Null
}

// All iterates positions and values from the first element to the last.
func (list *List[V]) All() iter.Seq2[uint32, *V] {
	return func(yield func(uint32, *V) bool) {
		for idx := list.Begin(); idx != list.head; idx = list.Next(idx) {
			if !yield(idx, list.Value(idx)) {
				return
			}
		}
	}
}

func (list *List[V]) node(idx uint32) *Node[V] {
	doAssert(idx != alloc.Null)

	return list.allocator.Node(idx)
}

func doAssert(condition bool) {
	if !condition {
		panic("ilist internal assertion failed")
	}
}
