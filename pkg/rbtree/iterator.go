package rbtree

// Iterator allows scanning tree elements in key order.
//
// Iterator invalidation rule is the same as C++ std::map<>'s. That
// is, if you delete the element that an iterator points to, the
// iterator becomes invalid. For other operation types, the iterator
// remains valid.
type Iterator[V, K, M any] struct {
	tree *Tree[V, K, M]
	node uint32
}

// Equal checks for the underlying nodes equality.
func (it Iterator[V, K, M]) Equal(other Iterator[V, K, M]) bool {
	return it.tree == other.tree && it.node == other.node
}

// IsEnd checks if the iterator points beyond the max element in the tree.
func (it Iterator[V, K, M]) IsEnd() bool {
	return it.tree == nil || it.node == it.tree.head
}

// Value returns the stored value. The pointer is valid until the next insertion.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[V, K, M]) Value() *V {
	doAssert(!it.IsEnd())

	return &it.tree.node(it.node).value
}

// Key returns the key of the current element.
func (it Iterator[V, K, M]) Key() K {
	return it.tree.traits.ExtractKey(it.Value())
}

// Mapped returns the mapped value of the current element.
func (it Iterator[V, K, M]) Mapped() M {
	return it.tree.traits.ExtractMapped(it.Value())
}

// Next creates a new iterator that points to the successor of the current element.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[V, K, M]) Next() Iterator[V, K, M] {
	doAssert(!it.IsEnd())

	return Iterator[V, K, M]{it.tree, it.tree.doNext(it.node)}
}

// Prev creates a new iterator that points to the predecessor of the current
// element. From End() it steps to the maximum.
//
// REQUIRES: it is not Begin().
func (it Iterator[V, K, M]) Prev() Iterator[V, K, M] {
	doAssert(it.tree != nil)

	if it.node == it.tree.head {
		doAssert(it.tree.count > 0)

		return it.tree.Last()
	}

	prev := it.tree.doPrev(it.node)
	doAssert(prev != it.tree.head)

	return Iterator[V, K, M]{it.tree, prev}
}
