package hashtable

// Iterator walks the table in insertion order. It stays valid across inserts
// and rehashes and is invalidated only by erasing its own element.
type Iterator[V, K, M any] struct {
	table *Table[V, K, M]
	node  uint32
}

// Equal checks for the underlying nodes equality.
func (it Iterator[V, K, M]) Equal(other Iterator[V, K, M]) bool {
	return it.table == other.table && it.node == other.node
}

// IsEnd checks if the iterator points past the last element.
func (it Iterator[V, K, M]) IsEnd() bool {
	return it.table == nil || it.node == it.table.list.End()
}

// Value returns the stored value. The pointer is valid until the next insertion.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[V, K, M]) Value() *V {
	doAssert(!it.IsEnd())

	return it.table.list.Value(it.node)
}

// Key returns the key of the current element.
func (it Iterator[V, K, M]) Key() K {
	return it.table.traits.ExtractKey(it.Value())
}

// Mapped returns the mapped value of the current element.
func (it Iterator[V, K, M]) Mapped() M {
	return it.table.traits.ExtractMapped(it.Value())
}

// Next returns an iterator to the element inserted after the current one.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[V, K, M]) Next() Iterator[V, K, M] {
	doAssert(!it.IsEnd())

	return Iterator[V, K, M]{it.table, it.table.list.Next(it.node)}
}

// Prev returns an iterator to the element inserted before the current one.
// From End() it steps to the most recently inserted element.
//
// REQUIRES: it is not Begin().
func (it Iterator[V, K, M]) Prev() Iterator[V, K, M] {
	doAssert(it.table != nil && it.node != it.table.list.Begin())

	return Iterator[V, K, M]{it.table, it.table.list.Prev(it.node)}
}
