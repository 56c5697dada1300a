// Package container provides the user-facing associative containers.
//
// Map and Set keep their elements ordered by key on top of the red-black
// tree engine. UnorderedMap and UnorderedSet sit on the hash engine and
// iterate in first-insertion order. Every container owns its node arena,
// which can be hibernated to trade access for memory.
//
// Containers are not safe for concurrent use.
package container

import (
	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/hashtable"
	"github.com/Sumatoshi-tech/assoc/pkg/rbtree"
)

// MapIterator points into a Map.
type MapIterator[K, M any] = rbtree.Iterator[assoc.Pair[K, M], K, M]

// SetIterator points into a Set.
type SetIterator[K any] = rbtree.Iterator[K, K, K]

// UnorderedMapIterator points into an UnorderedMap.
type UnorderedMapIterator[K, M any] = hashtable.Iterator[assoc.Pair[K, M], K, M]

// UnorderedSetIterator points into an UnorderedSet.
type UnorderedSetIterator[K any] = hashtable.Iterator[K, K, K]

func equalKeys[K comparable](a, b K) bool {
	return a == b
}
