// Package rbtree implements the ordered engine behind Map and Set: a
// red-black tree whose nodes live in an alloc.Allocator and are linked by
// slot indices.
//
// Every tree owns a sentinel node. The sentinel is Black, is the only node
// flagged as nil, and plays three roles: its parent link is the root, its
// left link is the minimum and its right link is the maximum. Every missing
// child points to the sentinel and the root's parent is the sentinel, so an
// empty tree is a sentinel linked to itself. End() is the sentinel.
package rbtree

import (
	"iter"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
)

const (
	red   = false
	black = true
)

// Node is a tree slot.
type Node[V any] struct {
	value               V
	parent, left, right uint32
	color               bool // Black or red.
	isNil               bool
}

// Tree is a red-black tree with an API similar to C++ STL's associative containers.
//
// Keys are extracted from stored values through Traits and ordered by less,
// a strict weak ordering. Two keys are equivalent when neither is less than the other.
type Tree[V, K, M any] struct {
	allocator alloc.Allocator[Node[V]]
	traits    assoc.Traits[V, K, M]
	less      func(a, b K) bool

	// Sentinel slot.
	head uint32

	// Number of nodes, not counting the sentinel.
	count int
}

// NewAllocator creates an arena suitable for Tree nodes.
func NewAllocator[V any]() *alloc.Arena[Node[V]] {
	return alloc.NewArena[Node[V]]()
}

// New creates an empty tree and allocates its sentinel from allocator.
func New[V, K, M any](allocator alloc.Allocator[Node[V]], traits assoc.Traits[V, K, M], less func(a, b K) bool) *Tree[V, K, M] {
	tree := &Tree[V, K, M]{allocator: allocator, traits: traits, less: less}
	tree.init()

	return tree
}

func (tree *Tree[V, K, M]) init() {
	tree.head = tree.allocator.Allocate(1)
	tree.allocator.Construct(tree.head, Node[V]{
		parent: tree.head,
		left:   tree.head,
		right:  tree.head,
		color:  black,
		isNil:  true,
	})
	tree.count = 0
}

// Allocator returns the bound nodes allocator.
func (tree *Tree[V, K, M]) Allocator() alloc.Allocator[Node[V]] {
	return tree.allocator
}

// Len returns the number of elements in the tree.
func (tree *Tree[V, K, M]) Len() int {
	return tree.count
}

// Empty reports whether the tree has no elements.
func (tree *Tree[V, K, M]) Empty() bool {
	return tree.count == 0
}

// Begin returns an iterator to the minimum element, or End() when the tree is empty.
func (tree *Tree[V, K, M]) Begin() Iterator[V, K, M] {
	return Iterator[V, K, M]{tree, tree.node(tree.head).left}
}

// End returns the past-the-end iterator.
func (tree *Tree[V, K, M]) End() Iterator[V, K, M] {
	return Iterator[V, K, M]{tree, tree.head}
}

// Last returns an iterator to the maximum element, or End() when the tree is empty.
func (tree *Tree[V, K, M]) Last() Iterator[V, K, M] {
	return Iterator[V, K, M]{tree, tree.node(tree.head).right}
}

// Root returns an iterator to the root element, or End() when the tree is empty.
func (tree *Tree[V, K, M]) Root() Iterator[V, K, M] {
	return Iterator[V, K, M]{tree, tree.root()}
}

// Find returns an iterator to the element with a key equivalent to key, or End().
func (tree *Tree[V, K, M]) Find(key K) Iterator[V, K, M] {
	_, _, found := tree.search(key)
	if found == alloc.Null {
		return tree.End()
	}

	return Iterator[V, K, M]{tree, found}
}

// Contains reports whether an element with a key equivalent to key exists.
func (tree *Tree[V, K, M]) Contains(key K) bool {
	_, _, found := tree.search(key)

	return found != alloc.Null
}

// LowerBound returns an iterator to the first element whose key is not less than key.
func (tree *Tree[V, K, M]) LowerBound(key K) Iterator[V, K, M] {
	result := tree.head

	for cursor := tree.root(); !tree.isNil(cursor); {
		if tree.less(tree.key(cursor), key) {
			cursor = tree.node(cursor).right
		} else {
			result = cursor
			cursor = tree.node(cursor).left
		}
	}

	return Iterator[V, K, M]{tree, result}
}

// UpperBound returns an iterator to the first element whose key is greater than key.
func (tree *Tree[V, K, M]) UpperBound(key K) Iterator[V, K, M] {
	result := tree.head

	for cursor := tree.root(); !tree.isNil(cursor); {
		if tree.less(key, tree.key(cursor)) {
			result = cursor
			cursor = tree.node(cursor).left
		} else {
			cursor = tree.node(cursor).right
		}
	}

	return Iterator[V, K, M]{tree, result}
}

// Emplace inserts value unless an element with an equivalent key exists.
// The node is constructed before the lookup; on a duplicate it is destroyed
// again and the iterator to the existing element is returned with false.
func (tree *Tree[V, K, M]) Emplace(value V) (Iterator[V, K, M], bool) {
	nodeIdx := tree.allocator.Allocate(1)
	tree.allocator.Construct(nodeIdx, Node[V]{
		value:  value,
		parent: tree.head,
		left:   tree.head,
		right:  tree.head,
		color:  red,
	})

	parent, isLeft, found := tree.search(tree.key(nodeIdx))
	if found != alloc.Null {
		tree.allocator.Destroy(nodeIdx)
		tree.allocator.Deallocate(nodeIdx, 1)

		return Iterator[V, K, M]{tree, found}, false
	}

	tree.attach(nodeIdx, parent, isLeft)

	return Iterator[V, K, M]{tree, nodeIdx}, true
}

// TryEmplace inserts build() under key unless an element with an equivalent key exists.
// build runs only when the key is absent and must produce a value whose key is equivalent to key.
func (tree *Tree[V, K, M]) TryEmplace(key K, build func() V) (Iterator[V, K, M], bool) {
	parent, isLeft, found := tree.search(key)
	if found != alloc.Null {
		return Iterator[V, K, M]{tree, found}, false
	}

	nodeIdx := tree.allocator.Allocate(1)
	tree.allocator.Construct(nodeIdx, Node[V]{
		value:  build(),
		parent: tree.head,
		left:   tree.head,
		right:  tree.head,
		color:  red,
	})
	tree.attach(nodeIdx, parent, isLeft)

	return Iterator[V, K, M]{tree, nodeIdx}, true
}

// Erase removes the element at it and returns an iterator to its successor.
// Iterators to other elements stay valid. Erasing End() fails with assoc.ErrOutOfRange.
func (tree *Tree[V, K, M]) Erase(it Iterator[V, K, M]) (Iterator[V, K, M], error) {
	if it.node == tree.head {
		return tree.End(), assoc.ErrOutOfRange
	}

	doAssert(it.tree == tree)

	return Iterator[V, K, M]{tree, tree.doDelete(it.node)}, nil
}

// EraseKey removes the element with a key equivalent to key and returns an iterator
// to its successor. A missing key fails with assoc.ErrOutOfRange.
func (tree *Tree[V, K, M]) EraseKey(key K) (Iterator[V, K, M], error) {
	return tree.Erase(tree.Find(key))
}

// Clear destroys every element. The sentinel stays.
func (tree *Tree[V, K, M]) Clear() {
	tree.eraseSubtree(tree.root())

	head := tree.node(tree.head)
	head.parent = tree.head
	head.left = tree.head
	head.right = tree.head
	tree.count = 0
}

// Clone performs a deep copy of the tree into allocator, preserving its shape and colors.
func (tree *Tree[V, K, M]) Clone(allocator alloc.Allocator[Node[V]]) *Tree[V, K, M] {
	clone := New(allocator, tree.traits, tree.less)

	if tree.count == 0 {
		return clone
	}

	root := clone.copySubtree(tree, tree.root(), clone.head)
	head := clone.node(clone.head)
	head.parent = root
	head.left = clone.minimum(root)
	head.right = clone.maximum(root)
	clone.count = tree.count

	return clone
}

// Move hands the elements to a new tree and leaves the receiver empty with a fresh sentinel.
func (tree *Tree[V, K, M]) Move() *Tree[V, K, M] {
	moved := &Tree[V, K, M]{
		allocator: tree.allocator,
		traits:    tree.traits,
		less:      tree.less,
		head:      tree.head,
		count:     tree.count,
	}
	tree.init()

	return moved
}

// Release destroys every element and frees the sentinel. The tree must not be used afterwards.
func (tree *Tree[V, K, M]) Release() {
	if tree.head == alloc.Null {
		return
	}

	tree.Clear()
	tree.allocator.Destroy(tree.head)
	tree.allocator.Deallocate(tree.head, 1)
	tree.head = alloc.Null
}

// All iterates the stored values in key order.
func (tree *Tree[V, K, M]) All() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for it := tree.Begin(); !it.IsEnd(); it = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Backward iterates the stored values in reverse key order.
func (tree *Tree[V, K, M]) Backward() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		if tree.count == 0 {
			return
		}

		for it := tree.Last(); ; it = it.Prev() {
			if !yield(it.Value()) || it.node == tree.node(tree.head).left {
				return
			}
		}
	}
}

// EqualFunc reports whether both trees hold the same number of elements and
// eq holds for every pair taken in order.
func (tree *Tree[V, K, M]) EqualFunc(other *Tree[V, K, M], eq func(a, b *V) bool) bool {
	if tree.count != other.count {
		return false
	}

	mine, theirs := tree.Begin(), other.Begin()

	for !mine.IsEnd() {
		if !eq(mine.Value(), theirs.Value()) {
			return false
		}

		mine, theirs = mine.Next(), theirs.Next()
	}

	return true
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (tree *Tree[V, K, M]) Height() int {
	return tree.height(tree.root())
}

func (tree *Tree[V, K, M]) height(nodeIdx uint32) int {
	if tree.isNil(nodeIdx) {
		return 0
	}

	nd := tree.node(nodeIdx)

	return 1 + max(tree.height(nd.left), tree.height(nd.right))
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}

// Internal node attribute accessors.

func (tree *Tree[V, K, M]) node(nodeIdx uint32) *Node[V] {
	return tree.allocator.Node(nodeIdx)
}

func (tree *Tree[V, K, M]) key(nodeIdx uint32) K {
	return tree.traits.ExtractKey(&tree.node(nodeIdx).value)
}

func (tree *Tree[V, K, M]) root() uint32 {
	return tree.node(tree.head).parent
}

func (tree *Tree[V, K, M]) isNil(nodeIdx uint32) bool {
	return tree.node(nodeIdx).isNil
}

func (tree *Tree[V, K, M]) getColor(nodeIdx uint32) bool {
	return tree.node(nodeIdx).color
}

func (tree *Tree[V, K, M]) setColor(nodeIdx uint32, color bool) {
	tree.node(nodeIdx).color = color
}

func (tree *Tree[V, K, M]) child(nodeIdx uint32, left bool) uint32 {
	if left {
		return tree.node(nodeIdx).left
	}

	return tree.node(nodeIdx).right
}

func (tree *Tree[V, K, M]) minimum(nodeIdx uint32) uint32 {
	for !tree.isNil(tree.node(nodeIdx).left) {
		nodeIdx = tree.node(nodeIdx).left
	}

	return nodeIdx
}

func (tree *Tree[V, K, M]) maximum(nodeIdx uint32) uint32 {
	for !tree.isNil(tree.node(nodeIdx).right) {
		nodeIdx = tree.node(nodeIdx).right
	}

	return nodeIdx
}

// Return the minimum node that's larger than nodeIdx, or the sentinel.
func (tree *Tree[V, K, M]) doNext(nodeIdx uint32) uint32 {
	if right := tree.node(nodeIdx).right; !tree.isNil(right) {
		return tree.minimum(right)
	}

	parent := tree.node(nodeIdx).parent

	for !tree.isNil(parent) && nodeIdx == tree.node(parent).right {
		nodeIdx = parent
		parent = tree.node(nodeIdx).parent
	}

	return parent
}

// Return the maximum node that's smaller than nodeIdx, or the sentinel.
func (tree *Tree[V, K, M]) doPrev(nodeIdx uint32) uint32 {
	if left := tree.node(nodeIdx).left; !tree.isNil(left) {
		return tree.maximum(left)
	}

	parent := tree.node(nodeIdx).parent

	for !tree.isNil(parent) && nodeIdx == tree.node(parent).left {
		nodeIdx = parent
		parent = tree.node(nodeIdx).parent
	}

	return parent
}

// search descends from the root comparing key three ways. It returns the
// node holding an equivalent key, or alloc.Null together with the parent and
// side where a new node with this key has to be attached.
func (tree *Tree[V, K, M]) search(key K) (parent uint32, isLeft bool, found uint32) {
	parent = tree.head
	isLeft = true

	for cursor := tree.root(); !tree.isNil(cursor); {
		current := tree.key(cursor)

		switch {
		case tree.less(key, current):
			parent, isLeft = cursor, true
			cursor = tree.node(cursor).left
		case tree.less(current, key):
			parent, isLeft = cursor, false
			cursor = tree.node(cursor).right
		default:
			return parent, isLeft, cursor
		}
	}

	return parent, isLeft, alloc.Null
}

// attach links the red leaf nodeIdx under parent and rebalances.
func (tree *Tree[V, K, M]) attach(nodeIdx, parent uint32, isLeft bool) {
	nd := tree.node(nodeIdx)
	nd.parent = parent
	nd.left = tree.head
	nd.right = tree.head
	nd.color = red

	head := tree.node(tree.head)

	switch {
	case parent == tree.head:
		head.parent = nodeIdx
		head.left = nodeIdx
		head.right = nodeIdx
	case isLeft:
		tree.node(parent).left = nodeIdx

		if parent == head.left {
			head.left = nodeIdx
		}
	default:
		tree.node(parent).right = nodeIdx

		if parent == head.right {
			head.right = nodeIdx
		}
	}

	tree.count++
	tree.insertFixup(nodeIdx)
}

func (tree *Tree[V, K, M]) insertFixup(nodeIdx uint32) {
	// The sentinel is black, so the loop stops below the root.
	for tree.getColor(tree.node(nodeIdx).parent) == red {
		parent := tree.node(nodeIdx).parent
		grandparent := tree.node(parent).parent
		parentIsLeft := parent == tree.node(grandparent).left
		uncle := tree.child(grandparent, !parentIsLeft)

		// Case 1: parent and uncle are both red.
		// Then paint both black and make grandparent red.
		if tree.getColor(uncle) == red {
			tree.setColor(parent, black)
			tree.setColor(uncle, black)
			tree.setColor(grandparent, red)
			nodeIdx = grandparent

			continue
		}

		// Case 2: the node is an inner grandchild, turn it into an outer one.
		if nodeIdx == tree.child(parent, !parentIsLeft) {
			nodeIdx = parent
			tree.rotateDirection(nodeIdx, parentIsLeft)
			parent = tree.node(nodeIdx).parent
		}

		// Case 3: outer grandchild, rotate the grandparent.
		tree.setColor(parent, black)
		tree.setColor(grandparent, red)
		tree.rotateDirection(grandparent, !parentIsLeft)
	}

	tree.setColor(tree.root(), black)
}

// doDelete unlinks nodeIdx by relinking nodes, destroys it and returns its successor.
//
//nolint:gocognit // RB-tree deletion with rebalancing is inherently complex.
func (tree *Tree[V, K, M]) doDelete(nodeIdx uint32) uint32 {
	next := tree.doNext(nodeIdx)
	target := tree.node(nodeIdx)

	// replacement takes the place of the node that leaves its position.
	var replacement, replacementParent uint32

	removed := nodeIdx

	switch {
	case tree.isNil(target.left):
		replacement = target.right
	case tree.isNil(target.right):
		replacement = target.left
	default:
		removed = tree.minimum(target.right)
		replacement = tree.node(removed).right
	}

	removedColor := tree.getColor(removed)

	if removed == nodeIdx {
		replacementParent = target.parent

		if !tree.isNil(replacement) {
			tree.node(replacement).parent = replacementParent
		}

		tree.replaceChild(replacementParent, nodeIdx, replacement)

		head := tree.node(tree.head)

		if head.left == nodeIdx {
			if tree.isNil(replacement) {
				head.left = replacementParent
			} else {
				head.left = tree.minimum(replacement)
			}
		}

		if head.right == nodeIdx {
			if tree.isNil(replacement) {
				head.right = replacementParent
			} else {
				head.right = tree.maximum(replacement)
			}
		}
	} else {
		// The successor has no left child and takes over nodeIdx's position and color.
		successor := tree.node(removed)
		successor.left = target.left
		tree.node(target.left).parent = removed

		if removed == target.right {
			replacementParent = removed
		} else {
			replacementParent = successor.parent

			if !tree.isNil(replacement) {
				tree.node(replacement).parent = replacementParent
			}

			tree.node(replacementParent).left = replacement
			successor.right = target.right
			tree.node(target.right).parent = removed
		}

		tree.replaceChild(target.parent, nodeIdx, removed)
		successor.parent = target.parent
		successor.color = target.color
	}

	if removedColor == black {
		tree.deleteFixup(replacement, replacementParent)
	}

	tree.allocator.Destroy(nodeIdx)
	tree.allocator.Deallocate(nodeIdx, 1)
	tree.count--

	return next
}

// deleteFixup restores the black height after a black node left the path through nodeIdx.
// nodeIdx may be the sentinel, so its parent is tracked explicitly.
func (tree *Tree[V, K, M]) deleteFixup(nodeIdx, parent uint32) {
	for nodeIdx != tree.root() && tree.getColor(nodeIdx) == black {
		isLeft := nodeIdx == tree.node(parent).left
		sibling := tree.child(parent, !isLeft)

		// Case 1: red sibling, rotate it above the parent.
		if tree.getColor(sibling) == red {
			tree.setColor(sibling, black)
			tree.setColor(parent, red)
			tree.rotateDirection(parent, isLeft)
			sibling = tree.child(parent, !isLeft)
		}

		if tree.isNil(sibling) {
			nodeIdx = parent
			parent = tree.node(nodeIdx).parent

			continue
		}

		// Case 2: black sibling with black children, push the deficit up.
		if tree.getColor(tree.child(sibling, isLeft)) == black &&
			tree.getColor(tree.child(sibling, !isLeft)) == black { //nolint:whitespace // conflicts with wsl_v5 leading-whitespace.
			tree.setColor(sibling, red)
			nodeIdx = parent
			parent = tree.node(nodeIdx).parent

			continue
		}

		// Case 3: far nephew is black, rotate the near one into its place.
		if tree.getColor(tree.child(sibling, !isLeft)) == black {
			tree.setColor(tree.child(sibling, isLeft), black)
			tree.setColor(sibling, red)
			tree.rotateDirection(sibling, !isLeft)
			sibling = tree.child(parent, !isLeft)
		}

		// Case 4: far nephew is red.
		tree.setColor(sibling, tree.getColor(parent))
		tree.setColor(parent, black)
		tree.setColor(tree.child(sibling, !isLeft), black)
		tree.rotateDirection(parent, isLeft)

		break
	}

	if !tree.isNil(nodeIdx) {
		tree.setColor(nodeIdx, black)
	}
}

// replaceChild makes newChild take oldChild's place under parent.
// The sentinel parent stands for the root slot.
func (tree *Tree[V, K, M]) replaceChild(parent, oldChild, newChild uint32) {
	switch {
	case parent == tree.head:
		tree.node(tree.head).parent = newChild
	case tree.node(parent).left == oldChild:
		tree.node(parent).left = newChild
	default:
		tree.node(parent).right = newChild
	}
}

// rotateDirection performs a tree rotation in the specified direction.
// IsLeft=true performs left rotation, isLeft=false performs right rotation.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (tree *Tree[V, K, M]) rotateDirection(pivot uint32, isLeft bool) {
	// Get the child in the opposite direction of rotation.
	child := tree.child(pivot, !isLeft)

	// Move the inner subtree.
	innerSubtree := tree.child(child, isLeft)
	if isLeft {
		tree.node(pivot).right = innerSubtree
	} else {
		tree.node(pivot).left = innerSubtree
	}

	if !tree.isNil(innerSubtree) {
		tree.node(innerSubtree).parent = pivot
	}

	// Update parent links.
	parent := tree.node(pivot).parent
	tree.node(child).parent = parent
	tree.replaceChild(parent, pivot, child)

	// Complete the rotation.
	if isLeft {
		tree.node(child).left = pivot
	} else {
		tree.node(child).right = pivot
	}

	tree.node(pivot).parent = child
}

// eraseSubtree destroys nodeIdx and its descendants in post-order.
func (tree *Tree[V, K, M]) eraseSubtree(nodeIdx uint32) {
	for !tree.isNil(nodeIdx) {
		tree.eraseSubtree(tree.node(nodeIdx).right)

		left := tree.node(nodeIdx).left
		tree.allocator.Destroy(nodeIdx)
		tree.allocator.Deallocate(nodeIdx, 1)
		nodeIdx = left
	}
}

// copySubtree rebuilds source's subtree at sourceIdx under parent in pre-order.
func (tree *Tree[V, K, M]) copySubtree(source *Tree[V, K, M], sourceIdx, parent uint32) uint32 {
	// Both trees may share an allocator, so copy the node before allocating.
	origin := *source.node(sourceIdx)
	nodeIdx := tree.allocator.Allocate(1)
	tree.allocator.Construct(nodeIdx, Node[V]{
		value:  origin.value,
		parent: parent,
		left:   tree.head,
		right:  tree.head,
		color:  origin.color,
	})

	if left := origin.left; !source.isNil(left) {
		copied := tree.copySubtree(source, left, nodeIdx)
		tree.node(nodeIdx).left = copied
	}

	if right := origin.right; !source.isNil(right) {
		copied := tree.copySubtree(source, right, nodeIdx)
		tree.node(nodeIdx).right = copied
	}

	return nodeIdx
}
