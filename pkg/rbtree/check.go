package rbtree

import (
	"fmt"

	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
)

// CheckInvariants verifies the red-black properties, the strict key order
// and the sentinel caches. Failures wrap assoc.ErrCorrupt.
func (tree *Tree[V, K, M]) CheckInvariants() error {
	head := tree.node(tree.head)

	if !head.isNil || head.color != black {
		return fmt.Errorf("%w: sentinel must be black and nil", assoc.ErrCorrupt)
	}

	root := head.parent

	if tree.isNil(root) {
		if root != tree.head || head.left != tree.head || head.right != tree.head || tree.count != 0 {
			return fmt.Errorf("%w: empty tree sentinel is not self-linked", assoc.ErrCorrupt)
		}

		return nil
	}

	if tree.getColor(root) != black {
		return fmt.Errorf("%w: root %d is red", assoc.ErrCorrupt, root)
	}

	if tree.node(root).parent != tree.head {
		return fmt.Errorf("%w: root %d parent is not the sentinel", assoc.ErrCorrupt, root)
	}

	if head.left != tree.minimum(root) || head.right != tree.maximum(root) {
		return fmt.Errorf("%w: cached minimum or maximum is stale", assoc.ErrCorrupt)
	}

	count, _, err := tree.checkSubtree(root)
	if err != nil {
		return err
	}

	if count != tree.count {
		return fmt.Errorf("%w: %d reachable nodes, size is %d", assoc.ErrCorrupt, count, tree.count)
	}

	previous := tree.Begin()

	for it := previous.Next(); !it.IsEnd(); it = it.Next() {
		if !tree.less(previous.Key(), it.Key()) {
			return fmt.Errorf("%w: keys at nodes %d and %d are out of order", assoc.ErrCorrupt, previous.node, it.node)
		}

		previous = it
	}

	return nil
}

// checkSubtree returns the node count and the black height of the subtree.
func (tree *Tree[V, K, M]) checkSubtree(nodeIdx uint32) (count, blackHeight int, err error) {
	if tree.isNil(nodeIdx) {
		if nodeIdx != tree.head {
			return 0, 0, fmt.Errorf("%w: node %d is flagged nil", assoc.ErrCorrupt, nodeIdx)
		}

		return 0, 1, nil
	}

	nd := tree.node(nodeIdx)

	for _, child := range [2]uint32{nd.left, nd.right} {
		if tree.isNil(child) {
			continue
		}

		if tree.node(child).parent != nodeIdx {
			return 0, 0, fmt.Errorf("%w: node %d does not point back to parent %d", assoc.ErrCorrupt, child, nodeIdx)
		}

		if nd.color == red && tree.getColor(child) == red {
			return 0, 0, fmt.Errorf("%w: red node %d has red child %d", assoc.ErrCorrupt, nodeIdx, child)
		}
	}

	leftCount, leftHeight, err := tree.checkSubtree(nd.left)
	if err != nil {
		return 0, 0, err
	}

	rightCount, rightHeight, err := tree.checkSubtree(nd.right)
	if err != nil {
		return 0, 0, err
	}

	if leftHeight != rightHeight {
		return 0, 0, fmt.Errorf("%w: black height mismatch at node %d: %d vs %d",
			assoc.ErrCorrupt, nodeIdx, leftHeight, rightHeight)
	}

	if nd.color == black {
		leftHeight++
	}

	return leftCount + rightCount + 1, leftHeight, nil
}
