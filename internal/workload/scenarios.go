package workload

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/container"
	"github.com/Sumatoshi-tech/assoc/pkg/hashtable"
	"github.com/Sumatoshi-tech/assoc/pkg/rbtree"
)

type scenario struct {
	name string
	run  func() (int, error)
}

func scenarios() []scenario {
	return []scenario{
		{"sorted-iteration", sortedIteration},
		{"erase-keeps-insertion-order", eraseKeepsInsertionOrder},
		{"duplicate-emplace", duplicateEmplace},
		{"sequential-growth", sequentialGrowth},
		{"erase-root-until-empty", eraseRootUntilEmpty},
	}
}

func sortedIteration() (int, error) {
	keys := []int{10, 5, 15, 3, 7, 12, 18}
	m := container.NewMap[int, int]()

	for _, key := range keys {
		m.Emplace(key, key)
	}

	want := []int{3, 5, 7, 10, 12, 15, 18}
	if got := slices.Collect(m.Keys()); !slices.Equal(want, got) {
		return len(keys), fmt.Errorf("%w: order\n%s", ErrMismatch, orderDiff(want, got))
	}

	return len(keys), m.CheckInvariants()
}

func eraseKeepsInsertionOrder() (int, error) {
	m := container.NewUnorderedMap[string, int]()
	*m.Index("a") = 1
	*m.Index("b") = 2

	_, err := m.Erase("a")
	if err != nil {
		return 3, err
	}

	*m.Index("c") = 3

	got := make([]assoc.Pair[string, int], 0, m.Len())
	for key, value := range m.All() {
		got = append(got, assoc.MakePair(key, value))
	}

	want := []assoc.Pair[string, int]{{Key: "b", Value: 2}, {Key: "c", Value: 3}}
	if !slices.Equal(want, got) {
		return 4, fmt.Errorf("%w: got %v, want %v", ErrMismatch, got, want)
	}

	return 4, nil
}

func duplicateEmplace() (int, error) {
	s := container.NewSet[int]()
	s.Emplace(5)
	s.Emplace(5)

	if s.Len() != 1 {
		return 2, fmt.Errorf("%w: len %d, want 1", ErrMismatch, s.Len())
	}

	return 2, nil
}

func sequentialGrowth() (int, error) {
	const count = 100

	m := container.NewUnorderedMap[int, int]()
	if m.BucketCount() != hashtable.DefaultBucketCount {
		return 0, fmt.Errorf("%w: initial buckets %d", ErrMismatch, m.BucketCount())
	}

	for key := range count {
		m.Emplace(key, key)
	}

	if minimum := int(math.Ceil(count / hashtable.MaxLoadFactor)); m.BucketCount() < minimum {
		return count, fmt.Errorf("%w: %d buckets, want at least %d", ErrMismatch, m.BucketCount(), minimum)
	}

	for key := range count {
		it := m.Find(key)
		if it.IsEnd() || it.Mapped() != key {
			return count, fmt.Errorf("%w: key %d lost", ErrMismatch, key)
		}

		bucket := m.Bucket(key)
		if bucket < 0 || bucket >= m.BucketCount() || m.BucketSize(bucket) == 0 {
			return count, fmt.Errorf("%w: key %d reports bucket %d", ErrMismatch, key, bucket)
		}
	}

	return count, m.CheckInvariants()
}

func eraseRootUntilEmpty() (int, error) {
	keys := []int{10, 5, 15, 3, 7, 12, 18}
	tree := rbtree.New[int, int, int](rbtree.NewAllocator[int](), assoc.SetTraits[int]{}, cmp.Less[int])

	for _, key := range keys {
		tree.Emplace(key)
	}

	ops := len(keys)

	for !tree.Empty() {
		_, err := tree.Erase(tree.Root())
		if err != nil {
			return ops, err
		}

		ops++

		err = tree.CheckInvariants()
		if err != nil {
			return ops, fmt.Errorf("after %d erasures: %w", ops-len(keys), err)
		}
	}

	if !tree.Begin().Equal(tree.End()) {
		return ops, fmt.Errorf("%w: begin is not end on an empty tree", ErrMismatch)
	}

	return ops, nil
}
