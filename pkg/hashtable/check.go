package hashtable

import (
	"fmt"

	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
)

// CheckInvariants verifies the load factor bound, that every element is filed
// exactly once in the bucket its hash selects, and that the buckets hold
// nothing else. Failures wrap assoc.ErrCorrupt.
func (table *Table[V, K, M]) CheckInvariants() error {
	if table.LoadFactor() > MaxLoadFactor {
		return fmt.Errorf("%w: load factor %.3f exceeds %.2f", assoc.ErrCorrupt, table.LoadFactor(), MaxLoadFactor)
	}

	filed := make(map[uint32]int, table.Len())
	refs := 0

	for bucket, chain := range table.buckets {
		for _, ref := range chain {
			refs++

			if ref == table.list.End() {
				return fmt.Errorf("%w: bucket %d references the sentinel", assoc.ErrCorrupt, bucket)
			}

			if _, dup := filed[ref]; dup {
				return fmt.Errorf("%w: node %d is filed twice", assoc.ErrCorrupt, ref)
			}

			filed[ref] = bucket
		}
	}

	linked := 0

	for idx, value := range table.list.All() {
		linked++

		bucket, ok := filed[idx]
		if !ok {
			return fmt.Errorf("%w: node %d is not filed in any bucket", assoc.ErrCorrupt, idx)
		}

		if want := table.Bucket(table.traits.ExtractKey(value)); bucket != want {
			return fmt.Errorf("%w: node %d is filed in bucket %d instead of %d", assoc.ErrCorrupt, idx, bucket, want)
		}
	}

	if linked != table.Len() || refs != linked {
		return fmt.Errorf("%w: %d linked nodes, %d references, size %d", assoc.ErrCorrupt, linked, refs, table.Len())
	}

	return nil
}
