package hashtable_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/assoc/internal/hashutil"
	"github.com/Sumatoshi-tech/assoc/pkg/hashtable"
)

func TestDefaultHasherFloatsFoldNegativeZero(t *testing.T) {
	t.Parallel()

	hasher := hashtable.DefaultHasher[float64]()
	negativeZero := math.Copysign(0, -1)

	assert.Equal(t, hasher.Hash(0), hasher.Hash(negativeZero))
	assert.NotEqual(t, hasher.Hash(1), hasher.Hash(-1))

	narrow := hashtable.DefaultHasher[float32]()
	assert.Equal(t, narrow.Hash(0), narrow.Hash(float32(negativeZero)))
}

func TestDefaultHasherStringsUseAllBytes(t *testing.T) {
	t.Parallel()

	hasher := hashtable.DefaultHasher[string]()

	assert.Equal(t, hashutil.FNV64aString("abc"), hasher.Hash("abc"))
	assert.NotEqual(t, hasher.Hash("prefix-a"), hasher.Hash("prefix-b"))
	assert.NotEqual(t, hasher.Hash("a\x00"), hasher.Hash("a"))
}

func TestDefaultHasherIntegers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, hashutil.FNV64aUint64(42), hashtable.DefaultHasher[int]().Hash(42))
	assert.Equal(t, hashutil.FNV64aUint64(42), hashtable.DefaultHasher[uint8]().Hash(42))
	assert.NotEqual(t, hashtable.DefaultHasher[bool]().Hash(true), hashtable.DefaultHasher[bool]().Hash(false))
}

func TestDefaultHasherComposite(t *testing.T) {
	t.Parallel()

	type point struct {
		X, Y int
	}

	hasher := hashtable.DefaultHasher[point]()
	assert.Equal(t, hasher.Hash(point{1, 2}), hasher.Hash(point{1, 2}))
	assert.NotEqual(t, hasher.Hash(point{1, 2}), hasher.Hash(point{2, 1}))
}

func TestHasherFunc(t *testing.T) {
	t.Parallel()

	hasher := hashtable.HasherFunc[int](func(key int) uint64 { return uint64(key) * 3 })
	assert.Equal(t, uint64(9), hasher.Hash(3))
}
