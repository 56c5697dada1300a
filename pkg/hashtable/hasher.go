package hashtable

import (
	"hash/maphash"
	"math"

	"github.com/Sumatoshi-tech/assoc/internal/hashutil"
)

// Hasher maps keys to 64-bit hashes. Equivalent keys must hash equally.
type Hasher[K any] interface {
	Hash(key K) uint64
}

// HasherFunc adapts a function to Hasher.
type HasherFunc[K any] func(key K) uint64

// Hash calls the function.
func (fn HasherFunc[K]) Hash(key K) uint64 {
	return fn(key)
}

type defaultHasher[K comparable] struct {
	seed maphash.Seed
}

// DefaultHasher returns the representation hasher: FNV-1a over the
// little-endian bytes of integers and booleans, over the bits of floats with
// negative zero folded into zero, and over the full bytes of strings. Other
// comparable types go through hash/maphash with a per-hasher seed.
func DefaultHasher[K comparable]() Hasher[K] {
	return defaultHasher[K]{seed: maphash.MakeSeed()}
}

//nolint:gocyclo,cyclop // one case per predeclared kind.
func (hasher defaultHasher[K]) Hash(key K) uint64 {
	switch typed := any(key).(type) {
	case string:
		return hashutil.FNV64aString(typed)
	case int:
		return hashutil.FNV64aUint64(uint64(typed))
	case int8:
		return hashutil.FNV64aUint64(uint64(typed))
	case int16:
		return hashutil.FNV64aUint64(uint64(typed))
	case int32:
		return hashutil.FNV64aUint64(uint64(typed))
	case int64:
		return hashutil.FNV64aUint64(uint64(typed))
	case uint:
		return hashutil.FNV64aUint64(uint64(typed))
	case uint8:
		return hashutil.FNV64aUint64(uint64(typed))
	case uint16:
		return hashutil.FNV64aUint64(uint64(typed))
	case uint32:
		return hashutil.FNV64aUint64(uint64(typed))
	case uint64:
		return hashutil.FNV64aUint64(typed)
	case uintptr:
		return hashutil.FNV64aUint64(uint64(typed))
	case bool:
		if typed {
			return hashutil.FNV64aUint64(1)
		}

		return hashutil.FNV64aUint64(0)
	case float32:
		return hashFloat(float64(typed))
	case float64:
		return hashFloat(typed)
	default:
		return maphash.Comparable(hasher.seed, key)
	}
}

func hashFloat(value float64) uint64 {
	if value == 0 {
		// Folds -0 into +0.
		value = 0
	}

	return hashutil.FNV64aUint64(math.Float64bits(value))
}
