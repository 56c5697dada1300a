package hashutil

import (
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFNV64aMatchesStdlib(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "a", "foobar", "the quick brown fox"} {
		reference := fnv.New64a()
		_, _ = reference.Write([]byte(input))

		assert.Equal(t, reference.Sum64(), FNV64aString(input), input)
	}
}

func TestFNV64aUint64LittleEndian(t *testing.T) {
	t.Parallel()

	reference := fnv.New64a()
	_, _ = reference.Write([]byte{8, 7, 6, 5, 4, 3, 2, 1})

	assert.Equal(t, reference.Sum64(), FNV64aUint64(0x0102030405060708))
	assert.NotEqual(t, FNV64aUint64(1), FNV64aUint64(2))
}

func TestMix64_Zero(t *testing.T) {
	t.Parallel()

	// Mix64(0) = 0 is expected: the finalizer is multiplicative,
	// so 0 is a fixed point. This documents the known behavior.
	assert.Equal(t, uint64(0), Mix64(0))
}

func TestMix64_Distinct(t *testing.T) {
	t.Parallel()

	seen := map[uint64]bool{}

	for input := range uint64(10000) {
		output := Mix64(input)
		assert.False(t, seen[output], "collision at %d", input)
		seen[output] = true
	}
}
