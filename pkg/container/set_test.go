package container_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/container"
)

func TestSetDuplicateEmplace(t *testing.T) {
	t.Parallel()

	s := container.NewSet[int]()

	_, inserted := s.Emplace(5)
	assert.True(t, inserted)

	it, inserted := s.Emplace(5)
	assert.False(t, inserted)
	assert.Equal(t, 5, it.Key())
	assert.Equal(t, 1, s.Len())
}

func TestSetEraseUntilEmpty(t *testing.T) {
	t.Parallel()

	s := container.NewSet[int]()
	for _, key := range []int{10, 5, 15, 3, 7, 12, 18} {
		s.Emplace(key)
	}

	for !s.Empty() {
		keys := slices.Collect(s.All())

		_, err := s.Erase(keys[len(keys)/2])
		require.NoError(t, err)
		require.NoError(t, s.CheckInvariants())
	}

	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Begin().Equal(s.End()))

	_, err := s.Erase(10)
	require.ErrorIs(t, err, assoc.ErrOutOfRange)
}

func TestSetOrderAndBounds(t *testing.T) {
	t.Parallel()

	s := container.NewSetFunc(func(a, b int) bool { return a > b })
	for key := range 6 {
		s.Emplace(key)
	}

	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, slices.Collect(s.All()))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, slices.Collect(s.Backward()))
	assert.Equal(t, 3, s.LowerBound(3).Key())
	assert.Equal(t, 2, s.UpperBound(3).Key())
	assert.True(t, s.Contains(4))
	assert.True(t, s.Find(9).IsEnd())

	next, err := s.EraseIter(s.Find(4))
	require.NoError(t, err)
	assert.Equal(t, 3, next.Key())
}

func TestSetCloneMoveEqual(t *testing.T) {
	t.Parallel()

	s := container.NewSet[string]()
	s.Emplace("x")
	s.Emplace("y")

	clone := s.Clone()
	assert.True(t, s.Equal(clone))

	clone.Emplace("z")
	assert.False(t, s.Equal(clone))

	moved := s.Move()
	assert.True(t, s.Empty())
	assert.Equal(t, []string{"x", "y"}, slices.Collect(moved.All()))

	s.Clear()
	moved.Clear()
	assert.True(t, s.Equal(moved))
}

func TestSetHibernateBoot(t *testing.T) {
	t.Parallel()

	s := container.NewSet[int]()
	for key := range 1000 {
		s.Emplace(key * 3)
	}

	require.NoError(t, s.Hibernate())
	require.NoError(t, s.Boot())
	require.NoError(t, s.CheckInvariants())
	assert.Equal(t, 1000, s.Len())
	assert.True(t, s.Contains(2997))
	assert.Equal(t, 1001, s.Arena().Live())
}
