package container_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/container"
)

func TestMapSortedIteration(t *testing.T) {
	t.Parallel()

	m := container.NewMap[int, int]()
	for _, key := range []int{10, 5, 15, 3, 7, 12, 18} {
		_, inserted := m.Emplace(key, key*10)
		assert.True(t, inserted)
	}

	assert.Equal(t, []int{3, 5, 7, 10, 12, 15, 18}, slices.Collect(m.Keys()))
	assert.Equal(t, []int{30, 50, 70, 100, 120, 150, 180}, slices.Collect(m.Values()))

	var backward []int
	for key := range m.Backward() {
		backward = append(backward, key)
	}

	assert.Equal(t, []int{18, 15, 12, 10, 7, 5, 3}, backward)
	require.NoError(t, m.CheckInvariants())
}

func TestMapIndexAtSet(t *testing.T) {
	t.Parallel()

	m := container.NewMap[string, int]()
	*m.Index("a") = 1
	*m.Index("a") += 2
	assert.Equal(t, 0, *m.Index("z"))

	value, err := m.At("a")
	require.NoError(t, err)
	assert.Equal(t, 3, *value)

	_, err = m.At("missing")
	require.ErrorIs(t, err, assoc.ErrOutOfRange)

	assert.False(t, m.Set("a", 7))
	assert.True(t, m.Set("b", 8))
	assert.Equal(t, 7, m.Find("a").Mapped())
	assert.Equal(t, 3, m.Len())
}

func TestMapEmplaceKeepsExisting(t *testing.T) {
	t.Parallel()

	m := container.NewMap[int, string]()
	m.Emplace(1, "first")

	constructions := m.Arena().Stats().Constructions

	it, inserted := m.Emplace(1, "second")
	assert.False(t, inserted)
	assert.Equal(t, "first", it.Mapped())
	assert.Equal(t, constructions+1, m.Arena().Stats().Constructions, "the candidate is built and discarded")

	built := false
	_, inserted = m.TryEmplaceFunc(1, func() string {
		built = true

		return "third"
	})
	assert.False(t, inserted)
	assert.False(t, built)
	assert.Equal(t, constructions+1, m.Arena().Stats().Constructions)
}

func TestMapEraseAndBounds(t *testing.T) {
	t.Parallel()

	m := container.NewMap[int, int]()
	for key := range 10 {
		m.Emplace(key*2, key)
	}

	assert.Equal(t, 4, m.LowerBound(3).Key())
	assert.Equal(t, 4, m.LowerBound(4).Key())
	assert.Equal(t, 6, m.UpperBound(4).Key())
	assert.True(t, m.UpperBound(18).IsEnd())

	next, err := m.Erase(4)
	require.NoError(t, err)
	assert.Equal(t, 6, next.Key())

	_, err = m.Erase(4)
	require.ErrorIs(t, err, assoc.ErrOutOfRange)

	_, err = m.EraseIter(m.End())
	require.ErrorIs(t, err, assoc.ErrOutOfRange)

	next, err = m.EraseIter(m.Begin())
	require.NoError(t, err)
	assert.Equal(t, 2, next.Key())
	assert.Equal(t, 8, m.Len())
	require.NoError(t, m.CheckInvariants())

	m.Clear()
	assert.True(t, m.Empty())
	assert.True(t, m.Begin().Equal(m.End()))
}

func TestMapCloneMoveEqual(t *testing.T) {
	t.Parallel()

	m := container.NewMap[int, int]()
	for key := range 50 {
		m.Emplace(key, key*key)
	}

	clone := m.Clone()
	assert.True(t, container.MapsEqual(m, clone))

	*clone.Index(7) = -1
	assert.False(t, container.MapsEqual(m, clone))
	assert.Equal(t, 49, *m.Index(7))

	moved := m.Move()
	assert.True(t, m.Empty())
	assert.Equal(t, 50, moved.Len())
	require.NoError(t, moved.CheckInvariants())

	m.Emplace(1, 1)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 50, moved.Len())
}

func TestMapCustomOrder(t *testing.T) {
	t.Parallel()

	m := container.NewMapFunc[string, int](func(a, b string) bool {
		return strings.ToLower(a) < strings.ToLower(b)
	})
	m.Emplace("b", 1)
	_, inserted := m.Emplace("B", 2)
	assert.False(t, inserted)
	m.Emplace("A", 3)

	assert.Equal(t, []string{"A", "b"}, slices.Collect(m.Keys()))
	assert.True(t, m.Contains("a"))

	other := container.NewMapFunc[string, int](func(a, b string) bool {
		return strings.ToLower(a) < strings.ToLower(b)
	})
	other.Emplace("a", 3)
	other.Emplace("B", 1)
	assert.True(t, container.MapsEqual(m, other))
}

func TestMapHibernateBoot(t *testing.T) {
	t.Parallel()

	m := container.NewMap[int, string]()
	for key := range 200 {
		m.Emplace(key, strings.Repeat("x", key%7))
	}

	want := m.Clone()

	require.NoError(t, m.Hibernate())
	assert.True(t, m.Arena().Hibernated())
	require.NoError(t, m.Boot())

	assert.True(t, container.MapsEqual(m, want))
	require.NoError(t, m.CheckInvariants())
}
