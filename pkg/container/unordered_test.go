package container_test

import (
	"math"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/container"
	"github.com/Sumatoshi-tech/assoc/pkg/hashtable"
)

type entry struct {
	key   string
	value int
}

func collectEntries(m *container.UnorderedMap[string, int]) []entry {
	var entries []entry

	for key, value := range m.All() {
		entries = append(entries, entry{key, value})
	}

	return entries
}

func TestUnorderedMapEraseKeepsOrder(t *testing.T) {
	t.Parallel()

	m := container.NewUnorderedMap[string, int]()
	*m.Index("a") = 1
	*m.Index("b") = 2

	_, err := m.Erase("a")
	require.NoError(t, err)

	*m.Index("c") = 3

	assert.Equal(t, []entry{{"b", 2}, {"c", 3}}, collectEntries(m))
	require.NoError(t, m.CheckInvariants())
}

func TestUnorderedMapSequentialKeys(t *testing.T) {
	t.Parallel()

	m := container.NewUnorderedMap[int, int]()
	assert.Equal(t, hashtable.DefaultBucketCount, m.BucketCount())

	for key := range 100 {
		m.Emplace(key, key)
	}

	assert.GreaterOrEqual(t, m.BucketCount(), int(math.Ceil(100/0.75)))
	assert.LessOrEqual(t, m.LoadFactor(), m.MaxLoadFactor())

	for key := range 100 {
		it := m.Find(key)
		require.False(t, it.IsEnd(), key)
		assert.Equal(t, key, it.Mapped())

		bucket := m.Bucket(key)
		assert.Less(t, bucket, m.BucketCount())
		assert.Positive(t, m.BucketSize(bucket))
	}

	want := make([]int, 0, 100)
	for key := range 100 {
		want = append(want, key)
	}

	assert.Equal(t, want, slices.Collect(m.Keys()), "rehashing keeps insertion order")
}

func TestUnorderedMapAtSetTryEmplace(t *testing.T) {
	t.Parallel()

	m := container.NewUnorderedMap[string, int](hashtable.WithBucketCount(2))
	assert.Equal(t, 2, m.BucketCount())

	_, err := m.At("x")
	require.ErrorIs(t, err, assoc.ErrOutOfRange)

	assert.True(t, m.Set("x", 1))
	assert.False(t, m.Set("x", 2))

	value, err := m.At("x")
	require.NoError(t, err)
	assert.Equal(t, 2, *value)

	it, inserted := m.TryEmplace("x", 5)
	assert.False(t, inserted)
	assert.Equal(t, 2, it.Mapped())

	constructions := m.Arena().Stats().Constructions
	_, inserted = m.Emplace("x", 9)
	assert.False(t, inserted)
	assert.Equal(t, constructions+1, m.Arena().Stats().Constructions)

	next, err := m.EraseIter(m.Find("x"))
	require.NoError(t, err)
	assert.True(t, next.IsEnd())
	assert.True(t, m.Empty())

	_, err = m.EraseIter(m.End())
	require.ErrorIs(t, err, assoc.ErrOutOfRange)
}

func TestUnorderedMapRehashReserve(t *testing.T) {
	t.Parallel()

	m := container.NewUnorderedMap[string, int]()
	for idx := range 5 {
		m.Emplace(strconv.Itoa(idx), idx)
	}

	m.Rehash(4)
	assert.Equal(t, 8, m.BucketCount())

	m.Reserve(30)
	assert.Equal(t, 40, m.BucketCount())
	assert.Equal(t, 1, m.Rehashes())

	for idx := range 25 {
		m.Emplace(strconv.Itoa(idx), idx)
	}

	assert.Equal(t, 40, m.BucketCount())
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, slices.Collect(m.Keys())[:5])

	m.Clear()
	assert.Equal(t, 40, m.BucketCount())
	assert.True(t, m.Begin().Equal(m.End()))
}

func TestUnorderedMapCloneMoveEqual(t *testing.T) {
	t.Parallel()

	m := container.NewUnorderedMap[string, int]()
	other := container.NewUnorderedMap[string, int]()

	for idx := range 20 {
		m.Emplace(strconv.Itoa(idx), idx)
		other.Emplace(strconv.Itoa(19-idx), 19-idx)
	}

	assert.True(t, container.UnorderedMapsEqual(m, other), "insertion order does not matter")

	clone := m.Clone()
	assert.Equal(t, m.BucketCount(), clone.BucketCount())
	assert.Equal(t, collectEntries(m), collectEntries(clone))

	*clone.Index("3") = 100
	assert.False(t, container.UnorderedMapsEqual(m, clone))

	moved := m.Move()
	assert.True(t, m.Empty())
	assert.Equal(t, hashtable.DefaultBucketCount, m.BucketCount())
	assert.Equal(t, 20, moved.Len())
	require.NoError(t, moved.CheckInvariants())
	require.NoError(t, m.CheckInvariants())

	m.Emplace("k", 1)
	assert.False(t, moved.Contains("k"))
}

func TestUnorderedMapCustomHasher(t *testing.T) {
	t.Parallel()

	m := container.NewUnorderedMapFunc[int, string](
		hashtable.HasherFunc[int](func(int) uint64 { return 0 }),
		func(a, b int) bool { return a == b },
	)

	for key := range 5 {
		m.Emplace(key, strconv.Itoa(key))
	}

	assert.Equal(t, 5, m.BucketSize(0))
	assert.Equal(t, "3", m.Find(3).Mapped())
}

func TestUnorderedMapHibernateBoot(t *testing.T) {
	t.Parallel()

	m := container.NewUnorderedMap[string, int]()
	for idx := range 300 {
		m.Emplace(strconv.Itoa(idx), idx)
	}

	want := collectEntries(m)

	require.NoError(t, m.Hibernate())
	require.NoError(t, m.Boot())
	assert.Equal(t, want, collectEntries(m))
	require.NoError(t, m.CheckInvariants())
}

func TestUnorderedSet(t *testing.T) {
	t.Parallel()

	s := container.NewUnorderedSet[string]()
	for _, key := range []string{"q", "w", "e", "q"} {
		s.Emplace(key)
	}

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"q", "w", "e"}, slices.Collect(s.All()))
	assert.True(t, s.Contains("w"))
	assert.True(t, s.Find("r").IsEnd())

	next, err := s.Erase("q")
	require.NoError(t, err)
	assert.Equal(t, "w", next.Key())

	_, err = s.Erase("q")
	require.ErrorIs(t, err, assoc.ErrOutOfRange)

	other := container.NewUnorderedSetFunc(hashtable.DefaultHasher[string](), func(a, b string) bool { return a == b })
	other.Emplace("e")
	other.Emplace("w")
	assert.True(t, s.Equal(other))

	clone := s.Clone()
	clone.Emplace("z")
	assert.False(t, s.Equal(clone))

	s.Reserve(100)
	assert.GreaterOrEqual(t, s.BucketCount(), 134)
	assert.LessOrEqual(t, s.LoadFactor(), 0.75)
	s.Rehash(1)

	moved := s.Move()
	assert.True(t, s.Empty())
	assert.Equal(t, 2, moved.Len())

	_, err = moved.EraseIter(moved.Begin())
	require.NoError(t, err)

	require.NoError(t, moved.Hibernate())
	require.NoError(t, moved.Boot())
	assert.Equal(t, []string{"e"}, slices.Collect(moved.All()))

	moved.Clear()
	require.NoError(t, moved.CheckInvariants())
}
