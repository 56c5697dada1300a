package alloc //nolint:testpackage // tests inspect storage, gaps and hibernation state.

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNode struct {
	key, link uint32
}

// testCodec packs testNode slots as two little-endian uint32 columns.
type testCodec struct{}

func (testCodec) EncodeNodes(nodes []testNode) ([]byte, error) {
	buf := make([]byte, 0, len(nodes)*2*uint32ByteSize)

	for _, nd := range nodes {
		buf = binary.LittleEndian.AppendUint32(buf, nd.key)
	}

	for _, nd := range nodes {
		buf = binary.LittleEndian.AppendUint32(buf, nd.link)
	}

	return buf, nil
}

func (testCodec) DecodeNodes(data []byte, nodes []testNode) error {
	if len(data) != len(nodes)*2*uint32ByteSize {
		return fmt.Errorf("%w: %d bytes", ErrShortBlock, len(data))
	}

	column := len(nodes) * uint32ByteSize

	for idx := range nodes {
		nodes[idx].key = binary.LittleEndian.Uint32(data[idx*uint32ByteSize:])
		nodes[idx].link = binary.LittleEndian.Uint32(data[column+idx*uint32ByteSize:])
	}

	return nil
}

func fillArena(tb testing.TB, count int) *Arena[testNode] {
	tb.Helper()

	arena := NewArena[testNode]()

	for idx := range count {
		slot := arena.Allocate(1)
		arena.Construct(slot, testNode{key: uint32(idx), link: uint32(idx * 2)})
	}

	return arena
}

func TestArenaReservesZero(t *testing.T) {
	t.Parallel()

	arena := NewArena[testNode]()
	assert.Equal(t, 0, arena.Size())

	first := arena.Allocate(1)
	assert.Equal(t, uint32(1), first)
	assert.Equal(t, 2, arena.Size())
	assert.Equal(t, 2, arena.Used())
}

func TestArenaAllocateRun(t *testing.T) {
	t.Parallel()

	arena := NewArena[testNode]()
	first := arena.Allocate(4)
	assert.Equal(t, uint32(1), first)
	assert.Equal(t, 5, arena.Size())

	next := arena.Allocate(2)
	assert.Equal(t, uint32(5), next)
	assert.Equal(t, int64(6), arena.Stats().Allocations)
}

func TestArenaReusesGaps(t *testing.T) {
	t.Parallel()

	arena := NewArena[testNode]()
	first := arena.Allocate(1)
	second := arena.Allocate(1)

	arena.Construct(first, testNode{key: 7})
	arena.Destroy(first)
	arena.Deallocate(first, 1)
	assert.Equal(t, 2, arena.Used())

	reused := arena.Allocate(1)
	assert.Equal(t, first, reused)
	assert.Equal(t, testNode{}, *arena.Node(reused), "destroyed slot must be cleared")
	assert.NotEqual(t, second, reused)
	assert.Equal(t, 3, arena.Size())
}

func TestArenaDiscipline(t *testing.T) {
	t.Parallel()

	arena := NewArena[testNode]()
	slot := arena.Allocate(1)

	assert.Panics(t, func() { arena.Destroy(slot) }, "destroy before construct")
	assert.Panics(t, func() { arena.Deallocate(Null, 1) }, "slot zero")

	arena.Construct(slot, testNode{key: 1})
	assert.Panics(t, func() { arena.Construct(slot, testNode{key: 2}) }, "double construct")
	assert.Panics(t, func() { arena.Deallocate(slot, 1) }, "deallocate while constructed")

	arena.Destroy(slot)
	arena.Deallocate(slot, 1)
	assert.Panics(t, func() { arena.Deallocate(slot, 1) }, "double free")
	assert.Panics(t, func() { arena.Construct(slot, testNode{}) }, "construct into a free slot")
	assert.Panics(t, func() { arena.Allocate(0) })
}

func TestArenaLiveAndStats(t *testing.T) {
	t.Parallel()

	arena := fillArena(t, 10)
	assert.Equal(t, 10, arena.Live())

	arena.Destroy(3)
	assert.Equal(t, 9, arena.Live())
	assert.Equal(t, Stats{Allocations: 10, Constructions: 10, Destructions: 1}, arena.Stats())
}

func TestArenaClone(t *testing.T) {
	t.Parallel()

	arena := fillArena(t, 3)
	arena.Destroy(2)
	arena.Deallocate(2, 1)

	clone := arena.Clone()
	assert.Equal(t, arena.storage, clone.storage)
	assert.Equal(t, arena.gaps, clone.gaps)

	clone.Construct(clone.Allocate(1), testNode{key: 99})
	assert.Equal(t, testNode{}, arena.storage[2])
	assert.Equal(t, uint32(99), clone.storage[2].key)
}

func TestArenaHibernateBoot(t *testing.T) {
	t.Parallel()

	arena := fillArena(t, 10000)

	for idx := uint32(1); idx <= 100; idx++ {
		arena.Destroy(idx)
		arena.Deallocate(idx, 1)
	}

	require.NoError(t, arena.Hibernate(testCodec{}))
	assert.True(t, arena.Hibernated())
	assert.PanicsWithValue(t, "cannot hibernate an already hibernated allocator", func() {
		_ = arena.Hibernate(testCodec{})
	})
	assert.Nil(t, arena.storage)
	assert.Nil(t, arena.gaps)
	assert.Equal(t, 10001, arena.hibernatedStorageLen)
	assert.Equal(t, 100, arena.hibernatedGapsLen)
	assert.PanicsWithValue(t, "hibernated allocators cannot be used", func() { arena.Used() })
	assert.PanicsWithValue(t, "hibernated allocators cannot be used", func() { arena.Allocate(1) })
	assert.PanicsWithValue(t, "hibernated allocators cannot be used", func() { arena.Deallocate(5, 1) })
	assert.PanicsWithValue(t, "cannot clone a hibernated allocator", func() { arena.Clone() })

	require.NoError(t, arena.Boot(testCodec{}))
	assert.False(t, arena.Hibernated())
	assert.Equal(t, 0, arena.hibernatedStorageLen)
	assert.Equal(t, 9900, arena.Live())

	for idx := uint32(101); idx <= 10000; idx++ {
		assert.Equal(t, testNode{key: idx - 1, link: (idx - 1) * 2}, arena.storage[idx])
	}

	for idx := uint32(1); idx <= 100; idx++ {
		assert.True(t, arena.gaps[idx])
	}
}

func TestArenaHibernateBootEmpty(t *testing.T) {
	t.Parallel()

	arena := NewArena[testNode]()
	require.NoError(t, arena.Hibernate(testCodec{}))
	require.NoError(t, arena.Boot(testCodec{}))
	assert.NotNil(t, arena.gaps)
	assert.Equal(t, 0, arena.Size())
	assert.Equal(t, 0, arena.Used())
}

func TestArenaHibernateThreshold(t *testing.T) {
	t.Parallel()

	arena := fillArena(t, 1)
	arena.HibernationThreshold = 3
	assert.Equal(t, 3, arena.Clone().HibernationThreshold)

	require.NoError(t, arena.Hibernate(testCodec{}))
	assert.False(t, arena.Hibernated())

	arena.Construct(arena.Allocate(1), testNode{key: 5})
	require.NoError(t, arena.Hibernate(testCodec{}))
	assert.True(t, arena.Hibernated())
	assert.Equal(t, 3, arena.hibernatedStorageLen)

	require.NoError(t, arena.Boot(testCodec{}))
	assert.Equal(t, 3, arena.Size())
	assert.Equal(t, 2, arena.Live())
}

func TestArenaSerializeDeserialize(t *testing.T) {
	t.Parallel()

	arena := fillArena(t, 5000)
	arena.Destroy(7)
	arena.Deallocate(7, 1)

	assert.PanicsWithValue(t, "serialization requires the hibernated state", func() {
		_ = arena.Serialize("...")
	})
	assert.PanicsWithValue(t, "deserialization requires the hibernated state", func() {
		_ = arena.Deserialize("...")
	})

	require.NoError(t, arena.Hibernate(testCodec{}))

	name := filepath.Join(t.TempDir(), "arena.bin")

	require.Error(t, arena.Serialize(filepath.Join(t.TempDir(), "missing", "arena.bin")))
	require.NoError(t, arena.Serialize(name))

	for _, data := range arena.hibernatedData {
		assert.Nil(t, data)
	}

	assert.PanicsWithValue(t, "cannot boot a serialized allocator", func() { _ = arena.Boot(testCodec{}) })
	require.Error(t, arena.Deserialize(filepath.Join(t.TempDir(), "nope")))
	require.NoError(t, arena.Deserialize(name))
	require.NoError(t, arena.Boot(testCodec{}))

	assert.Equal(t, 5001, arena.Size())
	assert.True(t, arena.gaps[7])
	assert.Equal(t, testNode{key: 4999, link: 9998}, arena.storage[5000])

	require.NoError(t, arena.Hibernate(testCodec{}))
	require.NoError(t, arena.Serialize(name))

	require.NoError(t, os.Truncate(name, 100))
	require.ErrorIs(t, arena.Deserialize(name), ErrIncompleteRead)
	require.NoError(t, os.Truncate(name, 2))
	require.Error(t, arena.Deserialize(name))
	require.NoError(t, os.Truncate(name, 0))
	require.Error(t, arena.Deserialize(name))
}

func TestCompressDecompressUInt32Slice(t *testing.T) {
	t.Parallel()

	data := make([]uint32, 1000)
	for idx := range data {
		data[idx] = 7
	}

	packed := CompressUInt32Slice(data)
	assert.NotEmpty(t, packed)
	assert.Less(t, len(packed), len(data)*uint32ByteSize)

	restored := make([]uint32, len(data))
	require.NoError(t, DecompressUInt32Slice(packed, restored))
	assert.Equal(t, data, restored)
}

func TestCompressBlockIncompressible(t *testing.T) {
	t.Parallel()

	raw := []byte{1, 2, 3}
	packed, err := CompressBlock(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, packed)

	restored, err := DecompressBlock(packed, len(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, restored)
}
