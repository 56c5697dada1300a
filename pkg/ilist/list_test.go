package ilist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/assoc/pkg/ilist"
)

func collect[V any](list *ilist.List[V]) []V {
	var values []V

	for _, value := range list.All() {
		values = append(values, *value)
	}

	return values
}

func TestListEmpty(t *testing.T) {
	t.Parallel()

	arena := ilist.NewAllocator[int]()
	list := ilist.New[int](arena)

	assert.Equal(t, 0, list.Len())
	assert.Equal(t, list.End(), list.Begin())
	assert.Equal(t, list.End(), list.Next(list.End()))
	assert.Equal(t, list.End(), list.Prev(list.End()))
	assert.Equal(t, 1, arena.Live(), "sentinel")
	assert.Panics(t, func() { list.Erase(list.End()) })
	assert.Panics(t, func() { list.Value(list.End()) })
}

func TestListPushBackOrder(t *testing.T) {
	t.Parallel()

	list := ilist.New[string](ilist.NewAllocator[string]())

	for _, word := range []string{"a", "b", "c"} {
		list.PushBack(list.Make(word))
	}

	assert.Equal(t, 3, list.Len())
	assert.Equal(t, []string{"a", "b", "c"}, collect(list))

	last := list.Prev(list.End())
	assert.Equal(t, "c", *list.Value(last))
	assert.Equal(t, list.End(), list.Next(last))
}

func TestListLinkBefore(t *testing.T) {
	t.Parallel()

	list := ilist.New[int](ilist.NewAllocator[int]())
	first := list.Make(1)
	list.PushBack(first)
	list.PushBack(list.Make(3))
	list.Link(list.Next(first), list.Make(2))
	list.Link(list.Begin(), list.Make(0))

	assert.Equal(t, []int{0, 1, 2, 3}, collect(list))
	assert.Panics(t, func() { list.Link(list.End(), first) }, "linking an already linked node")
}

func TestListDetachedLifecycle(t *testing.T) {
	t.Parallel()

	arena := ilist.NewAllocator[int]()
	list := ilist.New[int](arena)

	candidate := list.Make(5)
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, 2, arena.Live())

	list.Discard(candidate)
	assert.Equal(t, 1, arena.Live())
	assert.Equal(t, int64(1), arena.Stats().Deallocations)

	linked := list.Make(6)
	list.PushBack(linked)
	assert.Panics(t, func() { list.Discard(linked) }, "discarding a linked node")

	list.Unlink(linked)
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, 6, *list.Value(linked))
	list.Discard(linked)
	assert.Equal(t, 1, arena.Live())
}

func TestListErase(t *testing.T) {
	t.Parallel()

	arena := ilist.NewAllocator[int]()
	list := ilist.New[int](arena)

	for value := range 5 {
		list.PushBack(list.Make(value))
	}

	second := list.Next(list.Begin())
	next := list.Erase(second)
	assert.Equal(t, 2, *list.Value(next))
	assert.Equal(t, []int{0, 2, 3, 4}, collect(list))

	last := list.Prev(list.End())
	assert.Equal(t, list.End(), list.Erase(last))
	assert.Equal(t, []int{0, 2, 3}, collect(list))
	assert.Equal(t, 4, arena.Live())
}

func TestListClearAndRelease(t *testing.T) {
	t.Parallel()

	arena := ilist.NewAllocator[int]()
	list := ilist.New[int](arena)

	for value := range 10 {
		list.PushBack(list.Make(value))
	}

	list.Clear()
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, 1, arena.Live())
	assert.Equal(t, list.End(), list.Begin())

	list.PushBack(list.Make(1))
	list.Release()
	assert.Equal(t, 0, arena.Live())
	assert.Equal(t, 1, arena.Used(), "only the reserved slot stays allocated")
	assert.NotPanics(t, list.Release)
}

func TestListCloneAndMove(t *testing.T) {
	t.Parallel()

	arena := ilist.NewAllocator[int]()
	list := ilist.New[int](arena)

	for value := range 4 {
		list.PushBack(list.Make(value * 10))
	}

	other := ilist.NewAllocator[int]()
	clone := list.Clone(other)
	assert.Equal(t, collect(list), collect(clone))

	*clone.Value(clone.Begin()) = 99
	assert.Equal(t, 0, *list.Value(list.Begin()))
	assert.Equal(t, 5, other.Live())

	moved := list.Move()
	assert.Equal(t, []int{0, 10, 20, 30}, collect(moved))
	assert.Equal(t, 0, list.Len())
	assert.Empty(t, collect(list))

	list.PushBack(list.Make(7))
	assert.Equal(t, []int{7}, collect(list))
	assert.Equal(t, 4, moved.Len())
}

func TestListAllStops(t *testing.T) {
	t.Parallel()

	list := ilist.New[int](ilist.NewAllocator[int]())

	for value := range 5 {
		list.PushBack(list.Make(value))
	}

	var seen []int

	for _, value := range list.All() {
		if *value == 2 {
			break
		}

		seen = append(seen, *value)
	}

	assert.Equal(t, []int{0, 1}, seen)
}

func TestListHibernate(t *testing.T) {
	t.Parallel()

	arena := ilist.NewAllocator[string]()
	list := ilist.New[string](arena)
	words := []string{"one", "two", "three", "four"}

	for _, word := range words {
		list.PushBack(list.Make(word))
	}

	list.Erase(list.Begin())

	require.NoError(t, arena.Hibernate(ilist.NodeCodec[string]()))
	assert.Panics(t, func() { list.Begin() })
	require.NoError(t, arena.Boot(ilist.NodeCodec[string]()))

	assert.Equal(t, words[1:], collect(list))

	list.PushBack(list.Make("five"))
	assert.Equal(t, []string{"two", "three", "four", "five"}, collect(list))
}
