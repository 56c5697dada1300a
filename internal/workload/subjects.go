package workload

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
	"github.com/Sumatoshi-tech/assoc/pkg/container"
	"github.com/Sumatoshi-tech/assoc/pkg/ilist"
	"github.com/Sumatoshi-tech/assoc/pkg/rbtree"
)

// subject is the int-keyed view of a container that verification drives.
// Set kinds store the key as the mapped value.
type subject interface {
	emplace(key, value int) bool
	tryEmplace(key, value int) bool
	erase(key int) bool
	find(key int) (int, bool)
	keys() []int
	len() int
	check() error
	hibernate() error
}

type hibernator interface {
	Hibernate() error
	Boot() error
}

func roundTrip(h hibernator) error {
	err := h.Hibernate()
	if err != nil {
		return fmt.Errorf("hibernate: %w", err)
	}

	err = h.Boot()
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	return nil
}

func newSubject(kind string) subject {
	switch kind {
	case KindMap:
		return mapSubject{container.NewMap[int, int]()}
	case KindSet:
		return setSubject{container.NewSet[int]()}
	case KindUnorderedMap:
		return unorderedMapSubject{container.NewUnorderedMap[int, int]()}
	case KindUnorderedSet:
		return unorderedSetSubject{container.NewUnorderedSet[int]()}
	default:
		panic("unknown container kind " + kind)
	}
}

func ordered(kind string) bool {
	return kind == KindMap || kind == KindSet
}

type mapSubject struct{ m *container.Map[int, int] }

func (s mapSubject) emplace(key, value int) bool {
	_, inserted := s.m.Emplace(key, value)

	return inserted
}

func (s mapSubject) tryEmplace(key, value int) bool {
	_, inserted := s.m.TryEmplace(key, value)

	return inserted
}

func (s mapSubject) erase(key int) bool {
	_, err := s.m.Erase(key)

	return err == nil
}

func (s mapSubject) find(key int) (int, bool) {
	it := s.m.Find(key)
	if it.IsEnd() {
		return 0, false
	}

	return it.Mapped(), true
}

func (s mapSubject) keys() []int { return slices.Collect(s.m.Keys()) }
func (s mapSubject) len() int { return s.m.Len() }
func (s mapSubject) check() error { return s.m.CheckInvariants() }
func (s mapSubject) hibernate() error { return roundTrip(s.m) }

type setSubject struct{ s *container.Set[int] }

func (s setSubject) emplace(key, _ int) bool {
	_, inserted := s.s.Emplace(key)

	return inserted
}

func (s setSubject) tryEmplace(key, value int) bool {
	if s.s.Contains(key) {
		return false
	}

	return s.emplace(key, value)
}

func (s setSubject) erase(key int) bool {
	_, err := s.s.Erase(key)

	return err == nil
}

func (s setSubject) find(key int) (int, bool) {
	it := s.s.Find(key)
	if it.IsEnd() {
		return 0, false
	}

	return it.Key(), true
}

func (s setSubject) keys() []int { return slices.Collect(s.s.All()) }
func (s setSubject) len() int { return s.s.Len() }
func (s setSubject) check() error { return s.s.CheckInvariants() }
func (s setSubject) hibernate() error { return roundTrip(s.s) }

type unorderedMapSubject struct{ m *container.UnorderedMap[int, int] }

func (s unorderedMapSubject) emplace(key, value int) bool {
	_, inserted := s.m.Emplace(key, value)

	return inserted
}

func (s unorderedMapSubject) tryEmplace(key, value int) bool {
	_, inserted := s.m.TryEmplace(key, value)

	return inserted
}

func (s unorderedMapSubject) erase(key int) bool {
	_, err := s.m.Erase(key)

	return err == nil
}

func (s unorderedMapSubject) find(key int) (int, bool) {
	it := s.m.Find(key)
	if it.IsEnd() {
		return 0, false
	}

	return it.Mapped(), true
}

func (s unorderedMapSubject) keys() []int { return slices.Collect(s.m.Keys()) }
func (s unorderedMapSubject) len() int { return s.m.Len() }
func (s unorderedMapSubject) check() error { return s.m.CheckInvariants() }
func (s unorderedMapSubject) hibernate() error { return roundTrip(s.m) }

type unorderedSetSubject struct{ s *container.UnorderedSet[int] }

func (s unorderedSetSubject) emplace(key, _ int) bool {
	_, inserted := s.s.Emplace(key)

	return inserted
}

func (s unorderedSetSubject) tryEmplace(key, value int) bool {
	if s.s.Contains(key) {
		return false
	}

	return s.emplace(key, value)
}

func (s unorderedSetSubject) erase(key int) bool {
	_, err := s.s.Erase(key)

	return err == nil
}

func (s unorderedSetSubject) find(key int) (int, bool) {
	it := s.s.Find(key)
	if it.IsEnd() {
		return 0, false
	}

	return it.Key(), true
}

func (s unorderedSetSubject) keys() []int { return slices.Collect(s.s.All()) }
func (s unorderedSetSubject) len() int { return s.s.Len() }
func (s unorderedSetSubject) check() error { return s.s.CheckInvariants() }
func (s unorderedSetSubject) hibernate() error { return roundTrip(s.s) }

// benchSubject is the uint64-keyed view of a container that benchmarks drive.
type benchSubject interface {
	insert(key uint64) bool
	find(key uint64) bool
	erase(key uint64) bool
	slots() int
	nodeBytes() uintptr
}

func newBenchSubject(kind string) benchSubject {
	switch kind {
	case KindMap:
		return benchMap{container.NewMap[uint64, uint64]()}
	case KindSet:
		return benchSet{container.NewSet[uint64]()}
	case KindUnorderedMap:
		return benchUnorderedMap{container.NewUnorderedMap[uint64, uint64]()}
	case KindUnorderedSet:
		return benchUnorderedSet{container.NewUnorderedSet[uint64]()}
	default:
		panic("unknown container kind " + kind)
	}
}

type benchMap struct{ m *container.Map[uint64, uint64] }

func (b benchMap) insert(key uint64) bool {
	_, inserted := b.m.TryEmplace(key, key)

	return inserted
}

func (b benchMap) find(key uint64) bool { return b.m.Contains(key) }

func (b benchMap) erase(key uint64) bool {
	_, err := b.m.Erase(key)

	return err == nil
}

func (b benchMap) slots() int { return b.m.Arena().Size() }

func (benchMap) nodeBytes() uintptr {
	var node rbtree.Node[assoc.Pair[uint64, uint64]]

	return unsafe.Sizeof(node)
}

type benchSet struct{ s *container.Set[uint64] }

func (b benchSet) insert(key uint64) bool {
	_, inserted := b.s.Emplace(key)

	return inserted
}

func (b benchSet) find(key uint64) bool { return b.s.Contains(key) }

func (b benchSet) erase(key uint64) bool {
	_, err := b.s.Erase(key)

	return err == nil
}

func (b benchSet) slots() int { return b.s.Arena().Size() }

func (benchSet) nodeBytes() uintptr {
	var node rbtree.Node[uint64]

	return unsafe.Sizeof(node)
}

type benchUnorderedMap struct{ m *container.UnorderedMap[uint64, uint64] }

func (b benchUnorderedMap) insert(key uint64) bool {
	_, inserted := b.m.TryEmplace(key, key)

	return inserted
}

func (b benchUnorderedMap) find(key uint64) bool { return b.m.Contains(key) }

func (b benchUnorderedMap) erase(key uint64) bool {
	_, err := b.m.Erase(key)

	return err == nil
}

func (b benchUnorderedMap) slots() int { return b.m.Arena().Size() }

func (benchUnorderedMap) nodeBytes() uintptr {
	var node ilist.Node[assoc.Pair[uint64, uint64]]

	return unsafe.Sizeof(node)
}

type benchUnorderedSet struct{ s *container.UnorderedSet[uint64] }

func (b benchUnorderedSet) insert(key uint64) bool {
	_, inserted := b.s.Emplace(key)

	return inserted
}

func (b benchUnorderedSet) find(key uint64) bool { return b.s.Contains(key) }

func (b benchUnorderedSet) erase(key uint64) bool {
	_, err := b.s.Erase(key)

	return err == nil
}

func (b benchUnorderedSet) slots() int { return b.s.Arena().Size() }

func (benchUnorderedSet) nodeBytes() uintptr {
	var node ilist.Node[uint64]

	return unsafe.Sizeof(node)
}
