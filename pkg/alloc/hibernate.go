package alloc

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrIncompleteRead is returned when a read does not return the expected number of bytes.
var ErrIncompleteRead = errors.New("incomplete read")

// Hibernated sections: encoded nodes, construction flags, gap indices.
const (
	sectionNodes = iota
	sectionLive
	sectionGaps
	hibernatedSections
)

// Codec converts slab slots to bytes and back for hibernation.
// DecodeNodes receives a preallocated slice of the original length.
type Codec[N any] interface {
	EncodeNodes(nodes []N) ([]byte, error)
	DecodeNodes(data []byte, nodes []N) error
}

// Hibernated reports whether the arena is compressed and unusable until Boot.
func (arena *Arena[N]) Hibernated() bool {
	return arena.storage == nil
}

// Hibernate compresses the slab. Every capability call panics until Boot.
// Slabs smaller than HibernationThreshold are left as they are.
func (arena *Arena[N]) Hibernate(codec Codec[N]) error {
	if arena.hibernatedStorageLen > 0 {
		panic("cannot hibernate an already hibernated allocator")
	}

	if len(arena.storage) < arena.HibernationThreshold {
		return nil
	}

	if len(arena.storage) == 0 {
		arena.storage = nil
		arena.live = nil

		return nil
	}

	raw, err := codec.EncodeNodes(arena.storage)
	if err != nil {
		return fmt.Errorf("encode nodes: %w", err)
	}

	liveBuffer := make([]uint32, len(arena.live))

	for idx, constructed := range arena.live {
		if constructed {
			liveBuffer[idx] = 1
		}
	}

	gapsBuffer := make([]uint32, 0, len(arena.gaps))

	for idx := range arena.gaps {
		gapsBuffer = append(gapsBuffer, idx)
	}

	var (
		sections [hibernatedSections][]byte
		nodesErr error
	)

	wg := &sync.WaitGroup{}
	wg.Add(hibernatedSections)

	go func() {
		defer wg.Done()

		sections[sectionNodes], nodesErr = CompressBlock(raw)
	}()

	go func() {
		defer wg.Done()

		sections[sectionLive] = CompressUInt32Slice(liveBuffer)
	}()

	go func() {
		defer wg.Done()

		sections[sectionGaps] = CompressUInt32Slice(gapsBuffer)
	}()

	wg.Wait()

	if nodesErr != nil {
		return nodesErr
	}

	arena.hibernatedData = sections
	arena.hibernatedStorageLen = len(arena.storage)
	arena.hibernatedGapsLen = len(gapsBuffer)
	arena.hibernatedNodesLen = len(raw)
	arena.storage = nil
	arena.live = nil
	arena.gaps = nil

	return nil
}

// Boot performs the opposite of Hibernate() - decompresses and restores the slab.
func (arena *Arena[N]) Boot(codec Codec[N]) error {
	if arena.storage == nil && arena.hibernatedStorageLen == 0 {
		arena.storage = []N{}
		arena.live = []bool{}
		arena.gaps = map[uint32]bool{}

		return nil
	}

	if arena.hibernatedStorageLen == 0 {
		// Not hibernated.
		return nil
	}

	if arena.hibernatedData[sectionNodes] == nil {
		panic("cannot boot a serialized allocator")
	}

	liveBuffer := make([]uint32, arena.hibernatedStorageLen)
	gapsBuffer := make([]uint32, arena.hibernatedGapsLen)

	var (
		raw                        []byte
		nodesErr, liveErr, gapsErr error
	)

	wg := &sync.WaitGroup{}
	wg.Add(hibernatedSections)

	go func() {
		defer wg.Done()

		raw, nodesErr = DecompressBlock(arena.hibernatedData[sectionNodes], arena.hibernatedNodesLen)
	}()

	go func() {
		defer wg.Done()

		liveErr = DecompressUInt32Slice(arena.hibernatedData[sectionLive], liveBuffer)
	}()

	go func() {
		defer wg.Done()

		gapsErr = DecompressUInt32Slice(arena.hibernatedData[sectionGaps], gapsBuffer)
	}()

	wg.Wait()

	err := errors.Join(nodesErr, liveErr, gapsErr)
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	capSize := (arena.hibernatedStorageLen * growCapacityNumerator) / growCapacityDenominator
	storage := make([]N, arena.hibernatedStorageLen, capSize)

	err = codec.DecodeNodes(raw, storage)
	if err != nil {
		return fmt.Errorf("decode nodes: %w", err)
	}

	live := make([]bool, arena.hibernatedStorageLen, capSize)

	for idx, flag := range liveBuffer {
		live[idx] = flag > 0
	}

	gaps := make(map[uint32]bool, len(gapsBuffer))

	for _, idx := range gapsBuffer {
		gaps[idx] = true
	}

	arena.storage = storage
	arena.live = live
	arena.gaps = gaps
	arena.hibernatedData = [hibernatedSections][]byte{}
	arena.hibernatedStorageLen = 0
	arena.hibernatedGapsLen = 0
	arena.hibernatedNodesLen = 0

	return nil
}

// Serialize writes the hibernated arena on disk and drops the in-memory copy.
func (arena *Arena[N]) Serialize(path string) error {
	if arena.storage != nil {
		panic("serialization requires the hibernated state")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	defer file.Close()

	writer := bufio.NewWriter(file)

	header := []int{arena.hibernatedStorageLen, arena.hibernatedGapsLen, arena.hibernatedNodesLen}
	for _, section := range arena.hibernatedData {
		header = append(header, len(section))
	}

	var buf []byte

	for _, value := range header {
		buf = binary.AppendUvarint(buf, uint64(value))
	}

	_, err = writer.Write(buf)
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for idx, section := range arena.hibernatedData {
		_, err = writer.Write(section)
		if err != nil {
			return fmt.Errorf("write section %d: %w", idx, err)
		}
	}

	err = writer.Flush()
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	for idx := range arena.hibernatedData {
		arena.hibernatedData[idx] = nil
	}

	return nil
}

// Deserialize reads a hibernated arena from disk. Boot must follow to use it.
func (arena *Arena[N]) Deserialize(path string) error {
	if arena.storage != nil {
		panic("deserialization requires the hibernated state")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}

	defer file.Close()

	reader := bufio.NewReader(file)

	var header [3 + hibernatedSections]int

	for idx := range header {
		value, readErr := binary.ReadUvarint(reader)
		if readErr != nil {
			return fmt.Errorf("read header field %d: %w", idx, readErr)
		}

		header[idx] = int(value)
	}

	var sections [hibernatedSections][]byte

	for idx := range sections {
		sections[idx] = make([]byte, header[3+idx])

		bytesRead, readErr := io.ReadFull(reader, sections[idx])
		if readErr != nil {
			return fmt.Errorf("%w %d: %d instead of %d", ErrIncompleteRead, idx, bytesRead, header[3+idx])
		}
	}

	arena.hibernatedStorageLen = header[0]
	arena.hibernatedGapsLen = header[1]
	arena.hibernatedNodesLen = header[2]
	arena.hibernatedData = sections

	return nil
}
