package alloc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// ErrShortBlock is returned when a block decompresses to fewer bytes than expected.
var ErrShortBlock = errors.New("decompressed block is shorter than expected")

// CompressUInt32Slice compresses a slice of uint32-s with LZ4.
func CompressUInt32Slice(data []uint32) []byte {
	buf := new(bytes.Buffer)

	writeErr := binary.Write(buf, binary.LittleEndian, data)
	if writeErr != nil {
		return nil
	}

	packed, err := CompressBlock(buf.Bytes())
	if err != nil {
		return nil
	}

	return packed
}

// DecompressUInt32Slice decompresses a slice of uint32-s previously compressed with LZ4.
// `result` must be preallocated.
func DecompressUInt32Slice(data []byte, result []uint32) error {
	decompressed, err := DecompressBlock(data, len(result)*uint32ByteSize)
	if err != nil {
		return err
	}

	readErr := binary.Read(bytes.NewReader(decompressed), binary.LittleEndian, result)
	if readErr != nil {
		return fmt.Errorf("decode uint32 slice: %w", readErr)
	}

	return nil
}

// CompressBlock compresses raw bytes into a single LZ4 block.
// Incompressible input is stored as is; DecompressBlock tells both apart by size.
func CompressBlock(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return []byte{}, nil
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))

	written, err := lz4.CompressBlock(raw, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	if written == 0 || written >= len(raw) {
		stored := make([]byte, len(raw))
		copy(stored, raw)

		return stored, nil
	}

	return compressed[:written], nil
}

// DecompressBlock restores a block produced by CompressBlock; rawLen is the original size.
func DecompressBlock(data []byte, rawLen int) ([]byte, error) {
	if rawLen == 0 {
		return []byte{}, nil
	}

	if len(data) == rawLen {
		stored := make([]byte, rawLen)
		copy(stored, data)

		return stored, nil
	}

	decompressed := make([]byte, rawLen)

	read, err := lz4.UncompressBlock(data, decompressed)
	if err != nil {
		return nil, fmt.Errorf("lz4 uncompress: %w", err)
	}

	if read != rawLen {
		return nil, fmt.Errorf("%w: %d instead of %d", ErrShortBlock, read, rawLen)
	}

	return decompressed, nil
}
