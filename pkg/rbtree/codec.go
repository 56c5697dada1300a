package rbtree

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
)

// ErrNodeCount is returned when hibernated data holds a different number of nodes than expected.
var ErrNodeCount = errors.New("hibernated node count mismatch")

const (
	flagBlack = 1 << iota
	flagNil
)

// nodeColumns is the deinterleaved form of a slab. Links compress much better
// when they are stored next to each other.
type nodeColumns[V any] struct {
	Parents []uint32
	Lefts   []uint32
	Rights  []uint32
	Flags   []byte
	Values  []V
}

type nodeCodec[V any] struct{}

// NodeCodec returns the arena codec for tree nodes. Values are gob-encoded,
// so V must be gob-encodable.
func NodeCodec[V any]() alloc.Codec[Node[V]] {
	return nodeCodec[V]{}
}

func (nodeCodec[V]) EncodeNodes(nodes []Node[V]) ([]byte, error) {
	columns := nodeColumns[V]{
		Parents: make([]uint32, len(nodes)),
		Lefts:   make([]uint32, len(nodes)),
		Rights:  make([]uint32, len(nodes)),
		Flags:   make([]byte, len(nodes)),
		Values:  make([]V, len(nodes)),
	}

	for idx := range nodes {
		nd := &nodes[idx]
		columns.Parents[idx] = nd.parent
		columns.Lefts[idx] = nd.left
		columns.Rights[idx] = nd.right
		columns.Values[idx] = nd.value

		if nd.color == black {
			columns.Flags[idx] |= flagBlack
		}

		if nd.isNil {
			columns.Flags[idx] |= flagNil
		}
	}

	buf := &bytes.Buffer{}

	err := gob.NewEncoder(buf).Encode(&columns)
	if err != nil {
		return nil, fmt.Errorf("gob encode tree nodes: %w", err)
	}

	return buf.Bytes(), nil
}

func (nodeCodec[V]) DecodeNodes(data []byte, nodes []Node[V]) error {
	var columns nodeColumns[V]

	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&columns)
	if err != nil {
		return fmt.Errorf("gob decode tree nodes: %w", err)
	}

	for _, column := range [][]uint32{columns.Parents, columns.Lefts, columns.Rights} {
		if len(column) != len(nodes) {
			return fmt.Errorf("%w: %d links for %d slots", ErrNodeCount, len(column), len(nodes))
		}
	}

	for idx := range nodes {
		nd := &nodes[idx]
		nd.parent = columns.Parents[idx]
		nd.left = columns.Lefts[idx]
		nd.right = columns.Rights[idx]

		if idx < len(columns.Flags) {
			nd.color = columns.Flags[idx]&flagBlack != 0
			nd.isNil = columns.Flags[idx]&flagNil != 0
		}

		if idx < len(columns.Values) {
			nd.value = columns.Values[idx]
		}
	}

	return nil
}
