package ilist

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/assoc/pkg/alloc"
)

// ErrNodeCount is returned when hibernated data holds a different number of nodes than expected.
var ErrNodeCount = errors.New("hibernated node count mismatch")

type nodeColumns[V any] struct {
	Prev   []uint32
	Next   []uint32
	Values []V
}

type nodeCodec[V any] struct{}

// NodeCodec returns the arena codec for list nodes. Links are stored as
// separate columns and values are gob-encoded, so V must be gob-encodable.
func NodeCodec[V any]() alloc.Codec[Node[V]] {
	return nodeCodec[V]{}
}

func (nodeCodec[V]) EncodeNodes(nodes []Node[V]) ([]byte, error) {
	columns := nodeColumns[V]{
		Prev:   make([]uint32, len(nodes)),
		Next:   make([]uint32, len(nodes)),
		Values: make([]V, len(nodes)),
	}

	for idx := range nodes {
		columns.Prev[idx] = nodes[idx].prev
		columns.Next[idx] = nodes[idx].next
		columns.Values[idx] = nodes[idx].value
	}

	buf := &bytes.Buffer{}

	err := gob.NewEncoder(buf).Encode(&columns)
	if err != nil {
		return nil, fmt.Errorf("gob encode list nodes: %w", err)
	}

	return buf.Bytes(), nil
}

func (nodeCodec[V]) DecodeNodes(data []byte, nodes []Node[V]) error {
	var columns nodeColumns[V]

	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&columns)
	if err != nil {
		return fmt.Errorf("gob decode list nodes: %w", err)
	}

	if len(columns.Prev) != len(nodes) || len(columns.Next) != len(nodes) {
		return fmt.Errorf("%w: %d links for %d slots", ErrNodeCount, len(columns.Prev), len(nodes))
	}

	for idx := range nodes {
		nodes[idx].prev = columns.Prev[idx]
		nodes[idx].next = columns.Next[idx]

		if idx < len(columns.Values) {
			nodes[idx].value = columns.Values[idx]
		}
	}

	return nil
}
