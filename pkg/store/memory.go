package store

import (
	"fmt"

	"github.com/downfa11-org/burstfifo/pkg/types"
)

// MemoryStore keeps every segment in one heap slab.
type MemoryStore struct {
	slab
}

var _ types.SegmentedStore = (*MemoryStore)(nil)

func NewMemoryStore(geo types.Geometry) (*MemoryStore, error) {
	if err := geo.Validate(); err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}
	return &MemoryStore{slab: slab{geo: geo, buf: make([]byte, geo.Bytes())}}, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
