//go:build !linux
// +build !linux

package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
)

// MmapStore keeps the slab on the heap on this platform and writes the same
// file layout on Sync and Close.
type MmapStore struct {
	slab
	path string
	file *os.File

	closeOnce sync.Once
	closeErr  error
}

var _ types.SegmentedStore = (*MmapStore)(nil)

func NewMmapStore(dir, name string, geo types.Geometry) (*MmapStore, error) {
	if err := geo.Validate(); err != nil {
		return nil, fmt.Errorf("mmap store: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	path := FilePath(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	reused, err := checkExisting(f, geo)
	if err != nil {
		f.Close()
		return nil, err
	}

	buf := make([]byte, geo.Bytes())
	if reused {
		if _, err := f.ReadAt(buf, headerSize); err != nil {
			f.Close()
			return nil, fmt.Errorf("mmap store: load %s: %w", path, err)
		}
	}
	util.Warn("mmap store %s: shared mappings unsupported on this platform, using file-backed heap slab", path)

	return &MmapStore{
		slab: slab{geo: geo, buf: buf},
		path: path,
		file: f,
	}, nil
}

func (m *MmapStore) Path() string {
	return m.path
}

func (m *MmapStore) Sync() error {
	hdr := make([]byte, headerSize)
	encodeHeader(hdr, m.geo)
	if _, err := m.file.WriteAt(hdr, 0); err != nil {
		return err
	}
	if _, err := m.file.WriteAt(m.buf, headerSize); err != nil {
		return err
	}
	return m.file.Sync()
}

func (m *MmapStore) Close() error {
	m.closeOnce.Do(func() {
		if err := m.Sync(); err != nil {
			util.Error("mmap store %s sync error on close: %v", m.path, err)
			m.closeErr = err
		}
		if err := m.file.Close(); err != nil {
			util.Error("mmap store %s file close error: %v", m.path, err)
			m.closeErr = err
		}
	})
	return m.closeErr
}
