//go:build linux
// +build linux

package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
	"golang.org/x/sys/unix"
)

// MmapStore backs the slab with a shared file mapping, so the contents can be
// inspected from another process while the buffer runs.
type MmapStore struct {
	slab
	path string
	file *os.File
	data []byte

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

	size := headerSize + geo.Bytes()
	if !reused {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("mmap store: truncate %s: %w", path, err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap store: map %s: %w", path, err)
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	if !reused {
		encodeHeader(data[:headerSize], geo)
	}
	util.Debug("mmap store %s mapped (%d bytes, reused=%v)", path, size, reused)

	return &MmapStore{
		slab: slab{geo: geo, buf: data[headerSize:]},
		path: path,
		file: f,
		data: data,
	}, nil
}

// Path returns the backing file.
func (m *MmapStore) Path() string {
	return m.path
}

// Sync flushes the mapping to the backing file.
func (m *MmapStore) Sync() error {
	return unix.Msync(m.data, unix.MS_SYNC)
}

func (m *MmapStore) Close() error {
	m.closeOnce.Do(func() {
		if err := m.Sync(); err != nil {
			util.Error("mmap store %s sync error on close: %v", m.path, err)
			m.closeErr = err
		}
		if err := unix.Munmap(m.data); err != nil {
			util.Error("mmap store %s unmap error: %v", m.path, err)
			m.closeErr = err
		}
		m.data = nil
		m.buf = nil
		if err := m.file.Close(); err != nil {
			util.Error("mmap store %s file close error: %v", m.path, err)
			m.closeErr = err
		}
	})
	return m.closeErr
}
