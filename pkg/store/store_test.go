package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/downfa11-org/burstfifo/pkg/config"
	"github.com/downfa11-org/burstfifo/pkg/store"
	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGeo = types.Geometry{IDWidth: 3, Segments: 4, BeatsPerSegment: 4, BeatBytes: 2}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s, err := store.NewMemoryStore(testGeo)
	require.NoError(t, err)
	defer s.Close()

	for seg := 0; seg < testGeo.Segments; seg++ {
		for off := 0; off < testGeo.BeatsPerSegment; off++ {
			s.WriteBeat(seg, off, []byte{byte(seg), byte(off)})
		}
	}

	dst := make([]byte, 2)
	for seg := 0; seg < testGeo.Segments; seg++ {
		for off := 0; off < testGeo.BeatsPerSegment; off++ {
			s.ReadBeat(seg, off, dst)
			assert.Equal(t, []byte{byte(seg), byte(off)}, dst)
		}
	}
	assert.Equal(t, testGeo, s.Geometry())
}

func TestMemoryStoreRejectsBadGeometry(t *testing.T) {
	_, err := store.NewMemoryStore(types.Geometry{IDWidth: 3, Segments: 3, BeatsPerSegment: 4, BeatBytes: 1})
	assert.Error(t, err)
}

func TestMemoryStorePanicsOutsideGeometry(t *testing.T) {
	s, err := store.NewMemoryStore(testGeo)
	require.NoError(t, err)

	assert.Panics(t, func() { s.WriteBeat(4, 0, []byte{0, 0}) })
	assert.Panics(t, func() { s.WriteBeat(0, 4, []byte{0, 0}) })
	assert.Panics(t, func() { s.WriteBeat(0, 0, []byte{0}) })
	assert.Panics(t, func() { s.ReadBeat(-1, 0, make([]byte, 2)) })
}

func TestMmapStorePersistsAndInspects(t *testing.T) {
	dir := t.TempDir()

	s, err := store.NewMmapStore(dir, "t1", testGeo)
	require.NoError(t, err)
	s.WriteBeat(2, 1, []byte{0xab, 0xcd})
	s.WriteBeat(3, 3, []byte{0x01, 0x02})
	require.NoError(t, s.Sync())

	snap, err := store.Inspect(s.Path())
	require.NoError(t, err)
	assert.Equal(t, testGeo, snap.Geometry())

	b, err := snap.Beat(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xab, 0xcd}, b)

	seg, err := snap.Segment(3)
	require.NoError(t, err)
	require.Len(t, seg, 4)
	assert.Equal(t, []byte{0x01, 0x02}, seg[3])

	_, err = snap.Beat(4, 0)
	assert.Error(t, err)
	require.NoError(t, snap.Close())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")
}

func TestMmapStoreReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := store.NewMmapStore(dir, "again", testGeo)
	require.NoError(t, err)
	s.WriteBeat(0, 0, []byte{7, 7})
	require.NoError(t, s.Close())

	s, err = store.NewMmapStore(dir, "again", testGeo)
	require.NoError(t, err)
	dst := make([]byte, 2)
	s.ReadBeat(0, 0, dst)
	assert.Equal(t, []byte{7, 7}, dst)
	require.NoError(t, s.Close())

	other := testGeo
	other.BeatBytes = 4
	_, err = store.NewMmapStore(dir, "again", other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrGeometryMismatch))
}

func TestMmapStoreRejectsTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	geo := types.Geometry{IDWidth: 3, Segments: 4, BeatsPerSegment: 4096, BeatBytes: 8}

	s, err := store.NewMmapStore(dir, "short", geo)
	require.NoError(t, err)
	path := s.Path()
	require.NoError(t, s.Close())

	require.NoError(t, os.Truncate(path, 64))

	_, err = store.NewMmapStore(dir, "short", geo)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrBadHeader))

	_, err = store.Inspect(path)
	assert.True(t, errors.Is(err, store.ErrBadHeader))
}

func TestInspectRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.store")
	require.NoError(t, os.WriteFile(path, make([]byte, 128), 0o644))

	_, err := store.Inspect(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrBadHeader))
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendMemory}
	s, err := store.Open(cfg, testGeo, "mem")
	require.NoError(t, err)
	_, ok := s.(*store.MemoryStore)
	assert.True(t, ok)
	require.NoError(t, s.Close())

	cfg = &config.Config{StoreBackend: config.BackendMmap, StoreDir: t.TempDir()}
	s, err = store.Open(cfg, testGeo, "disk")
	require.NoError(t, err)
	m, ok := s.(*store.MmapStore)
	require.True(t, ok)
	assert.Equal(t, store.FilePath(cfg.StoreDir, "disk"), m.Path())
	require.NoError(t, s.Close())
}
