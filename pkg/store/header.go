package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/downfa11-org/burstfifo/pkg/types"
)

// A persisted store file is a fixed header followed by the beat slab.
const (
	headerSize    = 64
	headerVersion = 1
)

var headerMagic = [4]byte{'B', 'R', 'S', 'T'}

var (
	ErrBadHeader        = errors.New("store: bad file header")
	ErrGeometryMismatch = errors.New("store: file geometry does not match")
)

func encodeHeader(dst []byte, geo types.Geometry) {
	copy(dst[0:4], headerMagic[:])
	binary.BigEndian.PutUint16(dst[4:6], headerVersion)
	binary.BigEndian.PutUint32(dst[8:12], uint32(geo.IDWidth))
	binary.BigEndian.PutUint32(dst[12:16], uint32(geo.Segments))
	binary.BigEndian.PutUint32(dst[16:20], uint32(geo.BeatsPerSegment))
	binary.BigEndian.PutUint32(dst[20:24], uint32(geo.BeatBytes))
}

func decodeHeader(src []byte) (types.Geometry, error) {
	if len(src) < headerSize {
		return types.Geometry{}, fmt.Errorf("%w: %d bytes", ErrBadHeader, len(src))
	}
	if [4]byte(src[0:4]) != headerMagic {
		return types.Geometry{}, fmt.Errorf("%w: magic %q", ErrBadHeader, src[0:4])
	}
	if v := binary.BigEndian.Uint16(src[4:6]); v != headerVersion {
		return types.Geometry{}, fmt.Errorf("%w: version %d", ErrBadHeader, v)
	}
	geo := types.Geometry{
		IDWidth:         int(binary.BigEndian.Uint32(src[8:12])),
		Segments:        int(binary.BigEndian.Uint32(src[12:16])),
		BeatsPerSegment: int(binary.BigEndian.Uint32(src[16:20])),
		BeatBytes:       int(binary.BigEndian.Uint32(src[20:24])),
	}
	if err := geo.Validate(); err != nil {
		return types.Geometry{}, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	return geo, nil
}

// FilePath returns where the store named name lives under dir.
func FilePath(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("burst_%s.store", name))
}

// checkExisting validates a store file left by an earlier run. It reports
// false when there is nothing to reuse.
func checkExisting(f *os.File, geo types.Geometry) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	hdr := make([]byte, headerSize)
	if _, err := f.ReadAt(hdr, 0); err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	got, err := decodeHeader(hdr)
	if err != nil {
		return false, err
	}
	if got != geo {
		return false, fmt.Errorf("%w: file has %s, want %s", ErrGeometryMismatch, got, geo)
	}
	if want := int64(headerSize + geo.Bytes()); info.Size() < want {
		return false, fmt.Errorf("%w: file is %d bytes, geometry needs %d", ErrBadHeader, info.Size(), want)
	}
	return true, nil
}
