package store

import (
	"fmt"

	"github.com/downfa11-org/burstfifo/pkg/types"
	"golang.org/x/exp/mmap"
)

// Snapshot is a read-only view of a persisted store file.
type Snapshot struct {
	r   *mmap.ReaderAt
	geo types.Geometry
}

// Inspect maps the store file at path read-only and validates its header.
func Inspect(path string) (*Snapshot, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap open failed: %w", err)
	}

	hdr := make([]byte, headerSize)
	if r.Len() < headerSize {
		r.Close()
		return nil, fmt.Errorf("%w: file is %d bytes", ErrBadHeader, r.Len())
	}
	if _, err := r.ReadAt(hdr, 0); err != nil {
		r.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	geo, err := decodeHeader(hdr)
	if err != nil {
		r.Close()
		return nil, err
	}
	if want := headerSize + geo.Bytes(); r.Len() < want {
		r.Close()
		return nil, fmt.Errorf("%w: file is %d bytes, geometry needs %d", ErrBadHeader, r.Len(), want)
	}
	return &Snapshot{r: r, geo: geo}, nil
}

func (s *Snapshot) Geometry() types.Geometry {
	return s.geo
}

// Beat returns a copy of one stored beat.
func (s *Snapshot) Beat(segment, offset int) ([]byte, error) {
	if segment < 0 || segment >= s.geo.Segments || offset < 0 || offset >= s.geo.BeatsPerSegment {
		return nil, fmt.Errorf("beat {%d,%d} outside %s", segment, offset, s.geo)
	}
	p := headerSize + (segment*s.geo.BeatsPerSegment+offset)*s.geo.BeatBytes
	out := make([]byte, s.geo.BeatBytes)
	if _, err := s.r.ReadAt(out, int64(p)); err != nil {
		return nil, fmt.Errorf("read beat {%d,%d}: %w", segment, offset, err)
	}
	return out, nil
}

// Segment returns every beat slot of one segment in offset order.
func (s *Snapshot) Segment(segment int) ([][]byte, error) {
	beats := make([][]byte, 0, s.geo.BeatsPerSegment)
	for off := 0; off < s.geo.BeatsPerSegment; off++ {
		b, err := s.Beat(segment, off)
		if err != nil {
			return nil, err
		}
		beats = append(beats, b)
	}
	return beats, nil
}

func (s *Snapshot) Close() error {
	return s.r.Close()
}
