package store

import (
	"fmt"

	"github.com/downfa11-org/burstfifo/pkg/types"
)

// slab addresses a flat byte region as {segment, offset} beats.
type slab struct {
	geo types.Geometry
	buf []byte
}

func (s *slab) at(segment, offset int) []byte {
	if segment < 0 || segment >= s.geo.Segments || offset < 0 || offset >= s.geo.BeatsPerSegment {
		panic(fmt.Sprintf("store: beat {%d,%d} outside %s", segment, offset, s.geo))
	}
	p := (segment*s.geo.BeatsPerSegment + offset) * s.geo.BeatBytes
	return s.buf[p : p+s.geo.BeatBytes : p+s.geo.BeatBytes]
}

func (s *slab) WriteBeat(segment, offset int, data []byte) {
	if len(data) != s.geo.BeatBytes {
		panic(fmt.Sprintf("store: write of %d bytes into %d-byte beat", len(data), s.geo.BeatBytes))
	}
	copy(s.at(segment, offset), data)
}

func (s *slab) ReadBeat(segment, offset int, dst []byte) {
	if len(dst) != s.geo.BeatBytes {
		panic(fmt.Sprintf("store: read of %d-byte beat into %d bytes", s.geo.BeatBytes, len(dst)))
	}
	copy(dst, s.at(segment, offset))
}

func (s *slab) Geometry() types.Geometry {
	return s.geo
}
