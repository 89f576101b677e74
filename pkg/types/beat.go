package types

import "fmt"

// Beat is one fixed-width word of a burst. Last marks the end of the burst.
type Beat struct {
	Data []byte
	Last bool
}

func (b Beat) String() string {
	if b.Last {
		return fmt.Sprintf("%x|last", b.Data)
	}
	return fmt.Sprintf("%x", b.Data)
}

// Geometry describes the fixed shape of a segmented store.
type Geometry struct {
	IDWidth         int // sequence counter width W
	Segments        int // 2^(W-1)
	BeatsPerSegment int // L
	BeatBytes       int
}

// SegmentBytes is the payload size of one segment.
func (g Geometry) SegmentBytes() int {
	return g.BeatsPerSegment * g.BeatBytes
}

// Bytes is the payload size of the whole store.
func (g Geometry) Bytes() int {
	return g.Segments * g.SegmentBytes()
}

// Validate checks that the geometry is internally consistent.
func (g Geometry) Validate() error {
	if g.IDWidth < 1 || g.IDWidth > MaxIDWidth {
		return fmt.Errorf("id width %d out of range [1,%d]", g.IDWidth, MaxIDWidth)
	}
	if g.Segments != 1<<(g.IDWidth-1) {
		return fmt.Errorf("segment count %d does not match id width %d", g.Segments, g.IDWidth)
	}
	if g.BeatsPerSegment < 1 {
		return fmt.Errorf("beats per segment must be positive, got %d", g.BeatsPerSegment)
	}
	if g.BeatBytes < 1 {
		return fmt.Errorf("beat width must be positive, got %d bytes", g.BeatBytes)
	}
	return nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("W=%d segments=%d L=%d beat=%dB", g.IDWidth, g.Segments, g.BeatsPerSegment, g.BeatBytes)
}

// MaxIDWidth bounds the counter width so the store stays addressable with int.
const MaxIDWidth = 20
