package types

// SegmentedStore is the dual-access beat array shared by the two domains.
// One writer and one reader may use it concurrently as long as they touch
// disjoint segments; the sequencers guarantee that.
type SegmentedStore interface {
	// WriteBeat copies data into {segment, offset}. len(data) must equal BeatBytes.
	WriteBeat(segment, offset int, data []byte)
	// ReadBeat copies {segment, offset} into dst. len(dst) must equal BeatBytes.
	ReadBeat(segment, offset int, dst []byte)

	Geometry() Geometry
	Close() error
}
