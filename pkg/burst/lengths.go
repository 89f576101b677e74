package burst

// LengthTable records, per segment, how many beats the last burst committed
// there contained. The producer writes an entry before publishing its
// counter; the consumer reads it after observing that counter.
type LengthTable struct {
	entries []uint32
}

func NewLengthTable(segments int) *LengthTable {
	return &LengthTable{entries: make([]uint32, segments)}
}

func (t *LengthTable) Commit(segment, beats int) {
	t.entries[segment] = uint32(beats)
}

func (t *LengthTable) Fetch(segment int) int {
	return int(t.entries[segment])
}

func (t *LengthTable) Len() int {
	return len(t.entries)
}

func (t *LengthTable) reset() {
	clear(t.entries)
}
