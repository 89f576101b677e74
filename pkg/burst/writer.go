package burst

import (
	"fmt"

	"github.com/downfa11-org/burstfifo/pkg/cdc"
	"github.com/downfa11-org/burstfifo/pkg/seq"
	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
)

// WriteSequencer runs in the producer domain. It places incoming beats in the
// current segment, commits burst lengths and publishes the producer counter.
// A WriteSequencer must only be used by one goroutine.
type WriteSequencer struct {
	geo     types.Geometry
	width   uint
	store   types.SegmentedStore
	lengths *LengthTable
	pub     *cdc.Publisher // producer counter, read by the consumer
	obs     *cdc.Observer  // consumer counter, written by the consumer
	rec     Recorder
	stats   *counters

	counter seq.Counter
	offset  int // running beat offset, wraps at L, never reset between bursts
	count   int // beats in the open burst
	stalled bool
}

func newWriteSequencer(geo types.Geometry, st types.SegmentedStore, lengths *LengthTable,
	pub *cdc.Publisher, obs *cdc.Observer, rec Recorder, stats *counters) *WriteSequencer {
	return &WriteSequencer{
		geo:     geo,
		width:   uint(geo.IDWidth),
		store:   st,
		lengths: lengths,
		pub:     pub,
		obs:     obs,
		rec:     rec,
		stats:   stats,
		counter: seq.New(uint(geo.IDWidth)),
	}
}

// Push offers one beat. It returns false with a nil error while the buffer
// has no free segment; the caller retries later. Each call is one producer
// step and samples the consumer counter once.
func (w *WriteSequencer) Push(b types.Beat) (bool, error) {
	if len(b.Data) != w.geo.BeatBytes {
		return false, fmt.Errorf("%w: got %d bytes, want %d", ErrBeatWidth, len(b.Data), w.geo.BeatBytes)
	}
	if w.count+1 >= w.geo.BeatsPerSegment && !b.Last {
		return false, fmt.Errorf("%w: beat %d of a %d-beat segment has no end marker", ErrBurstOverflow, w.count+1, w.geo.BeatsPerSegment)
	}

	consumer := w.obs.Observe()
	if !seq.HasRoom(w.counter.Next().Value(), consumer, w.width) {
		if !w.stalled {
			w.stalled = true
			w.stats.stalls.Add(1)
			w.rec.Backpressured()
			if util.Enabled(util.LogLevelDebug) {
				util.Debug("producer stalled at %s, consumer at %s", w.counter, seq.FromValue(w.width, consumer))
			}
		}
		return false, nil
	}
	w.stalled = false

	segment := w.counter.Index()
	w.store.WriteBeat(segment, w.offset, b.Data)
	w.offset++
	if w.offset == w.geo.BeatsPerSegment {
		w.offset = 0
	}
	w.count++
	w.stats.beatsIn.Add(1)
	w.rec.BeatAccepted()

	if b.Last {
		beats := w.count
		w.lengths.Commit(segment, beats)
		w.count = 0
		w.counter = w.counter.Next()
		w.pub.Publish(w.counter.Value())

		w.stats.burstsIn.Add(1)
		w.stats.inFlight.Add(1)
		w.rec.BurstCommitted(beats)
	}
	return true, nil
}

// Ready reports whether the next Push would find room, judged from the last
// observed consumer counter. It does not advance the producer domain.
func (w *WriteSequencer) Ready() bool {
	return seq.HasRoom(w.counter.Next().Value(), w.obs.Latest(), w.width)
}

// Counter returns the producer counter: the segment currently being filled.
func (w *WriteSequencer) Counter() seq.Counter {
	return w.counter
}

// InBurst reports whether a burst has been started but not terminated.
func (w *WriteSequencer) InBurst() bool {
	return w.count > 0
}

// Reset returns the producer domain to the empty state and publishes it.
func (w *WriteSequencer) Reset() {
	w.counter = seq.New(w.width)
	w.offset = 0
	w.count = 0
	w.stalled = false
	w.obs.Reset(0)
	w.pub.Publish(w.counter.Value())
}
