package burst

import (
	"github.com/downfa11-org/burstfifo/pkg/cdc"
	"github.com/downfa11-org/burstfifo/pkg/seq"
	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
)

type readRequest struct {
	valid   bool
	segment int
	offset  int
	last    bool
}

type outputSlot struct {
	valid bool
	beat  types.Beat
}

// ReadSequencer runs in the consumer domain. It notices committed bursts,
// replays them beat by beat and publishes the consumer counter once a burst
// has been handed to the sink. A ReadSequencer must only be used by one
// goroutine.
type ReadSequencer struct {
	geo     types.Geometry
	width   uint
	store   types.SegmentedStore
	lengths *LengthTable
	pub     *cdc.Publisher // consumer counter, read by the producer
	obs     *cdc.Observer  // producer counter, written by the producer
	rec     Recorder
	stats   *counters

	counter seq.Counter // segment being drained
	target  uint64      // producer counter latched when the consumer last caught up
	active  bool
	length  int
	issued  int
	offset  int // running beat offset, mirrors the producer's

	// A store read issued on one step lands on the next; out holds it until
	// the sink takes it.
	req readRequest
	out outputSlot
}

func newReadSequencer(geo types.Geometry, st types.SegmentedStore, lengths *LengthTable,
	pub *cdc.Publisher, obs *cdc.Observer, rec Recorder, stats *counters) *ReadSequencer {
	return &ReadSequencer{
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

// Pop is one consumer step with a ready sink.
func (r *ReadSequencer) Pop() (types.Beat, bool) {
	return r.Step(true)
}

// Step advances the consumer domain by one step. When sinkReady is true and
// a beat is buffered, the beat is returned with ok=true.
func (r *ReadSequencer) Step(sinkReady bool) (beat types.Beat, ok bool) {
	producer := r.obs.Observe()

	if r.req.valid && !r.out.valid {
		data := make([]byte, r.geo.BeatBytes)
		r.store.ReadBeat(r.req.segment, r.req.offset, data)
		r.out = outputSlot{valid: true, beat: types.Beat{Data: data, Last: r.req.last}}
		r.req = readRequest{}
	}

	if sinkReady && r.out.valid {
		beat, ok = r.out.beat, true
		r.out = outputSlot{}
		r.stats.beatsOut.Add(1)
		r.rec.BeatDelivered()

		if beat.Last {
			r.counter = r.counter.Next()
			r.pub.Publish(r.counter.Value())
			r.active = false

			r.stats.burstsOut.Add(1)
			r.stats.inFlight.Add(-1)
			r.rec.BurstDrained(r.length)
		}
	}

	if !r.active {
		// Bursts up to target are known committed. The producer is consulted
		// again only once they are all drained.
		if r.counter.Value() == r.target {
			r.target = producer
		}
	}
	if !r.active && r.counter.Value() != r.target {
		r.length = r.lengths.Fetch(r.counter.Index())
		r.issued = 0
		r.active = true
		if util.Enabled(util.LogLevelDebug) {
			util.Debug("consumer at %s, target %s, draining %d beats",
				r.counter, seq.FromValue(r.width, r.target), r.length)
		}
	}

	if r.active && r.issued < r.length && !r.out.valid && !r.req.valid {
		r.req = readRequest{
			valid:   true,
			segment: r.counter.Index(),
			offset:  r.offset,
			last:    r.issued+1 == r.length,
		}
		r.offset++
		if r.offset == r.geo.BeatsPerSegment {
			r.offset = 0
		}
		r.issued++
	}
	return beat, ok
}

// Available returns how many committed bursts the consumer knows of and has not
// finished draining, as of its last observation.
func (r *ReadSequencer) Available() int {
	return seq.Distance(r.obs.Latest(), r.counter.Value(), r.width)
}

// CurrentBurstLength returns the fetched length of the burst being drained,
// or 0 when idle.
func (r *ReadSequencer) CurrentBurstLength() int {
	if !r.active {
		return 0
	}
	return r.length
}

// Counter returns the consumer counter: the segment being drained next.
func (r *ReadSequencer) Counter() seq.Counter {
	return r.counter
}

// Target returns the latched producer counter the consumer is draining towards.
func (r *ReadSequencer) Target() uint64 {
	return r.target
}

// Buffered reports whether a beat is waiting in the output buffer.
func (r *ReadSequencer) Buffered() bool {
	return r.out.valid
}

// Reset returns the consumer domain to the empty state and publishes it.
// Any buffered or requested beat is dropped.
func (r *ReadSequencer) Reset() {
	r.counter = seq.New(r.width)
	r.target = 0
	r.active = false
	r.length = 0
	r.issued = 0
	r.offset = 0
	r.req = readRequest{}
	r.out = outputSlot{}
	r.obs.Reset(0)
	r.pub.Publish(r.counter.Value())
}
