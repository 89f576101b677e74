package burst

import "sync/atomic"

// Recorder receives data-path events. The producer and the consumer call it
// from their own goroutines, so implementations must be safe for concurrent use.
type Recorder interface {
	BeatAccepted()
	BurstCommitted(beats int)
	Backpressured()
	BeatDelivered()
	BurstDrained(beats int)
	Reset()
}

type nopRecorder struct{}

func (nopRecorder) BeatAccepted()      {}
func (nopRecorder) BurstCommitted(int) {}
func (nopRecorder) Backpressured()     {}
func (nopRecorder) BeatDelivered()     {}
func (nopRecorder) BurstDrained(int)   {}
func (nopRecorder) Reset()             {}

// Stats is a point-in-time copy of a buffer's counters.
type Stats struct {
	BeatsIn   uint64
	BurstsIn  uint64
	Stalls    uint64 // backpressure episodes
	BeatsOut  uint64
	BurstsOut uint64
	InFlight  int64 // committed, not yet drained
}

type counters struct {
	beatsIn   atomic.Uint64
	burstsIn  atomic.Uint64
	stalls    atomic.Uint64
	beatsOut  atomic.Uint64
	burstsOut atomic.Uint64
	inFlight  atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		BeatsIn:   c.beatsIn.Load(),
		BurstsIn:  c.burstsIn.Load(),
		Stalls:    c.stalls.Load(),
		BeatsOut:  c.beatsOut.Load(),
		BurstsOut: c.burstsOut.Load(),
		InFlight:  c.inFlight.Load(),
	}
}
