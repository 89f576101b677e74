package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder feeds the data-path events of one buffer into the collectors,
// labeled with the buffer id. It satisfies burst.Recorder.
type Recorder struct {
	beatsIn   prometheus.Counter
	burstsIn  prometheus.Counter
	stalls    prometheus.Counter
	beatsOut  prometheus.Counter
	burstsOut prometheus.Counter
	inFlight  prometheus.Gauge
	burstLen  prometheus.Observer
	resets    prometheus.Counter
}

func NewRecorder(buffer string) *Recorder {
	return &Recorder{
		beatsIn:   BeatsAccepted.WithLabelValues(buffer),
		burstsIn:  BurstsCommitted.WithLabelValues(buffer),
		stalls:    BackpressureEvents.WithLabelValues(buffer),
		beatsOut:  BeatsDelivered.WithLabelValues(buffer),
		burstsOut: BurstsDrained.WithLabelValues(buffer),
		inFlight:  BurstsInFlight.WithLabelValues(buffer),
		burstLen:  BurstLength.WithLabelValues(buffer),
		resets:    BufferResets.WithLabelValues(buffer),
	}
}

func (r *Recorder) BeatAccepted() { r.beatsIn.Inc() }

func (r *Recorder) BurstCommitted(beats int) {
	r.burstsIn.Inc()
	r.inFlight.Inc()
	r.burstLen.Observe(float64(beats))
}

func (r *Recorder) Backpressured() { r.stalls.Inc() }

func (r *Recorder) BeatDelivered() { r.beatsOut.Inc() }

func (r *Recorder) BurstDrained(int) {
	r.burstsOut.Inc()
	r.inFlight.Dec()
}

func (r *Recorder) Reset() {
	r.inFlight.Set(0)
	r.resets.Inc()
}
