package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BeatsAccepted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "burst_beats_accepted_total",
		Help: "Total number of beats accepted by the producer side",
	}, []string{"buffer"})

	BurstsCommitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "burst_bursts_committed_total",
		Help: "Total number of bursts committed by the producer side",
	}, []string{"buffer"})

	BackpressureEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "burst_backpressure_total",
		Help: "Number of times the producer found no free segment",
	}, []string{"buffer"})

	BeatsDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "burst_beats_delivered_total",
		Help: "Total number of beats handed to the consumer sink",
	}, []string{"buffer"})

	BurstsDrained = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "burst_bursts_drained_total",
		Help: "Total number of bursts fully drained by the consumer side",
	}, []string{"buffer"})

	BurstsInFlight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "burst_in_flight",
		Help: "Committed bursts not yet drained",
	}, []string{"buffer"})

	BurstLength = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "burst_length_beats",
		Help:    "Histogram of committed burst lengths in beats",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"buffer"})

	BufferResets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "burst_resets_total",
		Help: "Number of full buffer resets",
	}, []string{"buffer"})
)
