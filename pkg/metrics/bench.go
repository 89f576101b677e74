package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BenchThroughput = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "burst_bench_beats_per_second",
		Help: "Beat throughput of the last bench run",
	}, []string{"buffer"})

	BenchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "burst_bench_duration_seconds",
		Help:    "Wall time of bench runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"buffer"})

	BenchMismatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "burst_bench_mismatches_total",
		Help: "Bursts whose drained contents differed from what was pushed",
	}, []string{"buffer"})
)

// PushBenchResult records one finished bench run.
func PushBenchResult(buffer string, beats uint64, elapsedSeconds float64, mismatches int) {
	BenchDuration.WithLabelValues(buffer).Observe(elapsedSeconds)
	if elapsedSeconds > 0 {
		BenchThroughput.WithLabelValues(buffer).Set(float64(beats) / elapsedSeconds)
	}
	if mismatches > 0 {
		BenchMismatches.WithLabelValues(buffer).Add(float64(mismatches))
	}
}
