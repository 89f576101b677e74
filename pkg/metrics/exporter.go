package metrics

import (
	"fmt"
	"net/http"

	"github.com/downfa11-org/burstfifo/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	prometheus.MustRegister(BeatsAccepted, BurstsCommitted, BackpressureEvents, BeatsDelivered, BurstsDrained, BurstsInFlight, BurstLength, BufferResets)
	prometheus.MustRegister(BenchThroughput, BenchDuration, BenchMismatches)
}

// StartMetricsServer serves /metrics on port in the background.
func StartMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	go func() {
		util.Info("[METRICS] Prometheus exporter listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Error("[METRICS] Failed to start metrics server: %v", err)
		}
	}()
	return srv
}
