package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/downfa11-org/burstfifo/pkg/bench"
	"github.com/downfa11-org/burstfifo/pkg/burst"
	"github.com/downfa11-org/burstfifo/pkg/config"
	"github.com/downfa11-org/burstfifo/pkg/metrics"
	"github.com/downfa11-org/burstfifo/util"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		util.Fatal("❌ Failed to load config: %v", err)
	}

	if cfg.EnableExporter {
		metrics.StartMetricsServer(cfg.ExporterPort)
	}

	id := uuid.NewString()
	opts := []burst.Option{burst.WithID(id)}
	if cfg.EnableExporter {
		opts = append(opts, burst.WithRecorder(metrics.NewRecorder(id)))
	}
	buf, err := burst.NewFromConfig(cfg, opts...)
	if err != nil {
		util.Fatal("❌ Failed to build buffer: %v", err)
	}
	defer buf.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := bench.NewBenchmarkRunner(buf, cfg)
	res, err := runner.Run(ctx)
	res.Print(buf.Geometry().String())
	if err != nil {
		util.Error("❌ Bench stopped: %v", err)
		return
	}
	if cfg.BenchCSVPath != "" {
		if err := res.AppendCSV(cfg.BenchCSVPath, buf.ID(), buf.Geometry().String()); err != nil {
			util.Error("⚠️ Failed to write %s: %v", cfg.BenchCSVPath, err)
		}
	}
	if res.Mismatches > 0 {
		util.Warn("⚠️ %d bursts did not match", res.Mismatches)
	}
}
