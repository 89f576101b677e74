package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/downfa11-org/burstfifo/pkg/burst"
	"github.com/downfa11-org/burstfifo/pkg/config"
	"github.com/downfa11-org/burstfifo/pkg/metrics"
	"github.com/downfa11-org/burstfifo/util"
)

type BenchmarkRunner struct {
	Buffer        *burst.Buffer
	Bursts        int
	Seed          int64
	ProducerPace  time.Duration
	ConsumerPace  time.Duration
	SinkStallRate float64
}

type Result struct {
	Bursts     int
	Beats      uint64
	Mismatches int
	Stalls     uint64
	Duration   time.Duration
	Throughput float64 // beats/sec
}

func NewBenchmarkRunner(buf *burst.Buffer, cfg *config.Config) *BenchmarkRunner {
	return &BenchmarkRunner{
		Buffer:        buf,
		Bursts:        cfg.BenchBursts,
		Seed:          cfg.BenchSeed,
		ProducerPace:  cfg.BenchProducerPace,
		ConsumerPace:  cfg.BenchConsumerPace,
		SinkStallRate: cfg.BenchSinkStallRate,
	}
}

// Run pushes Bursts seeded bursts from one goroutine and drains them from
// another, verifying every burst. It returns early with ctx's error.
func (b *BenchmarkRunner) Run(ctx context.Context) (Result, error) {
	geo := b.Buffer.Geometry()
	p := &producer{
		w:      b.Buffer.Writer(),
		src:    newBurstSource(b.Seed, geo),
		bursts: b.Bursts,
		pace:   b.ProducerPace,
	}
	c := &consumer{
		r:         b.Buffer.Reader(),
		src:       newBurstSource(b.Seed, geo),
		bursts:    b.Bursts,
		pace:      b.ConsumerPace,
		stallRate: b.SinkStallRate,
		sinkRng:   rand.New(rand.NewSource(b.Seed + 1)),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	var prodErr, consErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		if prodErr = p.run(ctx); prodErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		if consErr = c.run(ctx); consErr != nil {
			cancel()
		}
	}()
	wg.Wait()

	duration := time.Since(start)
	res := Result{
		Bursts:     b.Bursts,
		Beats:      c.beats,
		Mismatches: c.mismatches,
		Stalls:     b.Buffer.Stats().Stalls,
		Duration:   duration,
	}
	if duration > 0 {
		res.Throughput = float64(c.beats) / duration.Seconds()
	}

	if prodErr != nil {
		return res, fmt.Errorf("producer: %w", prodErr)
	}
	if consErr != nil {
		return res, fmt.Errorf("consumer: %w", consErr)
	}
	metrics.PushBenchResult(b.Buffer.ID(), res.Beats, duration.Seconds(), res.Mismatches)
	util.Info("bench on buffer %s finished: %d bursts, %d mismatches", b.Buffer.ID(), res.Bursts, res.Mismatches)
	return res, nil
}

func (r Result) Print(geoDesc string) {
	fmt.Printf("\n🧪 BENCHMARK RESULT [burst] 🧪\n")
	fmt.Printf("-------------------------------------\n")
	fmt.Printf(" Geometry      : %s\n", geoDesc)
	fmt.Printf(" Bursts        : %d\n", r.Bursts)
	fmt.Printf(" Beats         : %d\n", r.Beats)
	fmt.Printf(" Stalls        : %d\n", r.Stalls)
	fmt.Printf(" Mismatches    : %d\n", r.Mismatches)
	fmt.Printf(" Duration      : %v\n", r.Duration)
	fmt.Printf(" Throughput    : %.2f beats/sec\n", r.Throughput)
	fmt.Printf("-------------------------------------\n")
}
