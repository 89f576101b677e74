package bench

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"github.com/downfa11-org/burstfifo/pkg/burst"
	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
)

// producer drives the write side of a buffer from its own goroutine.
type producer struct {
	w      *burst.WriteSequencer
	src    *burstSource
	bursts int
	pace   time.Duration
}

func (p *producer) run(ctx context.Context) error {
	for i := 0; i < p.bursts; i++ {
		beats := p.src.next()
		for j, data := range beats {
			b := types.Beat{Data: data, Last: j == len(beats)-1}
			for {
				ok, err := p.w.Push(b)
				if err != nil {
					return err
				}
				if ok {
					break
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				runtime.Gosched()
			}
		}
		if p.pace > 0 {
			time.Sleep(p.pace)
		}
	}
	util.Debug("producer pushed %d bursts", p.bursts)
	return nil
}

// consumer drains the read side and checks every burst against the
// regenerated source.
type consumer struct {
	r         *burst.ReadSequencer
	src       *burstSource
	bursts    int
	pace      time.Duration
	stallRate float64
	sinkRng   *rand.Rand

	beats      uint64
	mismatches int
}

func (c *consumer) run(ctx context.Context) error {
	var got [][]byte
	for done := 0; done < c.bursts; {
		ready := c.stallRate <= 0 || c.sinkRng.Float64() >= c.stallRate
		b, ok := c.r.Step(ready)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
			continue
		}

		c.beats++
		got = append(got, b.Data)
		if b.Last {
			want := c.src.next()
			if len(want) != len(got) || util.HashBeats(want) != util.HashBeats(got) {
				c.mismatches++
				util.Warn("burst %d mismatch: got %d beats, want %d", done, len(got), len(want))
			}
			got = got[:0:0]
			done++
		}
		if c.pace > 0 {
			time.Sleep(c.pace)
		}
	}
	return nil
}
