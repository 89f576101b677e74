package burst_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/downfa11-org/burstfifo/pkg/burst"
	"github.com/downfa11-org/burstfifo/pkg/types"
)

func benchmarkLockstep(b *testing.B, beatsPerBurst int) {
	buf, err := burst.NewBuffer(geometry(4, 16, 8))
	if err != nil {
		b.Fatal(err)
	}
	data := make([]byte, 8)
	w, r := buf.Writer(), buf.Reader()

	b.SetBytes(int64(beatsPerBurst * 8))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < beatsPerBurst; j++ {
			if _, err := w.Push(types.Beat{Data: data, Last: j == beatsPerBurst-1}); err != nil {
				b.Fatal(err)
			}
		}
		for got := 0; got < beatsPerBurst; {
			if _, ok := r.Pop(); ok {
				got++
			}
		}
	}
}

func BenchmarkLockstepSingleBeat(b *testing.B) { benchmarkLockstep(b, 1) }
func BenchmarkLockstepFullBurst(b *testing.B)  { benchmarkLockstep(b, 16) }

func BenchmarkTwoGoroutines(b *testing.B) {
	buf, err := burst.NewBuffer(geometry(5, 8, 8), burst.WithSyncStages(2))
	if err != nil {
		b.Fatal(err)
	}
	data := make([]byte, 8)

	b.SetBytes(8 * 8)
	b.ResetTimer()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := buf.Writer()
		for i := 0; i < b.N; i++ {
			for j := 0; j < 8; j++ {
				for {
					ok, _ := w.Push(types.Beat{Data: data, Last: j == 7})
					if ok {
						break
					}
					runtime.Gosched()
				}
			}
		}
	}()

	r := buf.Reader()
	for got := 0; got < b.N*8; {
		if _, ok := r.Pop(); ok {
			got++
		} else {
			runtime.Gosched()
		}
	}
	wg.Wait()
}
