package cdc_test

import (
	"sync"
	"testing"

	"github.com/downfa11-org/burstfifo/pkg/cdc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveWithoutStagesIsImmediate(t *testing.T) {
	pub, obs := cdc.NewLink(0)
	pub.Publish(7)
	assert.Equal(t, uint64(7), obs.Observe())
	assert.Equal(t, uint64(7), obs.Latest())
}

func TestObserveLatencyEqualsStages(t *testing.T) {
	for stages := 1; stages <= 4; stages++ {
		pub, obs := cdc.NewLink(stages)
		pub.Publish(5)

		steps := 0
		for obs.Observe() != 5 {
			steps++
			require.Less(t, steps, 10, "stages=%d never settled", stages)
		}
		assert.Equal(t, stages, steps, "stages=%d", stages)
	}
}

func TestObserverReset(t *testing.T) {
	pub, obs := cdc.NewLink(2)
	pub.Publish(3)
	obs.Observe()
	obs.Observe()
	require.Equal(t, uint64(3), obs.Latest())

	pub.Publish(0)
	obs.Reset(0)
	assert.Equal(t, uint64(0), obs.Latest())
	assert.Equal(t, uint64(0), obs.Observe())
	assert.Equal(t, 2, obs.Stages())
}

func TestNegativeStagesClamp(t *testing.T) {
	pub, obs := cdc.NewLink(-3)
	pub.Publish(1)
	assert.Equal(t, uint64(1), obs.Observe())
}

// The observer must only ever see values the publisher held, in order.
func TestConcurrentObserveIsMonotonic(t *testing.T) {
	const last = 20000
	pub, obs := cdc.NewLink(cdc.DefaultStages)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := uint64(1); v <= last; v++ {
			pub.Publish(v)
		}
	}()

	prev := uint64(0)
	for prev != last {
		v := obs.Observe()
		if v < prev {
			t.Fatalf("observed %d after %d", v, prev)
		}
		if v > last {
			t.Fatalf("observed value %d never published", v)
		}
		prev = v
	}
	wg.Wait()
}
