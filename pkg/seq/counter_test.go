package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayRoundTrip(t *testing.T) {
	for b := uint64(0); b < 1<<12; b++ {
		g := ToGray(b)
		if FromGray(g) != b {
			t.Fatalf("FromGray(ToGray(%d)) = %d", b, FromGray(g))
		}
		if b > 0 {
			flips := g ^ ToGray(b-1)
			if flips&(flips-1) != 0 {
				t.Fatalf("gray step %d->%d flips more than one bit", b-1, b)
			}
		}
	}
}

func TestNextWrapsAfterFullLap(t *testing.T) {
	for w := uint(1); w <= 8; w++ {
		c := New(w)
		for i := 0; i < 1<<w; i++ {
			c = c.Next()
		}
		assert.Equal(t, uint64(0), c.Value(), "width %d", w)
	}
}

// One lap of 2^(W-1) steps must hit every segment exactly once, from any start.
func TestReduceVisitsEverySegmentOncePerLap(t *testing.T) {
	for w := uint(1); w <= 8; w++ {
		segments := 1 << (w - 1)
		start := New(w)
		for s := 0; s < 1<<w; s++ {
			seen := make(map[int]bool, segments)
			c := start
			for i := 0; i < segments; i++ {
				idx := c.Index()
				require.True(t, idx >= 0 && idx < segments, "width %d index %d", w, idx)
				require.False(t, seen[idx], "width %d start %s revisits %d", w, start, idx)
				seen[idx] = true
				c = c.Next()
			}
			assert.Equal(t, start.Index(), c.Index(), "width %d: index must repeat after a lap", w)
			start = start.Next()
		}
	}
}

func TestReduceW3Sequence(t *testing.T) {
	want := []int{0, 1, 3, 2, 0, 1, 3, 2}
	c := New(3)
	for i, idx := range want {
		assert.Equal(t, idx, c.Index(), "step %d", i)
		c = c.Next()
	}
}

// HasRoom must agree with plain binary arithmetic: the producer may keep
// writing while fewer than max(2^(W-1)-1, 1) committed bursts are undrained.
func TestHasRoomMatchesBinaryDistance(t *testing.T) {
	for w := uint(1); w <= 8; w++ {
		limit := 1<<(w-1) - 1
		if limit < 1 {
			limit = 1
		}
		for c := uint64(0); c < 1<<w; c++ {
			for inflight := 0; inflight <= limit; inflight++ {
				p := FromValue(w, ToGray(c)).binaryAdd(uint64(inflight))
				got := HasRoom(p.Next().Value(), ToGray(c), w)
				assert.Equal(t, inflight < limit, got, "W=%d consumer=%d inflight=%d", w, c, inflight)
			}
		}
	}
}

func TestHasRoomW3Boundary(t *testing.T) {
	consumer := New(3)
	p := New(3)
	for i := 0; i < 3; i++ {
		require.True(t, HasRoom(p.Next().Value(), consumer.Value(), 3), "burst %d", i)
		p = p.Next()
	}
	assert.False(t, HasRoom(p.Next().Value(), consumer.Value(), 3), "fourth burst must stall")

	consumer = consumer.Next()
	assert.True(t, HasRoom(p.Next().Value(), consumer.Value(), 3), "drain frees a segment")
}

func TestDistance(t *testing.T) {
	a := New(4)
	b := a
	for i := 0; i < 5; i++ {
		a = a.Next()
	}
	assert.Equal(t, 5, Distance(a.Value(), b.Value(), 4))
	assert.Equal(t, 11, Distance(b.Value(), a.Value(), 4))
}

func TestNewPanicsOnBadWidth(t *testing.T) {
	assert.Panics(t, func() { New(0) })
	assert.Panics(t, func() { New(64) })
}

func (c Counter) binaryAdd(n uint64) Counter {
	c.gray = ToGray((FromGray(c.gray) + n) & c.mask())
	return c
}
