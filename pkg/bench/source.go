package bench

import (
	"math/rand"

	"github.com/downfa11-org/burstfifo/pkg/types"
)

// burstSource yields a deterministic sequence of bursts for a seed, so the
// consumer side can rebuild what the producer pushed without sharing memory.
type burstSource struct {
	rng *rand.Rand
	geo types.Geometry
}

func newBurstSource(seed int64, geo types.Geometry) *burstSource {
	return &burstSource{rng: rand.New(rand.NewSource(seed)), geo: geo}
}

// next returns a burst of 1..L beats of random payload.
func (s *burstSource) next() [][]byte {
	n := 1 + s.rng.Intn(s.geo.BeatsPerSegment)
	beats := make([][]byte, n)
	for i := range beats {
		b := make([]byte, s.geo.BeatBytes)
		s.rng.Read(b)
		beats[i] = b
	}
	return beats
}
