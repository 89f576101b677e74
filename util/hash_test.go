package util_test

import (
	"testing"

	"github.com/downfa11-org/burstfifo/util"
)

func TestHashBeatsDeterministic(t *testing.T) {
	burst := [][]byte{{1, 0}, {2, 0}, {3, 0}}

	if util.HashBeats(burst) != util.HashBeats(burst) {
		t.Errorf("HashBeats should be deterministic")
	}
}

func TestHashBeatsOrderSensitive(t *testing.T) {
	a := [][]byte{{1}, {2}}
	b := [][]byte{{2}, {1}}

	if util.HashBeats(a) == util.HashBeats(b) {
		t.Errorf("HashBeats should differ for reordered beats")
	}
}

func TestHashBeatsBoundarySensitive(t *testing.T) {
	a := [][]byte{{1, 2}, {3}}
	b := [][]byte{{1}, {2, 3}}

	if util.HashBeats(a) == util.HashBeats(b) {
		t.Errorf("HashBeats should differ when beat boundaries move")
	}
}
