package util

import "hash/fnv"

// HashBeats returns a 64-bit FNV-1a digest over the beats of one burst.
// Beat boundaries are folded in so [ab][c] and [a][bc] differ.
func HashBeats(beats [][]byte) uint64 {
	h := fnv.New64a()
	var sep = []byte{0xff}
	for _, b := range beats {
		h.Write(b)
		h.Write(sep)
	}
	return h.Sum64()
}
