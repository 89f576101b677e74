// Package seq implements the burst sequence counters shared (by value) between
// the producer and consumer domains.
//
// A counter is W bits wide and stored gray-coded, so consecutive values differ
// in exactly one bit. Its reduced form XOR-folds the top two bits into a
// (W-1)-bit gray index that visits every one of the 2^(W-1) segments once per
// lap. The extra top bit of the full counter only tells a full lap apart from
// an empty one; it is never used for addressing.
package seq

import "fmt"

// Counter is an immutable W-bit gray-coded sequence value.
type Counter struct {
	width uint
	gray  uint64
}

// New returns the zero counter of the given width. It panics on a width
// outside [1,63].
func New(width uint) Counter {
	if width < 1 || width > 63 {
		panic(fmt.Sprintf("seq: counter width %d out of range", width))
	}
	return Counter{width: width}
}

// FromValue rebuilds a counter from a published gray value.
func FromValue(width uint, gray uint64) Counter {
	c := New(width)
	c.gray = gray & c.mask()
	return c
}

func (c Counter) mask() uint64 { return 1<<c.width - 1 }

// Width returns W.
func (c Counter) Width() uint { return c.width }

// Value returns the gray-coded counter, the form that is published across domains.
func (c Counter) Value() uint64 { return c.gray }

// Binary returns the position of the counter in counting order.
func (c Counter) Binary() uint64 { return FromGray(c.gray) }

// Next returns the counter advanced by one, wrapping at 2^W.
func (c Counter) Next() Counter {
	c.gray = ToGray((FromGray(c.gray) + 1) & c.mask())
	return c
}

// Index returns the reduced counter, a valid segment index in [0, 2^(W-1)).
func (c Counter) Index() int {
	return Reduce(c.gray, c.width)
}

func (c Counter) String() string {
	return fmt.Sprintf("%0*b", c.width, c.gray)
}

func ToGray(b uint64) uint64 { return b ^ b>>1 }

func FromGray(g uint64) uint64 {
	for shift := uint(1); shift < 64; shift <<= 1 {
		g ^= g >> shift
	}
	return g
}

// Reduce folds a W-bit gray value into its (W-1)-bit segment index:
// {g[W-1]^g[W-2], g[W-3:0]}. W=1 has a single segment.
func Reduce(gray uint64, width uint) int {
	if width < 2 {
		return 0
	}
	top := (gray>>(width-1) ^ gray>>(width-2)) & 1
	low := gray & (1<<(width-2) - 1)
	return int(top<<(width-2) | low)
}

// HasRoom is the producer's backpressure test. next is the producer counter
// after the burst being written commits; observed is the last consumer counter
// seen by the producer. Room remains when the top bits agree, or the second-top
// bits agree, or the remaining low bits differ. With W=1 there is no second-top
// bit and room remains while the two values differ.
func HasRoom(next, observed uint64, width uint) bool {
	if width < 2 {
		return (next^observed)&1 != 0
	}
	diff := next ^ observed
	topAgree := diff>>(width-1)&1 == 0
	secondAgree := diff>>(width-2)&1 == 0
	lowDiffer := diff&(1<<(width-2)-1) != 0
	return topAgree || secondAgree || lowDiffer
}

// Distance returns how many steps ahead is of behind, modulo 2^W. Both are
// gray values.
func Distance(ahead, behind uint64, width uint) int {
	m := uint64(1)<<width - 1
	return int((FromGray(ahead) - FromGray(behind)) & m)
}
