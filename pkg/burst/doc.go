// Package burst implements a burst-granularity handoff buffer between two
// independently paced domains.
//
// The producer domain owns a WriteSequencer, the consumer domain owns a
// ReadSequencer. They share a SegmentedStore and a LengthTable, and learn
// about each other only through two published sequence counters:
//
//	producer beats -> WriteSequencer -> store[Index(p), offset]
//	                        |  p (published on commit)
//	                        v
//	                  ReadSequencer -> store[Index(c), offset] -> beats
//	                        |  c (published on drain)
//	                        v
//	                  WriteSequencer backpressure
//
// Each segment holds one burst of at most L beats. The producer stalls once
// 2^(W-1)-1 committed bursts are waiting, so it never writes a segment the
// consumer has not finished reading. Neither side ever blocks.
package burst
