// Package cdc carries one counter value from a source domain to a destination
// domain. It is the only channel through which the producer and the consumer
// learn about each other's progress.
package cdc

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// DefaultStages mirrors a two-flop synchronizer between unrelated timelines.
const DefaultStages = 2

type cell struct {
	_ cpu.CacheLinePad
	v atomic.Uint64
	_ cpu.CacheLinePad
}

// Publisher is owned by the source domain.
type Publisher struct {
	c *cell
}

// Observer is owned by the destination domain. It is not safe for use by
// more than one goroutine.
type Observer struct {
	c      *cell
	stages []uint64
	last   uint64
}

// NewLink returns the two ends of a publication channel. A published value
// is returned by the (stages+1)-th call to Observe that follows Publish;
// stages=0 makes it visible on the next call.
func NewLink(stages int) (*Publisher, *Observer) {
	if stages < 0 {
		stages = 0
	}
	c := &cell{}
	return &Publisher{c: c}, &Observer{c: c, stages: make([]uint64, stages)}
}

// Publish makes v the current value. Everything the source wrote before
// Publish is visible to a destination that observes v.
func (p *Publisher) Publish(v uint64) {
	p.c.v.Store(v)
}

// Value returns the last published value, for the source domain's own use.
func (p *Publisher) Value() uint64 {
	return p.c.v.Load()
}

// Observe advances the destination by one step and returns the settled value.
func (o *Observer) Observe() uint64 {
	sample := o.c.v.Load()
	n := len(o.stages)
	if n == 0 {
		o.last = sample
		return sample
	}
	o.last = o.stages[n-1]
	copy(o.stages[1:], o.stages[:n-1])
	o.stages[0] = sample
	return o.last
}

// Latest returns the value returned by the most recent Observe.
func (o *Observer) Latest() uint64 {
	return o.last
}

// Stages returns the synchronizer depth.
func (o *Observer) Stages() int {
	return len(o.stages)
}

// Reset loads v into every stage, as a destination-domain reset does.
func (o *Observer) Reset(v uint64) {
	for i := range o.stages {
		o.stages[i] = v
	}
	o.last = v
}
