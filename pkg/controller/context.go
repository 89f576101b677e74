package controller

// ClientContext holds per-session state of an interactive client.
type ClientContext struct {
	SinkReady     bool
	ProducerSteps int
	ConsumerSteps int
}

func NewClientContext() *ClientContext {
	return &ClientContext{SinkReady: true}
}

func (ctx *ClientContext) SetSinkReady(ready bool) {
	ctx.SinkReady = ready
}
