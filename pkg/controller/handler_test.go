package controller_test

import (
	"strings"
	"testing"

	"github.com/downfa11-org/burstfifo/pkg/burst"
	"github.com/downfa11-org/burstfifo/pkg/controller"
	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, w int) (*controller.CommandHandler, *controller.ClientContext) {
	t.Helper()
	geo := types.Geometry{IDWidth: w, Segments: 1 << (w - 1), BeatsPerSegment: 4, BeatBytes: 1}
	buf, err := burst.NewBuffer(geo, burst.WithID("ctl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = buf.Close() })
	return controller.NewCommandHandler(buf), controller.NewClientContext()
}

func TestHandleCommand_PushDrain(t *testing.T) {
	ch, ctx := newHandler(t, 3)

	resp := ch.HandleCommand("BURST data=01,02,03", ctx)
	assert.Contains(t, resp, "burst of 3 beats committed")

	resp = ch.HandleCommand("PUSH data=09 last=true", ctx)
	assert.Contains(t, resp, "burst committed")

	resp = ch.HandleCommand("DRAIN", ctx)
	assert.Equal(t, "01\n02\n03 last\n09 last", resp)

	resp = ch.HandleCommand("DRAIN steps=5", ctx)
	assert.Equal(t, "(empty)", resp)

	resp = ch.HandleCommand("STATS", ctx)
	assert.Contains(t, resp, "bursts in=2 out=2")
	assert.Contains(t, resp, "stalls=0")
}

func TestHandleCommand_Backpressure(t *testing.T) {
	ch, ctx := newHandler(t, 2)

	assert.Contains(t, ch.HandleCommand("PUSH data=aa last=true", ctx), "committed")
	assert.Contains(t, ch.HandleCommand("PUSH data=bb last=true", ctx), "backpressured")
	assert.Contains(t, ch.HandleCommand("BURST data=cc,dd", ctx), "backpressured after 0 of 2 beats")

	status := ch.HandleCommand("STATUS", ctx)
	assert.Contains(t, status, "ready=false")
	assert.Contains(t, status, "steps=3")
	assert.Contains(t, status, "producer counter 01 (#1) published=01")
	assert.Contains(t, status, "lengths [1 0]")
}

func TestHandleCommand_SinkState(t *testing.T) {
	ch, ctx := newHandler(t, 3)
	ch.HandleCommand("PUSH data=7f last=true", ctx)

	assert.Equal(t, "sink ready=false", ch.HandleCommand("SINK ready=false", ctx))
	assert.Equal(t, "(no beat)", ch.HandleCommand("POP", ctx))
	assert.Equal(t, "(beat held, sink not ready)", ch.HandleCommand("POP", ctx))
	assert.Equal(t, "7f last", ch.HandleCommand("STEP ready=true", ctx))
}

func TestHandleCommand_Errors(t *testing.T) {
	ch, ctx := newHandler(t, 3)

	cases := map[string]string{
		"":                     "ERROR: empty command",
		"PUSH":                 "ERROR: missing data parameter",
		"PUSH data=zz":         "ERROR: data is not hex",
		"PUSH data=0102":       "ERROR: beat width",
		"BURST data=01,xx":     "ERROR: beat 1 is not hex",
		"BURST data=1,2,3,4,5": "ERROR: beat 0 is not hex",
		"DRAIN steps=-1":       "ERROR: steps must be a positive integer",
		"SINK":                 "ERROR: missing ready parameter",
		"FROB":                 "ERROR: unknown command",
	}
	for cmd, want := range cases {
		resp := ch.HandleCommand(cmd, ctx)
		assert.True(t, strings.HasPrefix(resp, want), "%q -> %q", cmd, resp)
	}

	resp := ch.HandleCommand("BURST data=01,02,03,04,05", ctx)
	assert.Contains(t, resp, "ERROR: beat 3")
	assert.Contains(t, resp, "burst exceeds segment capacity")
}

func TestHandleCommand_Reset(t *testing.T) {
	ch, ctx := newHandler(t, 3)
	ch.HandleCommand("BURST data=01,02", ctx)
	ch.HandleCommand("POP", ctx)

	assert.Contains(t, ch.HandleCommand("RESET", ctx), "reset")
	assert.Equal(t, 0, ctx.ProducerSteps)
	assert.Equal(t, "(empty)", ch.HandleCommand("DRAIN", ctx))
	assert.Contains(t, ch.HandleCommand("HELP", ctx), "Available commands")
}
