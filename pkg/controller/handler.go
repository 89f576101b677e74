package controller

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/downfa11-org/burstfifo/pkg/burst"
	"github.com/downfa11-org/burstfifo/pkg/seq"
	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
)

const defaultDrainSteps = 64

// CommandHandler drives both domains of one buffer from text commands, one
// step per command unless stated otherwise.
type CommandHandler struct {
	Buffer *burst.Buffer
}

func NewCommandHandler(buf *burst.Buffer) *CommandHandler {
	return &CommandHandler{Buffer: buf}
}

func (ch *CommandHandler) logCommandResult(cmd, response string) {
	status := "SUCCESS"
	if strings.HasPrefix(response, "ERROR:") {
		status = "FAILURE"
	}
	cleanResponse := strings.ReplaceAll(response, "\n", " ")
	util.Debug("status: '%s', command: '%s' to Response '%s'", status, cmd, cleanResponse)
}

// HandleCommand executes one command line and returns the response text.
func (ch *CommandHandler) HandleCommand(rawCmd string, ctx *ClientContext) string {
	cmd := strings.TrimSpace(rawCmd)
	if cmd == "" {
		resp := "ERROR: empty command"
		ch.logCommandResult(rawCmd, resp)
		return resp
	}

	name, rest, _ := strings.Cut(cmd, " ")
	args := parseKeyValueArgs(rest)

	var resp string
	switch strings.ToUpper(name) {
	case "HELP":
		resp = `Available commands:
PUSH data=<hex> [last=<bool>] - offer one beat (one producer step)
BURST data=<hex>,<hex>,... - offer a whole burst, stopping at the first stall
POP - one consumer step, using the session sink state
STEP [ready=<bool>] - one consumer step with an explicit sink state
DRAIN [steps=<N>] - step the consumer until idle or N steps (default 64)
SINK ready=<bool> - set the session sink state
STATUS - show counters and occupancy
STATS - show totals
RESET - reset both domains
HELP - show this help
EXIT - exit`

	case "PUSH":
		resp = ch.handlePush(args, ctx)
	case "BURST":
		resp = ch.handleBurst(args, ctx)
	case "POP":
		resp = ch.handleStep(ctx.SinkReady, ctx)
	case "STEP":
		ready := ctx.SinkReady
		if v, ok := args["ready"]; ok {
			ready = util.ParseBool(v, ready)
		}
		resp = ch.handleStep(ready, ctx)
	case "DRAIN":
		resp = ch.handleDrain(args, ctx)
	case "SINK":
		v, ok := args["ready"]
		if !ok {
			resp = "ERROR: missing ready parameter. Expected: SINK ready=<bool>"
			break
		}
		ctx.SetSinkReady(util.ParseBool(v, ctx.SinkReady))
		resp = fmt.Sprintf("sink ready=%t", ctx.SinkReady)
	case "STATUS":
		resp = ch.handleStatus(ctx)
	case "STATS":
		s := ch.Buffer.Stats()
		resp = fmt.Sprintf("beats in=%d out=%d | bursts in=%d out=%d | stalls=%d | in flight=%d",
			s.BeatsIn, s.BeatsOut, s.BurstsIn, s.BurstsOut, s.Stalls, s.InFlight)
	case "RESET":
		ch.Buffer.Reset()
		ctx.ProducerSteps, ctx.ConsumerSteps = 0, 0
		resp = "🔄 buffer reset"
	default:
		resp = fmt.Sprintf("ERROR: unknown command %q, type HELP", name)
	}

	ch.logCommandResult(rawCmd, resp)
	return resp
}

func (ch *CommandHandler) push(data []byte, last bool, ctx *ClientContext) (bool, error) {
	ctx.ProducerSteps++
	return ch.Buffer.Writer().Push(types.Beat{Data: data, Last: last})
}

func (ch *CommandHandler) handlePush(args map[string]string, ctx *ClientContext) string {
	raw, ok := args["data"]
	if !ok {
		return "ERROR: missing data parameter. Expected: PUSH data=<hex> [last=<bool>]"
	}
	data, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Sprintf("ERROR: data is not hex: %v", err)
	}
	last := util.ParseBool(args["last"], false)

	accepted, err := ch.push(data, last, ctx)
	switch {
	case err != nil:
		return "ERROR: " + err.Error()
	case !accepted:
		return "⏸️ backpressured, retry later"
	case last:
		return fmt.Sprintf("✅ burst committed, producer counter %s", ch.Buffer.Writer().Counter())
	default:
		return "✅ beat accepted"
	}
}

func (ch *CommandHandler) handleBurst(args map[string]string, ctx *ClientContext) string {
	raw, ok := args["data"]
	if !ok || raw == "" {
		return "ERROR: missing data parameter. Expected: BURST data=<hex>,<hex>,..."
	}
	parts := strings.Split(raw, ",")
	beats := make([][]byte, len(parts))
	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil {
			return fmt.Sprintf("ERROR: beat %d is not hex: %v", i, err)
		}
		beats[i] = b
	}

	for i, b := range beats {
		accepted, err := ch.push(b, i == len(beats)-1, ctx)
		if err != nil {
			return fmt.Sprintf("ERROR: beat %d: %v", i, err)
		}
		if !accepted {
			return fmt.Sprintf("⏸️ backpressured after %d of %d beats", i, len(beats))
		}
	}
	return fmt.Sprintf("✅ burst of %d beats committed, producer counter %s", len(beats), ch.Buffer.Writer().Counter())
}

func (ch *CommandHandler) handleStep(ready bool, ctx *ClientContext) string {
	ctx.ConsumerSteps++
	b, ok := ch.Buffer.Reader().Step(ready)
	if !ok {
		if ch.Buffer.Reader().Buffered() {
			return "(beat held, sink not ready)"
		}
		return "(no beat)"
	}
	return formatBeat(b)
}

func (ch *CommandHandler) handleDrain(args map[string]string, ctx *ClientContext) string {
	steps := defaultDrainSteps
	if v, ok := args["steps"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return "ERROR: steps must be a positive integer"
		}
		steps = n
	}

	r := ch.Buffer.Reader()
	var out []string
	for i := 0; i < steps; i++ {
		ctx.ConsumerSteps++
		if b, ok := r.Step(true); ok {
			out = append(out, formatBeat(b))
			continue
		}
		if r.Available() == 0 && !r.Buffered() && r.CurrentBurstLength() == 0 && !ch.producerAhead() {
			break
		}
	}
	if len(out) == 0 {
		return "(empty)"
	}
	return strings.Join(out, "\n")
}

// producerAhead reports whether the producer has published bursts the
// consumer has not seen through its synchronizer yet.
func (ch *CommandHandler) producerAhead() bool {
	return ch.Buffer.Writer().Counter().Value() != ch.Buffer.Reader().Counter().Value()
}

func (ch *CommandHandler) handleStatus(ctx *ClientContext) string {
	w, r := ch.Buffer.Writer(), ch.Buffer.Reader()
	prodPub, consPub := ch.Buffer.Published()
	width := uint(ch.Buffer.Geometry().IDWidth)

	var sb strings.Builder
	fmt.Fprintf(&sb, "buffer %s (%s, sync stages %d)\n", ch.Buffer.ID(), ch.Buffer.Geometry(), ch.Buffer.SyncStages())
	fmt.Fprintf(&sb, "producer counter %s (#%d) published=%s in burst=%t ready=%t steps=%d\n",
		w.Counter(), w.Counter().Binary(), seq.FromValue(width, prodPub), w.InBurst(), w.Ready(), ctx.ProducerSteps)
	fmt.Fprintf(&sb, "consumer counter %s (#%d) published=%s target=%s available=%d current length=%d buffered=%t steps=%d\n",
		r.Counter(), r.Counter().Binary(), seq.FromValue(width, consPub), seq.FromValue(width, r.Target()),
		r.Available(), r.CurrentBurstLength(), r.Buffered(), ctx.ConsumerSteps)

	lengths := ch.Buffer.Lengths()
	entries := make([]string, lengths.Len())
	for i := range entries {
		entries[i] = strconv.Itoa(lengths.Fetch(i))
	}
	fmt.Fprintf(&sb, "lengths [%s]", strings.Join(entries, " "))
	return sb.String()
}

func formatBeat(b types.Beat) string {
	if b.Last {
		return hex.EncodeToString(b.Data) + " last"
	}
	return hex.EncodeToString(b.Data)
}

// parseKeyValueArgs splits "k=v k2=v2" into a map. Tokens without '=' are ignored.
func parseKeyValueArgs(argsStr string) map[string]string {
	result := make(map[string]string)
	for _, part := range strings.Fields(argsStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			result[kv[0]] = kv[1]
		}
	}
	return result
}

