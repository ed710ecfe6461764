// Package remote implements the remote frame pipeline (capture, CPU
// tile-hash diff, encode, send) and the companion input demux server that
// feeds decoded client events back into the engine.
package remote

import (
	"fmt"
	"log/slog"

	"github.com/zokrezyl/yetty"
	"github.com/zokrezyl/yetty/gpu"
)

// CaptureState is the async capture state machine's current phase.
// Every phase transition is driven by Advance; none of it blocks.
type CaptureState int

const (
	StateIdle CaptureState = iota
	StateWaitingClear
	StateWaitingCompute
	StateWaitingMap
	StateReadyToSend
)

func (s CaptureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitingClear:
		return "waiting_clear"
	case StateWaitingCompute:
		return "waiting_compute"
	case StateWaitingMap:
		return "waiting_map"
	case StateReadyToSend:
		return "ready_to_send"
	default:
		return "unknown"
	}
}

// fullRefreshInterval forces a complete (non-diffed) frame periodically
// so a client that joined mid-stream, or dropped a tile, converges.
const fullRefreshInterval = 300

// Capture drives one capture cycle at a time: Advance is called once
// per iteration of the engine's non-blocking main loop and returns
// immediately, never blocking on the GPU.
type Capture struct {
	device *gpu.Device
	state  CaptureState
	frame  uint64
	log    *slog.Logger

	forceFull bool
	pending   *PendingReadback
	ready     []TileDiff
}

// PendingReadback tracks the in-flight GPU work for one capture cycle.
// Completion is signaled through a channel rather than a raw
// callback/userdata pointer, so Advance can poll without busy-waiting
// on GPU driver internals.
type PendingReadback struct {
	done chan readbackResult
}

type readbackResult struct {
	tiles []TileDiff
	err   error
}

// NewCapture returns a Capture in the Idle state.
func NewCapture(d *gpu.Device, log *slog.Logger) *Capture {
	if log == nil {
		log = yetty.Logger()
	}
	return &Capture{device: d, state: StateIdle, log: log}
}

func (c *Capture) State() CaptureState { return c.state }
func (c *Capture) Frame() uint64       { return c.frame }

// ForceFullFrame schedules the next cycle to emit every tile instead
// of only the diffed ones, e.g. for a newly-connected client.
func (c *Capture) ForceFullFrame() { c.forceFull = true }

// Begin transitions Idle -> WaitingClear, starting a new capture
// cycle. It is a no-op if a cycle is already in flight.
func (c *Capture) Begin(differ *Differ) error {
	if c.state != StateIdle {
		return nil
	}
	c.state = StateWaitingClear
	return c.advanceToCompute(differ)
}

// advanceToCompute performs the (currently synchronous, in the
// absence of a real compute pipeline) clear+diff step and dispatches
// the readback. Real GPU submission is async; the result still
// arrives via the done channel so Advance's polling shape holds even
// once an actual WGSL compute dispatch replaces this body.
func (c *Capture) advanceToCompute(differ *Differ) error {
	c.state = StateWaitingCompute
	full := c.forceFull || c.frame%fullRefreshInterval == 0
	c.forceFull = false

	tiles, err := differ.Diff(full)
	done := make(chan readbackResult, 1)
	done <- readbackResult{tiles: tiles, err: err}
	c.pending = &PendingReadback{done: done}
	c.state = StateWaitingMap
	return nil
}

// Advance polls the in-flight readback without blocking. It returns
// (tiles, true, nil) exactly once per cycle, when the cycle completes
// and transitions ReadyToSend -> Idle.
func (c *Capture) Advance() ([]TileDiff, bool, error) {
	switch c.state {
	case StateWaitingMap:
		if c.pending == nil {
			return nil, false, fmt.Errorf("remote: waiting_map with no pending readback")
		}
		select {
		case res := <-c.pending.done:
			c.pending = nil
			if res.err != nil {
				c.state = StateIdle
				return nil, false, res.err
			}
			c.ready = res.tiles
			c.state = StateReadyToSend
			return nil, false, nil
		default:
			return nil, false, nil
		}
	case StateReadyToSend:
		tiles := c.ready
		c.ready = nil
		c.frame++
		c.state = StateIdle
		return tiles, true, nil
	default:
		return nil, false, nil
	}
}
