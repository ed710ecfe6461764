package remote

import (
	"bufio"
	"log/slog"

	"github.com/zokrezyl/yetty/wire"
)

// InputHandler receives decoded remote input events for one client.
// Implemented by the engine's top-level dispatcher.
type InputHandler interface {
	HandleMouseMove(wire.MouseMove)
	HandleMouseButton(wire.MouseButton)
	HandleMouseScroll(wire.MouseScroll)
	HandleKeyDown(wire.KeyEvent)
	HandleKeyUp(wire.KeyEvent)
	HandleTextInput(text string)
	HandleResize(wire.Resize)
	HandleCellSize(wire.CellSize)
}

// ReadInputLoop reads from c's connection until EOF or error, feeding
// complete events to handler via c's Demux. It runs on its own
// goroutine per client; event dispatch into the engine happens
// through handler, which is expected to be safe for concurrent calls
// from multiple clients.
func ReadInputLoop(c *Client, handler InputHandler, log *slog.Logger) {
	r := bufio.NewReader(c.conn)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			feedErr := c.demux.FeedData(buf[:n], func(ev wire.Event) {
				dispatchEvent(ev, handler)
			})
			if feedErr != nil {
				if log != nil {
					log.Warn("remote input: dropping malformed stream", "err", feedErr, "addr", c.conn.RemoteAddr())
				}
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func dispatchEvent(ev wire.Event, h InputHandler) {
	switch ev.Type {
	case wire.EventMouseMove:
		h.HandleMouseMove(wire.DecodeMouseMove(ev.Payload))
	case wire.EventMouseButton:
		h.HandleMouseButton(wire.DecodeMouseButton(ev.Payload))
	case wire.EventMouseScroll:
		h.HandleMouseScroll(wire.DecodeMouseScroll(ev.Payload))
	case wire.EventKeyDown:
		h.HandleKeyDown(wire.DecodeKeyEvent(ev.Payload))
	case wire.EventKeyUp:
		h.HandleKeyUp(wire.DecodeKeyEvent(ev.Payload))
	case wire.EventTextInput:
		h.HandleTextInput(string(ev.Payload))
	case wire.EventResize:
		h.HandleResize(wire.DecodeResize(ev.Payload))
	case wire.EventCellSize:
		h.HandleCellSize(wire.DecodeCellSize(ev.Payload))
	}
}
