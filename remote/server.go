package remote

import (
	"log/slog"
	"net"
	"sync"

	"github.com/zokrezyl/yetty"
	"github.com/zokrezyl/yetty/wire"
)

// Client is one connected remote viewer: a frame sink plus its own
// input demux state.
type Client struct {
	conn  net.Conn
	demux *wire.Demux

	mu          sync.Mutex
	needsFull   bool
	sendBacklog [][]byte
}

func newClient(conn net.Conn) *Client {
	c := &Client{conn: conn, demux: wire.NewDemux(), needsFull: true}
	return c
}

// SendFrame writes an already-encoded frame payload to the client.
// Called from the capture/send loop; never blocks the engine's main
// loop beyond the OS socket write.
func (c *Client) SendFrame(payload []byte) error {
	_, err := c.conn.Write(payload)
	return err
}

// Server accepts remote-viewer TCP connections and owns the set of
// connected Clients.
type Server struct {
	ln  net.Listener
	log *slog.Logger

	mu      sync.Mutex
	clients map[net.Conn]*Client
}

// Listen opens a TCP listener on addr (e.g. ":9191").
func Listen(addr string, log *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = yetty.Logger()
	}
	return &Server{ln: ln, log: log, clients: make(map[net.Conn]*Client)}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Accept loops accepting connections, registering each one and
// passing it to onConnect, and returns only when the listener fails.
// Callers typically run this in its own goroutine, feeding accepted
// clients to the engine's client set via onConnect.
func (s *Server) Accept(onConnect func(*Client)) error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return err
		}
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true) // disable Nagle; frames are latency-sensitive, not bandwidth-optimal
		}
		c := newClient(conn)
		s.mu.Lock()
		s.clients[conn] = c
		s.mu.Unlock()
		s.log.Info("remote client connected", "addr", conn.RemoteAddr())
		if onConnect != nil {
			onConnect(c)
		}
	}
}

// Remove unregisters and closes a client's connection.
func (s *Server) Remove(c *Client) {
	s.mu.Lock()
	delete(s.clients, c.conn)
	s.mu.Unlock()
	_ = c.conn.Close()
}

// Clients returns a snapshot of currently connected clients.
func (s *Server) Clients() []*Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out
}

// Close shuts down the listener.
func (s *Server) Close() error { return s.ln.Close() }
