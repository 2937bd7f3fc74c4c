package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/opencircle/realtime/internal/config"
	"github.com/opencircle/realtime/internal/registry"
)

// ErrConnClosed is returned when writing to a connection that is no longer open.
var ErrConnClosed = errors.New("connection closed")

// connectedMsg is the handshake frame sent once after a successful upgrade.
type connectedMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Conn wraps one upgraded WebSocket and implements registry.Handle. The open
// flag is flipped the moment a read, write, or ping fails, so IsOpen reports
// live transport state rather than a value cached at registration.
type Conn struct {
	id     string
	ws     *websocket.Conn
	logger *slog.Logger

	writeTimeout time.Duration
	pongTimeout  time.Duration
	pingInterval time.Duration
	readLimit    int64

	// Write serialization
	writeMu sync.Mutex

	// State
	mu   sync.RWMutex
	open bool

	done     chan struct{}
	doneOnce sync.Once
}

// newConn wraps an upgraded socket.
func newConn(ws *websocket.Conn, cfg config.WebSocketConfig, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	return &Conn{
		id:           id,
		ws:           ws,
		logger:       logger.With("conn_id", id),
		writeTimeout: cfg.WriteTimeout,
		pongTimeout:  cfg.PongTimeout,
		pingInterval: cfg.PingInterval,
		readLimit:    cfg.ReadLimit,
		open:         true,
		done:         make(chan struct{}),
	}
}

// ID returns the connection's log/stats correlation id.
func (c *Conn) ID() string {
	return c.id
}

// IsOpen reports whether the connection can still accept writes.
func (c *Conn) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open
}

// Send writes one text frame under a write deadline. A failed write marks
// the connection closed so subsequent fan-outs skip it.
func (c *Conn) Send(data []byte) error {
	if !c.IsOpen() {
		return ErrConnClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		c.markClosed()
		return err
	}
	return nil
}

// Close sends a close frame and tears the socket down. Administrative use
// only; normal shutdown is driven by the peer or the read loop.
func (c *Conn) Close(code int, reason string) error {
	c.writeMu.Lock()
	c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(c.writeTimeout),
	)
	c.writeMu.Unlock()

	c.markClosed()
	return c.ws.Close()
}

// sendConnected emits the one-time handshake acknowledgement.
func (c *Conn) sendConnected(message string) error {
	frame, err := json.Marshal(connectedMsg{Type: registry.TypeConnected, Message: message})
	if err != nil {
		return err
	}
	return c.Send(frame)
}

// runReadLoop blocks until the peer disconnects or the socket errors.
// Inbound frames are discarded: clients never talk to the registry over the
// socket, they only listen. Reading still matters, both to process control
// frames and to detect the close promptly.
func (c *Conn) runReadLoop() {
	c.ws.SetReadLimit(c.readLimit)
	c.ws.SetReadDeadline(time.Now().Add(c.pongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.pongTimeout))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("read loop ended", "error", err)
			}
			break
		}
	}

	c.markClosed()
	c.ws.Close()
}

// runPingLoop probes the peer until the connection dies.
func (c *Conn) runPingLoop() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.writeTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.logger.Debug("ping failed", "error", err)
				c.markClosed()
				return
			}
		}
	}
}

func (c *Conn) markClosed() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()

	c.doneOnce.Do(func() { close(c.done) })
}
