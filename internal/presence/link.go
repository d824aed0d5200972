package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foxseedlab/presencedash/internal/metrics"
)

// ReconnectDelay is the fixed wait between a dropped connection and the next dial.
const ReconnectDelay = time.Second

const (
	opEvent     = 0
	opHello     = 1
	opSubscribe = 2
	opHeartbeat = 3
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type inbound struct {
	Op   int             `json:"op"`
	Type string          `json:"t"`
	Data json.RawMessage `json:"d"`
}

type outbound struct {
	Op   int `json:"op"`
	Data any `json:"d,omitempty"`
}

type helloPayload struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type subscribePayload struct {
	SubscribeToID string `json:"subscribe_to_id"`
}

var errConnectionClosed = errors.New("presence connection closed")

// Link owns the single upstream presence connection and keeps the Store current.
type Link struct {
	dialer         Dialer
	store          *Store
	publisher      Publisher
	userID         string
	reconnectDelay time.Duration
	state          atomic.Int32
}

func NewLink(dialer Dialer, store *Store, publisher Publisher, userID string) *Link {
	return &Link{
		dialer:         dialer,
		store:          store,
		publisher:      publisher,
		userID:         userID,
		reconnectDelay: ReconnectDelay,
	}
}

func (l *Link) State() State {
	return State(l.state.Load())
}

func (l *Link) setState(s State) {
	l.state.Store(int32(s))
	metrics.UpstreamState.Set(float64(s))
}

// Run dials, serves and redials the upstream socket until ctx is cancelled.
// Each torn-down connection schedules exactly one retry after ReconnectDelay;
// there is no backoff and no retry ceiling.
func (l *Link) Run(ctx context.Context) error {
	slog.Info("presence link starting", "user_id", l.userID)
	defer l.setState(StateDisconnected)

	for {
		l.setState(StateConnecting)
		err := l.runConnection(ctx)
		if ctx.Err() != nil {
			slog.Info("presence link stopped")
			return ctx.Err()
		}

		l.setState(StateReconnecting)
		metrics.UpstreamReconnects.Inc()
		slog.Warn("presence connection dropped; reconnecting", "error", err, "delay", l.reconnectDelay)

		timer := time.NewTimer(l.reconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("presence link stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Link) runConnection(ctx context.Context) error {
	conn, err := l.dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("dial presence socket: %w", err)
	}
	c := newConnection(conn)
	stop := context.AfterFunc(ctx, func() {
		c.fail(ctx.Err())
	})
	defer stop()
	slog.Info("connected to presence socket")

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			c.fail(fmt.Errorf("read presence socket: %w", err))
			return c.cause()
		}
		if err := l.handleMessage(c, data); err != nil {
			c.fail(err)
			return c.cause()
		}
	}
}

// handleMessage returns an error only for protocol failures that must drop
// the connection. Undecodable messages are skipped.
func (l *Link) handleMessage(c *connection, data []byte) error {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.PresenceDecodeErrors.Inc()
		slog.Warn("skipping malformed presence message", "error", err)
		return nil
	}

	switch msg.Op {
	case opHello:
		return l.handleHello(c, msg.Data)
	case opEvent:
		l.handleEvent(msg.Type, msg.Data)
		return nil
	default:
		slog.Debug("ignoring presence message", "op", msg.Op)
		return nil
	}
}

func (l *Link) handleHello(c *connection, data json.RawMessage) error {
	var hello helloPayload
	if err := json.Unmarshal(data, &hello); err != nil {
		return fmt.Errorf("decode hello: %w", err)
	}
	if hello.HeartbeatInterval <= 0 {
		return fmt.Errorf("hello carried invalid heartbeat interval %d", hello.HeartbeatInterval)
	}
	if err := c.send(outbound{Op: opSubscribe, Data: subscribePayload{SubscribeToID: l.userID}}); err != nil {
		return fmt.Errorf("send subscribe: %w", err)
	}

	interval := time.Duration(hello.HeartbeatInterval) * time.Millisecond
	c.startHeartbeat(interval)
	l.setState(StateConnected)
	slog.Info("subscribed to presence updates", "user_id", l.userID, "heartbeat_interval", interval)
	return nil
}

func (l *Link) handleEvent(eventType string, data json.RawMessage) {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		metrics.PresenceDecodeErrors.Inc()
		slog.Warn("skipping presence event", "error", err, "event", eventType)
		return
	}
	l.store.set(snap)
	l.publisher.Broadcast(snap)
	metrics.PresenceUpdates.Inc()
	slog.Debug("presence updated", "event", eventType, "status", snap.Presence.DiscordStatus)
}

// connection is one dialed socket plus its heartbeat. Teardown happens once;
// writes are refused afterwards.
type connection struct {
	conn Conn
	done chan struct{}

	mu           sync.Mutex
	closed       bool
	heartbeating bool
	err          error
}

func newConnection(conn Conn) *connection {
	return &connection{
		conn: conn,
		done: make(chan struct{}),
	}
}

func (c *connection) send(msg outbound) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errConnectionClosed
	}
	return c.conn.WriteMessage(b)
}

// fail tears the connection down and reports whether this call did it.
func (c *connection) fail(err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	c.err = err
	close(c.done)
	if cerr := c.conn.Close(); cerr != nil {
		slog.Debug("closing presence socket failed", "error", cerr)
	}
	return true
}

func (c *connection) cause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *connection) startHeartbeat(interval time.Duration) {
	c.mu.Lock()
	if c.heartbeating || c.closed {
		c.mu.Unlock()
		return
	}
	c.heartbeating = true
	c.mu.Unlock()

	go c.heartbeat(interval)
}

func (c *connection) heartbeat(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.send(outbound{Op: opHeartbeat}); err != nil {
				if !errors.Is(err, errConnectionClosed) {
					c.fail(fmt.Errorf("send heartbeat: %w", err))
				}
				return
			}
		}
	}
}
