package lanyard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/presencedash/internal/presence"
	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
	maxMessageSize   = 1 << 20
)

type Dialer struct {
	url    string
	dialer websocket.Dialer
}

func NewDialer(url string) presence.Dialer {
	return &Dialer{
		url: url,
		dialer: websocket.Dialer{
			HandshakeTimeout:  handshakeTimeout,
			EnableCompression: true,
		},
	}
}

func (d *Dialer) Dial(ctx context.Context) (presence.Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Debug("failed to close handshake response body", "error", cerr)
		}
	}
	conn.SetReadLimit(maxMessageSize)
	return &socketConn{conn: conn}, nil
}

type socketConn struct {
	conn *websocket.Conn
}

func (c *socketConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *socketConn) WriteMessage(data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *socketConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}
