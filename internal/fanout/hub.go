// Package fanout pushes presence snapshots to every connected browser.
package fanout

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/foxseedlab/presencedash/internal/metrics"
	"github.com/foxseedlab/presencedash/internal/presence"
	"github.com/google/uuid"
)

// QueueSize is the number of undelivered messages kept per client.
const QueueSize = 8

const EventUpdate = "update"

var ErrHubClosed = errors.New("fanout hub closed")

// Message is the wire frame sent to browsers.
type Message struct {
	Event string            `json:"event"`
	Data  presence.Snapshot `json:"data"`
}

type SnapshotSource interface {
	Current() presence.Snapshot
}

// Client is one subscribed browser. Messages is closed when the client leaves
// or the hub shuts down.
type Client struct {
	id   string
	seq  uint64
	send chan []byte
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) Messages() <-chan []byte {
	return c.send
}

// offer enqueues msg, discarding the oldest queued messages until it fits.
// Callers hold the hub lock, so there is a single producer per client.
func (c *Client) offer(msg []byte) (dropped int) {
	for {
		select {
		case c.send <- msg:
			return dropped
		default:
		}
		select {
		case <-c.send:
			dropped++
		default:
		}
	}
}

type Hub struct {
	source SnapshotSource

	mu      sync.Mutex
	clients map[string]*Client
	seq     uint64
	closed  bool
}

func NewHub(source SnapshotSource) *Hub {
	return &Hub{
		source:  source,
		clients: make(map[string]*Client),
	}
}

// Join registers a client and queues the current snapshot for it. Holding the
// lock across both steps keeps a concurrent Broadcast from being overtaken by
// the older backfill.
func (h *Hub) Join() (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}

	msg, err := encode(h.source.Current())
	if err != nil {
		return nil, err
	}
	h.seq++
	c := &Client{
		id:   uuid.NewString(),
		seq:  h.seq,
		send: make(chan []byte, QueueSize),
	}
	c.offer(msg)
	h.clients[c.id] = c
	metrics.FanoutClients.Set(float64(len(h.clients)))
	slog.Debug("presence client joined", "client_id", c.id, "clients", len(h.clients))
	return c, nil
}

func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	metrics.FanoutClients.Set(float64(len(h.clients)))
	slog.Debug("presence client left", "client_id", c.id, "clients", len(h.clients))
}

// Broadcast queues snap for every client in join order. It never blocks on a
// slow client.
func (h *Hub) Broadcast(snap presence.Snapshot) {
	msg, err := encode(snap)
	if err != nil {
		slog.Error("failed to encode presence update", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.ordered() {
		if n := c.offer(msg); n > 0 {
			metrics.FanoutDropped.Add(float64(n))
			slog.Debug("dropped stale update for slow client", "client_id", c.id, "dropped", n)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close ends every client queue and refuses further joins.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	clients := h.ordered()
	for _, c := range clients {
		delete(h.clients, c.id)
		close(c.send)
	}
	metrics.FanoutClients.Set(0)
	slog.Info("presence hub closed", "clients_closed", len(clients))
}

func (h *Hub) ordered() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	slices.SortFunc(clients, func(a, b *Client) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return clients
}

func encode(snap presence.Snapshot) ([]byte, error) {
	b, err := json.Marshal(Message{Event: EventUpdate, Data: snap})
	if err != nil {
		return nil, fmt.Errorf("encode presence message: %w", err)
	}
	return b, nil
}
