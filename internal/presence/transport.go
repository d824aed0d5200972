package presence

import "context"

// Conn is one upstream socket connection. ReadMessage may run concurrently
// with WriteMessage and Close; WriteMessage calls are serialized by the caller.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// Publisher receives every stored Snapshot for fan-out.
type Publisher interface {
	Broadcast(snap Snapshot)
}
