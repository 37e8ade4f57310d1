package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// subscriber wraps the outbound half of one connection: a buffered send
// queue drained by a dedicated write pump. The tick loop only ever enqueues,
// so a slow or dead peer can never stall a tick.
type subscriber struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func newSubscriber(conn *websocket.Conn) *subscriber {
	return &subscriber{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// enqueue offers a message to the send queue without blocking. A full queue
// drops the message; the next snapshot supersedes it anyway.
func (s *subscriber) enqueue(data []byte) bool {
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// close shuts the queue and the underlying connection. Safe to call more
// than once and from any goroutine, but never concurrently with enqueue;
// the hub removes a subscriber from its map in the same critical section
// that closes it.
func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.send)
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// writePump drains the send queue onto the wire. Runs as one goroutine per
// connection and exits when the queue closes or a write fails.
func (s *subscriber) writePump() {
	defer s.conn.Close()
	for data := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
