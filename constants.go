package server

import "time"

const (
	// writeWait bounds how long a single websocket write may stall before
	// the connection is considered dead.
	writeWait = 10 * time.Second

	// sendQueueSize is the per-connection outbound buffer. Enqueueing past
	// a full buffer drops the message rather than delaying the tick loop.
	sendQueueSize = 64

	// maxMessageBytes caps inbound frames; anything larger kills the read.
	maxMessageBytes = 1 << 20
)
