package server

import "sync/atomic"

// Metrics counts loop and dispatch activity for the diagnostics endpoint.
// All counters are atomic so readers never contend with the tick loop.
type Metrics struct {
	tickCount       atomic.Int64
	totalTickNs     atomic.Int64
	messagesHandled atomic.Int64
	sendsEnqueued   atomic.Int64
	sendsDropped    atomic.Int64
	playersTimedOut atomic.Int64
}

func (m *Metrics) AddTick(ns int64) {
	m.tickCount.Add(1)
	m.totalTickNs.Add(ns)
}

func (m *Metrics) IncMessages() { m.messagesHandled.Add(1) }
func (m *Metrics) IncEnqueued() { m.sendsEnqueued.Add(1) }
func (m *Metrics) IncDropped()  { m.sendsDropped.Add(1) }
func (m *Metrics) IncTimedOut() { m.playersTimedOut.Add(1) }

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]any {
	ticks := m.tickCount.Load()
	total := m.totalTickNs.Load()
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":        ticks,
		"avg_tick_ms":       avgMs,
		"messages_handled":  m.messagesHandled.Load(),
		"sends_enqueued":    m.sendsEnqueued.Load(),
		"sends_dropped":     m.sendsDropped.Load(),
		"players_timed_out": m.playersTimedOut.Load(),
	}
}
