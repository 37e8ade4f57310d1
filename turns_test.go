package server

import (
	"testing"
	"time"

	"game-connect/server/internal/game"
)

func newStartedScheduler(t *testing.T, ids []string, timeout time.Duration, now time.Time) *TurnScheduler {
	t.Helper()
	sched := NewTurnScheduler(game.ModeTurnBased, timeout)
	sched.Start(ids, now)
	if _, ok := sched.CurrentPlayer(); !ok {
		t.Fatalf("expected a current player after Start")
	}
	return sched
}

func TestTurnScheduler_StartShufflesAllPlayers(t *testing.T) {
	now := time.Now()
	ids := []string{"a", "b", "c", "d"}
	sched := newStartedScheduler(t, ids, time.Minute, now)

	seen := make(map[string]bool)
	for i := 0; i < len(ids); i++ {
		current, ok := sched.CurrentPlayer()
		if !ok {
			t.Fatalf("expected current player at step %d", i)
		}
		if seen[current] {
			t.Fatalf("player %s appeared twice in the turn order", current)
		}
		seen[current] = true
		sched.Advance(now)
	}
	for _, id := range ids {
		if !seen[id] {
			t.Fatalf("player %s missing from the turn order", id)
		}
	}
}

func TestTurnScheduler_AdvanceWrapsAround(t *testing.T) {
	now := time.Now()
	sched := newStartedScheduler(t, []string{"a", "b"}, time.Minute, now)

	first, _ := sched.CurrentPlayer()
	second, ok := sched.Advance(now)
	if !ok {
		t.Fatalf("advance failed on a two-player order")
	}
	if second == first {
		t.Fatalf("advance did not move to the other player")
	}
	wrapped, _ := sched.Advance(now)
	if wrapped != first {
		t.Fatalf("expected wrap back to %s, got %s", first, wrapped)
	}
}

func TestTurnScheduler_SinglePlayerAdvanceReturnsSameID(t *testing.T) {
	now := time.Now()
	sched := newStartedScheduler(t, []string{"solo"}, time.Minute, now)

	for i := 0; i < 3; i++ {
		next, ok := sched.Advance(now)
		if !ok || next != "solo" {
			t.Fatalf("advance %d: expected solo, got %q ok=%v", i, next, ok)
		}
	}
}

func TestTurnScheduler_CheckTimeoutAdvancesAndResetsClock(t *testing.T) {
	start := time.Now()
	sched := newStartedScheduler(t, []string{"a", "b"}, 30*time.Second, start)
	before, _ := sched.CurrentPlayer()

	if _, advanced := sched.CheckTimeout(start.Add(29 * time.Second)); advanced {
		t.Fatalf("turn advanced before the timeout elapsed")
	}

	expired := start.Add(31 * time.Second)
	next, advanced := sched.CheckTimeout(expired)
	if !advanced {
		t.Fatalf("expected timeout to advance the turn")
	}
	if next == before {
		t.Fatalf("timeout advance kept the same player")
	}

	// The clock reset: the same instant must not trigger a second advance.
	if _, advanced := sched.CheckTimeout(expired); advanced {
		t.Fatalf("timeout advanced twice without the clock elapsing")
	}
}

func TestTurnScheduler_RemovePlayerKeepsCurrentStable(t *testing.T) {
	now := time.Now()
	sched := NewTurnScheduler(game.ModeTurnBased, time.Minute)
	sched.order = []string{"a", "b", "c"}
	sched.current = 1
	sched.changedAt = now

	// Removing a player before the pointer shifts it back so "current"
	// still names the same player.
	removed, empty := sched.RemovePlayer("a")
	if !removed || empty {
		t.Fatalf("expected removed=true empty=false, got %v %v", removed, empty)
	}
	if current, _ := sched.CurrentPlayer(); current != "b" {
		t.Fatalf("expected current to remain b, got %s", current)
	}
}

func TestTurnScheduler_RemoveAfterPointerLeavesPointerAlone(t *testing.T) {
	sched := NewTurnScheduler(game.ModeTurnBased, time.Minute)
	sched.order = []string{"a", "b", "c"}
	sched.current = 0

	removed, empty := sched.RemovePlayer("c")
	if !removed || empty {
		t.Fatalf("expected removed=true empty=false, got %v %v", removed, empty)
	}
	if current, _ := sched.CurrentPlayer(); current != "a" {
		t.Fatalf("expected current to remain a, got %s", current)
	}
}

func TestTurnScheduler_RemoveUnknownIDIsNoop(t *testing.T) {
	sched := NewTurnScheduler(game.ModeTurnBased, time.Minute)
	sched.order = []string{"a"}

	removed, empty := sched.RemovePlayer("ghost")
	if removed {
		t.Fatalf("removal of an unknown id reported removed=true")
	}
	if empty {
		t.Fatalf("order with one player reported empty")
	}
	if current, ok := sched.CurrentPlayer(); !ok || current != "a" {
		t.Fatalf("expected a to remain current, got %q ok=%v", current, ok)
	}
}

func TestTurnScheduler_RemoveLastPlayerEmptiesOrder(t *testing.T) {
	sched := NewTurnScheduler(game.ModeTurnBased, time.Minute)
	sched.order = []string{"a"}

	removed, empty := sched.RemovePlayer("a")
	if !removed || !empty {
		t.Fatalf("expected removed=true empty=true, got %v %v", removed, empty)
	}
	if _, ok := sched.CurrentPlayer(); ok {
		t.Fatalf("empty order still reports a current player")
	}
	if removed := sched.order; len(removed) != 0 {
		t.Fatalf("expected empty order, got %v", removed)
	}
}

func TestTurnScheduler_RealTimeModeIsInert(t *testing.T) {
	now := time.Now()
	sched := NewTurnScheduler(game.ModeRealTime, time.Minute)
	sched.Start([]string{"a", "b"}, now)

	if _, ok := sched.CurrentPlayer(); ok {
		t.Fatalf("real-time scheduler reported a current player")
	}
	if _, ok := sched.Advance(now); ok {
		t.Fatalf("real-time scheduler advanced a turn")
	}
	if _, advanced := sched.CheckTimeout(now.Add(time.Hour)); advanced {
		t.Fatalf("real-time scheduler timed out a turn")
	}
	if removed, _ := sched.RemovePlayer("a"); removed {
		t.Fatalf("real-time scheduler mutated on removal")
	}
}
