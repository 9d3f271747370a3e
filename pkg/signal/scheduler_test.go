package signal

import (
	"context"
	"testing"
	"time"
)

// TestKafkaSchedulerDispatchAtUsesEmittedAt pins down the bug where passing
// the wire-payload timestamp (0 for orderbook tasks, which carry no
// timestamp field) as the DispatchAt base made every orderbook follow-up
// fire on the very next delay-queue drain instead of at emittedAt+delayMs.
func TestKafkaSchedulerDispatchAtUsesEmittedAt(t *testing.T) {
	s := NewKafkaScheduler(nil)

	emittedAt := time.Now().UnixMilli()
	const delayMs = int64(3_000)

	// Orderbook-style call: wire payload carries no timestamp (0), but
	// DispatchAt must still be anchored on the signal's emission time.
	if err := s.Enqueue(context.Background(), "binance_order", "binance_orderbook", "sig-1", "BTCUSDT", 3, 0, emittedAt, delayMs); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	s.delay.mu.Lock()
	if s.delay.heap.Len() != 1 {
		s.delay.mu.Unlock()
		t.Fatalf("expected 1 scheduled task, got %d", s.delay.heap.Len())
	}
	got := s.delay.heap[0].task.DispatchAt
	s.delay.mu.Unlock()

	want := emittedAt + delayMs
	if got != want {
		t.Fatalf("DispatchAt = %d, want %d (emittedAt+delayMs); got would fire at %s instead of %s",
			got, want, time.UnixMilli(got), time.UnixMilli(want))
	}

	// A DispatchAt derived from timestampMs=0 would land near the Unix
	// epoch, not anywhere near "now" — guard against that regression too.
	if got < time.Now().Add(-time.Minute).UnixMilli() {
		t.Fatalf("DispatchAt = %d looks like it was computed from timestampMs=0, not emittedAt", got)
	}
}
