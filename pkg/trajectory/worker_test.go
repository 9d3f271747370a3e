package trajectory

import (
	"context"
	"testing"

	"github.com/quantgate/gate/pkg/kafka"
	"github.com/quantgate/gate/pkg/tape"
)

type fakeBarStore struct {
	bars map[string][]tape.SecondBar
}

func (s *fakeBarStore) WriteBar(_ context.Context, pair string, bar tape.SecondBar) error {
	s.bars[pair] = append(s.bars[pair], bar)
	return nil
}

func (s *fakeBarStore) RangeBars(_ context.Context, pair string, startSec, endSec int64) ([]tape.SecondBar, error) {
	var out []tape.SecondBar
	for _, b := range s.bars[pair] {
		if b.TsSec >= startSec && b.TsSec <= endSec {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeTrajectoryStore struct {
	signalID, symbol, exchange string
	result                     Result
	calls                      int
}

func (s *fakeTrajectoryStore) Persist(_ context.Context, signalID, symbol, exchange string, result Result) error {
	s.signalID, s.symbol, s.exchange, s.result = signalID, symbol, exchange, result
	s.calls++
	return nil
}

func TestWorkerProcessPersistsComputedTrajectory(t *testing.T) {
	bars := &fakeBarStore{bars: map[string][]tape.SecondBar{}}
	startSec := int64(2_000_000)
	for i := 0; i < windowSeconds; i++ {
		bars.bars["BTCUSDT"] = append(bars.bars["BTCUSDT"], tape.SecondBar{
			TsSec: startSec + int64(i), Open: 100, High: 100, Low: 100, Close: 100 + float64(i)*0.001, Volume: 5,
		})
	}
	store := &fakeTrajectoryStore{}
	w := NewWorker("binance", bars, store)

	err := w.Process(context.Background(), "sig-1", "BTCUSDT", startSec*1000)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected 1 persist call, got %d", store.calls)
	}
	if store.signalID != "sig-1" || store.symbol != "BTCUSDT" || store.exchange != "binance" {
		t.Errorf("persisted with signalID=%s symbol=%s exchange=%s", store.signalID, store.symbol, store.exchange)
	}
	if store.result.Sigma30m == nil {
		t.Error("expected non-nil sigma30m with a full window of bars")
	}
}

func TestWorkerProcessWithNoBarsStillPersists(t *testing.T) {
	bars := &fakeBarStore{bars: map[string][]tape.SecondBar{}}
	store := &fakeTrajectoryStore{}
	w := NewWorker("binance", bars, store)

	err := w.Process(context.Background(), "sig-2", "ETHUSDT", 5_000_000_000)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected persist even with no bars, got %d calls", store.calls)
	}
	if store.result.Sigma30m != nil {
		t.Errorf("expected nil sigma30m with no bars, got %v", *store.result.Sigma30m)
	}
}

func TestWorkerHandleMessageProcessesTask(t *testing.T) {
	bars := &fakeBarStore{bars: map[string][]tape.SecondBar{}}
	store := &fakeTrajectoryStore{}
	w := NewWorker("binance", bars, store)

	task := kafka.TaskMessage{SignalID: "sig-3", Symbol: "BTCUSDT", TimestampMs: 1700000000000}
	if err := w.HandleMessage(task); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if store.signalID != "sig-3" {
		t.Errorf("signalID = %q, want sig-3", store.signalID)
	}
}
