package obworker

import (
	"context"
	"errors"
	"testing"

	"github.com/quantgate/gate/pkg/kafka"
	"github.com/quantgate/gate/pkg/stream"
)

type fakeFetcher struct {
	snap DepthSnapshot
	err  error
}

func (f *fakeFetcher) FetchDepth5(_ context.Context, _ string) (DepthSnapshot, error) {
	return f.snap, f.err
}

type fakeOrderbookStore struct {
	calls int
	last  Snapshot
}

func (s *fakeOrderbookStore) AppendSnapshot(_ context.Context, _, _ string, snap Snapshot) error {
	s.calls++
	s.last = snap
	return nil
}

func sampleSnap() DepthSnapshot {
	return DepthSnapshot{
		Bids: [5]stream.PriceLevel{{Price: 100, Qty: 2}, {Price: 99, Qty: 2}, {Price: 98, Qty: 2}, {Price: 97, Qty: 2}, {Price: 96, Qty: 2}},
		Asks: [5]stream.PriceLevel{{Price: 101, Qty: 2}, {Price: 102, Qty: 2}, {Price: 103, Qty: 2}, {Price: 104, Qty: 2}, {Price: 105, Qty: 2}},
	}
}

func TestWorkerProcessPersistsFeatures(t *testing.T) {
	store := &fakeOrderbookStore{}
	w := NewWorker(&fakeFetcher{snap: sampleSnap()}, store)

	w.Process(context.Background(), "sig-1", "BTCUSDT", 10)

	if store.calls != 1 {
		t.Fatalf("expected 1 AppendSnapshot call, got %d", store.calls)
	}
	if store.last.TOffsetSec != 10 {
		t.Errorf("tOffsetSec = %d, want 10", store.last.TOffsetSec)
	}
	if store.last.MidPrice != 100.5 {
		t.Errorf("midPrice = %v, want 100.5", store.last.MidPrice)
	}
}

func TestWorkerProcessSkipsPersistOnFetchFailure(t *testing.T) {
	store := &fakeOrderbookStore{}
	w := NewWorker(&fakeFetcher{err: errors.New("rest down")}, store)

	w.Process(context.Background(), "sig-1", "BTCUSDT", 10)

	if store.calls != 0 {
		t.Errorf("expected no AppendSnapshot call on fetch failure, got %d", store.calls)
	}
}

func TestWorkerHandleMessageProcessesTask(t *testing.T) {
	store := &fakeOrderbookStore{}
	w := NewWorker(&fakeFetcher{snap: sampleSnap()}, store)

	task := kafka.TaskMessage{SignalID: "sig-2", Symbol: "ETHUSDT", TOffsetSec: 30}
	if err := w.HandleMessage(task); err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected 1 AppendSnapshot call, got %d", store.calls)
	}
	if store.last.TOffsetSec != 30 {
		t.Errorf("tOffsetSec = %d, want 30", store.last.TOffsetSec)
	}
}
