package tape

import (
	"context"
	"testing"
)

func TestMemoryStoreWriteRange(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for sec := int64(100); sec < 105; sec++ {
		if err := s.WriteBar(ctx, "BTC-USDT", SecondBar{TsSec: sec, Close: float64(sec)}); err != nil {
			t.Fatalf("WriteBar: %v", err)
		}
	}

	bars, err := s.RangeBars(ctx, "BTC-USDT", 101, 103)
	if err != nil {
		t.Fatalf("RangeBars: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(bars))
	}
	for i, want := range []int64{101, 102, 103} {
		if bars[i].TsSec != want {
			t.Errorf("bars[%d].TsSec = %d, want %d", i, bars[i].TsSec, want)
		}
	}
}

func TestMemoryStoreOverwriteSameSecond(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.WriteBar(ctx, "ETH-USDT", SecondBar{TsSec: 5, Close: 1})
	_ = s.WriteBar(ctx, "ETH-USDT", SecondBar{TsSec: 5, Close: 2})

	bars, err := s.RangeBars(ctx, "ETH-USDT", 0, 10)
	if err != nil {
		t.Fatalf("RangeBars: %v", err)
	}
	if len(bars) != 1 || bars[0].Close != 2 {
		t.Fatalf("expected single overwritten bar with Close=2, got %+v", bars)
	}
}

func TestMemoryStorePairsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.WriteBar(ctx, "BTC-USDT", SecondBar{TsSec: 1})
	bars, err := s.RangeBars(ctx, "ETH-USDT", 0, 10)
	if err != nil {
		t.Fatalf("RangeBars: %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected no bars for unrelated pair, got %d", len(bars))
	}
}
