package tape

import (
	"context"
	"testing"
)

func TestOnTradeFillsGapWithFlatBars(t *testing.T) {
	store := NewMemoryStore()
	tp := New(store)
	ctx := context.Background()

	tp.OnTrade(ctx, "BTC-USDT", 100, 10, 1_000_000) // second 1000
	tp.OnTrade(ctx, "BTC-USDT", 105, 20, 1_004_000) // second 1004, 3-second gap

	bars, err := store.RangeBars(ctx, "BTC-USDT", 1000, 1004)
	if err != nil {
		t.Fatalf("RangeBars: %v", err)
	}
	if len(bars) != 5 {
		t.Fatalf("got %d bars, want 5 (1000..1004)", len(bars))
	}

	if bars[0].TsSec != 1000 || bars[0].Close != 100 || bars[0].Volume != 10 {
		t.Errorf("bar 1000 wrong: %+v", bars[0])
	}
	for i, sec := range []int64{1001, 1002, 1003} {
		bar := bars[i+1]
		if bar.TsSec != sec {
			t.Fatalf("bars[%d].TsSec = %d, want %d", i+1, bar.TsSec, sec)
		}
		if bar.Open != 100 || bar.High != 100 || bar.Low != 100 || bar.Close != 100 || bar.Volume != 0 {
			t.Errorf("flat bar at sec %d wrong: %+v", sec, bar)
		}
	}
	last := bars[4]
	if last.TsSec != 1004 || last.Open != 100 || last.Close != 105 || last.Volume != 20 {
		t.Errorf("new bar at 1004 wrong: %+v", last)
	}
}

func TestOnTradeSameSecondAccumulates(t *testing.T) {
	store := NewMemoryStore()
	tp := New(store)
	ctx := context.Background()

	tp.OnTrade(ctx, "BTC-USDT", 100, 5, 2_000_000)
	tp.OnTrade(ctx, "BTC-USDT", 98, 5, 2_000_500)
	tp.OnTrade(ctx, "BTC-USDT", 103, 5, 2_000_900)

	tp.OnTrade(ctx, "BTC-USDT", 110, 1, 2_001_000) // advances second, flushes 2000

	bars, err := store.RangeBars(ctx, "BTC-USDT", 2000, 2000)
	if err != nil {
		t.Fatalf("RangeBars: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	bar := bars[0]
	if bar.Open != 100 || bar.High != 103 || bar.Low != 98 || bar.Close != 103 || bar.Volume != 15 {
		t.Errorf("aggregated bar wrong: %+v", bar)
	}
}

func TestFlushWritesOpenBars(t *testing.T) {
	store := NewMemoryStore()
	tp := New(store)
	ctx := context.Background()

	tp.OnTrade(ctx, "BTC-USDT", 100, 1, 3_000_000)
	tp.Flush(ctx)

	bars, err := store.RangeBars(ctx, "BTC-USDT", 3000, 3000)
	if err != nil {
		t.Fatalf("RangeBars: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected flush to persist the open bar, got %d bars", len(bars))
	}
}

func TestGetSecBarsConvertsMillisToSeconds(t *testing.T) {
	store := NewMemoryStore()
	tp := New(store)
	ctx := context.Background()

	_ = store.WriteBar(ctx, "BTC-USDT", SecondBar{TsSec: 4, Close: 1})
	_ = store.WriteBar(ctx, "BTC-USDT", SecondBar{TsSec: 5, Close: 2})
	_ = store.WriteBar(ctx, "BTC-USDT", SecondBar{TsSec: 6, Close: 3})

	bars, err := tp.GetSecBars(ctx, "BTC-USDT", 4_500, 5_900)
	if err != nil {
		t.Fatalf("GetSecBars: %v", err)
	}
	if len(bars) != 2 || bars[0].TsSec != 4 || bars[1].TsSec != 5 {
		t.Fatalf("got %+v, want bars at tsSec=4 and tsSec=5 (both bounds floored)", bars)
	}
}
