package monitor

import "testing"

func TestApplyBookTickerComputesMid(t *testing.T) {
	m := New("BTCUSDT", TierMid, DefaultConfig())
	m.ApplyBookTicker(100, 101)
	if m.mid != 100.5 {
		t.Errorf("mid = %v, want 100.5", m.mid)
	}
}

func TestApplyBookTickerIgnoresNonPositive(t *testing.T) {
	m := New("BTCUSDT", TierMid, DefaultConfig())
	m.ApplyBookTicker(100, 101)
	m.ApplyBookTicker(-5, 0)
	if m.bestBid != 100 || m.bestAsk != 101 {
		t.Errorf("non-positive updates should be ignored, got bid=%v ask=%v", m.bestBid, m.bestAsk)
	}
}

func TestAddAggTradeSetsLastPriceAndImbalance(t *testing.T) {
	m := New("BTCUSDT", TierMid, DefaultConfig())
	m.ApplyBookTicker(100, 100.1)

	m.AddAggTrade(AggTrade{Price: 100.2, Qty: 2, EventTimeMs: 1, BuyerIsMaker: false})
	if m.lastPrice != 100.2 {
		t.Errorf("lastPrice = %v, want 100.2", m.lastPrice)
	}
	last, ok := m.tradeImbHist.Last()
	if !ok || last != 2 {
		t.Errorf("trade imbalance = %v, want +2 for a taker buy", last)
	}

	m.AddAggTrade(AggTrade{Price: 99.9, Qty: 3, EventTimeMs: 2, BuyerIsMaker: true})
	last, ok = m.tradeImbHist.Last()
	if !ok || last != -3 {
		t.Errorf("trade imbalance = %v, want -3 for a maker-side (seller) trade", last)
	}
}

func TestAddAggTradeIgnoresNonPositivePrice(t *testing.T) {
	m := New("BTCUSDT", TierMid, DefaultConfig())
	m.AddAggTrade(AggTrade{Price: -1, Qty: 1, EventTimeMs: 1})
	if m.aggTrades.Size() != 0 {
		t.Error("expected trade with non-positive price to be dropped")
	}
}

func TestUpdateDepthSnapshotComputesImbalance(t *testing.T) {
	m := New("BTCUSDT", TierMid, DefaultConfig())
	bids := [5]float64{10, 8, 6, 4, 2}
	asks := [5]float64{5, 5, 5, 5, 5}

	m.UpdateDepthSnapshot(bids, asks)

	if m.depth5BidVolume != 30 {
		t.Errorf("depth5BidVolume = %v, want 30", m.depth5BidVolume)
	}
	if m.depth5AskVolume != 25 {
		t.Errorf("depth5AskVolume = %v, want 25", m.depth5AskVolume)
	}
	wantImbalance := (30.0 - 25.0) / (30.0 + 25.0 + epsilon)
	if absFloat(m.depth5ObImbalance-wantImbalance) > 1e-9 {
		t.Errorf("depth5ObImbalance = %v, want %v", m.depth5ObImbalance, wantImbalance)
	}
}

func TestUpdateDepthSnapshotTracksVelocity(t *testing.T) {
	m := New("BTCUSDT", TierMid, DefaultConfig())
	m.UpdateDepthSnapshot([5]float64{10, 0, 0, 0, 0}, [5]float64{10, 0, 0, 0, 0}) // imbalance 0
	m.UpdateDepthSnapshot([5]float64{20, 0, 0, 0, 0}, [5]float64{0, 0, 0, 0, 0})  // imbalance ~1

	if m.imbalanceVelocity <= 0 {
		t.Errorf("imbalanceVelocity = %v, want > 0 after imbalance increased", m.imbalanceVelocity)
	}
}
