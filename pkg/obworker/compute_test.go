package obworker

import (
	"testing"

	"github.com/quantgate/gate/pkg/stream"
)

func TestComputeFeaturesBalancedBook(t *testing.T) {
	snap := DepthSnapshot{
		Bids: [5]stream.PriceLevel{{Price: 100, Qty: 1}, {Price: 99, Qty: 1}, {Price: 98, Qty: 1}, {Price: 97, Qty: 1}, {Price: 96, Qty: 1}},
		Asks: [5]stream.PriceLevel{{Price: 101, Qty: 1}, {Price: 102, Qty: 1}, {Price: 103, Qty: 1}, {Price: 104, Qty: 1}, {Price: 105, Qty: 1}},
	}

	feat := ComputeFeatures(snap)

	if feat.BidSum != 5 || feat.AskSum != 5 {
		t.Fatalf("bidSum=%v askSum=%v, want 5 and 5", feat.BidSum, feat.AskSum)
	}
	if feat.Imbalance > 1e-6 || feat.Imbalance < -1e-6 {
		t.Errorf("imbalance = %v, want ~0 for a balanced book", feat.Imbalance)
	}
	if feat.MidPrice != 100.5 {
		t.Errorf("mid = %v, want 100.5", feat.MidPrice)
	}
	wantSpreadBps := (101.0 - 100.0) / 101.0 * 10000
	if diff := feat.SpreadBps - wantSpreadBps; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("spreadBps = %v, want %v", feat.SpreadBps, wantSpreadBps)
	}
}

func TestComputeFeaturesBidHeavyBookSkewsImbalancePositive(t *testing.T) {
	snap := DepthSnapshot{
		Bids: [5]stream.PriceLevel{{Price: 100, Qty: 10}, {Price: 99, Qty: 10}, {Price: 98, Qty: 10}, {Price: 97, Qty: 10}, {Price: 96, Qty: 10}},
		Asks: [5]stream.PriceLevel{{Price: 101, Qty: 1}, {Price: 102, Qty: 1}, {Price: 103, Qty: 1}, {Price: 104, Qty: 1}, {Price: 105, Qty: 1}},
	}

	feat := ComputeFeatures(snap)

	if feat.Imbalance <= 0 {
		t.Errorf("imbalance = %v, want > 0 for a bid-heavy book", feat.Imbalance)
	}
	if feat.ImbalanceUsdt <= 0 {
		t.Errorf("imbalanceUsdt = %v, want > 0 for a bid-heavy book", feat.ImbalanceUsdt)
	}
}
