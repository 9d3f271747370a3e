package stream

import "testing"

func TestParseFrameAggTrade(t *testing.T) {
	raw := RawFrame{Stream: "btcusdt@aggTrade", Data: []byte(`{"p":"100.5","q":"2.0","E":1700000000000,"m":false}`)}
	ev, ok := ParseFrame(raw)
	if !ok {
		t.Fatal("expected ok=true")
	}
	trade, isTrade := ev.(AggTradeEvent)
	if !isTrade {
		t.Fatalf("expected AggTradeEvent, got %T", ev)
	}
	if trade.Symbol != "BTCUSDT" || trade.Price != 100.5 || trade.Qty != 2.0 || trade.BuyerIsMaker {
		t.Errorf("unexpected trade: %+v", trade)
	}
}

func TestParseFrameTicker(t *testing.T) {
	raw := RawFrame{Stream: "ethusdt@ticker", Data: []byte(`{"q":"1000000","P":"2.5","h":"110","l":"90","c":"105"}`)}
	ev, ok := ParseFrame(raw)
	if !ok {
		t.Fatal("expected ok=true")
	}
	tk, isTicker := ev.(TickerEvent)
	if !isTicker || tk.Symbol != "ETHUSDT" || tk.Last != 105 {
		t.Errorf("unexpected ticker event: %+v isTicker=%v", ev, isTicker)
	}
}

func TestParseFrameBookTicker(t *testing.T) {
	raw := RawFrame{Stream: "btcusdt@bookTicker", Data: []byte(`{"b":"100.0","a":"100.1"}`)}
	ev, ok := ParseFrame(raw)
	if !ok {
		t.Fatal("expected ok=true")
	}
	bt, isBT := ev.(BookTickerEvent)
	if !isBT || bt.BestBid != 100.0 || bt.BestAsk != 100.1 {
		t.Errorf("unexpected book ticker: %+v", ev)
	}
}

func TestParseFrameDepth5(t *testing.T) {
	raw := RawFrame{Stream: "btcusdt@depth5@100ms", Data: []byte(
		`{"bids":[["100","1"],["99","2"],["98","3"],["97","4"],["96","5"]],` +
			`"asks":[["101","1"],["102","2"],["103","3"],["104","4"],["105","5"]]}`)}
	ev, ok := ParseFrame(raw)
	if !ok {
		t.Fatal("expected ok=true")
	}
	d, isDepth := ev.(DepthSnapshotEvent)
	if !isDepth || d.Bids[0].Price != 100 || d.Asks[4].Qty != 5 {
		t.Errorf("unexpected depth snapshot: %+v", ev)
	}
}

func TestParseFrameUnknownStreamDropped(t *testing.T) {
	raw := RawFrame{Stream: "btcusdt@unknownStream", Data: []byte(`{}`)}
	if _, ok := ParseFrame(raw); ok {
		t.Error("expected unknown stream suffix to be dropped")
	}
}

func TestParseFrameMissingAtDropped(t *testing.T) {
	raw := RawFrame{Stream: "malformed", Data: []byte(`{}`)}
	if _, ok := ParseFrame(raw); ok {
		t.Error("expected stream with no '@' to be dropped")
	}
}

func TestParseFrameNonFiniteTradeDropped(t *testing.T) {
	raw := RawFrame{Stream: "btcusdt@aggTrade", Data: []byte(`{"p":"-1","q":"2.0","E":1,"m":false}`)}
	if _, ok := ParseFrame(raw); ok {
		t.Error("expected non-positive price to be dropped")
	}
}
