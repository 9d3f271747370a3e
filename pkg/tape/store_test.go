package tape

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bar := SecondBar{TsSec: 1_700_000_000, Open: 101.5, High: 102.25, Low: 100.75, Close: 101.9, Volume: 1234.56}
	csv := EncodeBar(bar)
	got, err := DecodeBar(bar.TsSec, csv)
	if err != nil {
		t.Fatalf("DecodeBar: %v", err)
	}
	if got != bar {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, bar)
	}
}

func TestDecodeBarRejectsMalformed(t *testing.T) {
	if _, err := DecodeBar(1, "1,2,3"); err == nil {
		t.Error("expected error for wrong field count")
	}
	if _, err := DecodeBar(1, "1,2,3,4,nope"); err == nil {
		t.Error("expected error for non-numeric field")
	}
}
