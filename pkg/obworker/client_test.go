package obworker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRESTDepthFetcherParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bids": [["100.0","1.0"],["99.0","1.0"],["98.0","1.0"],["97.0","1.0"],["96.0","1.0"]],
			"asks": [["101.0","1.0"],["102.0","1.0"],["103.0","1.0"],["104.0","1.0"],["105.0","1.0"]]
		}`))
	}))
	defer srv.Close()

	fetcher := NewRESTDepthFetcher(srv.URL)
	snap, err := fetcher.FetchDepth5(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("FetchDepth5 returned error: %v", err)
	}
	if snap.Bids[0].Price != 100.0 || snap.Asks[0].Price != 101.0 {
		t.Errorf("bestBid=%v bestAsk=%v, want 100.0 and 101.0", snap.Bids[0].Price, snap.Asks[0].Price)
	}
}

func TestRESTDepthFetcherRejectsShortBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bids":[["100.0","1.0"]],"asks":[["101.0","1.0"]]}`))
	}))
	defer srv.Close()

	fetcher := NewRESTDepthFetcher(srv.URL)
	fetcher.client.RetryMax = 0
	if _, err := fetcher.FetchDepth5(context.Background(), "BTCUSDT"); err == nil {
		t.Error("expected an error for a book with fewer than 5 levels")
	}
}
