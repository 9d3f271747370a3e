// 文件: pkg/obworker/client.go
// DepthFetcher: 拉取 depth-5 REST 快照，底层用 retryablehttp 做重试/退避

package obworker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/quantgate/gate/pkg/stream"
)

// DepthFetcher 拉取一个交易对的 top-5 深度快照
type DepthFetcher interface {
	FetchDepth5(ctx context.Context, symbol string) (DepthSnapshot, error)
}

// RESTDepthFetcher 用带重试的 HTTP 客户端拉取 depth-5 快照
type RESTDepthFetcher struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewRESTDepthFetcher 构造一个最多重试 5 次的拉取器
func NewRESTDepthFetcher(baseURL string) *RESTDepthFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 5
	client.Logger = nil

	return &RESTDepthFetcher{baseURL: baseURL, client: client}
}

type depthResponse struct {
	Bids [][2]jsonNumber `json:"bids"`
	Asks [][2]jsonNumber `json:"asks"`
}

type jsonNumber string

func (n *jsonNumber) UnmarshalJSON(data []byte) error {
	*n = jsonNumber(data)
	return nil
}

func (n jsonNumber) float() float64 {
	f, _ := strconv.ParseFloat(strings.Trim(string(n), `"`), 64)
	return f
}

// FetchDepth5 拉取 symbol 的 depth-5 快照并解析成 DepthSnapshot
func (f *RESTDepthFetcher) FetchDepth5(ctx context.Context, symbol string) (DepthSnapshot, error) {
	url := fmt.Sprintf("%s/depth?symbol=%s&limit=5", f.baseURL, symbol)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return DepthSnapshot{}, fmt.Errorf("obworker: build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return DepthSnapshot{}, fmt.Errorf("obworker: fetch depth symbol=%s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DepthSnapshot{}, fmt.Errorf("obworker: fetch depth symbol=%s: status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return DepthSnapshot{}, fmt.Errorf("obworker: read body symbol=%s: %w", symbol, err)
	}

	var parsed depthResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return DepthSnapshot{}, fmt.Errorf("obworker: decode body symbol=%s: %w", symbol, err)
	}
	if len(parsed.Bids) < 5 || len(parsed.Asks) < 5 {
		return DepthSnapshot{}, fmt.Errorf("obworker: depth symbol=%s has fewer than 5 levels", symbol)
	}

	var snap DepthSnapshot
	for i := 0; i < 5; i++ {
		snap.Bids[i] = stream.PriceLevel{Price: parsed.Bids[i][0].float(), Qty: parsed.Bids[i][1].float()}
		snap.Asks[i] = stream.PriceLevel{Price: parsed.Asks[i][0].float(), Qty: parsed.Asks[i][1].float()}
	}
	return snap, nil
}
