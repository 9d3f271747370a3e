// 文件: pkg/stream/parse.go
// 把交易所原始帧 {stream, data} 解析成 CanonicalEvent

package stream

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawFrame 是传输层收到的原始推送帧
type RawFrame struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type aggTradeData struct {
	Price        jsonNumber `json:"p"`
	Qty          jsonNumber `json:"q"`
	EventTimeMs  int64      `json:"E"`
	BuyerIsMaker bool       `json:"m"`
}

type tickerData struct {
	QuoteVol24h  jsonNumber `json:"q"`
	ChangePct24h jsonNumber `json:"P"`
	High24h      jsonNumber `json:"h"`
	Low24h       jsonNumber `json:"l"`
	Last         jsonNumber `json:"c"`
}

type bookTickerData struct {
	BestBid jsonNumber `json:"b"`
	BestAsk jsonNumber `json:"a"`
}

type depth5Data struct {
	Bids [][2]jsonNumber `json:"bids"`
	Asks [][2]jsonNumber `json:"asks"`
}

// jsonNumber 接受字符串或数字形式的浮点数 (交易所推送两种都有可能出现)
type jsonNumber float64

func (n *jsonNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = jsonNumber(v)
	return nil
}

// ParseFrame 把一帧原始推送解析为 CanonicalEvent
//
// symbol 取 stream 前缀（第一个 @ 之前）并大写；未知的 stream 后缀返回 ok=false。
// 任何必需数值字段缺失或非有限值的帧同样被静默丢弃。
func ParseFrame(raw RawFrame) (CanonicalEvent, bool) {
	at := strings.Index(raw.Stream, "@")
	if at < 0 {
		return nil, false
	}
	symbol := strings.ToUpper(raw.Stream[:at])
	suffix := raw.Stream[at+1:]

	switch {
	case suffix == "aggTrade":
		d := aggTradeData{EventTimeMs: -1}
		if json.Unmarshal(raw.Data, &d) != nil || d.EventTimeMs < 0 {
			return nil, false
		}
		ev := AggTradeEvent{
			Symbol:       symbol,
			Price:        float64(d.Price),
			Qty:          float64(d.Qty),
			EventTimeMs:  d.EventTimeMs,
			BuyerIsMaker: d.BuyerIsMaker,
		}
		if !isFinitePositive(ev.Price) || !isFinitePositive(ev.Qty) {
			return nil, false
		}
		return ev, true

	case suffix == "ticker":
		nan := jsonNumber(math.NaN()) // 缺失字段保持 NaN，被下面的 allFinite 拦下
		d := tickerData{QuoteVol24h: nan, ChangePct24h: nan, High24h: nan, Low24h: nan, Last: nan}
		if json.Unmarshal(raw.Data, &d) != nil {
			return nil, false
		}
		ev := TickerEvent{
			Symbol:       symbol,
			QuoteVol24h:  float64(d.QuoteVol24h),
			ChangePct24h: float64(d.ChangePct24h),
			High24h:      float64(d.High24h),
			Low24h:       float64(d.Low24h),
			Last:         float64(d.Last),
		}
		if !allFinite(ev.QuoteVol24h, ev.ChangePct24h, ev.High24h, ev.Low24h, ev.Last) {
			return nil, false
		}
		return ev, true

	case suffix == "bookTicker":
		nan := jsonNumber(math.NaN())
		d := bookTickerData{BestBid: nan, BestAsk: nan}
		if json.Unmarshal(raw.Data, &d) != nil {
			return nil, false
		}
		ev := BookTickerEvent{Symbol: symbol, BestBid: float64(d.BestBid), BestAsk: float64(d.BestAsk)}
		if !allFinite(ev.BestBid, ev.BestAsk) {
			return nil, false
		}
		return ev, true

	case strings.HasPrefix(suffix, "depth5"):
		var d depth5Data
		if json.Unmarshal(raw.Data, &d) != nil {
			return nil, false
		}
		if len(d.Bids) < 5 || len(d.Asks) < 5 {
			return nil, false
		}
		ev := DepthSnapshotEvent{Symbol: symbol}
		for i := 0; i < 5; i++ {
			ev.Bids[i] = PriceLevel{Price: float64(d.Bids[i][0]), Qty: float64(d.Bids[i][1])}
			ev.Asks[i] = PriceLevel{Price: float64(d.Asks[i][0]), Qty: float64(d.Asks[i][1])}
			if !allFinite(ev.Bids[i].Price, ev.Bids[i].Qty, ev.Asks[i].Price, ev.Asks[i].Qty) {
				return nil, false
			}
		}
		return ev, true

	default:
		return nil, false
	}
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
