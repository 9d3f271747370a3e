// 文件: pkg/stream/event.go
// CanonicalEvent: 交易所原始推送帧归一化后的标签联合类型

package stream

// CanonicalEvent 是传输层交给 dispatch 循环的统一事件形状
//
// 用 type switch 匹配具体分支，而不是继续按 stream 后缀字符串分发。
type CanonicalEvent interface {
	symbol() string
	isCanonicalEvent()
}

// AggTradeEvent 对应 "<symbol>@aggTrade"
type AggTradeEvent struct {
	Symbol       string
	Price        float64
	Qty          float64
	EventTimeMs  int64
	BuyerIsMaker bool
}

// TickerEvent 对应 "<symbol>@ticker"
type TickerEvent struct {
	Symbol       string
	QuoteVol24h  float64
	ChangePct24h float64
	High24h      float64
	Low24h       float64
	Last         float64
}

// BookTickerEvent 对应 "<symbol>@bookTicker"
type BookTickerEvent struct {
	Symbol  string
	BestBid float64
	BestAsk float64
}

// DepthSnapshotEvent 对应 "<symbol>@depth5@100ms"
type DepthSnapshotEvent struct {
	Symbol string
	Bids   [5]PriceLevel
	Asks   [5]PriceLevel
}

// PriceLevel 是深度快照里的一档 (price, qty)
type PriceLevel struct {
	Price float64
	Qty   float64
}

func (AggTradeEvent) isCanonicalEvent()      {}
func (TickerEvent) isCanonicalEvent()        {}
func (BookTickerEvent) isCanonicalEvent()    {}
func (DepthSnapshotEvent) isCanonicalEvent() {}

func (e AggTradeEvent) symbol() string      { return e.Symbol }
func (e TickerEvent) symbol() string        { return e.Symbol }
func (e BookTickerEvent) symbol() string    { return e.Symbol }
func (e DepthSnapshotEvent) symbol() string { return e.Symbol }

// Symbol 返回事件所属的交易对，已经过大写归一化
func Symbol(e CanonicalEvent) string { return e.symbol() }
