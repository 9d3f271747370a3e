// 文件: pkg/dispatch/dispatch.go
// Dispatch 循环: 把 canonical 事件路由给对应的 monitor，驱动 250ms 节拍

package dispatch

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/quantgate/gate/pkg/monitor"
	"github.com/quantgate/gate/pkg/stream"
	"github.com/quantgate/gate/pkg/tape"
)

// SignalHandler 在某个 monitor 通过门控时被调用，交给 C5 follow-up dispatcher
type SignalHandler func(ctx context.Context, v *monitor.SignalVector)

// Loop 独占持有 symbol -> monitor 的映射；除了它自己的 goroutine，
// 没有任何代码可以并发访问某个 monitor。
type Loop struct {
	monitors map[string]*monitor.Monitor
	tape     *tape.Tape
	onSignal SignalHandler

	tickInterval time.Duration
}

// New 从 universe 里的每个 symbol 惰性创建一个 monitor；运行期不增删
//
// cfg 是每个 monitor 共用的门控常量集合 (参见 monitor.DefaultConfig)，
// tickInterval 是周期性计算/门控检查的节拍，两者都来自 config.Config。
func New(specs []stream.SymbolSpec, priceTape *tape.Tape, onSignal SignalHandler, cfg monitor.Config, tickInterval time.Duration) *Loop {
	monitors := make(map[string]*monitor.Monitor, len(specs))
	for _, s := range specs {
		monitors[s.Symbol] = monitor.New(s.Symbol, monitor.Tier(s.Tier), cfg)
	}
	return &Loop{
		monitors:     monitors,
		tape:         priceTape,
		onSignal:     onSignal,
		tickInterval: tickInterval,
	}
}

// Run 消费 events，直到 ctx 被取消；同时驱动固定周期的 tick
//
// 关闭顺序: 停止 tick，停止消费事件，刷新价格带。传输层的断开连接
// 由调用方负责（router 自己在 ctx.Done 时退出）。
func (l *Loop) Run(ctx context.Context, events <-chan stream.CanonicalEvent) {
	ticker := time.NewTicker(l.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.tape.Flush(context.Background())
			return

		case ev, ok := <-events:
			if !ok {
				l.tape.Flush(context.Background())
				return
			}
			l.routeEvent(ctx, ev)

		case tick := <-ticker.C:
			l.runTick(ctx, tick.UnixMilli())
		}
	}
}

func (l *Loop) routeEvent(ctx context.Context, ev stream.CanonicalEvent) {
	symbol := stream.Symbol(ev)
	mon, ok := l.monitors[symbol]
	if !ok {
		return // 不在 universe 里的交易对，静默丢弃
	}

	switch e := ev.(type) {
	case stream.AggTradeEvent:
		mon.AddAggTrade(monitor.AggTrade{
			Price:        e.Price,
			Qty:          e.Qty,
			EventTimeMs:  e.EventTimeMs,
			BuyerIsMaker: e.BuyerIsMaker,
		})
		l.tape.OnTrade(ctx, symbol, e.Price, e.Price*e.Qty, e.EventTimeMs)

	case stream.TickerEvent:
		mon.ApplyTicker(e.QuoteVol24h, e.ChangePct24h, e.High24h, e.Low24h, e.Last)

	case stream.BookTickerEvent:
		mon.ApplyBookTicker(e.BestBid, e.BestAsk)

	case stream.DepthSnapshotEvent:
		var bids, asks [5]float64
		for i := 0; i < 5; i++ {
			bids[i] = e.Bids[i].Qty
			asks[i] = e.Asks[i].Qty
		}
		mon.UpdateDepthSnapshot(bids, asks)
	}
}

// runTick 每个 monitor 最多被访问一次；按 symbol 字典序遍历，每次 tick 顺序相同
func (l *Loop) runTick(ctx context.Context, nowMs int64) {
	symbols := make([]string, 0, len(l.monitors))
	for symbol := range l.monitors {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		mon := l.monitors[symbol]
		mon.PerformPeriodicCalculations(nowMs)
		sig, ok := mon.CheckSignal(nowMs)
		if !ok {
			continue
		}
		log.Printf("[Dispatch] signal symbol=%s price=%.8f", symbol, sig.TriggerPrice)
		if l.onSignal != nil {
			l.onSignal(ctx, sig)
		}
	}
}
