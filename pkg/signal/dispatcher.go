// 文件: pkg/signal/dispatcher.go
// FollowUpDispatcher: 信号持久化 + 延迟任务入队 + 实时广播

package signal

import (
	"context"
	"log"

	"github.com/quantgate/gate/pkg/monitor"
)

const (
	orderbookDelay3s  = 3_000
	orderbookDelay10s = 10_000
	orderbookDelay30s = 30_000
	priceDelayMs      = 31 * 60 * 1000
)

// SignalBroadcaster 把一个通过门控的信号实时扇出给订阅者；
// 进程内订阅用 Broadcaster[*monitor.SignalVector]，跨进程订阅用 NatsBroadcaster
type SignalBroadcaster interface {
	Broadcast(v *monitor.SignalVector)
}

// FollowUpDispatcher 实现 dispatch.SignalHandler：每当一个 monitor 通过门控，
// 就持久化信号向量，并为它安排价格轨迹和订单簿快照的延迟任务。
type FollowUpDispatcher struct {
	exchange    string
	sink        SignalSink
	scheduler   TaskScheduler
	broadcaster SignalBroadcaster
}

// NewFollowUpDispatcher 组装持久化、调度和广播三个依赖；broadcaster 可以是 nil
func NewFollowUpDispatcher(exchange string, sink SignalSink, scheduler TaskScheduler, broadcaster SignalBroadcaster) *FollowUpDispatcher {
	return &FollowUpDispatcher{
		exchange:    exchange,
		sink:        sink,
		scheduler:   scheduler,
		broadcaster: broadcaster,
	}
}

// HandleSignal 匹配 dispatch.SignalHandler 的签名，可以直接作为回调传进 dispatch.New
func (d *FollowUpDispatcher) HandleSignal(ctx context.Context, v *monitor.SignalVector) {
	v.Exchange = d.exchange

	id, err := d.sink.Persist(ctx, d.exchange, v)
	if err != nil {
		// 持久化失败就不再安排后续任务：这次信号的后续观测被放弃
		log.Printf("[Signal] persist failed symbol=%s: %v", v.Symbol, err)
		return
	}

	orderQueue := d.exchange + "_order"
	orderKind := d.exchange + "_orderbook"
	for _, leg := range []struct {
		delayMs int64
		offset  int
	}{
		{orderbookDelay3s, 3},
		{orderbookDelay10s, 10},
		{orderbookDelay30s, 30},
	} {
		if err := d.scheduler.Enqueue(ctx, orderQueue, orderKind, id, v.Symbol, leg.offset, 0, v.SignalTimestampMs, leg.delayMs); err != nil {
			log.Printf("[Signal] enqueue orderbook task failed signalId=%s offset=%ds: %v", id, leg.offset, err)
		}
	}

	priceQueue := d.exchange + "_price"
	priceKind := d.exchange + "_price"
	if err := d.scheduler.Enqueue(ctx, priceQueue, priceKind, id, v.Symbol, 0, v.SignalTimestampMs, v.SignalTimestampMs, priceDelayMs); err != nil {
		log.Printf("[Signal] enqueue trajectory task failed signalId=%s: %v", id, err)
	}

	if d.broadcaster != nil {
		d.broadcaster.Broadcast(v)
	}
}
