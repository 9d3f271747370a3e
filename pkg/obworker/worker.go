// 文件: pkg/obworker/worker.go
// Worker: 消费延迟订单簿任务，拉取深度快照，算特征并追加持久化

package obworker

import (
	"context"
	"log"
	"time"

	"github.com/quantgate/gate/pkg/kafka"
)

// Worker 把延迟任务转换成一次深度快照拉取 + 特征计算 + 追加持久化
type Worker struct {
	fetcher DepthFetcher
	store   OrderbookStore
}

// NewWorker 组装 REST 拉取器和落库的 OrderbookStore
func NewWorker(fetcher DepthFetcher, store OrderbookStore) *Worker {
	return &Worker{fetcher: fetcher, store: store}
}

// HandleMessage 匹配 pkg/kafka.TaskHandler 的签名，可以直接传给 kafka.NewConsumer
func (w *Worker) HandleMessage(task kafka.TaskMessage) error {
	w.Process(context.Background(), task.SignalID, task.Symbol, task.TOffsetSec)
	return nil
}

// Process 拉取一次深度快照并追加持久化；REST 失败只记日志，不影响同一信号的其它偏移
func (w *Worker) Process(ctx context.Context, signalID, symbol string, tOffsetSec int) {
	snap, err := w.fetcher.FetchDepth5(ctx, symbol)
	if err != nil {
		log.Printf("[Orderbook] fetch failed signalId=%s symbol=%s offset=%ds: %v", signalID, symbol, tOffsetSec, err)
		return
	}

	feat := ComputeFeatures(snap)
	record := Snapshot{
		TOffsetSec:         tOffsetSec,
		TsMs:               time.Now().UnixMilli(),
		BidSum:             feat.BidSum,
		AskSum:             feat.AskSum,
		Imbalance:          feat.Imbalance,
		BidSumUsdt:         feat.BidSumUsdt,
		AskSumUsdt:         feat.AskSumUsdt,
		TotalLiquidityUsdt: feat.TotalLiquidityUsdt,
		ImbalanceUsdt:      feat.ImbalanceUsdt,
		MidPrice:           feat.MidPrice,
		BestBid:            feat.BestBid,
		BestAsk:            feat.BestAsk,
		SpreadBps:          feat.SpreadBps,
	}

	if err := w.store.AppendSnapshot(ctx, signalID, symbol, record); err != nil {
		log.Printf("[Orderbook] persist failed signalId=%s symbol=%s offset=%ds: %v", signalID, symbol, tOffsetSec, err)
	}
}
