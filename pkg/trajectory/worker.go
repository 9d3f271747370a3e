// 文件: pkg/trajectory/worker.go
// Worker: 消费延迟价格轨迹任务，读取秒级柱，计算并持久化

package trajectory

import (
	"context"
	"fmt"
	"log"

	"github.com/quantgate/gate/pkg/kafka"
	"github.com/quantgate/gate/pkg/tape"
)

// Worker 把延迟任务转换成一次轨迹计算并持久化
type Worker struct {
	exchange string
	bars     tape.BarStore
	store    TrajectoryStore
}

// NewWorker 组装读取秒级柱的 store 和落库的 TrajectoryStore
func NewWorker(exchange string, bars tape.BarStore, store TrajectoryStore) *Worker {
	return &Worker{exchange: exchange, bars: bars, store: store}
}

// HandleMessage 匹配 pkg/kafka.TaskHandler 的签名，可以直接传给 kafka.NewConsumer
func (w *Worker) HandleMessage(task kafka.TaskMessage) error {
	return w.Process(context.Background(), task.SignalID, task.Symbol, task.TimestampMs)
}

// Process 读取 [timestamp, timestamp+1800000-1000] 区间的秒级柱，计算轨迹并持久化
//
// 没有任何柱时仍然落库：sigma30m=nil，每个偏移点 price=nil, volume=0，
// 只是记一条告警日志，不把任务当作失败重试。
func (w *Worker) Process(ctx context.Context, signalID, symbol string, startMs int64) error {
	endMs := startMs + windowSeconds*1000 - 1000

	bars, err := w.bars.RangeBars(ctx, symbol, startMs/1000, endMs/1000)
	if err != nil {
		return fmt.Errorf("trajectory: range bars symbol=%s: %w", symbol, err)
	}
	if len(bars) == 0 {
		log.Printf("[Trajectory] no bars in window signalId=%s symbol=%s start=%d", signalID, symbol, startMs)
	}

	result := Compute(bars, startMs)
	if err := w.store.Persist(ctx, signalID, symbol, w.exchange, result); err != nil {
		return fmt.Errorf("trajectory: persist signalId=%s: %w", signalID, err)
	}
	return nil
}
