// 文件: pkg/signal/scheduler.go
// TaskScheduler: 延迟任务入队接口及其 Kafka 实现

package signal

import (
	"context"

	"github.com/quantgate/gate/pkg/kafka"
)

// TaskScheduler 把一个 payload 投递到 queue，延迟 delayMs 毫秒后才真正发送
//
// timestampMs 是可选的载荷字段（只有价格轨迹任务的 wire payload 会用到，
// 订单簿任务的 payload 里不带这个字段，传 0）；emittedAtMs 是信号触发时刻，
// 始终用来算 DispatchAt = emittedAtMs + delayMs —— 两者不能合并成一个参数，
// 否则订单簿任务传 0 会把 DispatchAt 算到 1970 年附近。
type TaskScheduler interface {
	Enqueue(ctx context.Context, queue, kind, signalID, symbol string, tOffsetSec int, timestampMs, emittedAtMs, delayMs int64) error
}

// KafkaScheduler 用 DelayQueue 持有到点前的任务，到点后通过 kafka.Producer 发送
type KafkaScheduler struct {
	producer *kafka.Producer
	delay    *DelayQueue
}

// NewKafkaScheduler 包装一个已经建好的 kafka.Producer；调用方需要额外 go scheduler.Run(ctx)
func NewKafkaScheduler(producer *kafka.Producer) *KafkaScheduler {
	s := &KafkaScheduler{producer: producer}
	s.delay = newDelayQueue(s)
	return s
}

// Run 驱动内部延迟队列的到点投递，直到 ctx 被取消
func (s *KafkaScheduler) Run(ctx context.Context) { s.delay.Run(ctx) }

func (s *KafkaScheduler) Enqueue(ctx context.Context, queue, kind, signalID, symbol string, tOffsetSec int, timestampMs, emittedAtMs, delayMs int64) error {
	task := DelayedTask{
		Queue:       queue,
		Kind:        kind,
		SignalID:    signalID,
		Symbol:      symbol,
		TOffsetSec:  tOffsetSec,
		TimestampMs: timestampMs,
		DispatchAt:  emittedAtMs + delayMs,
	}
	s.delay.Schedule(task)
	return nil
}

func (s *KafkaScheduler) send(task DelayedTask) error {
	return s.producer.SendTask(kafka.TaskMessage{
		Queue:       task.Queue,
		SignalID:    task.SignalID,
		Symbol:      task.Symbol,
		Kind:        task.Kind,
		TOffsetSec:  task.TOffsetSec,
		TimestampMs: task.TimestampMs,
	})
}
