// 文件: pkg/signal/task.go
// DelayedTask: C5 入队、C6/C7 消费的延迟任务载荷

package signal

// DelayedTask 描述一个要在 DispatchAt 之后投递的任务
//
// Kafka 本身没有延迟投递能力，所以这里只是描述"应该何时被投递"；
// 真正的延迟由 DelayQueue 在进程内实现，到点后才调用底层 Producer。
type DelayedTask struct {
	Queue       string
	Kind        string
	SignalID    string
	Symbol      string
	TOffsetSec  int
	TimestampMs int64
	DispatchAt  int64 // epoch ms，只在进程内的延迟队列里使用
}
