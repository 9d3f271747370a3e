// 文件: pkg/signal/delayqueue.go
// DelayQueue: Kafka 没有原生延迟投递，这里用进程内的最小堆 + 定时器补上这一环
//
// 任务到点之前只存在内存里；进程重启会丢失尚未到点的任务（与 spec 里
// "removeOnComplete/removeOnFail, 只在 enqueue 和首次尝试之间持久" 的
// 语义一致 —— 这个队列本来就不追求跨重启持久化）。

package signal

import (
	"container/heap"
	"context"
	"log"
	"sync"
	"time"
)

// taskSender 是延迟到点后真正投递任务的底层通道
type taskSender interface {
	send(task DelayedTask) error
}

type delayItem struct {
	task  DelayedTask
	index int
}

type delayHeap []*delayItem

func (h delayHeap) Len() int            { return len(h) }
func (h delayHeap) Less(i, j int) bool  { return h[i].task.DispatchAt < h[j].task.DispatchAt }
func (h delayHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *delayHeap) Push(x any)         { it := x.(*delayItem); it.index = len(*h); *h = append(*h, it) }
func (h *delayHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// DelayQueue 在后台 goroutine 里持有一个最小堆，到点的任务交给 sender 投递
type DelayQueue struct {
	sender taskSender

	mu   sync.Mutex
	heap delayHeap
	wake chan struct{}
}

func newDelayQueue(sender taskSender) *DelayQueue {
	return &DelayQueue{sender: sender, wake: make(chan struct{}, 1)}
}

// Schedule 把一个任务放进队列，在 task.DispatchAt 之后（最多额外等一次定时器周期）投递
func (q *DelayQueue) Schedule(task DelayedTask) {
	q.mu.Lock()
	heap.Push(&q.heap, &delayItem{task: task})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Run 驱动到点投递，直到 ctx 被取消
func (q *DelayQueue) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		q.mu.Lock()
		var wait time.Duration
		if q.heap.Len() == 0 {
			wait = time.Hour
		} else {
			dispatchAt := q.heap[0].task.DispatchAt
			wait = time.Until(time.UnixMilli(dispatchAt))
			if wait < 0 {
				wait = 0
			}
		}
		q.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case <-q.wake:
			continue
		case <-timer.C:
			q.drainDue()
		}
	}
}

func (q *DelayQueue) drainDue() {
	now := time.Now().UnixMilli()
	for {
		q.mu.Lock()
		if q.heap.Len() == 0 || q.heap[0].task.DispatchAt > now {
			q.mu.Unlock()
			return
		}
		item := heap.Pop(&q.heap).(*delayItem)
		q.mu.Unlock()

		if err := q.sender.send(item.task); err != nil {
			log.Printf("[Signal] enqueue failed queue=%s kind=%s signalId=%s: %v",
				item.task.Queue, item.task.Kind, item.task.SignalID, err)
		}
	}
}
