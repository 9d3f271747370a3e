// 文件: pkg/tape/tape.go
// Tape - 按 pair 聚合成交并生成秒级 K 线，缺口用 flat bar 填补

package tape

import (
	"context"
	"log"
	"sync"
)

// Tape 把每个 pair 的成交流切成秒级柱，当前秒的柱只存在内存中，
// 一旦有新的一秒到来就把已经走完的那根柱（以及期间的空秒）刷给 BarStore。
type Tape struct {
	store BarStore

	mu   sync.Mutex
	open map[string]*SecondBar // 每个 pair 当前正在累积的那根柱
}

// New 构造一个写入 store 的 Tape
func New(store BarStore) *Tape {
	return &Tape{
		store: store,
		open:  make(map[string]*SecondBar),
	}
}

// OnTrade 把一笔成交计入 pair 当前的秒级柱
//
// 如果 tsMs 所在的秒比当前打开的柱新，就把旧柱刷盘、用上一次收盘价
// 填平中间缺失的每一秒，再打开新柱接收这笔成交。
func (t *Tape) OnTrade(ctx context.Context, pair string, price, volumeQuote float64, tsMs int64) {
	tsSec := tsMs / 1000

	t.mu.Lock()
	cur, exists := t.open[pair]
	if !exists {
		bar := NewFlatBar(tsSec, price)
		bar.applyTrade(price, volumeQuote)
		t.open[pair] = &bar
		t.mu.Unlock()
		return
	}

	if tsSec == cur.TsSec {
		cur.applyTrade(price, volumeQuote)
		t.mu.Unlock()
		return
	}

	if tsSec < cur.TsSec {
		// 乱序/重复的旧成交，忽略而不是回滚已经刷出的柱
		t.mu.Unlock()
		return
	}

	toFlush := *cur
	prevClose := cur.Close
	gapStart := cur.TsSec + 1

	next := NewFlatBar(tsSec, prevClose)
	next.applyTrade(price, volumeQuote)
	t.open[pair] = &next
	t.mu.Unlock()

	t.flushBar(ctx, pair, toFlush)
	for sec := gapStart; sec < tsSec; sec++ {
		t.flushBar(ctx, pair, NewFlatBar(sec, prevClose))
	}
}

// GetSecBars 返回 pair 在 [⌊startMs/1000⌋, ⌊endMs/1000⌋] 区间内的柱，按时间升序
func (t *Tape) GetSecBars(ctx context.Context, pair string, startMs, endMs int64) ([]SecondBar, error) {
	return t.store.RangeBars(ctx, pair, startMs/1000, endMs/1000)
}

// Flush 把所有 pair 当前在内存中的柱刷盘；用于优雅关闭
func (t *Tape) Flush(ctx context.Context) {
	t.mu.Lock()
	snapshot := make(map[string]SecondBar, len(t.open))
	for pair, bar := range t.open {
		snapshot[pair] = *bar
	}
	t.mu.Unlock()

	for pair, bar := range snapshot {
		t.flushBar(ctx, pair, bar)
	}
}

func (t *Tape) flushBar(ctx context.Context, pair string, bar SecondBar) {
	if err := t.store.WriteBar(ctx, pair, bar); err != nil {
		log.Printf("[Tape] write failed pair=%s tsSec=%d: %v", pair, bar.TsSec, err)
	}
}
