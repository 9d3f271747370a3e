// 文件: pkg/tape/memory_store.go
// BarStore 的内存实现 - 用于测试和不依赖 Redis 的开发环境

package tape

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore 把每个 pair 的柱保存在内存里的有序 slice 中
//
// 并发安全，但不做任何持久化；进程重启后数据丢失。
type MemoryStore struct {
	mu   sync.RWMutex
	bars map[string][]SecondBar // 按 pair 分组，按 TsSec 升序保存
}

// NewMemoryStore 创建一个空的内存 BarStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bars: make(map[string][]SecondBar)}
}

// WriteBar 写入或替换某一秒的柱，保持 slice 按 TsSec 升序
func (s *MemoryStore) WriteBar(_ context.Context, pair string, bar SecondBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.bars[pair]
	idx := sort.Search(len(list), func(i int) bool { return list[i].TsSec >= bar.TsSec })
	switch {
	case idx < len(list) && list[idx].TsSec == bar.TsSec:
		list[idx] = bar
	case idx == len(list):
		list = append(list, bar)
	default:
		list = append(list, SecondBar{})
		copy(list[idx+1:], list[idx:])
		list[idx] = bar
	}
	s.bars[pair] = list
	return nil
}

// RangeBars 返回 [startSec, endSec] 区间内的柱，按时间升序
func (s *MemoryStore) RangeBars(_ context.Context, pair string, startSec, endSec int64) ([]SecondBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.bars[pair]
	lo := sort.Search(len(list), func(i int) bool { return list[i].TsSec >= startSec })
	out := make([]SecondBar, 0, len(list)-lo)
	for i := lo; i < len(list) && list[i].TsSec <= endSec; i++ {
		out = append(out, list[i])
	}
	return out, nil
}
