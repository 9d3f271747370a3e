// 文件: pkg/tape/store.go
// 秒级 K 线的持久化契约与 CSV 编解码

package tape

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// retentionDays 秒级 K 线在外部存储中的保留期限
//
// 每次写入都会把 key 的 TTL 刷新到这个值，这样活跃交易对的数据
// 永远不会过期，而下线的交易对会在 45 天后自然清理。
const retentionDays = 45

// BarStore 秒级 K 线的持久化接口
//
// 按 pair 分 key，value 按 TsSec 排序存储；读取是按分数区间的范围扫描。
// 实现需要在每次写入时把 key 的 TTL 刷新到 45 天 (retentionDays)。
type BarStore interface {
	// WriteBar 把一根柱写入 pair 对应的有序结构，并刷新 TTL
	WriteBar(ctx context.Context, pair string, bar SecondBar) error

	// RangeBars 返回 [startSec, endSec] 区间内的所有柱，按时间升序
	RangeBars(ctx context.Context, pair string, startSec, endSec int64) ([]SecondBar, error)
}

// EncodeBar 把一根柱编码为 CSV: open,high,low,close,volume
func EncodeBar(b SecondBar) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s",
		formatFloat(b.Open), formatFloat(b.High), formatFloat(b.Low),
		formatFloat(b.Close), formatFloat(b.Volume))
}

// DecodeBar 从 CSV 还原一根柱；tsSec 由调用方单独传入，不编码进 CSV 里
// (RedisStore 从 member 的 "tsSec|" 前缀取得)
func DecodeBar(tsSec int64, csv string) (SecondBar, error) {
	parts := strings.Split(csv, ",")
	if len(parts) != 5 {
		return SecondBar{}, fmt.Errorf("tape: malformed bar encoding %q", csv)
	}
	vals := make([]float64, 5)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return SecondBar{}, fmt.Errorf("tape: bad float field %d in %q: %w", i, csv, err)
		}
		vals[i] = v
	}
	return SecondBar{
		TsSec:  tsSec,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
