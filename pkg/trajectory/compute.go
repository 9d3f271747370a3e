// 文件: pkg/trajectory/compute.go
// sigma30m 计算与偏移网格重采样

package trajectory

import (
	"math"
	"sort"

	"github.com/quantgate/gate/pkg/tape"
)

// windowSeconds 是轨迹窗口的长度：30 分钟
const windowSeconds = 30 * 60

// OffsetPrice 是网格上某个偏移点采到的价格/成交量
type OffsetPrice struct {
	TOffsetSec int
	Price      *float64
	Volume     float64
}

// Result 是一个信号的完整价格轨迹计算结果
type Result struct {
	Sigma30m *float64
	Prices   []OffsetPrice
}

// Compute 用 [start, start+1800000) 区间内的秒级柱计算 sigma30m 并重采样到固定网格
//
// bars 必须按 TsSec 升序排列；startMs 是信号触发的时间戳
func Compute(bars []tape.SecondBar, startMs int64) Result {
	sigma := computeSigma30m(bars)

	startSec := startMs / 1000
	prices := make([]OffsetPrice, 0, len(offsetGrid))
	for _, offset := range offsetGrid {
		targetSec := startSec + int64(offset)
		bar, ok := findAtOrAfter(bars, targetSec)
		if !ok {
			prices = append(prices, OffsetPrice{TOffsetSec: offset, Price: nil, Volume: 0})
			continue
		}
		price := bar.Close
		prices = append(prices, OffsetPrice{TOffsetSec: offset, Price: &price, Volume: bar.Volume})
	}

	return Result{Sigma30m: sigma, Prices: prices}
}

// computeSigma30m 对相邻收盘价的对数收益率取总体标准差；少于 2 个收益率时返回 nil
func computeSigma30m(bars []tape.SecondBar) *float64 {
	returns := make([]float64, 0, len(bars))
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1].Close, bars[i].Close
		if prev <= 0 || cur <= 0 {
			continue
		}
		returns = append(returns, math.Log(cur/prev))
	}
	if len(returns) < 2 {
		return nil
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	sigma := math.Sqrt(variance)
	return &sigma
}

// findAtOrAfter 返回 bars 中第一根 TsSec >= targetSec 的柱；如果没有，
// 退化为最后一根可用的柱（spec 规定的 "else the last available bar"）
func findAtOrAfter(bars []tape.SecondBar, targetSec int64) (tape.SecondBar, bool) {
	if len(bars) == 0 {
		return tape.SecondBar{}, false
	}
	idx := sort.Search(len(bars), func(i int) bool { return bars[i].TsSec >= targetSec })
	if idx < len(bars) {
		return bars[idx], true
	}
	return bars[len(bars)-1], true
}
