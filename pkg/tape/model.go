// 文件: pkg/tape/model.go
// 秒级 K 线（SecondBar）数据模型

package tape

// SecondBar 秒级 OHLCV 柱
//
// 同一秒内的第一笔成交开盘(Open)，High/Low 随每笔成交更新，
// Close 取该秒内最后一笔成交价，Volume 累加报价货币计价的成交额。
//
// 秒与秒之间如果没有成交，会用 flat bar 填补空隙：
// open=high=low=close=上一根的close，volume=0。
type SecondBar struct {
	TsSec  int64 // 该柱对应的 unix 秒
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64 // 报价货币计价的成交额 (price*qty 的累加)
}

// NewFlatBar 构造一根没有成交的填充柱
func NewFlatBar(tsSec int64, prevClose float64) SecondBar {
	return SecondBar{
		TsSec:  tsSec,
		Open:   prevClose,
		High:   prevClose,
		Low:    prevClose,
		Close:  prevClose,
		Volume: 0,
	}
}

// applyTrade 把一笔成交应用到当前柱上（柱已经 Open 过）
func (b *SecondBar) applyTrade(price, volumeQuote float64) {
	if price > b.High {
		b.High = price
	}
	if price < b.Low {
		b.Low = price
	}
	b.Close = price
	b.Volume += volumeQuote
}
