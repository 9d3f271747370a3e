// 文件: pkg/monitor/state.go
// SymbolMonitor: 单个交易对的全部流式状态

package monitor

import (
	"github.com/quantgate/gate/pkg/ringbuf"
)

// Monitor 持有单个 (symbol, tier) 的全部滑动窗口状态
//
// 只应该被 dispatch 循环的同一个 goroutine 访问：事件处理函数和周期性
// 计算都不是并发安全的，调用方负责保证单写者。
type Monitor struct {
	Symbol string
	Tier   Tier
	cfg    Config

	aggTrades      *ringbuf.Buffer[AggTrade]
	priceBuckets   *ringbuf.Buffer[priceBucket]
	returnHistory  *ringbuf.Buffer[returnPoint]
	effSpreadHist  *ringbuf.Buffer[float64]
	tradeImbHist   *ringbuf.Buffer[float64]
	imbalanceHist  *ringbuf.Buffer[float64]
	volAccelHist   *ringbuf.Buffer[float64]
	slopeHist      *ringbuf.Buffer[float64]
	rsiPriceHist   *ringbuf.Buffer[float64]

	// 报价 / 最新成交
	bestBid, bestAsk, mid float64
	lastPrice             float64

	// 24h ticker 快照
	ticker24hrVolumeUsdt     float64
	ticker24hrPriceChangePct float64
	ticker24hrHigh           float64
	ticker24hrLow            float64

	// 深度快照
	depth5BidVolume    float64
	depth5AskVolume    float64
	depth5TotalVolume  float64
	depth5VolumeRatio  float64
	depth5ObImbalance  float64
	prevImbalance      float64
	imbalanceMA5       float64
	imbalanceMA20      float64
	imbalanceVelocity  float64
	imbalanceVolatility float64

	effectiveSpreadMean float64

	// 已实现波动率 (对数收益)
	prevRefPrice     float64
	haveRefPrice     bool
	lastReturnSec    int64
	volatility30s    float64
	volatility5m     float64
	volatilityRatio  float64

	// 1 秒成交聚合
	vol1s        float64
	tradeCount1s int
	takerBuy1s   float64
	takerSell1s  float64

	// 成交额 EWMA
	ewmaSeeded bool
	ewmaFast   float64
	ewma1m     float64
	ewma5m     float64
	prevFast   float64
	volumeAccel float64
	accelSigma  float64

	// 价格桶当前槽位
	curBucketFloor int64
	haveCurBucket  bool

	// EMA 栈
	emaSeeded bool
	ema9      float64
	ema21     float64
	ema50     float64

	// RSI(9), Wilder 平滑
	rsiSeeded bool
	avgGain   float64
	avgLoss   float64
	rsi9      float64

	// PPO/MACD
	ppoSeeded  bool
	ppoEmaFast float64
	ppoEmaSlow float64
	ppoSignal  float64
	ppoLine    float64
	ppoHist    float64

	// Taker flow
	takerRatioSmoothed float64
	takerRatioSeeded   bool

	// 价格斜率
	priceSlope      float64
	priceSlopeSeeded bool
	priceSlopeSigma float64

	// 信号冷却 & 时间缓存
	lastSignalTriggerTime int64
	timeCacheRefreshedAt  int64
	hourOfDay             int
	dayOfWeek             int
	isWeekend             bool
}

// New 为 symbol/tier 创建一个监控器，门控常量取自 cfg (参见 DefaultConfig)
func New(symbol string, tier Tier, cfg Config) *Monitor {
	return &Monitor{
		Symbol: symbol,
		Tier:   tier,
		cfg:    cfg,

		aggTrades:     ringbuf.New[AggTrade](cfg.AggTradeBufferSize),
		priceBuckets:  ringbuf.New[priceBucket](priceBucketHistoryCap),
		returnHistory: ringbuf.New[returnPoint](returnHistoryCap),
		effSpreadHist: ringbuf.New[float64](effectiveSpreadCap),
		tradeImbHist:  ringbuf.New[float64](tradeImbalanceCap),
		imbalanceHist: ringbuf.New[float64](imbalanceHistoryCap),
		volAccelHist:  ringbuf.New[float64](volumeAccelHistoryCap),
		slopeHist:     ringbuf.New[float64](priceSlopeHistoryCap),
		rsiPriceHist:  ringbuf.New[float64](rsiPriceHistoryCap),
	}
}
