// 文件: pkg/monitor/constants.go
// 监控器使用的常量，取值来自原始信号引擎的调参
//
// spec.md §6 列出的门控常量 (PRICE_BUCKET_DURATION_MS,
// AGG_TRADE_BUFFER_SIZE, PRICE_LOOKBACK_WINDOW_MS, PRICE_SLOPE_ALPHA,
// PRICE_SLOPE_ZSCORE, MIN_TRADES_IN_1S, MAX_BID_ASK_SPREAD_PCT, 各 EWMA
// α 值, MIN_VOLUME_SPIKE_RATIO_1M5M, VOLUME_ACCEL_ZSCORE, SIGNAL_COOLDOWN_MS,
// TIME_CACHE_DURATION_MS) 都提升成 Config 字段，可以被 cmd/gate 按进程配置
// 覆盖；CHECK_SIGNAL_INTERVAL_MS 不在这里，它是 pkg/config.Config 里的
// dispatch 节拍间隔。剩下的（RSI/EMA/PPO 的周期数、各环形缓冲区容量等）是指标本身的
// 结构性参数，不是运行时可调项，留作包内常量。

package monitor

// Config 是 monitor 包的可配置门控常量集合，对应 spec.md §6；
// 默认值见 DefaultConfig，由 cmd/gate 从 pkg/config.Config 映射而来。
type Config struct {
	PriceBucketDurationMs int64
	AggTradeBufferSize    int
	PriceLookbackWindowMs int64
	PriceSlopeAlpha       float64
	PriceSlopeZScore      float64
	MinTradesIn1s         int
	MaxBidAskSpreadPct    float64

	EwmaAlphaFast         float64
	EwmaAlphaMedium       float64
	EwmaAlphaSlow         float64
	TakerRatioSmoothAlpha float64

	MinVolumeSpikeRatio1m5m float64
	VolumeAccelZScore       float64
	SignalCooldownMs        int64
	TimeCacheDurationMs     int64
}

// DefaultConfig 返回原始信号引擎调参对应的默认值
func DefaultConfig() Config {
	return Config{
		PriceBucketDurationMs: 100,
		AggTradeBufferSize:    250,
		PriceLookbackWindowMs: 2_500,
		PriceSlopeAlpha:       0.4,
		PriceSlopeZScore:      1.9,
		MinTradesIn1s:         5,
		MaxBidAskSpreadPct:    0.003,

		EwmaAlphaFast:         0.1175,
		EwmaAlphaMedium:       0.00416,
		EwmaAlphaSlow:         0.000833,
		TakerRatioSmoothAlpha: 0.20,

		MinVolumeSpikeRatio1m5m: 1.5,
		VolumeAccelZScore:       2.0,
		SignalCooldownMs:        6_000,
		TimeCacheDurationMs:     60_000,
	}
}

// 指标本身的结构性参数：周期数、环形缓冲区容量、门控里跟流动性/
// 波动率相关的固定系数。这些不在 spec.md §6 的命名常量列表里，调整
// 它们意味着换一种指标定义，不是调参，所以留作包内常量而不是配置项。
const (
	epsilon                = 1e-9
	rsiClipLow, rsiClipHi  = 0, 100
	ppoFastPeriod          = 3
	ppoSlowPeriod          = 10
	ppoSignalPeriod        = 16
	emaFastPeriod          = 9
	emaMidPeriod           = 21
	emaSlowPeriod          = 50
	rsiPeriod              = 9
	takerFlowRatioClip     = 100
	minExecutionMultiplier = 5
	expectedTradeSizeUsdt  = 500
)

const secondsPerYear = float64(365 * 24 * 3600)

func annualizationFactor() float64 {
	return sqrtFloat(secondsPerYear)
}

// historyCapacities 各滑动窗口环形缓冲区的容量 (AggTradeBufferSize 除外，
// 它是 spec.md §6 命名常量，走 Config.AggTradeBufferSize)
const (
	returnHistoryCap      = 300
	effectiveSpreadCap    = 60
	tradeImbalanceCap     = 60
	imbalanceHistoryCap   = 20
	volumeAccelHistoryCap = 60
	priceSlopeHistoryCap  = 40
	rsiPriceHistoryCap    = 20
	priceBucketHistoryCap = 64
)
