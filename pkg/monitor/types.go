// 文件: pkg/monitor/types.go
// 监控器的基础类型: 市值分层、成交记录、价格桶

package monitor

// Tier 市值分层，决定流动性下限和波动率上限
type Tier string

const (
	TierMega  Tier = "mega"
	TierLarge Tier = "large"
	TierMid   Tier = "mid"
	TierSmall Tier = "small"
	TierMicro Tier = "micro"
)

// tierVolatilityCap 每个分层允许的 5 分钟已实现波动率上限
var tierVolatilityCap = map[Tier]float64{
	TierMega:  0.50,
	TierLarge: 0.80,
	TierMid:   1.20,
	TierSmall: 2.00,
	TierMicro: 3.00,
}

// tierVolumeFloor 每个分层的最低 1 秒成交额下限 (USDT)
var tierVolumeFloor = map[Tier]float64{
	TierMega:  1000,
	TierLarge: 600,
	TierMid:   500,
	TierSmall: 400,
	TierMicro: 300,
}

// AggTrade 归集成交记录，对应 canonical 事件里的 aggTrade 分支
type AggTrade struct {
	Price        float64
	Qty          float64
	EventTimeMs  int64
	BuyerIsMaker bool
}

// priceBucket 100ms 分辨率的价格采样点，用于回看价格斜率
type priceBucket struct {
	floorMs int64
	price   float64
}

// returnPoint 对数收益历史里的一个采样点
type returnPoint struct {
	tMs    int64
	retVal float64
}
