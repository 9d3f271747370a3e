// 文件: pkg/monitor/vector.go
// SignalVector: 闸门通过时生成的不可变特征向量

package monitor

// SignalVector 是门控通过那一刻的全部特征快照，字段名与持久化 schema 对齐
type SignalVector struct {
	Exchange          string  `bson:"exchange" json:"exchange"`
	Symbol            string  `bson:"symbol" json:"symbol"`
	SignalTimestampMs int64   `bson:"signalTimestampMs" json:"signalTimestampMs"`
	TriggerPrice      float64 `bson:"triggerPrice" json:"triggerPrice"`

	PriceChangePct float64 `bson:"priceChangePct" json:"priceChangePct"`
	PriceSlope     float64 `bson:"priceSlope" json:"priceSlope"`
	SlopeZ         float64 `bson:"slopeZ" json:"slopeZ"`
	PriceZScore    float64 `bson:"priceZScore" json:"priceZScore"`

	VolumeRatioFast1m   float64 `bson:"volumeRatioFast1m" json:"volumeRatioFast1m"`
	VolumeRatio1m5m     float64 `bson:"volumeRatio1m5m" json:"volumeRatio1m5m"`
	VolumeAccelZ        float64 `bson:"volumeAccelZ" json:"volumeAccelZ"`
	Current1sVolumeUsdt float64 `bson:"current1sVolumeUsdt" json:"current1sVolumeUsdt"`
	VolumePerDollar     float64 `bson:"volumePerDollar" json:"volumePerDollar"`
	DynVolumeThresh     float64 `bson:"dynVolumeThresh" json:"dynVolumeThresh"`

	Volatility30s   float64 `bson:"volatility30s" json:"volatility30s"`
	Volatility5m    float64 `bson:"volatility5m" json:"volatility5m"`
	VolatilityRatio float64 `bson:"volatilityRatio" json:"volatilityRatio"`

	SpreadPct          float64 `bson:"spreadPct" json:"spreadPct"`
	SpreadBps          float64 `bson:"spreadBps" json:"spreadBps"`
	NormalizedSpread   float64 `bson:"normalizedSpread" json:"normalizedSpread"`
	EffectiveSpreadBps float64 `bson:"effectiveSpreadBps" json:"effectiveSpreadBps"`

	Depth5ObImbalance float64 `bson:"depth5ObImbalance" json:"depth5ObImbalance"`
	Depth5BidVolume   float64 `bson:"depth5BidVolume" json:"depth5BidVolume"`
	Depth5AskVolume   float64 `bson:"depth5AskVolume" json:"depth5AskVolume"`
	Depth5TotalVolume float64 `bson:"depth5TotalVolume" json:"depth5TotalVolume"`
	Depth5VolumeRatio float64 `bson:"depth5VolumeRatio" json:"depth5VolumeRatio"`

	ImbalanceMA5        float64 `bson:"imbalanceMA5" json:"imbalanceMA5"`
	ImbalanceMA20       float64 `bson:"imbalanceMA20" json:"imbalanceMA20"`
	ImbalanceVelocity   float64 `bson:"imbalanceVelocity" json:"imbalanceVelocity"`
	ImbalanceVolatility float64 `bson:"imbalanceVolatility" json:"imbalanceVolatility"`

	TakerRatioSmoothed float64 `bson:"takerRatioSmoothed" json:"takerRatioSmoothed"`
	TakerBuyVolumeAbs  float64 `bson:"takerBuyVolumeAbs" json:"takerBuyVolumeAbs"`
	TakerFlowImbalance float64 `bson:"takerFlowImbalance" json:"takerFlowImbalance"`
	TakerFlowMagnitude float64 `bson:"takerFlowMagnitude" json:"takerFlowMagnitude"`
	TakerFlowRatio     float64 `bson:"takerFlowRatio" json:"takerFlowRatio"`

	PpoHistogram float64 `bson:"ppoHistogram" json:"ppoHistogram"`
	PpoLine      float64 `bson:"ppoLine" json:"ppoLine"`
	SignalLine   float64 `bson:"signalLine" json:"signalLine"`
	Rsi9         float64 `bson:"rsi9" json:"rsi9"`

	Ema9Over21           bool    `bson:"ema9Over21" json:"ema9Over21"`
	Ema21Over50          bool    `bson:"ema21Over50" json:"ema21Over50"`
	EmaAlignmentStrength float64 `bson:"emaAlignmentStrength" json:"emaAlignmentStrength"`
	EmaStackedBullish    bool    `bson:"emaStackedBullish" json:"emaStackedBullish"`
	EmaStackedBearish    bool    `bson:"emaStackedBearish" json:"emaStackedBearish"`
	EmaStackedNeutral    bool    `bson:"emaStackedNeutral" json:"emaStackedNeutral"`
	PriceAboveEma9       bool    `bson:"priceAboveEma9" json:"priceAboveEma9"`

	Ticker24hrVolumeUsdt     float64 `bson:"ticker24hrVolumeUsdt" json:"ticker24hrVolumeUsdt"`
	Ticker24hrPriceChangePct float64 `bson:"ticker24hrPriceChangePct" json:"ticker24hrPriceChangePct"`
	Ticker24hrHigh           float64 `bson:"ticker24hrHigh" json:"ticker24hrHigh"`
	Ticker24hrLow            float64 `bson:"ticker24hrLow" json:"ticker24hrLow"`

	HourOfDay int  `bson:"hourOfDay" json:"hourOfDay"`
	DayOfWeek int  `bson:"dayOfWeek" json:"dayOfWeek"`
	IsWeekend bool `bson:"isWeekend" json:"isWeekend"`
}

func (m *Monitor) buildSignalVector(nowMs int64, priceChangePct, slopeZ, spreadPct, normalizedSpread, dynThresh float64) *SignalVector {
	bullish := m.emaStackedBullish()
	bearish := m.emaStackedBearish()

	return &SignalVector{
		Symbol:            m.Symbol,
		SignalTimestampMs: nowMs,
		TriggerPrice:      m.lastPrice,

		PriceChangePct: priceChangePct,
		PriceSlope:     m.priceSlope,
		SlopeZ:         slopeZ,
		PriceZScore:    slopeZ,

		VolumeRatioFast1m:   m.ewmaFast / nonZero(m.ewma1m),
		VolumeRatio1m5m:     m.ewma1m / nonZero(m.ewma5m),
		VolumeAccelZ:        m.volumeAccel / nonZero(m.accelSigma),
		Current1sVolumeUsdt: m.vol1s,
		VolumePerDollar:     m.vol1s / nonZero(m.lastPrice),
		DynVolumeThresh:     dynThresh,

		Volatility30s:   m.volatility30s,
		Volatility5m:    m.volatility5m,
		VolatilityRatio: m.volatilityRatio,

		SpreadPct:          spreadPct,
		SpreadBps:          spreadPct * 10_000,
		NormalizedSpread:   normalizedSpread,
		EffectiveSpreadBps: m.effectiveSpreadMean,

		Depth5ObImbalance: m.depth5ObImbalance,
		Depth5BidVolume:   m.depth5BidVolume,
		Depth5AskVolume:   m.depth5AskVolume,
		Depth5TotalVolume: m.depth5TotalVolume,
		Depth5VolumeRatio: m.depth5VolumeRatio,

		ImbalanceMA5:        m.imbalanceMA5,
		ImbalanceMA20:       m.imbalanceMA20,
		ImbalanceVelocity:   m.imbalanceVelocity,
		ImbalanceVolatility: m.imbalanceVolatility,

		TakerRatioSmoothed: m.takerRatioSmoothed,
		TakerBuyVolumeAbs:  m.takerBuy1s,
		TakerFlowImbalance: m.takerFlowImbalance(),
		TakerFlowMagnitude: m.takerFlowMagnitude(),
		TakerFlowRatio:     m.takerFlowRatio(),

		PpoHistogram: m.ppoHist,
		PpoLine:      m.ppoLine,
		SignalLine:   m.ppoSignal,
		Rsi9:         m.rsi9,

		Ema9Over21:           m.ema9Over21(),
		Ema21Over50:          m.ema21Over50(),
		EmaAlignmentStrength: m.emaAlignmentStrength(),
		EmaStackedBullish:    bullish,
		EmaStackedBearish:    bearish,
		EmaStackedNeutral:    !bullish && !bearish,
		PriceAboveEma9:       m.priceAboveEma9(),

		Ticker24hrVolumeUsdt:     m.ticker24hrVolumeUsdt,
		Ticker24hrPriceChangePct: m.ticker24hrPriceChangePct,
		Ticker24hrHigh:           m.ticker24hrHigh,
		Ticker24hrLow:            m.ticker24hrLow,

		HourOfDay: m.hourOfDay,
		DayOfWeek: m.dayOfWeek,
		IsWeekend: m.isWeekend,
	}
}
