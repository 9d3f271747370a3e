// 文件: pkg/monitor/gate.go
// checkSignal: 十道闸门 + 动态成交量阈值 + 绝对成交量下限

package monitor

// CheckSignal 在 PerformPeriodicCalculations 之后调用；任一闸门不通过就返回
// (nil, false)。通过时返回填满全部特征的 SignalVector 并推进冷却时间戳。
func (m *Monitor) CheckSignal(nowMs int64) (*SignalVector, bool) {
	if !(m.lastPrice > 0 && m.ewma5m > 0) {
		return nil, false
	}
	if !(m.returnHistory.Size() >= 30 && m.volatility30s > 0) {
		return nil, false
	}
	if m.ticker24hrVolumeUsdt < 1_000_000 {
		return nil, false
	}

	minDepth := minFloat(m.depth5BidVolume, m.depth5AskVolume) * m.mid
	if !(minDepth >= expectedTradeSizeUsdt*minExecutionMultiplier && m.vol1s >= expectedTradeSizeUsdt) {
		return nil, false
	}

	if nowMs-m.lastSignalTriggerTime < m.cfg.SignalCooldownMs {
		return nil, false
	}

	volCap, ok := tierVolatilityCap[m.Tier]
	if !ok || !(m.volatility5m <= volCap && m.volatility5m >= 0.05) {
		return nil, false
	}

	if !(isFiniteNumber(m.bestBid) && isFiniteNumber(m.bestAsk) && m.bestAsk > m.bestBid && m.bestBid > 0) {
		return nil, false
	}

	spreadPct := (m.bestAsk - m.bestBid) / m.bestAsk
	instantVol := m.volatility30s / annualizationFactor()
	normalizedSpread := spreadPct / (instantVol + 1e-4)
	if !(spreadPct <= m.cfg.MaxBidAskSpreadPct && normalizedSpread <= 3.0) {
		return nil, false
	}

	threshold := m.dynamicVolumeThreshold()
	floor := m.absoluteVolumeFloor()
	volumeSpike := m.ewmaFast/m.ewma1m >= threshold &&
		m.ewma1m/m.ewma5m >= m.cfg.MinVolumeSpikeRatio1m5m &&
		m.volumeAccel/nonZero(m.accelSigma) >= m.cfg.VolumeAccelZScore &&
		m.vol1s >= floor &&
		m.tradeCount1s >= m.cfg.MinTradesIn1s
	if !volumeSpike {
		return nil, false
	}

	priceThen, havePrior := m.lookupBucketAtOrBefore(nowMs - m.cfg.PriceLookbackWindowMs)
	if !havePrior || !(m.lastPrice > priceThen.price) {
		return nil, false
	}
	priceChangePct := (m.lastPrice - priceThen.price) / priceThen.price
	slopeZ := m.priceSlope / nonZero(m.priceSlopeSigma)
	if !(slopeZ >= m.cfg.PriceSlopeZScore && priceChangePct/nonZero(instantVol) >= 1.5) {
		return nil, false
	}

	m.lastSignalTriggerTime = nowMs
	return m.buildSignalVector(nowMs, priceChangePct, slopeZ, spreadPct, normalizedSpread, threshold), true
}

// dynamicVolumeThreshold D = clamp(2.5, 20.0, 4.0 * volFactor * sessionFactor)
func (m *Monitor) dynamicVolumeThreshold() float64 {
	instantVol := m.volatility30s / annualizationFactor()

	regimeModifier := 1.0
	switch {
	case m.volatilityRatio > 1.5:
		regimeModifier = 1.25
	case m.volatilityRatio < 0.8:
		regimeModifier = 0.75
	}
	volFactor := 1 + instantVol*50*regimeModifier

	sessionFactor := 1.0
	switch {
	case m.isWeekend:
		sessionFactor = 0.8
	case m.hourOfDay >= 13 && m.hourOfDay <= 17:
		sessionFactor = 1.5
	case m.hourOfDay >= 0 && m.hourOfDay < 7:
		sessionFactor = 0.75
	}

	return clamp(2.5, 20.0, 4.0*volFactor*sessionFactor)
}

// absoluteVolumeFloor max(tierFloor, ticker24hrVolumeUsdt/86400*0.25)
func (m *Monitor) absoluteVolumeFloor() float64 {
	tierFloor := tierVolumeFloor[m.Tier]
	dayFraction := m.ticker24hrVolumeUsdt / 86_400 * 0.25
	if dayFraction > tierFloor {
		return dayFraction
	}
	return tierFloor
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func nonZero(v float64) float64 {
	if v == 0 {
		return epsilon
	}
	return v
}
