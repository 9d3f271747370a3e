// 文件: pkg/monitor/periodic.go
// performPeriodicCalculations: 每 250ms 节拍执行的十步特征更新

package monitor

// PerformPeriodicCalculations 按固定顺序刷新全部滚动估计量
//
// nowMs 是本次 tick 的时间戳 (epoch ms)，由调用方 (dispatch 循环) 提供，
// 不直接读系统时钟，方便测试用固定时间线重放。
func (m *Monitor) PerformPeriodicCalculations(nowMs int64) {
	m.refreshTimeCache(nowMs)
	m.stepRealisedVolatility(nowMs)
	m.step1sTradeAggregation(nowMs)
	m.stepVolumeEwmas()
	m.stepPriceBucket(nowMs)
	m.stepEmaStack()
	m.stepRsi()
	m.stepPpo()
	m.stepTakerFlow()
	m.stepAccelerationSigma()
	m.stepPriceSlope(nowMs)
}

// 1. 已实现波动率 (对数收益)
func (m *Monitor) stepRealisedVolatility(nowMs int64) {
	nowSec := nowMs / 1000
	if m.lastPrice > 0 {
		if m.haveRefPrice && m.prevRefPrice > 0 && nowSec != m.lastReturnSec {
			ret := lnFloat(m.lastPrice / m.prevRefPrice)
			m.returnHistory.Add(returnPoint{tMs: nowMs, retVal: ret})
			m.lastReturnSec = nowSec
		}
		m.prevRefPrice = m.lastPrice
		m.haveRefPrice = true
	}

	all := m.returnHistory.ToArray()
	window30s := returnsSince(all, nowMs-30_000)
	window5m := returnsSince(all, nowMs-300_000)

	if len(window30s) >= 10 {
		m.volatility30s = sampleStddev(window30s) * annualizationFactor()
	}
	if len(window5m) >= 30 {
		m.volatility5m = sampleStddev(window5m) * annualizationFactor()
	}
	if m.volatility5m > 0 {
		m.volatilityRatio = m.volatility30s / m.volatility5m
	} else {
		m.volatilityRatio = 1
	}
}

func returnsSince(all []returnPoint, sinceMs int64) []float64 {
	out := make([]float64, 0, len(all))
	for _, p := range all {
		if p.tMs >= sinceMs {
			out = append(out, p.retVal)
		}
	}
	return out
}

// 2. 1 秒成交聚合
func (m *Monitor) step1sTradeAggregation(nowMs int64) {
	var vol, taker, seller float64
	var count int
	cutoff := nowMs - 1000

	all := m.aggTrades.ToArray()
	for i := len(all) - 1; i >= 0; i-- {
		t := all[i]
		if t.EventTimeMs < cutoff {
			break
		}
		notional := t.Price * t.Qty
		vol += notional
		count++
		if t.BuyerIsMaker {
			seller += notional
		} else {
			taker += notional
		}
	}

	m.vol1s = vol
	m.tradeCount1s = count
	m.takerBuy1s = taker
	m.takerSell1s = seller
}

// 3. 成交额 EWMA
func (m *Monitor) stepVolumeEwmas() {
	if !m.ewmaSeeded {
		if m.vol1s <= 0 {
			return
		}
		m.ewmaFast = m.vol1s
		m.ewma1m = m.vol1s
		m.ewma5m = m.vol1s
		m.ewmaSeeded = true
		m.prevFast = m.ewmaFast
		m.volumeAccel = 0
		return
	}

	m.prevFast = m.ewmaFast
	m.ewmaFast = ewmaStep(m.ewmaFast, m.vol1s, m.cfg.EwmaAlphaFast)
	m.ewma1m = ewmaStep(m.ewma1m, m.vol1s, m.cfg.EwmaAlphaMedium)
	m.ewma5m = ewmaStep(m.ewma5m, m.vol1s, m.cfg.EwmaAlphaSlow)
	m.volumeAccel = m.ewmaFast - m.prevFast
}

func ewmaStep(prev, x, alpha float64) float64 {
	return alpha*x + (1-alpha)*prev
}

// 4. 价格桶 (100ms)
func (m *Monitor) stepPriceBucket(nowMs int64) {
	floor := (nowMs / m.cfg.PriceBucketDurationMs) * m.cfg.PriceBucketDurationMs
	if m.haveCurBucket && m.curBucketFloor == floor {
		m.priceBuckets.SetLast(priceBucket{floorMs: floor, price: m.lastPrice})
		return
	}
	m.priceBuckets.Add(priceBucket{floorMs: floor, price: m.lastPrice})
	m.curBucketFloor = floor
	m.haveCurBucket = true
}

// lookupBucketAtOrBefore 从最新往最旧扫描，返回第一个 floorMs <= targetMs 的桶
func (m *Monitor) lookupBucketAtOrBefore(targetMs int64) (priceBucket, bool) {
	all := m.priceBuckets.ToArray()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].floorMs <= targetMs {
			return all[i], true
		}
	}
	return priceBucket{}, false
}

// 5. EMA 栈 (9/21/50)
func (m *Monitor) stepEmaStack() {
	if m.lastPrice <= 0 {
		return
	}
	if !m.emaSeeded {
		m.ema9, m.ema21, m.ema50 = m.lastPrice, m.lastPrice, m.lastPrice
		m.emaSeeded = true
	} else {
		m.ema9 = ewmaStep(m.ema9, m.lastPrice, 2.0/(emaFastPeriod+1))
		m.ema21 = ewmaStep(m.ema21, m.lastPrice, 2.0/(emaMidPeriod+1))
		m.ema50 = ewmaStep(m.ema50, m.lastPrice, 2.0/(emaSlowPeriod+1))
	}
}

func (m *Monitor) emaStackedBullish() bool { return m.ema9 > m.ema21 && m.ema21 > m.ema50 }
func (m *Monitor) emaStackedBearish() bool { return m.ema9 < m.ema21 && m.ema21 < m.ema50 }
func (m *Monitor) ema9Over21() bool        { return m.ema9 > m.ema21 }
func (m *Monitor) ema21Over50() bool       { return m.ema21 > m.ema50 }
func (m *Monitor) priceAboveEma9() bool    { return m.lastPrice > m.ema9 }

func (m *Monitor) ema9Spread() float64 {
	if m.lastPrice == 0 {
		return 0
	}
	return (m.ema9 - m.ema21) / m.lastPrice
}
func (m *Monitor) ema21Spread() float64 {
	if m.lastPrice == 0 {
		return 0
	}
	return (m.ema21 - m.ema50) / m.lastPrice
}
func (m *Monitor) emaAlignmentStrength() float64 { return m.ema9Spread() + m.ema21Spread() }

// 6. RSI(9), Wilder 平滑
func (m *Monitor) stepRsi() {
	if m.lastPrice <= 0 {
		return
	}
	m.rsiPriceHist.Add(m.lastPrice)
	prices := m.rsiPriceHist.ToArray()

	if !m.rsiSeeded {
		if len(prices) < rsiPeriod+1 {
			return
		}
		window := prices[len(prices)-(rsiPeriod+1):]
		var gainSum, lossSum float64
		for i := 1; i < len(window); i++ {
			d := window[i] - window[i-1]
			if d > 0 {
				gainSum += d
			} else {
				lossSum += -d
			}
		}
		m.avgGain = gainSum / rsiPeriod
		m.avgLoss = lossSum / rsiPeriod
		m.rsiSeeded = true
	} else {
		d := prices[len(prices)-1] - prices[len(prices)-2]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		m.avgGain = ((rsiPeriod-1)*m.avgGain + gain) / rsiPeriod
		m.avgLoss = ((rsiPeriod-1)*m.avgLoss + loss) / rsiPeriod
	}

	switch {
	case m.avgGain == 0 && m.avgLoss == 0:
		m.rsi9 = 50
	case m.avgLoss == 0:
		m.rsi9 = 100
	default:
		rs := m.avgGain / m.avgLoss
		m.rsi9 = clamp(rsiClipLow, rsiClipHi, 100-100/(1+rs))
	}
}

// 7. PPO/MACD
func (m *Monitor) stepPpo() {
	if m.lastPrice <= 0 {
		return
	}
	if !m.ppoSeeded {
		m.ppoEmaFast = m.lastPrice
		m.ppoEmaSlow = m.lastPrice
		m.ppoSignal = 0
		m.ppoSeeded = true
		return
	}
	m.ppoEmaFast = ewmaStep(m.ppoEmaFast, m.lastPrice, 2.0/(ppoFastPeriod+1))
	m.ppoEmaSlow = ewmaStep(m.ppoEmaSlow, m.lastPrice, 2.0/(ppoSlowPeriod+1))
	if m.ppoEmaSlow != 0 {
		m.ppoLine = (m.ppoEmaFast - m.ppoEmaSlow) / m.ppoEmaSlow * 100
	}
	m.ppoSignal = ewmaStep(m.ppoSignal, m.ppoLine, 2.0/(ppoSignalPeriod+1))
	m.ppoHist = m.ppoLine - m.ppoSignal
}

// 8. Taker flow
func (m *Monitor) stepTakerFlow() {
	buy, sell := m.takerBuy1s, m.takerSell1s
	ratio := clamp(0, takerFlowRatioClip, buy/(sell+epsilon))
	if !m.takerRatioSeeded {
		m.takerRatioSmoothed = ratio
		m.takerRatioSeeded = true
	} else {
		m.takerRatioSmoothed = ewmaStep(m.takerRatioSmoothed, ratio, m.cfg.TakerRatioSmoothAlpha)
	}
}

func (m *Monitor) takerFlowImbalance() float64 {
	buy, sell := m.takerBuy1s, m.takerSell1s
	return (buy - sell) / (buy + sell + epsilon)
}
func (m *Monitor) takerFlowMagnitude() float64 { return m.takerBuy1s + m.takerSell1s }
func (m *Monitor) takerFlowRatio() float64 {
	return clamp(0, takerFlowRatioClip, m.takerBuy1s/(m.takerSell1s+epsilon))
}

// 9. 加速度 sigma
func (m *Monitor) stepAccelerationSigma() {
	m.volAccelHist.Add(m.volumeAccel)
	all := m.volAccelHist.ToArray()
	if len(all) >= 20 {
		m.accelSigma = popStddev(all)
	}
}

// 10. 价格斜率
func (m *Monitor) stepPriceSlope(nowMs int64) {
	bucket, ok := m.lookupBucketAtOrBefore(nowMs - 2000)
	if !ok || bucket.price <= 0 {
		return
	}
	raw := ((m.lastPrice - bucket.price) / bucket.price) / 2

	if !m.priceSlopeSeeded {
		m.priceSlope = raw
		m.priceSlopeSeeded = true
	} else {
		m.priceSlope = ewmaStep(m.priceSlope, raw, m.cfg.PriceSlopeAlpha)
	}

	m.slopeHist.Add(m.priceSlope)
	all := m.slopeHist.ToArray()
	if len(all) >= 20 {
		m.priceSlopeSigma = popStddev(all)
	}
}
