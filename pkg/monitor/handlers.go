// 文件: pkg/monitor/handlers.go
// 事件处理函数: 由 dispatch 循环按 canonical 事件类型路由调用

package monitor

// ApplyTicker 记录 24 小时行情快照
func (m *Monitor) ApplyTicker(quoteVol24h, changePct24h, high24h, low24h, last float64) {
	if !isFiniteNumber(quoteVol24h) || !isFiniteNumber(changePct24h) ||
		!isFiniteNumber(high24h) || !isFiniteNumber(low24h) || !isFiniteNumber(last) {
		return
	}
	m.ticker24hrVolumeUsdt = quoteVol24h
	m.ticker24hrPriceChangePct = changePct24h
	m.ticker24hrHigh = high24h
	m.ticker24hrLow = low24h
}

// ApplyBookTicker 更新最优买卖价；两边都有效时同步刷新 mid
func (m *Monitor) ApplyBookTicker(bestBid, bestAsk float64) {
	if isFinitePositive(bestBid) {
		m.bestBid = bestBid
	}
	if isFinitePositive(bestAsk) {
		m.bestAsk = bestAsk
	}
	if isFinitePositive(m.bestBid) && isFinitePositive(m.bestAsk) {
		m.mid = (m.bestBid + m.bestAsk) / 2
	}
}

// AddAggTrade 吸收一笔归集成交
func (m *Monitor) AddAggTrade(trade AggTrade) {
	if !isFinitePositive(trade.Price) || !isFinitePositive(trade.Qty) {
		return
	}
	m.aggTrades.Add(trade)
	m.lastPrice = trade.Price

	if m.mid > 0 {
		effSpreadBps := absFloat(trade.Price-m.mid) / m.mid * 10_000
		m.effSpreadHist.Add(effSpreadBps)
		m.effectiveSpreadMean = meanOf(m.effSpreadHist.ToArray())
	}

	signedQty := trade.Qty
	if trade.BuyerIsMaker {
		signedQty = -trade.Qty
	}
	m.tradeImbHist.Add(signedQty)
}

// UpdateDepthSnapshot 吸收一份 top-5 深度快照
func (m *Monitor) UpdateDepthSnapshot(bids, asks [5]float64) {
	var bidSum, askSum float64
	for _, q := range bids {
		bidSum += q
	}
	for _, q := range asks {
		askSum += q
	}

	m.depth5BidVolume = bidSum
	m.depth5AskVolume = askSum
	m.depth5TotalVolume = bidSum + askSum
	m.depth5VolumeRatio = bidSum / (askSum + epsilon)
	m.depth5ObImbalance = (bidSum - askSum) / (bidSum + askSum + epsilon)

	m.prevImbalance = m.currentImbalanceBeforePush()
	m.imbalanceHist.Add(m.depth5ObImbalance)

	all := m.imbalanceHist.ToArray()
	m.imbalanceMA5 = meanOf(lastN(all, 5))
	m.imbalanceMA20 = meanOf(lastN(all, 20))
	m.imbalanceVelocity = m.depth5ObImbalance - m.prevImbalance
	m.imbalanceVolatility = popStddev(lastN(all, 10))
}

func (m *Monitor) currentImbalanceBeforePush() float64 {
	if v, ok := m.imbalanceHist.Last(); ok {
		return v
	}
	return 0
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// lastN 返回 xs 最后 n 个元素 (n 大于长度时返回整个切片)
func lastN(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
