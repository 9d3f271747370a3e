// 文件: pkg/obworker/compute.go
// 深度快照特征计算：盘口失衡、名义流动性、价差

package obworker

import "github.com/quantgate/gate/pkg/stream"

const epsilon = 1e-9

// DepthSnapshot 是一次 REST 拉取得到的 top-5 深度
type DepthSnapshot struct {
	Bids [5]stream.PriceLevel
	Asks [5]stream.PriceLevel
}

// Features 是一次深度快照算出的全部派生指标
type Features struct {
	BidSum             float64
	AskSum             float64
	Imbalance          float64
	BestBid            float64
	BestAsk            float64
	MidPrice           float64
	BidSumUsdt         float64
	AskSumUsdt         float64
	TotalLiquidityUsdt float64
	ImbalanceUsdt      float64
	SpreadBps          float64
}

// ComputeFeatures 把 top-5 深度转换成失衡/名义流动性/价差等特征
func ComputeFeatures(snap DepthSnapshot) Features {
	var bidSum, askSum float64
	for _, lvl := range snap.Bids {
		bidSum += lvl.Qty
	}
	for _, lvl := range snap.Asks {
		askSum += lvl.Qty
	}

	bestBid := snap.Bids[0].Price
	bestAsk := snap.Asks[0].Price
	mid := (bestBid + bestAsk) / 2

	bidSumUsdt := bidSum * mid
	askSumUsdt := askSum * mid
	totalUsdt := bidSumUsdt + askSumUsdt

	spreadBps := 0.0
	if bestAsk != 0 {
		spreadBps = (bestAsk - bestBid) / bestAsk * 10000
	}

	return Features{
		BidSum:             bidSum,
		AskSum:             askSum,
		Imbalance:          (bidSum - askSum) / (bidSum + askSum + epsilon),
		BestBid:            bestBid,
		BestAsk:            bestAsk,
		MidPrice:           mid,
		BidSumUsdt:         bidSumUsdt,
		AskSumUsdt:         askSumUsdt,
		TotalLiquidityUsdt: totalUsdt,
		ImbalanceUsdt:      (bidSumUsdt - askSumUsdt) / (totalUsdt + epsilon),
		SpreadBps:          spreadBps,
	}
}
