// 文件: pkg/monitor/stats.go
// 监控器用到的数值工具: 均值/标准差走 montanaflynn/stats，其余用标准库 math

package monitor

import (
	"math"

	"github.com/montanaflynn/stats"
)

func sqrtFloat(x float64) float64 { return math.Sqrt(x) }

func lnFloat(x float64) float64 { return math.Log(x) }

// meanOf 返回 xs 的算术平均值，空切片返回 0
func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, err := stats.Mean(stats.Float64Data(xs))
	if err != nil {
		return 0
	}
	return m
}

// popStddev 总体标准差 (除以 N)
func popStddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sd, err := stats.StandardDeviationPopulation(stats.Float64Data(xs))
	if err != nil {
		return 0
	}
	return sd
}

// sampleStddev 样本标准差 (除以 N-1)
func sampleStddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(stats.Float64Data(xs))
	if err != nil {
		return 0
	}
	return sd
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func isFiniteNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
