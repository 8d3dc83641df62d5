// Package calc provides the return and risk arithmetic of the pricing tab.
package calc

import (
	"math"

	"stock_dashboard/pkg/models"
)

// TradingDaysPerYear is the annualization factor for daily statistics.
const TradingDaysPerYear = 252

// PercentChange returns the simple period-over-period return of prices:
// out[t] = prices[t]/prices[t-1] - 1. out[0] is NaN, and so is any period
// touching a missing (NaN) price. The result has the same length as prices.
func PercentChange(prices []float64) []float64 {
	out := make([]float64, len(prices))
	for t := range prices {
		if t == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = prices[t]/prices[t-1] - 1
	}
	return out
}

// Mean averages the non-NaN values. NaN when there are none.
func Mean(values []float64) float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// PopulationStdDev is the standard deviation (ddof=0) of the non-NaN values.
// NaN when there are none.
func PopulationStdDev(values []float64) float64 {
	mean := Mean(values)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	var sq float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sq += d * d
		n++
	}
	return math.Sqrt(sq / float64(n))
}

// AnnualizedReturn is mean(pctChange) * 252 * 100, in percent.
func AnnualizedReturn(pctChange []float64) float64 {
	return Mean(pctChange) * TradingDaysPerYear * 100
}

// AnnualizedVolatility is stddev(pctChange) * sqrt(252), as a fraction.
func AnnualizedVolatility(pctChange []float64) float64 {
	return PopulationStdDev(pctChange) * math.Sqrt(TradingDaysPerYear)
}

// RiskAdjustedReturn divides the annual return (percent) by the volatility
// expressed in percent. A zero volatility yields NaN (0/0) or ±Inf.
func RiskAdjustedReturn(annualReturn, volatility float64) float64 {
	return annualReturn / (volatility * 100)
}

// ComputeReturnStats derives the pricing tab statistics from a chronological
// price column.
func ComputeReturnStats(prices []float64) models.ReturnStats {
	pc := PercentChange(prices)
	ret := AnnualizedReturn(pc)
	vol := AnnualizedVolatility(pc)

	n := 0
	for _, v := range pc {
		if !math.IsNaN(v) {
			n++
		}
	}
	return models.ReturnStats{
		AnnualReturn:  ret,
		StdDev:        vol,
		RiskAdjReturn: RiskAdjustedReturn(ret, vol),
		Observations:  n,
	}
}
