package engine

import (
	"math"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const tradingDaysPerYear = 252

// Report carries the standard performance statistics of one run.
type Report struct {
	StartDate time.Time
	EndDate   time.Time

	FinalValue decimal.Decimal

	CAGR                 float64
	MaxDrawdown          float64
	AnnualizedVolatility float64

	// Sharpe is NaN when the excess-return stddev is zero.
	Sharpe float64
}

// buildReport derives statistics from a value series. funding, when
// non-nil, holds the daily funding/risk-free return per timeline date and
// is subtracted from daily returns before volatility and Sharpe.
func buildReport(dates []time.Time, values []decimal.Decimal, funding []float64) *Report {
	report := &Report{Sharpe: math.NaN()}
	if len(values) == 0 {
		return report
	}

	report.StartDate = dates[0]
	report.EndDate = dates[len(dates)-1]
	report.FinalValue = values[len(values)-1]

	excess := excessReturns(values, funding)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		report.CAGR = calcCAGR(dates, values, &wg)
	}()
	go func() {
		report.MaxDrawdown = calcMaxDrawdown(values, &wg)
	}()
	go func() {
		report.AnnualizedVolatility, report.Sharpe = calcVolatilityAndSharpe(excess, &wg)
	}()
	wg.Wait()

	return report
}

// excessReturns computes value(t)/value(t-1)-1 per day, minus the funding
// return of the same date. A nil funding series means zero funding.
func excessReturns(values []decimal.Decimal, funding []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	excess := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if !prev.IsPositive() {
			excess = append(excess, 0)
			continue
		}
		r := values[i].Div(prev).InexactFloat64() - 1
		if funding != nil {
			r -= funding[i]
		}
		excess = append(excess, r)
	}
	return excess
}

func calcCAGR(dates []time.Time, values []decimal.Decimal, wg *sync.WaitGroup) float64 {
	defer wg.Done()
	if len(values) < 2 {
		return 0
	}

	startVal := values[0]
	endVal := values[len(values)-1]
	if !startVal.IsPositive() || !endVal.IsPositive() {
		return 0
	}

	// 365.25-day years to absorb leap days.
	years := dates[len(dates)-1].Sub(dates[0]).Hours() / (24.0 * 365.25)
	if years <= 0 {
		return 0
	}

	ratio := endVal.Div(startVal).InexactFloat64()
	return math.Pow(ratio, 1.0/years) - 1.0
}

func calcMaxDrawdown(values []decimal.Decimal, wg *sync.WaitGroup) float64 {
	defer wg.Done()
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		if v.GreaterThan(peak) {
			peak = v
		}
		if !peak.IsPositive() {
			continue
		}
		dd := v.Div(peak).InexactFloat64() - 1.0
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

func calcVolatilityAndSharpe(excess []float64, wg *sync.WaitGroup) (float64, float64) {
	defer wg.Done()
	if len(excess) < 2 {
		return 0, math.NaN()
	}

	stddev := stat.StdDev(excess, nil)
	volatility := stddev * math.Sqrt(tradingDaysPerYear)
	if stddev == 0 {
		return volatility, math.NaN()
	}

	mean := stat.Mean(excess, nil)
	return volatility, mean / stddev * math.Sqrt(tradingDaysPerYear)
}
