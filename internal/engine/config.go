package engine

import (
	"fmt"
	"time"

	"backtest/types"

	"github.com/shopspring/decimal"
)

type RebalancePeriod string

const (
	PeriodNone      RebalancePeriod = "none"
	PeriodQuarterly RebalancePeriod = "quarterly"
	PeriodAnnual    RebalancePeriod = "annual"
)

type PolicyType string

const (
	PolicyBuyAndHold   PolicyType = "buy-and-hold"
	PolicyFixedWeight  PolicyType = "fixed-weight"
	PolicyGrowthTarget PolicyType = "growth-target"
)

var DefaultStartCapital = decimal.NewFromInt(10_000)

// RunConfig describes one strategy backtest over [Start, End].
type RunConfig struct {
	Name   string
	Policy PolicyType
	Start  time.Time
	End    time.Time

	// Weights drives buy-and-hold and fixed-weight runs. Any scale is
	// accepted; it is normalized before use.
	Weights types.Weights

	// Growth-target runs use the two designated roles instead of Weights.
	GrowthTicker  string
	BallastTicker string
	GrowthRate    float64
	GrowthWeight  float64

	StartCapital decimal.Decimal
	Period       RebalancePeriod

	// RiskFree names the instrument whose daily returns fund the
	// excess-return statistics. Optional.
	RiskFree string

	// Progress renders a progress bar over the timeline scan.
	Progress bool
}

func NewFixedWeightConfig(name string, weights types.Weights, period RebalancePeriod, start, end time.Time) RunConfig {
	return RunConfig{
		Name:    name,
		Policy:  PolicyFixedWeight,
		Weights: weights,
		Period:  period,
		Start:   start,
		End:     end,
	}
}

func NewBuyAndHoldConfig(name string, weights types.Weights, start, end time.Time) RunConfig {
	return RunConfig{
		Name:    name,
		Policy:  PolicyBuyAndHold,
		Weights: weights,
		Period:  PeriodNone,
		Start:   start,
		End:     end,
	}
}

func NewGrowthTargetConfig(name, growth, ballast string, rate, weight float64, period RebalancePeriod, start, end time.Time) RunConfig {
	return RunConfig{
		Name:          name,
		Policy:        PolicyGrowthTarget,
		GrowthTicker:  growth,
		BallastTicker: ballast,
		GrowthRate:    rate,
		GrowthWeight:  weight,
		Period:        period,
		Start:         start,
		End:           end,
	}
}

func (c RunConfig) withDefaults() RunConfig {
	if c.StartCapital.IsZero() {
		c.StartCapital = DefaultStartCapital
	}
	if c.Period == "" {
		c.Period = PeriodNone
	}
	return c
}

func (c RunConfig) validate() error {
	if !c.StartCapital.IsPositive() {
		return fmt.Errorf("%w: start capital %s must be positive", ErrInvalidConfig, c.StartCapital)
	}
	switch c.Period {
	case PeriodNone, PeriodQuarterly, PeriodAnnual:
	default:
		return fmt.Errorf("%w: unknown rebalance period %q", ErrInvalidConfig, c.Period)
	}

	switch c.Policy {
	case PolicyBuyAndHold:
		if len(c.Weights) == 0 {
			return fmt.Errorf("%w: no instruments configured", ErrInvalidConfig)
		}
	case PolicyFixedWeight:
		if len(c.Weights) == 0 {
			return fmt.Errorf("%w: no instruments configured", ErrInvalidConfig)
		}
		if c.Period == PeriodNone {
			return fmt.Errorf("%w: fixed-weight policy needs a rebalance period", ErrInvalidConfig)
		}
	case PolicyGrowthTarget:
		if c.GrowthTicker == "" || c.BallastTicker == "" || c.GrowthTicker == c.BallastTicker {
			return fmt.Errorf("%w: growth-target policy needs distinct growth and ballast instruments", ErrInvalidConfig)
		}
		if len(c.Weights) != 0 {
			return fmt.Errorf("%w: growth-target policy takes roles, not a weight vector", ErrInvalidConfig)
		}
		if c.GrowthRate <= 0 {
			return fmt.Errorf("%w: growth rate %v must be positive", ErrInvalidConfig, c.GrowthRate)
		}
		if c.GrowthWeight <= 0 || c.GrowthWeight > 1 {
			return fmt.Errorf("%w: growth weight %v must be in (0, 1]", ErrInvalidConfig, c.GrowthWeight)
		}
		if c.Period == PeriodNone {
			return fmt.Errorf("%w: growth-target policy needs a rebalance period", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, c.Policy)
	}
	return nil
}

// targetWeights resolves the initial allocation: the normalized weight
// vector, or the growth/ballast split for growth-target runs.
func (c RunConfig) targetWeights() (types.Weights, error) {
	if c.Policy == PolicyGrowthTarget {
		return types.Weights{
			c.GrowthTicker:  c.GrowthWeight,
			c.BallastTicker: 1 - c.GrowthWeight,
		}.Normalized()
	}
	normalized, err := c.Weights.Normalized()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return normalized, nil
}

func (c RunConfig) instruments() []string {
	weights, err := c.targetWeights()
	if err != nil {
		return nil
	}
	tickers := make([]string, 0, len(weights))
	for ticker := range weights {
		tickers = append(tickers, ticker)
	}
	return tickers
}
