package engine

import (
	"fmt"

	"backtest/types"
)

// policy applies one scheduled rebalance against the ledger's current day.
// period counts scheduled dates from the anchor entry: the orchestrator
// never calls rebalance with period 0.
type policy interface {
	name() string
	rebalance(book *ledger, period int) error
}

func policyFor(cfg RunConfig, weights types.Weights, periods int) (policy, error) {
	switch cfg.Policy {
	case PolicyBuyAndHold:
		return buyHoldPolicy{}, nil
	case PolicyFixedWeight:
		return &fixedWeightPolicy{weights: weights}, nil
	case PolicyGrowthTarget:
		return &growthTargetPolicy{
			growth:  cfg.GrowthTicker,
			ballast: cfg.BallastTicker,
			weight:  cfg.GrowthWeight,
			targets: growthTargets(cfg.StartCapital, cfg.GrowthRate, periods),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, cfg.Policy)
	}
}
