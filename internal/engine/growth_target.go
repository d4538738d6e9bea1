package engine

import (
	"github.com/shopspring/decimal"
)

// growthTargetPolicy drives the growth instrument toward a geometrically
// compounding value target; the ballast instrument absorbs the exact
// offsetting cash flow. The ballast balance may go negative (implied
// borrowing, no financing cost modeled).
type growthTargetPolicy struct {
	growth  string
	ballast string
	weight  float64
	targets []decimal.Decimal
}

func (p *growthTargetPolicy) name() string { return "growth-target" }

func (p *growthTargetPolicy) rebalance(book *ledger, period int) error {
	growthPrice := book.price(p.growth)
	ballastPrice := book.price(p.ballast)
	if !growthPrice.IsPositive() || !ballastPrice.IsPositive() {
		return errSkipRebalance
	}

	desired := p.targets[period].Mul(decimal.NewFromFloat(p.weight))
	current := book.unitsOf(p.growth).Mul(growthPrice)
	delta := desired.Sub(current)

	book.applyDelta(p.growth, delta.Div(growthPrice))
	book.applyDelta(p.ballast, delta.Neg().Div(ballastPrice))
	return nil
}

// growthTargets is the per-period target curve: targets[0] is the starting
// capital, each later entry compounds by rate.
func growthTargets(start decimal.Decimal, rate float64, periods int) []decimal.Decimal {
	if periods <= 0 {
		return nil
	}
	growth := decimal.NewFromFloat(rate)
	targets := make([]decimal.Decimal, periods)
	targets[0] = start
	for i := 1; i < periods; i++ {
		targets[i] = targets[i-1].Mul(growth)
	}
	return targets
}
