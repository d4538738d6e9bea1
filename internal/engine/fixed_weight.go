package engine

import (
	"sort"

	"backtest/types"

	"github.com/shopspring/decimal"
)

// fixedWeightPolicy trades each instrument back to its target share of the
// total value, so the portfolio matches the weight vector exactly at every
// scheduled date.
type fixedWeightPolicy struct {
	weights types.Weights
}

func (p *fixedWeightPolicy) name() string { return "fixed-weight" }

func (p *fixedWeightPolicy) rebalance(book *ledger, _ int) error {
	tickers := make([]string, 0, len(p.weights))
	for ticker := range p.weights {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		if !book.price(ticker).IsPositive() {
			return errSkipRebalance
		}
	}

	total := book.value()
	for _, ticker := range tickers {
		price := book.price(ticker)
		target := total.Mul(decimal.NewFromFloat(p.weights[ticker]))
		current := book.unitsOf(ticker).Mul(price)
		book.applyDelta(ticker, target.Sub(current).Div(price))
	}
	return nil
}
