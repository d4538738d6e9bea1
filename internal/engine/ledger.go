package engine

import (
	"fmt"
	"sort"

	"backtest/types"

	"github.com/shopspring/decimal"
)

// ledger tracks per-instrument unit balances over the timeline scan.
// Dividend and rebalance deltas arrive in ascending date order, so a
// forward-persisting "add to every later date" update collapses to a
// running balance mutated in place while the scan advances.
type ledger struct {
	table   *types.PriceTable
	tickers []string
	units   map[string]decimal.Decimal
	day     int
	series  []decimal.Decimal
}

// newLedger sets day-0 units to capital*weight/price for each instrument.
// Weights must already be normalized and capital positive.
func newLedger(table *types.PriceTable, capital decimal.Decimal, weights types.Weights) (*ledger, error) {
	if table.Len() == 0 {
		return nil, ErrDataUnavailable
	}

	tickers := make([]string, 0, len(weights))
	for ticker := range weights {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	units := make(map[string]decimal.Decimal, len(weights))
	for _, ticker := range tickers {
		if !table.HasTicker(ticker) {
			return nil, fmt.Errorf("%w: ticker %s has no price data", ErrDataUnavailable, ticker)
		}
		weight := decimal.NewFromFloat(weights[ticker])
		units[ticker] = capital.Mul(weight).Div(table.Price(ticker, 0))
	}

	return &ledger{
		table:   table,
		tickers: tickers,
		units:   units,
		series:  make([]decimal.Decimal, 0, table.Len()),
	}, nil
}

// price of a held instrument at the scan position.
func (l *ledger) price(ticker string) decimal.Decimal {
	return l.table.Price(ticker, l.day)
}

func (l *ledger) unitsOf(ticker string) decimal.Decimal {
	return l.units[ticker]
}

// applyDividend reinvests a per-unit cash payout at the current day's
// close. A zero prior balance makes it a no-op; callers treat that as a
// skipped event.
func (l *ledger) applyDividend(ticker string, perUnit decimal.Decimal) (decimal.Decimal, bool) {
	held, ok := l.units[ticker]
	if !ok || held.IsZero() {
		return decimal.Zero, false
	}
	added := perUnit.Mul(held).Div(l.price(ticker))
	l.units[ticker] = held.Add(added)
	return added, true
}

// applyDelta shifts an instrument's balance from the current day onward.
func (l *ledger) applyDelta(ticker string, deltaUnits decimal.Decimal) {
	l.units[ticker] = l.units[ticker].Add(deltaUnits)
}

// value is the total portfolio value at the scan position.
func (l *ledger) value() decimal.Decimal {
	total := decimal.Zero
	for _, ticker := range l.tickers {
		total = total.Add(l.units[ticker].Mul(l.price(ticker)))
	}
	return total
}

// closeDay records the day's total value and advances the scan.
func (l *ledger) closeDay() {
	l.series = append(l.series, l.value())
	l.day++
}

func (l *ledger) valueSeries() []decimal.Decimal {
	return l.series
}
