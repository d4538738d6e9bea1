package types

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Close is a single daily closing price observation.
type Close struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// PriceTable is a date-aligned table of daily closing prices. Rows are
// restricted to dates where every ticker has a positive close, so every
// (date, ticker) cell is defined.
type PriceTable struct {
	dates   []time.Time
	closes  map[string][]decimal.Decimal
	dateIdx map[time.Time]int
}

// NewPriceTable aligns per-ticker close series into one table by inner
// intersection: any date missing from a ticker (or carrying a non-positive
// price) is dropped for all tickers.
func NewPriceTable(series map[string][]Close) *PriceTable {
	perTicker := make(map[string]map[time.Time]decimal.Decimal, len(series))
	for ticker, closes := range series {
		byDate := make(map[time.Time]decimal.Decimal, len(closes))
		for _, c := range closes {
			if c.Price.IsPositive() {
				byDate[Day(c.Date)] = c.Price
			}
		}
		perTicker[ticker] = byDate
	}

	var dates []time.Time
	for date := range firstOf(perTicker) {
		shared := true
		for _, byDate := range perTicker {
			if _, ok := byDate[date]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := &PriceTable{
		dates:   dates,
		closes:  make(map[string][]decimal.Decimal, len(perTicker)),
		dateIdx: make(map[time.Time]int, len(dates)),
	}
	for i, date := range dates {
		table.dateIdx[date] = i
	}
	for ticker, byDate := range perTicker {
		col := make([]decimal.Decimal, len(dates))
		for i, date := range dates {
			col[i] = byDate[date]
		}
		table.closes[ticker] = col
	}
	return table
}

func firstOf(perTicker map[string]map[time.Time]decimal.Decimal) map[time.Time]decimal.Decimal {
	for _, byDate := range perTicker {
		return byDate
	}
	return nil
}

func (t *PriceTable) Len() int {
	return len(t.dates)
}

func (t *PriceTable) Dates() []time.Time {
	return t.dates
}

func (t *PriceTable) Date(i int) time.Time {
	return t.dates[i]
}

// DateIndex reports the row of a calendar date, or false when the date is
// not a trading day of this table.
func (t *PriceTable) DateIndex(date time.Time) (int, bool) {
	i, ok := t.dateIdx[Day(date)]
	return i, ok
}

func (t *PriceTable) HasTicker(ticker string) bool {
	_, ok := t.closes[ticker]
	return ok
}

func (t *PriceTable) Tickers() []string {
	tickers := make([]string, 0, len(t.closes))
	for ticker := range t.closes {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// Price returns the close of ticker at row i. The alignment invariant
// guarantees the cell exists for any ticker in the table.
func (t *PriceTable) Price(ticker string, i int) decimal.Decimal {
	return t.closes[ticker][i]
}

// Day truncates a timestamp to its UTC calendar date.
func Day(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
