package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func closeAt(y int, m time.Month, d int, price string) Close {
	return Close{Date: date(y, m, d), Price: decimal.RequireFromString(price)}
}

func TestNewPriceTableAlignsByIntersection(t *testing.T) {
	table := NewPriceTable(map[string][]Close{
		"AAA": {
			closeAt(2020, 1, 2, "100"),
			closeAt(2020, 1, 3, "101"),
			closeAt(2020, 1, 6, "102"),
		},
		"BBB": {
			closeAt(2020, 1, 2, "50"),
			// Jan 3 missing: the row drops for both tickers.
			closeAt(2020, 1, 6, "51"),
			closeAt(2020, 1, 7, "52"),
		},
	})

	require.Equal(t, 2, table.Len())
	assert.Equal(t, []time.Time{date(2020, 1, 2), date(2020, 1, 6)}, table.Dates())
	assert.Equal(t, []string{"AAA", "BBB"}, table.Tickers())
	assert.True(t, table.Price("AAA", 1).Equal(decimal.RequireFromString("102")))
	assert.True(t, table.Price("BBB", 0).Equal(decimal.RequireFromString("50")))
}

func TestNewPriceTableDropsNonPositiveCells(t *testing.T) {
	table := NewPriceTable(map[string][]Close{
		"AAA": {
			closeAt(2020, 1, 2, "100"),
			closeAt(2020, 1, 3, "0"),
			closeAt(2020, 1, 6, "-5"),
			closeAt(2020, 1, 7, "103"),
		},
	})

	require.Equal(t, 2, table.Len())
	assert.Equal(t, []time.Time{date(2020, 1, 2), date(2020, 1, 7)}, table.Dates())
}

func TestNewPriceTableNormalizesTimestamps(t *testing.T) {
	// Intraday timestamps in different zones land on the same calendar day.
	est := time.FixedZone("EST", -5*3600)
	table := NewPriceTable(map[string][]Close{
		"AAA": {{Date: time.Date(2020, 1, 2, 16, 0, 0, 0, est), Price: decimal.RequireFromString("100")}},
	})

	require.Equal(t, 1, table.Len())
	assert.Equal(t, date(2020, 1, 2), table.Date(0))
}

func TestPriceTableDateIndex(t *testing.T) {
	table := NewPriceTable(map[string][]Close{
		"AAA": {
			closeAt(2020, 1, 2, "100"),
			closeAt(2020, 1, 3, "101"),
		},
	})

	i, ok := table.DateIndex(date(2020, 1, 3))
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = table.DateIndex(date(2020, 1, 4))
	assert.False(t, ok)

	// A timestamp inside a trading day resolves to that day's row.
	i, ok = table.DateIndex(time.Date(2020, 1, 2, 9, 30, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestNewPriceTableEmpty(t *testing.T) {
	assert.Equal(t, 0, NewPriceTable(nil).Len())
	assert.Equal(t, 0, NewPriceTable(map[string][]Close{"AAA": nil}).Len())
	assert.False(t, NewPriceTable(nil).HasTicker("AAA"))
}
