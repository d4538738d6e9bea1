package csvdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetDailyClosesAligns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "AAA.csv", "date,close\n2020-01-02,100\n2020-01-03,101\n2020-01-06,102\n")
	writeFile(t, dir, "BBB.csv", "date,close\n2020-01-02,50\n2020-01-06,51\n")

	table, err := New(dir).GetDailyCloses(context.Background(), []string{"AAA", "BBB"}, time.Time{}, time.Time{})
	require.NoError(t, err)

	// Jan 3 has no BBB close, so the aligned table drops it.
	require.Equal(t, 2, table.Len())
	assert.Equal(t, date(2020, 1, 2), table.Date(0))
	assert.Equal(t, date(2020, 1, 6), table.Date(1))
	assert.True(t, table.Price("AAA", 1).Equal(decimal.RequireFromString("102")))
}

func TestGetDailyClosesRangeFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "AAA.csv", "date,close\n2020-01-02,100\n2020-01-03,101\n2020-01-06,102\n")

	table, err := New(dir).GetDailyCloses(context.Background(), []string{"AAA"},
		date(2020, 1, 3), date(2020, 1, 3))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, date(2020, 1, 3), table.Date(0))
}

func TestGetDailyClosesMissingFile(t *testing.T) {
	_, err := New(t.TempDir()).GetDailyCloses(context.Background(), []string{"ZZZ"}, time.Time{}, time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "ZZZ")
}

func TestGetDailyClosesBadRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "BAD.csv", "date,close\n2020-01-02,100\nnot-a-date,101\n")
	_, err := New(dir).GetDailyCloses(context.Background(), []string{"BAD"}, time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad date")

	writeFile(t, dir, "WORSE.csv", "date,close\n2020-01-02,acorns\n")
	_, err = New(dir).GetDailyCloses(context.Background(), []string{"WORSE"}, time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad value")
}

func TestGetDividends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "AAA_dividends.csv", "date,amount\n2020-01-03,0.52\n2020-04-03,0.55\n")

	events, err := New(dir).GetDividends(context.Background(), "AAA", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "AAA", events[0].Ticker)
	assert.Equal(t, date(2020, 1, 3), events[0].Date)
	assert.True(t, events[0].Amount.Equal(decimal.RequireFromString("0.52")))

	// Range filtering keeps only in-window events.
	events, err = New(dir).GetDividends(context.Background(), "AAA", date(2020, 2, 1), date(2020, 12, 31))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, date(2020, 4, 3), events[0].Date)
}

func TestGetDividendsMissingFileMeansNone(t *testing.T) {
	events, err := New(t.TempDir()).GetDividends(context.Background(), "AAA", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Nil(t, events)
}

func TestReadRowsWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "RAW.csv", "2020-01-02,100\n2020-01-03,101\n")

	table, err := New(dir).GetDailyCloses(context.Background(), []string{"RAW"}, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}
