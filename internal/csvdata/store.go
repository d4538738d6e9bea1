// Package csvdata serves daily closes and dividend events from plain CSV
// files, one instrument per file: <TICKER>.csv holding date,close rows and
// an optional <TICKER>_dividends.csv holding date,amount rows.
package csvdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"backtest/types"

	"github.com/shopspring/decimal"
)

var ErrNoData = errors.New("no data file for instrument")

const dateLayout = "2006-01-02"

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// GetDailyCloses loads each ticker's close series over [start, end] and
// aligns them into one inner-intersected price table.
func (s *Store) GetDailyCloses(_ context.Context, tickers []string, start, end time.Time) (*types.PriceTable, error) {
	series := make(map[string][]types.Close, len(tickers))
	for _, ticker := range tickers {
		rows, err := s.readRows(filepath.Join(s.dir, ticker+".csv"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("ticker %s: %w", ticker, ErrNoData)
			}
			return nil, fmt.Errorf("ticker %s: %w", ticker, err)
		}
		var closes []types.Close
		for _, row := range rows {
			if !inRange(row.date, start, end) {
				continue
			}
			closes = append(closes, types.Close{Date: row.date, Price: row.value})
		}
		series[ticker] = closes
	}
	return types.NewPriceTable(series), nil
}

// GetDividends loads a ticker's dividend events over [start, end]. A
// missing dividends file means the instrument pays none.
func (s *Store) GetDividends(_ context.Context, ticker string, start, end time.Time) ([]types.DividendEvent, error) {
	rows, err := s.readRows(filepath.Join(s.dir, ticker+"_dividends.csv"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("ticker %s: %w", ticker, err)
	}

	var events []types.DividendEvent
	for _, row := range rows {
		if !inRange(row.date, start, end) {
			continue
		}
		events = append(events, types.DividendEvent{Ticker: ticker, Date: row.date, Amount: row.value})
	}
	return events, nil
}

type csvRow struct {
	date  time.Time
	value decimal.Decimal
}

// readRows parses a two-column date,value file. A header line is detected
// by its unparsable date cell and skipped.
func (s *Store) readRows(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	var rows []csvRow
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		date, err := time.Parse(dateLayout, record[0])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: bad date %q", line, record[0])
		}
		value, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad value %q", line, record[1])
		}
		rows = append(rows, csvRow{date: date, value: value})
	}
	return rows, nil
}

func inRange(date, start, end time.Time) bool {
	if !start.IsZero() && date.Before(start) {
		return false
	}
	if !end.IsZero() && date.After(end) {
		return false
	}
	return true
}
