package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backtest/types"

	"github.com/jackc/pgx/v5"
)

// GetInstrumentByTicker retrieves a types.Instrument by its ticker.
func (db *Database) GetInstrumentByTicker(ctx context.Context, ticker string) (*types.Instrument, error) {
	inst, err := db.instruments.GetInstrumentByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticker %s %w", ticker, ErrInstrumentNotFound)
		}
		return nil, err
	}
	return &inst, nil
}

// GetDailyCloses loads each ticker's daily closes over [start, end] and
// aligns them into one inner-intersected price table.
func (db *Database) GetDailyCloses(ctx context.Context, tickers []string, start, end time.Time) (*types.PriceTable, error) {
	series := make(map[string][]types.Close, len(tickers))
	for _, ticker := range tickers {
		inst, err := db.GetInstrumentByTicker(ctx, ticker)
		if err != nil {
			return nil, err
		}
		closes, err := db.closes.GetDailyCloses(ctx, inst.Id, start, end)
		if err != nil {
			return nil, err
		}
		if len(closes) == 0 {
			return nil, fmt.Errorf("ticker %s %w", ticker, ErrNoCloses)
		}
		series[ticker] = closes
	}
	return types.NewPriceTable(series), nil
}

// GetDividends loads a ticker's dividend events over [start, end]. A
// ticker without dividend history yields an empty sequence, not an error.
func (db *Database) GetDividends(ctx context.Context, ticker string, start, end time.Time) ([]types.DividendEvent, error) {
	inst, err := db.GetInstrumentByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	events, err := db.dividends.GetDividends(ctx, inst.Id, start, end)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Ticker = ticker
	}
	return events, nil
}
