package repository

import (
	"context"
	"time"

	"backtest/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const getInstrumentByTicker = `
SELECT id, ticker, name, type, created_at, modified_at
FROM instruments
WHERE ticker = $1`

const getDailyCloses = `
SELECT day, close
FROM daily_closes
WHERE instrument_id = $1 AND day BETWEEN $2 AND $3
ORDER BY day`

const getDividends = `
SELECT ex_date, amount
FROM dividends
WHERE instrument_id = $1 AND ex_date BETWEEN $2 AND $3
ORDER BY ex_date`

type pgQueries struct {
	pool *pgxpool.Pool
}

func (q *pgQueries) GetInstrumentByTicker(ctx context.Context, ticker string) (types.Instrument, error) {
	row := q.pool.QueryRow(ctx, getInstrumentByTicker, ticker)

	var inst types.Instrument
	err := row.Scan(&inst.Id, &inst.Ticker, &inst.Name, &inst.Type, &inst.CreatedAt, &inst.ModifiedAt)
	if err != nil {
		return types.Instrument{}, err
	}
	return inst, nil
}

func (q *pgQueries) GetDailyCloses(ctx context.Context, instrumentId int, start, end time.Time) ([]types.Close, error) {
	rows, err := q.pool.Query(ctx, getDailyCloses, instrumentId, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var closes []types.Close
	for rows.Next() {
		var day time.Time
		var price decimal.Decimal
		if err := rows.Scan(&day, &price); err != nil {
			return nil, err
		}
		closes = append(closes, types.Close{Date: day, Price: price})
	}
	return closes, rows.Err()
}

func (q *pgQueries) GetDividends(ctx context.Context, instrumentId int, start, end time.Time) ([]types.DividendEvent, error) {
	rows, err := q.pool.Query(ctx, getDividends, instrumentId, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []types.DividendEvent
	for rows.Next() {
		var event types.DividendEvent
		if err := rows.Scan(&event.Date, &event.Amount); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
