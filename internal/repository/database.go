package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backtest/types"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrInstrumentNotFound = errors.New("instrument not found in datasource")
	ErrNoCloses           = errors.New("no closes found in datasource")
)

type instrumentsRepository interface {
	GetInstrumentByTicker(ctx context.Context, ticker string) (types.Instrument, error)
}
type closesRepository interface {
	GetDailyCloses(ctx context.Context, instrumentId int, start, end time.Time) ([]types.Close, error)
}
type dividendsRepository interface {
	GetDividends(ctx context.Context, instrumentId int, start, end time.Time) ([]types.DividendEvent, error)
}

// Database holds the connection pool and query implementations.
type Database struct {
	instruments instrumentsRepository
	closes      closesRepository
	dividends   dividendsRepository
	conn        *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(context.Background()); err != nil {
		return Database{}, err
	}

	queries := &pgQueries{pool: conn}
	return Database{
		instruments: queries,
		closes:      queries,
		dividends:   queries,
		conn:        conn,
	}, nil
}

func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
