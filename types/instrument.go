package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type InstrumentType string

const (
	InstrumentTypeStock InstrumentType = "STOCK"
	InstrumentTypeEtf   InstrumentType = "ETF"
	InstrumentTypeFund  InstrumentType = "FUND"
)

type Instrument struct {
	Id         int            `json:"id"`
	Ticker     string         `json:"ticker"`
	Name       string         `json:"name"`
	Type       InstrumentType `json:"type"`
	CreatedAt  time.Time      `json:"createdAt"`
	ModifiedAt time.Time      `json:"modifiedAt"`
}

// DividendEvent is a per-unit cash payout on a given ex-date.
type DividendEvent struct {
	Ticker string          `json:"ticker"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}
