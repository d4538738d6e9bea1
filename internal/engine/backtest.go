package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"backtest/types"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
)

// MarketData is the input contract of the data-acquisition collaborator:
// an aligned positive close table plus per-instrument dividend events.
type MarketData interface {
	GetDailyCloses(ctx context.Context, tickers []string, start, end time.Time) (*types.PriceTable, error)
	GetDividends(ctx context.Context, ticker string, start, end time.Time) ([]types.DividendEvent, error)
}

type Engine struct {
	store MarketData
	log   zerolog.Logger
}

func NewEngine(store MarketData, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Result is the output contract of one run: the full value series from the
// initialization date onward, its statistics, and run diagnostics.
type Result struct {
	Name   string
	Policy PolicyType

	Dates  []time.Time
	Values []decimal.Decimal
	Report *Report

	RebalanceDates []time.Time
	GrowthTargets  []decimal.Decimal
	SkippedEvents  int
}

// Run executes a single strategy backtest. Fatal configuration or data
// errors abort before any ledger mutation; skipped events are absorbed and
// only counted.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	weights, err := cfg.targetWeights()
	if err != nil {
		return nil, err
	}

	table, err := e.loadTable(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for ticker := range weights {
		if !table.HasTicker(ticker) {
			return nil, fmt.Errorf("%w: ticker %s has no price data", ErrDataUnavailable, ticker)
		}
	}

	dividendRows, droppedDividends, err := e.loadDividends(ctx, cfg, table, weights)
	if err != nil {
		return nil, err
	}

	book, err := newLedger(table, cfg.StartCapital, weights)
	if err != nil {
		return nil, err
	}
	schedule := scheduleDates(table, cfg.Period)
	strat, err := policyFor(cfg, weights, len(schedule))
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("run", cfg.Name).
		Str("policy", strat.name()).
		Int("days", table.Len()).
		Int("rebalances", max(0, len(schedule)-1)).
		Time("from", table.Date(0)).
		Time("to", table.Date(table.Len()-1)).
		Msg("starting backtest")

	skipped := droppedDividends
	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = initProgressBar(table.Len(), cfg.Name)
	}

	next := 0
	for day := 0; day < table.Len(); day++ {
		for _, event := range dividendRows[day] {
			if _, ok := book.applyDividend(event.Ticker, event.Amount); !ok {
				skipped++
			}
		}

		if next < len(schedule) && schedule[next] == day {
			// The first scheduled date only anchors the target curve.
			if next > 0 {
				if err := strat.rebalance(book, next); err != nil {
					if !errors.Is(err, errSkipRebalance) {
						return nil, err
					}
					skipped++
					e.log.Warn().
						Str("run", cfg.Name).
						Time("date", table.Date(day)).
						Msg("rebalance skipped")
				}
			}
			next++
		}

		book.closeDay()
		if bar != nil {
			bar.Add(1)
		}
	}

	result := &Result{
		Name:          cfg.Name,
		Policy:        cfg.Policy,
		Dates:         table.Dates(),
		Values:        book.valueSeries(),
		SkippedEvents: skipped,
	}
	for _, row := range schedule {
		result.RebalanceDates = append(result.RebalanceDates, table.Date(row))
	}
	if gt, ok := strat.(*growthTargetPolicy); ok {
		result.GrowthTargets = gt.targets
	}

	result.Report = buildReport(result.Dates, result.Values, fundingReturns(table, cfg.RiskFree))

	e.log.Info().
		Str("run", cfg.Name).
		Str("final", result.Report.FinalValue.StringFixed(2)).
		Float64("cagr", result.Report.CAGR).
		Int("skipped", skipped).
		Msg("backtest finished")
	return result, nil
}

// RunAll executes every configured run concurrently. Runs share only the
// read-only data store; each owns its ledger.
func (e *Engine) RunAll(ctx context.Context, cfgs []RunConfig) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	wg.Add(len(cfgs))
	for i, cfg := range cfgs {
		go func(i int, cfg RunConfig) {
			defer wg.Done()
			result, err := e.Run(ctx, cfg)
			if err != nil {
				errs[i] = fmt.Errorf("run %s: %w", cfg.Name, err)
				return
			}
			results[i] = result
		}(i, cfg)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) loadTable(ctx context.Context, cfg RunConfig) (*types.PriceTable, error) {
	request := cfg.instruments()
	if cfg.RiskFree != "" {
		found := false
		for _, ticker := range request {
			if ticker == cfg.RiskFree {
				found = true
				break
			}
		}
		if !found {
			request = append(request, cfg.RiskFree)
		}
	}
	sort.Strings(request)

	table, err := e.store.GetDailyCloses(ctx, request, cfg.Start, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("loading closes: %w", err)
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: empty aligned timeline for %v", ErrDataUnavailable, request)
	}
	return table, nil
}

// loadDividends groups each held instrument's dividend events by timeline
// row. Events dated off the timeline are dropped and counted.
func (e *Engine) loadDividends(ctx context.Context, cfg RunConfig, table *types.PriceTable, weights types.Weights) (map[int][]types.DividendEvent, int, error) {
	tickers := make([]string, 0, len(weights))
	for ticker := range weights {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	rows := make(map[int][]types.DividendEvent)
	dropped := 0
	for _, ticker := range tickers {
		events, err := e.store.GetDividends(ctx, ticker, cfg.Start, cfg.End)
		if err != nil {
			return nil, 0, fmt.Errorf("loading dividends for %s: %w", ticker, err)
		}
		for _, event := range events {
			i, ok := table.DateIndex(event.Date)
			if !ok {
				dropped++
				continue
			}
			rows[i] = append(rows[i], event)
		}
	}
	return rows, dropped, nil
}

// fundingReturns builds the daily risk-free return series from the funding
// instrument's own closes; entry 0 is zero by construction.
func fundingReturns(table *types.PriceTable, riskFree string) []float64 {
	if riskFree == "" || !table.HasTicker(riskFree) {
		return nil
	}
	funding := make([]float64, table.Len())
	for i := 1; i < table.Len(); i++ {
		prev := table.Price(riskFree, i-1)
		if !prev.IsPositive() {
			continue
		}
		funding[i] = table.Price(riskFree, i).Div(prev).InexactFloat64() - 1
	}
	return funding
}

func initProgressBar(maxTicks int, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s...", name)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
