// Package chart renders the value curves of completed runs into a single
// PNG comparison chart.
package chart

import (
	"errors"
	"time"

	"backtest/internal/engine"

	charts "github.com/vicanso/go-charts/v2"
)

var ErrNoResults = errors.New("no results to chart")

// RenderComparison draws one line per run over the trading days shared by
// all runs and returns the encoded PNG.
func RenderComparison(title string, results []*engine.Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	shared := sharedDates(results)
	if len(shared) == 0 {
		return nil, ErrNoResults
	}

	xLabels := make([]string, len(shared))
	for i, date := range shared {
		xLabels[i] = date.Format("2006-01-02")
	}

	names := make([]string, len(results))
	values := make([][]float64, len(results))
	for i, result := range results {
		names[i] = result.Name
		byDate := make(map[time.Time]float64, len(result.Dates))
		for j, date := range result.Dates {
			byDate[date] = result.Values[j].InexactFloat64()
		}
		series := make([]float64, len(shared))
		for j, date := range shared {
			series[j] = byDate[date]
		}
		values[i] = series
	}

	split := len(shared) / 8
	if split < 2 {
		split = 2
	}

	painter, err := charts.Render(
		charts.ChartOption{SeriesList: charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: split,
		}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// sharedDates intersects the run timelines, keeping the first run's order.
func sharedDates(results []*engine.Result) []time.Time {
	counts := make(map[time.Time]int)
	for _, result := range results {
		for _, date := range result.Dates {
			counts[date]++
		}
	}

	var shared []time.Time
	for _, date := range results[0].Dates {
		if counts[date] == len(results) {
			shared = append(shared, date)
		}
	}
	return shared
}
