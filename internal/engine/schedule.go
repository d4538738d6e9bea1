package engine

import (
	"sort"
	"time"

	"backtest/types"
)

// scheduleDates maps a rebalance periodicity onto concrete timeline rows.
// Period boundaries are the first calendar day of each quarter/year
// touching the timeline (plus the boundary just past it), each snapped to
// the last trading day on or before the boundary. Boundaries falling
// before the timeline produce no snap and are dropped; duplicate snaps
// collapse to one.
//
// The first surviving entry anchors the growth-target curve and never
// triggers a rebalance.
func scheduleDates(table *types.PriceTable, period RebalancePeriod) []int {
	if period == PeriodNone || table.Len() == 0 {
		return nil
	}

	first := table.Date(0)
	last := table.Date(table.Len() - 1)

	var boundaries []time.Time
	for b := periodStart(first, period); !b.After(last); b = nextBoundary(b, period) {
		boundaries = append(boundaries, b)
	}
	if len(boundaries) > 0 {
		boundaries = append(boundaries, nextBoundary(boundaries[len(boundaries)-1], period))
	}

	var rows []int
	seen := make(map[int]bool)
	for _, b := range boundaries {
		i, ok := snapBack(table, b)
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		rows = append(rows, i)
	}
	sort.Ints(rows)
	return rows
}

// snapBack finds the last timeline row on or before the boundary.
func snapBack(table *types.PriceTable, boundary time.Time) (int, bool) {
	dates := table.Dates()
	i := sort.Search(len(dates), func(i int) bool { return dates[i].After(boundary) })
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}

func periodStart(date time.Time, period RebalancePeriod) time.Time {
	y, m, _ := date.UTC().Date()
	if period == PeriodAnnual {
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	quarterMonth := time.Month((int(m)-1)/3*3 + 1)
	return time.Date(y, quarterMonth, 1, 0, 0, 0, 0, time.UTC)
}

func nextBoundary(boundary time.Time, period RebalancePeriod) time.Time {
	if period == PeriodAnnual {
		return boundary.AddDate(1, 0, 0)
	}
	return boundary.AddDate(0, 3, 0)
}
