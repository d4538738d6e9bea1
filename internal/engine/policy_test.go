package engine

import (
	"math"
	"testing"
	"time"

	"backtest/types"

	"github.com/shopspring/decimal"
)

func TestGrowthTargets(t *testing.T) {
	targets := growthTargets(decimal.NewFromInt(10_000), 1.09, 4)
	want := []string{"10000", "10900", "11881", "12950.29"}
	if len(targets) != len(want) {
		t.Fatalf("growthTargets() length = %d, want %d", len(targets), len(want))
	}
	for i, w := range want {
		if !targets[i].Equal(decimal.RequireFromString(w)) {
			t.Errorf("target[%d] = %s, want %s", i, targets[i], w)
		}
	}

	if got := growthTargets(decimal.NewFromInt(1), 1.09, 0); got != nil {
		t.Errorf("growthTargets() with zero periods = %v, want nil", got)
	}
}

func TestFixedWeightRebalanceConverges(t *testing.T) {
	dates := []time.Time{day(2020, 1, 2), day(2020, 6, 1)}
	table := testTable(t, dates, map[string][]string{
		"QQQ": {"200", "260"},
		"QLD": {"50", "80"},
		"BIL": {"91.5", "91.6"},
	})

	ratios := types.Weights{"QQQ": 4, "QLD": 9.67, "BIL": 3}
	weights, err := ratios.Normalized()
	if err != nil {
		t.Fatalf("Normalized() error = %v", err)
	}

	book, err := newLedger(table, decimal.NewFromInt(10_000), weights)
	if err != nil {
		t.Fatalf("newLedger() error = %v", err)
	}
	book.closeDay() // drift through day 0

	p := &fixedWeightPolicy{weights: weights}
	if err := p.rebalance(book, 1); err != nil {
		t.Fatalf("rebalance() error = %v", err)
	}

	total := book.value()
	for ticker, weight := range weights {
		share := book.unitsOf(ticker).Mul(book.price(ticker)).Div(total).InexactFloat64()
		if math.Abs(share-weight) > 1e-6 {
			t.Errorf("ticker %s share = %v, want %v", ticker, share, weight)
		}
	}
}

func TestGrowthTargetRebalance(t *testing.T) {
	dates := []time.Time{day(2020, 1, 2), day(2020, 4, 1)}
	table := testTable(t, dates, map[string][]string{
		"TQQQ": {"40", "50"},
		"BIL":  {"91.5", "91.5"},
	})

	weights := types.Weights{"TQQQ": 0.6, "BIL": 0.4}
	book, err := newLedger(table, decimal.NewFromInt(10_000), weights)
	if err != nil {
		t.Fatalf("newLedger() error = %v", err)
	}
	book.closeDay()

	totalBefore := book.value()
	p := &growthTargetPolicy{
		growth:  "TQQQ",
		ballast: "BIL",
		weight:  0.6,
		targets: growthTargets(decimal.NewFromInt(10_000), 1.09, 2),
	}
	if err := p.rebalance(book, 1); err != nil {
		t.Fatalf("rebalance() error = %v", err)
	}

	// Growth leg sits exactly at target*weight; the ballast absorbed the
	// offsetting flow, leaving the total unchanged.
	growthValue := book.unitsOf("TQQQ").Mul(book.price("TQQQ"))
	decimalNear(t, growthValue, "6540", "0.0001") // 10900 * 0.6
	decimalNear(t, book.value(), totalBefore.String(), "0.0001")
}

func TestGrowthTargetBallastGoesNegative(t *testing.T) {
	// A collapsed growth leg forces buying it back with implied borrowing
	// from the ballast.
	dates := []time.Time{day(2020, 1, 2), day(2020, 4, 1)}
	table := testTable(t, dates, map[string][]string{
		"TQQQ": {"40", "4"},
		"BIL":  {"10", "10"},
	})

	book, err := newLedger(table, decimal.NewFromInt(10_000), types.Weights{"TQQQ": 0.9, "BIL": 0.1})
	if err != nil {
		t.Fatalf("newLedger() error = %v", err)
	}
	book.closeDay()

	p := &growthTargetPolicy{
		growth:  "TQQQ",
		ballast: "BIL",
		weight:  0.6,
		targets: growthTargets(decimal.NewFromInt(10_000), 1.09, 2),
	}
	if err := p.rebalance(book, 1); err != nil {
		t.Fatalf("rebalance() error = %v", err)
	}

	if !book.unitsOf("BIL").IsNegative() {
		t.Errorf("ballast units = %s, want negative", book.unitsOf("BIL"))
	}
	growthValue := book.unitsOf("TQQQ").Mul(book.price("TQQQ"))
	decimalNear(t, growthValue, "6540", "0.0001")
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RunConfig
		wantName string
	}{
		{"buy and hold", RunConfig{Policy: PolicyBuyAndHold}, "buy-and-hold"},
		{"fixed weight", RunConfig{Policy: PolicyFixedWeight}, "fixed-weight"},
		{
			"growth target",
			RunConfig{Policy: PolicyGrowthTarget, GrowthTicker: "TQQQ", BallastTicker: "BIL", GrowthRate: 1.09, GrowthWeight: 0.6, StartCapital: decimal.NewFromInt(10_000)},
			"growth-target",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := policyFor(tt.cfg, types.Weights{"TQQQ": 0.6, "BIL": 0.4}, 4)
			if err != nil {
				t.Fatalf("policyFor() error = %v", err)
			}
			if p.name() != tt.wantName {
				t.Errorf("name() = %s, want %s", p.name(), tt.wantName)
			}
		})
	}

	if _, err := policyFor(RunConfig{Policy: "martingale"}, nil, 0); err == nil {
		t.Error("policyFor() accepted unknown policy")
	}
}
