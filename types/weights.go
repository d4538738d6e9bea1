package types

import (
	"errors"
	"fmt"
)

var ErrZeroWeights = errors.New("weight vector sums to zero")

// Weights maps tickers to non-negative target weights. Callers may supply
// any scale (ratios like 4:9.67:3 are fine); Normalized rescales to sum 1.
type Weights map[string]float64

func (w Weights) Normalized() (Weights, error) {
	var sum float64
	for ticker, weight := range w {
		if weight < 0 {
			return nil, fmt.Errorf("ticker %s: negative weight %v", ticker, weight)
		}
		sum += weight
	}
	if sum <= 0 {
		return nil, ErrZeroWeights
	}

	normalized := make(Weights, len(w))
	for ticker, weight := range w {
		normalized[ticker] = weight / sum
	}
	return normalized, nil
}
