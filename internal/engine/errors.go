package engine

import "errors"

// Global error declarations.
var (
	ErrDataUnavailable = errors.New("no aligned price data available")
	ErrInvalidConfig   = errors.New("invalid run configuration")
)

// errSkipRebalance aborts a single scheduled rebalance without failing the
// run. The scan records it and moves on.
var errSkipRebalance = errors.New("rebalance skipped")
