package engine

// buyHoldPolicy never rebalances; after initialization the ledger only
// ever receives dividend events.
type buyHoldPolicy struct{}

func (buyHoldPolicy) name() string { return "buy-and-hold" }

func (buyHoldPolicy) rebalance(*ledger, int) error { return nil }
