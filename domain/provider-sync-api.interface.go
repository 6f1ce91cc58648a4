package domain

import "context"

// ProviderSyncAPI fetches a one-off order book snapshot over the exchange's
// REST interface.
type ProviderSyncAPI interface {
	OrderBookSnapshot(ctx context.Context, product *MarketSymbol, level int) (*OrderBookSnapshot, error)
}
