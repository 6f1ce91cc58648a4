package domain

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

type OrderBookSource string

const (
	OrderBookSource_Provider OrderBookSource = "Provider"
)

// OrderBookSnapshot is a level-2 book as received from an exchange. Each
// level is [price, size] or [price, size, numOrders], all as strings.
type OrderBookSnapshot struct {
	Source   OrderBookSource `json:"source"`
	Provider string          `json:"provider"`
	Product  string          `json:"product"`
	Sequence int64           `json:"sequence"`
	Bids     [][]string      `json:"bids"`
	Asks     [][]string      `json:"asks"`
}

type Level struct {
	Price decimal.Decimal
	Size  decimal.Decimal
	// OrderCount is zero when the exchange does not report it.
	OrderCount int
}

// OrderBook is an immutable, parsed snapshot. Bids are best (highest) first
// and asks best (lowest) first, exactly as the exchange sent them.
type OrderBook struct {
	Provider string
	Product  string
	Sequence int64
	Bids     []Level
	Asks     []Level
}

func NewOrderBook(snapshot *OrderBookSnapshot) (*OrderBook, error) {
	if snapshot == nil {
		return nil, ErrNoOrderBook
	}

	bids, err := parsePriceLevel(snapshot.Bids)
	if err != nil {
		return nil, fmt.Errorf("bids: %w", err)
	}
	asks, err := parsePriceLevel(snapshot.Asks)
	if err != nil {
		return nil, fmt.Errorf("asks: %w", err)
	}

	return &OrderBook{
		Provider: snapshot.Provider,
		Product:  snapshot.Product,
		Sequence: snapshot.Sequence,
		Bids:     bids,
		Asks:     asks,
	}, nil
}

// LimitDepth returns a copy of the book keeping at most limit levels per
// side. A limit <= 0 keeps every level.
func (ob *OrderBook) LimitDepth(limit int) *OrderBook {
	out := *ob
	out.Bids = limitDepth(ob.Bids, limit)
	out.Asks = limitDepth(ob.Asks, limit)
	return &out
}

func limitDepth(depth []Level, limit int) []Level {
	if limit > 0 && len(depth) > limit {
		depth = depth[:limit]
	}
	out := make([]Level, len(depth))
	copy(out, depth)
	return out
}

// SelectSide returns the side of the book a market order consumes.
//
// Buying the product's base lifts the asks and selling it hits the bids. When
// the user's base is the product's quote the convention inverts: buying it
// means selling the product's base into the bids.
func SelectSide(userBase CurrencyCode, action Action, product *MarketSymbol, book *OrderBook) ([]Level, error) {
	if book == nil {
		return nil, ErrNoOrderBook
	}

	switch {
	case userBase == product.BaseAsset && action == ActionBuy,
		userBase == product.QuoteAsset && action == ActionSell:
		return book.Asks, nil
	case userBase == product.BaseAsset && action == ActionSell,
		userBase == product.QuoteAsset && action == ActionBuy:
		return book.Bids, nil
	case !product.Has(userBase):
		return nil, fmt.Errorf("%w: %s on %s", ErrInconsistentSide, userBase, product)
	}

	return nil, ErrInvalidAction
}

func parsePriceLevel(depth [][]string) ([]Level, error) {
	result := make([]Level, len(depth))
	for i, level := range depth {
		if len(level) < 2 {
			return nil, fmt.Errorf("%w: level %d has %d fields", ErrMalformedLevel, i, len(level))
		}

		price, err := decimal.NewFromString(level[0])
		if err != nil {
			return nil, fmt.Errorf("%w: price %q: %v", ErrMalformedLevel, level[0], err)
		}
		size, err := decimal.NewFromString(level[1])
		if err != nil {
			return nil, fmt.Errorf("%w: size %q: %v", ErrMalformedLevel, level[1], err)
		}
		if !price.IsPositive() || !size.IsPositive() {
			return nil, fmt.Errorf("%w: level %d is not positive (%s, %s)", ErrMalformedLevel, i, level[0], level[1])
		}

		result[i] = Level{Price: price, Size: size}

		if len(level) > 2 && level[2] != "" {
			count, err := strconv.Atoi(level[2])
			if err != nil {
				return nil, fmt.Errorf("%w: order count %q: %v", ErrMalformedLevel, level[2], err)
			}
			result[i].OrderCount = count
		}
	}

	return result, nil
}
