package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, decimal.RequireFromString(want).String(), got.String(), msgAndArgs...)
}

func mockSnapshot() *OrderBookSnapshot {
	return &OrderBookSnapshot{
		Source:   OrderBookSource_Provider,
		Provider: "MockProvider",
		Product:  "BTC-USD",
		Sequence: 123,
		Bids:     [][]string{{"10000", "1", "3"}, {"9900", "2", "1"}},
		Asks:     [][]string{{"10100", "1.5", "2"}, {"10200", "2.5", "7"}},
	}
}

func TestNewOrderBook(t *testing.T) {
	snapshot := mockSnapshot()

	ob, err := NewOrderBook(snapshot)
	require.NoError(t, err)

	assert.Equal(t, snapshot.Provider, ob.Provider, "Provider should match")
	assert.Equal(t, snapshot.Product, ob.Product, "Product should match")
	assert.Equal(t, snapshot.Sequence, ob.Sequence, "Sequence should match")
	require.Len(t, ob.Bids, 2)
	require.Len(t, ob.Asks, 2)

	assertDecimal(t, "10000", ob.Bids[0].Price)
	assertDecimal(t, "2.5", ob.Asks[1].Size)
	assert.Equal(t, 7, ob.Asks[1].OrderCount)
}

func TestNewOrderBook_NilSnapshot(t *testing.T) {
	_, err := NewOrderBook(nil)
	assert.ErrorIs(t, err, ErrNoOrderBook)
}

func TestNewOrderBook_KeepsExchangeOrder(t *testing.T) {
	snapshot := &OrderBookSnapshot{
		Asks: [][]string{{"10200", "1"}, {"10100", "1"}},
	}

	ob, err := NewOrderBook(snapshot)
	require.NoError(t, err)

	assertDecimal(t, "10200", ob.Asks[0].Price, "levels must never be re-sorted")
	assert.Empty(t, ob.Bids)
}

func TestParsePriceLevel(t *testing.T) {
	result, err := parsePriceLevel([][]string{{"10000", "1"}, {"9900.50", "0.002", "4"}})
	require.NoError(t, err)

	require.Len(t, result, 2)
	assertDecimal(t, "9900.5", result[1].Price)
	assertDecimal(t, "0.002", result[1].Size)
	assert.Equal(t, 0, result[0].OrderCount)
	assert.Equal(t, 4, result[1].OrderCount)
}

func TestParsePriceLevel_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		depth [][]string
	}{
		{"MissingSize", [][]string{{"10000"}}},
		{"BadPrice", [][]string{{"abc", "1"}}},
		{"BadSize", [][]string{{"10000", "1..0"}}},
		{"ZeroPrice", [][]string{{"0", "1"}}},
		{"NegativeSize", [][]string{{"10000", "-1"}}},
		{"BadOrderCount", [][]string{{"10000", "1", "many"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePriceLevel(tt.depth)
			assert.True(t, errors.Is(err, ErrMalformedLevel), "expected ErrMalformedLevel, got %v", err)
		})
	}
}

func TestLimitDepth(t *testing.T) {
	ob, err := NewOrderBook(mockSnapshot())
	require.NoError(t, err)

	limited := ob.LimitDepth(3)
	assert.Len(t, limited.Bids, 2, "Bids should be limited to 2")
	assert.Len(t, limited.Asks, 2, "Asks should be limited to 2")

	limited = ob.LimitDepth(1)
	assert.Len(t, limited.Bids, 1, "Bids should be limited to 1")
	assert.Len(t, limited.Asks, 1, "Asks should be limited to 1")
	assert.Len(t, ob.Bids, 2, "LimitDepth must not modify the receiver")

	limited = ob.LimitDepth(0)
	assert.Len(t, limited.Asks, 2, "a zero limit keeps every level")
}

func TestSelectSide(t *testing.T) {
	ob, err := NewOrderBook(mockSnapshot())
	require.NoError(t, err)
	product := &MarketSymbol{BaseAsset: BTC, QuoteAsset: USD}

	tests := []struct {
		name     string
		userBase CurrencyCode
		action   Action
		want     []Level
	}{
		{"BuyProductBaseLiftsAsks", BTC, ActionBuy, ob.Asks},
		{"SellProductBaseHitsBids", BTC, ActionSell, ob.Bids},
		{"BuyProductQuoteHitsBids", USD, ActionBuy, ob.Bids},
		{"SellProductQuoteLiftsAsks", USD, ActionSell, ob.Asks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels, err := SelectSide(tt.userBase, tt.action, product, ob)
			require.NoError(t, err)
			assert.Equal(t, tt.want, levels)
		})
	}
}

func TestSelectSide_Inconsistent(t *testing.T) {
	ob, err := NewOrderBook(mockSnapshot())
	require.NoError(t, err)

	_, err = SelectSide(ETH, ActionBuy, &MarketSymbol{BaseAsset: BTC, QuoteAsset: USD}, ob)
	assert.ErrorIs(t, err, ErrInconsistentSide)
}

func TestSelectSide_UnknownAction(t *testing.T) {
	ob, err := NewOrderBook(mockSnapshot())
	require.NoError(t, err)

	_, err = SelectSide(BTC, Action("hold"), &MarketSymbol{BaseAsset: BTC, QuoteAsset: USD}, ob)
	assert.ErrorIs(t, err, ErrInvalidAction)
}
