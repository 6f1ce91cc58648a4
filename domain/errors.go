package domain

import "errors"

var (
	ErrUnsupportedPair = errors.New("invalid base/quote currency input")
	// Signals that the pair table and the side selector disagree, never a user error.
	ErrInconsistentSide      = errors.New("base currency matches neither side of the product")
	ErrEmptyBook             = errors.New("cannot complete quote, empty orderbook")
	ErrInsufficientLiquidity = errors.New("not enough currency in orderbook to complete quote")
	ErrZeroFill              = errors.New("cannot price a quote with zero accumulated amount")

	ErrInvalidAmount    = errors.New("invalid amount input")
	ErrInvalidAction    = errors.New("invalid action input")
	ErrNoOrderBook      = errors.New("no orderbook found")
	ErrMalformedLevel   = errors.New("malformed order book level")
	ErrProviderNotFound = errors.New("provider not found")
	ErrFetchFailed      = errors.New("failed to fetch order book")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrUnsupportedPair, "unsupported_pair"},
	{ErrInconsistentSide, "inconsistent_side"},
	{ErrEmptyBook, "empty_book"},
	{ErrInsufficientLiquidity, "insufficient_liquidity"},
	{ErrZeroFill, "zero_fill"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrInvalidAction, "invalid_action"},
	{ErrNoOrderBook, "no_orderbook"},
	{ErrMalformedLevel, "malformed_level"},
	{ErrProviderNotFound, "provider_not_found"},
	{ErrFetchFailed, "fetch_failed"},
}

// ErrorKind returns a stable label for err, "ok" for nil and "internal" for
// errors outside the quote taxonomy.
func ErrorKind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}
