package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type QuoteRequest struct {
	Base   CurrencyCode
	Quote  CurrencyCode
	Action Action
	Amount decimal.Decimal
}

type QuoteResult struct {
	Total    string       `json:"total"`
	Price    string       `json:"price"`
	Currency CurrencyCode `json:"currency"`
}

// FormatQuote turns the walk totals into fixed-point strings rounded to the
// precision of quoteCurrency. Trailing zeros are kept.
func FormatQuote(walk WalkResult, quoteCurrency CurrencyCode, precision *PrecisionTable) (*QuoteResult, error) {
	if walk.Amount.IsZero() {
		return nil, ErrZeroFill
	}
	if precision == nil {
		precision = DefaultPrecisionTable()
	}

	places := precision.Places(quoteCurrency)
	pricePerUnit := walk.Value.Div(walk.Amount)

	return &QuoteResult{
		Total:    walk.Value.StringFixed(places),
		Price:    pricePerUnit.StringFixed(places),
		Currency: quoteCurrency,
	}, nil
}

// ComputeQuote prices req against a single book snapshot: resolve the
// product, pick the side, walk it and format the result. Any stage failing
// short-circuits the rest.
func ComputeQuote(req QuoteRequest, book *OrderBook, precision *PrecisionTable) (*QuoteResult, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	product, ok := ResolveProductID(req.Base, req.Quote)
	if !ok {
		return nil, ErrUnsupportedPair
	}

	levels, err := SelectSide(req.Base, req.Action, product, book)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, ErrEmptyBook
	}

	walk := Walk(levels, req.Amount, product, req.Base)
	if !walk.Filled(req.Amount) {
		return nil, fmt.Errorf("%w: filled %s of %s %s", ErrInsufficientLiquidity, walk.Amount, req.Amount, req.Base)
	}

	return FormatQuote(walk, req.Quote, precision)
}
