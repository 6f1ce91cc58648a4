package domain

import "github.com/shopspring/decimal"

// invertedDivPlaces bounds the scale of qty/price on inverted levels.
const invertedDivPlaces = 32

// WalkResult is what a simulated market order accumulated. Value is expressed
// in the user's quote currency.
type WalkResult struct {
	Amount decimal.Decimal
	Value  decimal.Decimal
}

// Filled reports whether the walk accumulated the whole requested amount.
func (r WalkResult) Filled(amountNeeded decimal.Decimal) bool {
	return r.Amount.GreaterThanOrEqual(amountNeeded)
}

// Walk consumes levels in the order given until amountNeeded of userBase is
// accumulated or the levels run out.
//
// When userBase is the product's quote the level is read inverted: the unit
// price becomes 1/price and the available quantity price*size, both in terms
// of userBase.
func Walk(levels []Level, amountNeeded decimal.Decimal, product *MarketSymbol, userBase CurrencyCode) WalkResult {
	native := product.BaseAsset == userBase

	res := WalkResult{Amount: decimal.Zero, Value: decimal.Zero}

	for _, level := range levels {
		if res.Amount.GreaterThanOrEqual(amountNeeded) {
			break
		}

		available := level.Size
		if !native {
			available = level.Price.Mul(level.Size)
		}

		remaining := amountNeeded.Sub(res.Amount)
		if remaining.GreaterThan(available) {
			res.Value = res.Value.Add(levelValue(level, available, native))
			res.Amount = res.Amount.Add(available)
			continue
		}

		res.Value = res.Value.Add(levelValue(level, remaining, native))
		res.Amount = res.Amount.Add(remaining)
		break
	}

	return res
}

// levelValue prices qty of userBase at level. An inverted level whose whole
// quantity is taken costs exactly its size.
func levelValue(level Level, qty decimal.Decimal, native bool) decimal.Decimal {
	if native {
		return level.Price.Mul(qty)
	}
	if qty.Equal(level.Price.Mul(level.Size)) {
		return level.Size
	}
	return qty.DivRound(level.Price, invertedDivPlaces)
}
