package domain

import "strings"

type CurrencyCode string

const (
	BTC CurrencyCode = "BTC"
	ETH CurrencyCode = "ETH"
	LTC CurrencyCode = "LTC"
	USD CurrencyCode = "USD"
	GBP CurrencyCode = "GBP"
	EUR CurrencyCode = "EUR"
)

// NewCurrencyCode upper-cases and trims s. It does not check membership in
// any pair table.
func NewCurrencyCode(s string) CurrencyCode {
	return CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
}

func (c CurrencyCode) String() string {
	return string(c)
}

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionBuy, ActionSell:
		return a, nil
	}
	return "", ErrInvalidAction
}
