package domain

import (
	"fmt"
	"strings"
)

const productSeparator = "-"

// MarketSymbol is an exchange trading pair. Its BaseAsset/QuoteAsset order is
// the exchange's own, which is not necessarily the order a user asks in.
type MarketSymbol struct {
	BaseAsset  CurrencyCode
	QuoteAsset CurrencyCode
}

func NewMarketSymbol(base string, quote string) (*MarketSymbol, error) {
	b, q := NewCurrencyCode(base), NewCurrencyCode(quote)
	if b == "" || q == "" {
		return nil, fmt.Errorf("base and quote must not be empty")
	}
	if b == q {
		return nil, fmt.Errorf("base and quote must be different")
	}
	return &MarketSymbol{
		BaseAsset:  b,
		QuoteAsset: q,
	}, nil
}

// NewMarketSymbolFromString parses a product id such as "BTC-USD".
func NewMarketSymbolFromString(s string) (*MarketSymbol, error) {
	split := strings.Split(s, productSeparator)

	if len(split) != 2 {
		return nil, fmt.Errorf("invalid product id %q", s)
	}

	return NewMarketSymbol(split[0], split[1])
}

func (ms *MarketSymbol) Join(separator string) string {
	return fmt.Sprintf("%s%s%s", ms.BaseAsset, separator, ms.QuoteAsset)
}

// String renders the product id, e.g. "BTC-USD".
func (ms *MarketSymbol) String() string {
	return ms.Join(productSeparator)
}

func (ms *MarketSymbol) Equal(other *MarketSymbol) bool {
	return ms.BaseAsset == other.BaseAsset && ms.QuoteAsset == other.QuoteAsset
}

// Has reports whether c is one of the two assets of the symbol.
func (ms *MarketSymbol) Has(c CurrencyCode) bool {
	return ms.BaseAsset == c || ms.QuoteAsset == c
}

// supportedProducts is the exhaustive list of products a quote can be made on.
var supportedProducts = []MarketSymbol{
	{BaseAsset: BTC, QuoteAsset: USD},
	{BaseAsset: BTC, QuoteAsset: GBP},
	{BaseAsset: BTC, QuoteAsset: EUR},
	{BaseAsset: ETH, QuoteAsset: BTC},
	{BaseAsset: ETH, QuoteAsset: USD},
	{BaseAsset: LTC, QuoteAsset: BTC},
	{BaseAsset: LTC, QuoteAsset: USD},
	{BaseAsset: ETH, QuoteAsset: EUR},
}

type currencyPair struct {
	a, b CurrencyCode
}

var productByPair = func() map[currencyPair]MarketSymbol {
	m := make(map[currencyPair]MarketSymbol, len(supportedProducts)*2)
	for _, p := range supportedProducts {
		m[currencyPair{p.BaseAsset, p.QuoteAsset}] = p
		m[currencyPair{p.QuoteAsset, p.BaseAsset}] = p
	}
	return m
}()

// ResolveProductID maps an unordered currency pair to the exchange product.
// The lookup is order independent; ok is false for unsupported pairs.
func ResolveProductID(base, quote CurrencyCode) (product *MarketSymbol, ok bool) {
	p, ok := productByPair[currencyPair{NewCurrencyCode(string(base)), NewCurrencyCode(string(quote))}]
	if !ok {
		return nil, false
	}
	return &p, true
}

// SupportedProducts returns a copy of the product table.
func SupportedProducts() []MarketSymbol {
	out := make([]MarketSymbol, len(supportedProducts))
	copy(out, supportedProducts)
	return out
}
