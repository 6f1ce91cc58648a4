package domain

const (
	FiatPrecision   int32 = 2
	CryptoPrecision int32 = 8
)

// PrecisionTable holds the number of decimal places quotes are rounded to,
// keyed by currency code. Currencies missing from the table use Fallback.
type PrecisionTable struct {
	places   map[CurrencyCode]int32
	fallback int32
}

func NewPrecisionTable(places map[CurrencyCode]int32, fallback int32) *PrecisionTable {
	t := &PrecisionTable{
		places:   make(map[CurrencyCode]int32, len(places)),
		fallback: fallback,
	}
	for c, p := range places {
		t.places[NewCurrencyCode(string(c))] = p
	}
	return t
}

// DefaultPrecisionTable rounds fiat to cents and everything else to satoshis.
func DefaultPrecisionTable() *PrecisionTable {
	return NewPrecisionTable(map[CurrencyCode]int32{
		USD: FiatPrecision,
		GBP: FiatPrecision,
		EUR: FiatPrecision,
	}, CryptoPrecision)
}

func (t *PrecisionTable) Places(c CurrencyCode) int32 {
	if p, ok := t.places[c]; ok {
		return p
	}
	return t.fallback
}

// With returns a copy of the table with overrides applied on top.
func (t *PrecisionTable) With(overrides map[CurrencyCode]int32) *PrecisionTable {
	merged := make(map[CurrencyCode]int32, len(t.places)+len(overrides))
	for c, p := range t.places {
		merged[c] = p
	}
	for c, p := range overrides {
		merged[NewCurrencyCode(string(c))] = p
	}
	return &PrecisionTable{places: merged, fallback: t.fallback}
}

func (t *PrecisionTable) WithFallback(fallback int32) *PrecisionTable {
	out := t.With(nil)
	out.fallback = fallback
	return out
}
