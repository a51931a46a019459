package exchangerate

import (
	"context"
	"fmt"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RateProvider looks up stored rates. found is false when no rate exists for
// the exact (from, to) direction.
type RateProvider interface {
	FindRate(ctx context.Context, from, to valueobject.Currency) (rate decimal.Decimal, found bool, err error)
}

// Method tells how a conversion was resolved
type Method string

const (
	MethodIdentity Method = "identity"
	MethodDirect   Method = "direct"
	MethodInverse  Method = "inverse"
	MethodPivot    Method = "pivot"
	MethodFallback Method = "fallback"
)

// ErrRateUnavailable is returned when no rate path and no fallback exist
var ErrRateUnavailable = shared.NewDomainError("RATE_UNAVAILABLE", "No exchange rate available for the requested currencies")

// FallbackRates are units of each currency per 1 USD, used when no stored rate
// path exists.
var FallbackRates = map[valueobject.Currency]decimal.Decimal{
	valueobject.USD: decimal.NewFromInt(1),
	valueobject.EUR: decimal.RequireFromString("0.92"),
	valueobject.GBP: decimal.RequireFromString("0.79"),
	valueobject.JPY: decimal.RequireFromString("149.50"),
	valueobject.CNY: decimal.RequireFromString("7.24"),
	valueobject.CAD: decimal.RequireFromString("1.36"),
	valueobject.AUD: decimal.RequireFromString("1.52"),
	valueobject.CHF: decimal.RequireFromString("0.88"),
	valueobject.INR: decimal.RequireFromString("83.20"),
	valueobject.HKD: decimal.RequireFromString("7.82"),
	"SGD":           decimal.RequireFromString("1.34"),
	"MXN":           decimal.RequireFromString("17.10"),
	"BRL":           decimal.RequireFromString("4.97"),
	"SEK":           decimal.RequireFromString("10.45"),
	"NZD":           decimal.RequireFromString("1.64"),
}

// leg is one step of a conversion: multiply by rate, or divide when inverse
type leg struct {
	rate    decimal.Decimal
	inverse bool
}

func (l leg) apply(x decimal.Decimal) decimal.Decimal {
	if l.inverse {
		return x.Div(l.rate)
	}
	return x.Mul(l.rate)
}

// Quote is a resolved conversion path
type Quote struct {
	From   valueobject.Currency
	To     valueobject.Currency
	Method Method
	legs   []leg
}

// Apply converts amount along the quote and rounds to 2 decimal places.
// Identity quotes return amount unchanged.
func (q Quote) Apply(amount decimal.Decimal) decimal.Decimal {
	if q.Method == MethodIdentity {
		return amount
	}
	x := amount
	for _, l := range q.legs {
		x = l.apply(x)
	}
	return x.Round(valueobject.MoneyScale)
}

// EffectiveRate returns how many To units one From unit buys on this path
func (q Quote) EffectiveRate() decimal.Decimal {
	x := decimal.NewFromInt(1)
	for _, l := range q.legs {
		x = l.apply(x)
	}
	return x
}

// Converter converts amounts between currencies
type Converter struct {
	provider RateProvider
	fallback map[valueobject.Currency]decimal.Decimal
}

// ConverterOption configures a Converter
type ConverterOption func(*Converter)

// WithFallbackRates replaces the static table (units per USD)
func WithFallbackRates(rates map[valueobject.Currency]decimal.Decimal) ConverterOption {
	return func(c *Converter) {
		c.fallback = rates
	}
}

// NewConverter creates a converter over the given rate provider
func NewConverter(provider RateProvider, opts ...ConverterOption) *Converter {
	c := &Converter{provider: provider, fallback: FallbackRates}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert returns amount expressed in to. Lookup order: same currency, direct
// rate, inverse rate, USD pivot, static fallback table.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error) {
	q, err := c.Quote(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Apply(amount), nil
}

// Quote resolves the conversion path from -> to without applying it
func (c *Converter) Quote(ctx context.Context, from, to valueobject.Currency) (Quote, error) {
	q := Quote{From: from, To: to}
	if from == to {
		q.Method = MethodIdentity
		return q, nil
	}

	l, ok, err := c.lookup(ctx, from, to)
	if err != nil {
		return Quote{}, err
	}
	if ok {
		q.legs = []leg{l}
		q.Method = MethodDirect
		if l.inverse {
			q.Method = MethodInverse
		}
		return q, nil
	}

	if from != valueobject.PivotCurrency && to != valueobject.PivotCurrency {
		first, ok1, err := c.lookup(ctx, from, valueobject.PivotCurrency)
		if err != nil {
			return Quote{}, err
		}
		if ok1 {
			second, ok2, err := c.lookup(ctx, valueobject.PivotCurrency, to)
			if err != nil {
				return Quote{}, err
			}
			if ok2 {
				q.legs = []leg{first, second}
				q.Method = MethodPivot
				return q, nil
			}
		}
	}

	fromPerUSD, okFrom := c.fallback[from]
	toPerUSD, okTo := c.fallback[to]
	if okFrom && okTo && fromPerUSD.IsPositive() {
		q.legs = []leg{{rate: fromPerUSD, inverse: true}, {rate: toPerUSD}}
		q.Method = MethodFallback
		return q, nil
	}

	return Quote{}, fmt.Errorf("%s to %s: %w", from, to, ErrRateUnavailable)
}

// lookup finds a direct rate, else the inverse of the reverse rate
func (c *Converter) lookup(ctx context.Context, from, to valueobject.Currency) (leg, bool, error) {
	if c.provider == nil {
		return leg{}, false, nil
	}
	rate, ok, err := c.provider.FindRate(ctx, from, to)
	if err != nil {
		return leg{}, false, fmt.Errorf("find rate %s: %w", PairKey(from, to), err)
	}
	if ok && rate.IsPositive() {
		return leg{rate: rate}, true, nil
	}
	rate, ok, err = c.provider.FindRate(ctx, to, from)
	if err != nil {
		return leg{}, false, fmt.Errorf("find rate %s: %w", PairKey(to, from), err)
	}
	if ok && rate.IsPositive() {
		return leg{rate: rate, inverse: true}, true, nil
	}
	return leg{}, false, nil
}
