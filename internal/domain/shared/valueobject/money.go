package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the rounding scale of stored amounts
const MoneyScale int32 = 2

var (
	ErrNoCurrency       = errors.New("money: currency is required")
	ErrCurrencyMismatch = errors.New("money: currencies differ")
)

// Money pairs an amount with its currency. Values are immutable.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, ErrNoCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

// ParseMoney reads a decimal string such as "15.99"
func ParseMoney(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("money: amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

func Zero(currency Currency) Money { return Money{amount: decimal.Zero, currency: currency} }

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsNegative() bool        { return m.amount.IsNegative() }

func (m Money) Add(o Money) (Money, error) {
	if m.currency != o.currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}, nil
}

func (m Money) Sub(o Money) (Money, error) {
	return m.Add(o.Neg())
}

func (m Money) Neg() Money { return Money{amount: m.amount.Neg(), currency: m.currency} }

// Round rounds half away from zero to the minor unit of the currency
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(m.currency.Scale()), currency: m.currency}
}

func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

// Format renders m for a BCP 47 locale, e.g. "$ 15.99"
func (m Money) Format(locale string) string {
	return m.currency.Format(m.amount, locale)
}

// String renders "15.99 USD"
func (m Money) String() string {
	return m.amount.StringFixed(m.currency.Scale()) + " " + string(m.currency)
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoney(v.Amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
