package valueobject

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar, the conversion pivot
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CNY Currency = "CNY"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	CHF Currency = "CHF"
	INR Currency = "INR"
	HKD Currency = "HKD"
)

// DefaultCurrency is used when a user has not chosen a base currency
const DefaultCurrency = USD

// PivotCurrency is the intermediate currency for cross conversions
const PivotCurrency = USD

// ParseCurrency normalizes and validates an ISO 4217 code.
func ParseCurrency(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return Currency(unit.String()), nil
}

// MustParseCurrency is ParseCurrency for constants in tests and seeds
func MustParseCurrency(code string) Currency {
	c, err := ParseCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// IsValid reports whether c is a known ISO 4217 code
func (c Currency) IsValid() bool {
	_, err := currency.ParseISO(string(c))
	return err == nil
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Scale returns the number of minor-unit digits of the currency (2 for USD, 0 for JPY)
func (c Currency) Scale() int32 {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// Format renders amount with the currency symbol for the given BCP 47 locale,
// e.g. "$ 15.99" for en-US.
func (c Currency) Format(amount decimal.Decimal, locale string) string {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), c)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	f, _ := amount.Float64()
	return message.NewPrinter(tag).Sprint(currency.Symbol(unit.Amount(f)))
}

// Value implements driver.Valuer
func (c Currency) Value() (driver.Value, error) {
	return string(c), nil
}

// Scan implements sql.Scanner
func (c *Currency) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*c = ""
	case string:
		*c = Currency(v)
	case []byte:
		*c = Currency(v)
	default:
		return fmt.Errorf("cannot scan %T into Currency", value)
	}
	return nil
}
