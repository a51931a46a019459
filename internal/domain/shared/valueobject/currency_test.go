package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		c, err := ParseCurrency(" eur ")
		require.NoError(t, err)
		assert.Equal(t, EUR, c)
	})

	t.Run("rejects unknown codes", func(t *testing.T) {
		_, err := ParseCurrency("XYZ1")
		assert.Error(t, err)
		_, err = ParseCurrency("")
		assert.Error(t, err)
	})
}

func TestCurrencyScale(t *testing.T) {
	assert.Equal(t, int32(2), USD.Scale())
	assert.Equal(t, int32(0), JPY.Scale())
}

func TestCurrencyFormat(t *testing.T) {
	out := USD.Format(decimal.RequireFromString("15.99"), "en-US")
	assert.Contains(t, out, "15.99")

	fallback := Currency("???").Format(decimal.RequireFromString("1"), "en")
	assert.Equal(t, "1.00 ???", fallback)
}
