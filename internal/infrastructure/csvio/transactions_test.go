package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := NewReader(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader([]byte{'d', 'a', 0xff, 0xfe, '\n'}))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("bom and mixed-case headers", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(" Date ,AMOUNT\n2026-01-02,5\n")...)
		rd, err := NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []string{"date", "amount"}, rd.Headers())
		assert.Empty(t, rd.Missing("date", "amount"))
		assert.Equal(t, []string{"type"}, rd.Missing("type"))

		row, err := rd.Next()
		require.NoError(t, err)
		assert.Equal(t, 2, row.Line)
		assert.Equal(t, "2026-01-02", row.Get("date"))
		assert.Equal(t, "", row.Get("type"))
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		rd, err := NewReader(strings.NewReader("date;amount\n2026-01-02;5\n"), WithDelimiter(';'))
		require.NoError(t, err)
		row, err := rd.Next()
		require.NoError(t, err)
		assert.Equal(t, "5", row.Get("amount"))
	})
}

func TestParseTransactions(t *testing.T) {
	input := strings.Join([]string{
		"date,type,amount,currency,category,description",
		"2026-03-01,expense,42.50,eur,groceries,Market",
		"2026-03-02,,-10,,Food,Lunch",
		"2026-03-03,,\"1,500.00\",,,Salary",
		",expense,5,,,missing date",
		"03/04/2026,expense,5,,,bad date",
		"2026-03-05,expense,abc,,,bad amount",
		"2026-03-06,transfer,5,,,move",
		"2026-03-07,refund,5,,,odd type",
		"2026-03-08,income,0,,,zero",
		",,,,,",
	}, "\n")

	res, err := ParseTransactions(strings.NewReader(input), 0)
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	first := res.Records[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "expense", first.Type)
	assert.True(t, decimal.RequireFromString("42.5").Equal(first.Amount))
	assert.Equal(t, "EUR", first.Currency)
	assert.Equal(t, "groceries", first.Category)

	assert.Equal(t, "expense", res.Records[1].Type, "negative amount without type")
	assert.True(t, decimal.NewFromInt(10).Equal(res.Records[1].Amount))

	assert.Equal(t, "income", res.Records[2].Type)
	assert.True(t, decimal.NewFromInt(1500).Equal(res.Records[2].Amount), "thousands separator")

	errs := res.Errors.Errors()
	require.Len(t, errs, 6)
	codes := make(map[int]string, len(errs))
	for _, e := range errs {
		codes[e.Row] = e.Code
	}
	assert.Equal(t, map[int]string{
		5:  ErrCodeRequiredField,
		6:  ErrCodeInvalidFormat,
		7:  ErrCodeInvalidFormat,
		8:  ErrCodeUnsupportedType,
		9:  ErrCodeInvalidFormat,
		10: ErrCodeInvalidFormat,
	}, codes)
}

func TestParseTransactions_Limits(t *testing.T) {
	t.Run("missing required column", func(t *testing.T) {
		_, err := ParseTransactions(strings.NewReader("date,description\n2026-01-01,x\n"), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "amount")
	})

	t.Run("rows past the limit are reported", func(t *testing.T) {
		input := "date,amount\n2026-01-01,1\n2026-01-02,2\n2026-01-03,3\n"
		res, err := ParseTransactions(strings.NewReader(input), 2)
		require.NoError(t, err)
		assert.Len(t, res.Records, 2)
		require.Equal(t, 1, res.Errors.TotalCount())
		assert.Equal(t, ErrCodeTooManyRows, res.Errors.Errors()[0].Code)
	})
}

func TestWriteTransactions(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTransactions(&buf, []ExportRecord{{
		Date:            time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC),
		Type:            "expense",
		Amount:          decimal.RequireFromString("42.5"),
		Currency:        "EUR",
		ConvertedAmount: decimal.RequireFromString("46.75"),
		Account:         "Checking",
		Category:        "Groceries",
		Description:     "Market, weekly",
	}})
	require.NoError(t, err)

	assert.Equal(t,
		"date,type,amount,currency,converted_amount,account,destination_account,category,description,notes\n"+
			"2026-03-01,expense,42.50,EUR,46.75,Checking,,Groceries,\"Market, weekly\",\n",
		buf.String())

	// the export reads back through the importer
	res, err := ParseTransactions(&buf, 0)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Market, weekly", res.Records[0].Description)
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection(2)
	for i := 1; i <= 3; i++ {
		ec.Add(NewRowError(i, "amount", ErrCodeInvalidFormat, "bad"))
	}
	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, 3, ec.TotalCount())
	assert.True(t, ec.IsTruncated())
	assert.Equal(t, "row 1, column 'amount': bad", ec.Errors()[0].Error())
	assert.Equal(t, "row 4: bad", NewRowError(4, "", ErrCodeInvalidFormat, "bad").Error())
}
