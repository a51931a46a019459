package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction CSV columns
const (
	ColDate               = "date"
	ColType               = "type"
	ColAmount             = "amount"
	ColCurrency           = "currency"
	ColConvertedAmount    = "converted_amount"
	ColAccount            = "account"
	ColDestinationAccount = "destination_account"
	ColCategory           = "category"
	ColDescription        = "description"
	ColNotes              = "notes"
)

// ExportColumns is the header written by WriteTransactions
var ExportColumns = []string{
	ColDate, ColType, ColAmount, ColCurrency, ColConvertedAmount,
	ColAccount, ColDestinationAccount, ColCategory, ColDescription, ColNotes,
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, "2006/01/02", "02.01.2006"}

// ExportRecord is one exported ledger entry with names already resolved
type ExportRecord struct {
	Date               time.Time
	Type               string
	Amount             decimal.Decimal
	Currency           string
	ConvertedAmount    decimal.Decimal
	Account            string
	DestinationAccount string
	Category           string
	Description        string
	Notes              string
}

// WriteTransactions writes the header and one line per record
func WriteTransactions(w io.Writer, records []ExportRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, r := range records {
		line := []string{
			r.Date.UTC().Format(time.DateOnly),
			r.Type,
			r.Amount.StringFixed(2),
			r.Currency,
			r.ConvertedAmount.StringFixed(2),
			r.Account,
			r.DestinationAccount,
			r.Category,
			r.Description,
			r.Notes,
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportRecord is one parsed import row. Amount is always positive.
type ImportRecord struct {
	Line        int
	Date        time.Time
	Type        string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	Notes       string
}

// ParseResult holds the rows that parsed and the ones that did not
type ParseResult struct {
	Records []ImportRecord
	Errors  *ErrorCollection
}

// ParseTransactions reads an import file. date and amount are required. When
// type is blank a negative amount is an expense and a positive one income.
// Transfers cannot be imported. Rows past maxRows are reported, not parsed.
func ParseTransactions(r io.Reader, maxRows int) (*ParseResult, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	if missing := rd.Missing(ColDate, ColAmount); len(missing) > 0 {
		return nil, fmt.Errorf("CSV file missing required columns: %s", strings.Join(missing, ", "))
	}

	res := &ParseResult{Errors: NewErrorCollection(0)}
	rows := 0
	for {
		row, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr RowError
		if errors.As(err, &rowErr) {
			res.Errors.Add(rowErr)
			continue
		}
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		rows++
		if maxRows > 0 && rows > maxRows {
			res.Errors.Add(NewRowError(row.Line, "", ErrCodeTooManyRows,
				fmt.Sprintf("only the first %d rows are imported", maxRows)))
			continue
		}

		rec, rowErr, ok := parseRow(row)
		if !ok {
			res.Errors.Add(rowErr)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func parseRow(row *Row) (ImportRecord, RowError, bool) {
	rec := ImportRecord{
		Line:        row.Line,
		Currency:    strings.ToUpper(row.Get(ColCurrency)),
		Category:    row.Get(ColCategory),
		Description: row.Get(ColDescription),
		Notes:       row.Get(ColNotes),
	}

	raw := row.Get(ColDate)
	if raw == "" {
		return rec, requiredError(row.Line, ColDate), false
	}
	date, ok := parseDate(raw)
	if !ok {
		return rec, formatError(row.Line, ColDate, "expected YYYY-MM-DD", raw), false
	}
	rec.Date = date

	raw = row.Get(ColAmount)
	if raw == "" {
		return rec, requiredError(row.Line, ColAmount), false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return rec, formatError(row.Line, ColAmount, "expected a decimal number", raw), false
	}
	if amount.IsZero() {
		return rec, formatError(row.Line, ColAmount, "amount must not be zero", raw), false
	}

	switch typ := strings.ToLower(row.Get(ColType)); typ {
	case "":
		rec.Type = "income"
		if amount.IsNegative() {
			rec.Type = "expense"
		}
	case "expense", "income":
		rec.Type = typ
	case "transfer":
		e := NewRowError(row.Line, ColType, ErrCodeUnsupportedType, "transfers cannot be imported")
		e.Value = typ
		return rec, e, false
	default:
		return rec, formatError(row.Line, ColType, "expected expense or income", typ), false
	}
	rec.Amount = amount.Abs()
	return rec, RowError{}, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func requiredError(line int, column string) RowError {
	return NewRowError(line, column, ErrCodeRequiredField, fmt.Sprintf("field '%s' is required", column))
}

func formatError(line int, column, expected, value string) RowError {
	e := NewRowError(line, column, ErrCodeInvalidFormat, "invalid format, "+expected)
	e.Value = value
	return e
}
