package exchangerate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// rateTable is an in-memory ExchangeRateRepository
type rateTable struct {
	rates map[string]exchangerate.ExchangeRate
}

func newRateTable() *rateTable {
	return &rateTable{rates: map[string]exchangerate.ExchangeRate{}}
}

func (r *rateTable) FindRate(_ context.Context, from, to valueobject.Currency) (decimal.Decimal, bool, error) {
	v, ok := r.rates[exchangerate.PairKey(from, to)]
	return v.Rate, ok, nil
}

func (r *rateTable) FindAll(context.Context) ([]exchangerate.ExchangeRate, error) {
	out := make([]exchangerate.ExchangeRate, 0, len(r.rates))
	for _, v := range r.rates {
		out = append(out, v)
	}
	return out, nil
}

func (r *rateTable) FindByPair(_ context.Context, from, to valueobject.Currency) (*exchangerate.ExchangeRate, error) {
	v, ok := r.rates[exchangerate.PairKey(from, to)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &v, nil
}

func (r *rateTable) Upsert(_ context.Context, rate *exchangerate.ExchangeRate) error {
	r.rates[rate.Pair()] = *rate
	return nil
}

func (r *rateTable) DeleteByPair(_ context.Context, from, to valueobject.Currency) error {
	delete(r.rates, exchangerate.PairKey(from, to))
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

type stubFeed struct {
	snap *FeedSnapshot
	err  error
}

func (f stubFeed) Fetch(context.Context) (*FeedSnapshot, error) { return f.snap, f.err }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newService(t *testing.T, opts ...ServiceOption) (*ExchangeRateService, *rateTable) {
	t.Helper()
	table := newRateTable()
	return NewExchangeRateService(table, exchangerate.NewConverter(table), zaptest.NewLogger(t), opts...), table
}

func TestExchangeRateService_UpsertAndConvert(t *testing.T) {
	ctx := context.Background()
	inv := &countingInvalidator{}
	svc, _ := newService(t, WithInvalidator(inv))

	_, err := svc.Upsert(ctx, UpsertRateRequest{FromCurrency: "usd", ToCurrency: "eur", Rate: d("0.9")})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, UpsertRateRequest{FromCurrency: "USD", ToCurrency: "GBP", Rate: d("0.8")})
	require.NoError(t, err)
	assert.Equal(t, 2, inv.calls)

	tests := []struct {
		name   string
		q      ConvertQuery
		result string
		method exchangerate.Method
	}{
		{"identity", ConvertQuery{Amount: d("12.345"), From: "EUR", To: "EUR"}, "12.345", exchangerate.MethodIdentity},
		{"direct", ConvertQuery{Amount: d("100"), From: "USD", To: "EUR"}, "90", exchangerate.MethodDirect},
		{"inverse", ConvertQuery{Amount: d("90"), From: "EUR", To: "USD"}, "100", exchangerate.MethodInverse},
		{"pivot", ConvertQuery{Amount: d("90"), From: "EUR", To: "GBP"}, "80", exchangerate.MethodPivot},
		{"fallback", ConvertQuery{Amount: d("1"), From: "USD", To: "JPY"}, "149.5", exchangerate.MethodFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Convert(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.result, resp.Result.String())
			assert.Equal(t, string(tt.method), resp.Method)
		})
	}

	t.Run("unknown pair", func(t *testing.T) {
		_, err := svc.Convert(ctx, ConvertQuery{Amount: d("1"), From: "USD", To: "ZAR"})
		assert.ErrorIs(t, err, exchangerate.ErrRateUnavailable)
	})

	t.Run("same currency rate rejected", func(t *testing.T) {
		_, err := svc.Upsert(ctx, UpsertRateRequest{FromCurrency: "USD", ToCurrency: "USD", Rate: d("1")})
		assert.Error(t, err)
	})
}

func TestExchangeRateService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for _, pair := range [][2]string{{"USD", "JPY"}, {"EUR", "USD"}, {"USD", "EUR"}} {
		_, err := svc.Upsert(ctx, UpsertRateRequest{FromCurrency: pair[0], ToCurrency: pair[1], Rate: d("2")})
		require.NoError(t, err)
	}
	out, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "EUR", out[0].FromCurrency)
	assert.Equal(t, "JPY", out[2].ToCurrency)
	assert.Equal(t, exchangerate.SourceManual, out[0].Source)
}

func TestExchangeRateService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("no feed configured", func(t *testing.T) {
		svc, _ := newService(t)
		report, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Zero(t, report.Updated)
	})

	t.Run("stores valid entries and skips the rest", func(t *testing.T) {
		inv := &countingInvalidator{}
		fetched := time.Date(2026, 6, 15, 6, 0, 0, 0, time.UTC)
		svc, table := newService(t, WithInvalidator(inv), WithFeed(stubFeed{snap: &FeedSnapshot{
			Base:      valueobject.USD,
			FetchedAt: fetched,
			Rates: map[valueobject.Currency]decimal.Decimal{
				valueobject.USD: d("1"),
				valueobject.EUR: d("0.91"),
				valueobject.GBP: d("0.78"),
				valueobject.JPY: d("0"),
			},
		}}))

		report, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, RefreshReport{Base: "USD", Updated: 2, Skipped: 1}, report)
		assert.Equal(t, 1, inv.calls)

		stored, err := table.FindByPair(ctx, valueobject.USD, valueobject.EUR)
		require.NoError(t, err)
		assert.Equal(t, exchangerate.SourceFeed, stored.Source)
		assert.True(t, stored.FetchedAt.Equal(fetched))
	})

	t.Run("feed error", func(t *testing.T) {
		svc, _ := newService(t, WithFeed(stubFeed{err: errors.New("timeout")}))
		_, err := svc.Refresh(ctx)
		assert.ErrorContains(t, err, "fetch rate feed")
	})
}
