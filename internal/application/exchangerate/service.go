package exchangerate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateInvalidator drops cached rates after the table changes
type RateInvalidator interface {
	Invalidate(ctx context.Context) error
}

// FeedSnapshot is one response of an external rate feed: units of each
// currency per one unit of Base
type FeedSnapshot struct {
	Base      valueobject.Currency
	Rates     map[valueobject.Currency]decimal.Decimal
	FetchedAt time.Time
}

// RateFeed fetches current rates from an external source
type RateFeed interface {
	Fetch(ctx context.Context) (*FeedSnapshot, error)
}

// ExchangeRateService manages the shared rate table and converts amounts
type ExchangeRateService struct {
	repo        exchangerate.ExchangeRateRepository
	converter   *exchangerate.Converter
	invalidator RateInvalidator
	feed        RateFeed
	logger      *zap.Logger
}

// ServiceOption configures an ExchangeRateService
type ServiceOption func(*ExchangeRateService)

// WithInvalidator flushes a rate cache whenever rates change
func WithInvalidator(inv RateInvalidator) ServiceOption {
	return func(s *ExchangeRateService) { s.invalidator = inv }
}

// WithFeed enables Refresh from an external rate feed
func WithFeed(feed RateFeed) ServiceOption {
	return func(s *ExchangeRateService) { s.feed = feed }
}

// NewExchangeRateService creates a new ExchangeRateService
func NewExchangeRateService(repo exchangerate.ExchangeRateRepository, converter *exchangerate.Converter, logger *zap.Logger, opts ...ServiceOption) *ExchangeRateService {
	s := &ExchangeRateService{repo: repo, converter: converter, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every stored rate ordered by pair
func (s *ExchangeRateService) List(ctx context.Context) ([]ExchangeRateResponse, error) {
	rates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Pair() < rates[j].Pair() })
	out := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		out[i] = ToExchangeRateResponse(&rates[i])
	}
	return out, nil
}

// Upsert stores a manual rate for a pair
func (s *ExchangeRateService) Upsert(ctx context.Context, req UpsertRateRequest) (*ExchangeRateResponse, error) {
	from, err := valueobject.ParseCurrency(req.FromCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	to, err := valueobject.ParseCurrency(req.ToCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	rate, err := exchangerate.NewExchangeRate(from, to, req.Rate, exchangerate.SourceManual, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, rate); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	resp := ToExchangeRateResponse(rate)
	return &resp, nil
}

// Convert converts an amount and reports how the rate was resolved
func (s *ExchangeRateService) Convert(ctx context.Context, q ConvertQuery) (*ConvertResponse, error) {
	from, err := valueobject.ParseCurrency(q.From)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	to, err := valueobject.ParseCurrency(q.To)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	quote, err := s.converter.Quote(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &ConvertResponse{
		Amount: q.Amount,
		From:   from.String(),
		To:     to.String(),
		Result: quote.Apply(q.Amount),
		Rate:   quote.EffectiveRate().Round(6),
		Method: string(quote.Method),
	}, nil
}

// Refresh pulls the configured feed into the rate table. Entries that fail
// validation are skipped.
func (s *ExchangeRateService) Refresh(ctx context.Context) (RefreshReport, error) {
	if s.feed == nil {
		return RefreshReport{}, nil
	}
	snap, err := s.feed.Fetch(ctx)
	if err != nil {
		return RefreshReport{}, fmt.Errorf("fetch rate feed: %w", err)
	}
	report := RefreshReport{Base: snap.Base.String()}
	for code, value := range snap.Rates {
		if code == snap.Base {
			continue
		}
		rate, err := exchangerate.NewExchangeRate(snap.Base, code, value, exchangerate.SourceFeed, snap.FetchedAt)
		if err != nil {
			report.Skipped++
			s.logger.Debug("Skipping feed rate", zap.String("currency", code.String()), zap.Error(err))
			continue
		}
		if err := s.repo.Upsert(ctx, rate); err != nil {
			return report, fmt.Errorf("store rate %s: %w", rate.Pair(), err)
		}
		report.Updated++
	}
	s.invalidate(ctx)
	s.logger.Info("Exchange rates refreshed",
		zap.String("base", report.Base),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func (s *ExchangeRateService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate rate cache", zap.Error(err))
	}
}
