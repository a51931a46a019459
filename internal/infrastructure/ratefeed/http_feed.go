// Package ratefeed pulls exchange rates from an HTTP JSON endpoint.
package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apprate "github.com/fintrack/backend/internal/application/exchangerate"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// payload is the common "latest rates" shape:
//
//	{"base": "USD", "date": "2026-06-15", "rates": {"EUR": 0.92, "GBP": 0.79}}
type payload struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// HTTPFeed fetches rates from a JSON endpoint
type HTTPFeed struct {
	url    string
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewHTTPFeed creates a feed for url. Requests are traced through otelhttp.
func NewHTTPFeed(url string, timeout time.Duration, logger *zap.Logger) *HTTPFeed {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFeed{
		url: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Fetch implements exchangerate.RateFeed
func (f *HTTPFeed) Fetch(ctx context.Context) (*apprate.FeedSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request rate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rate feed returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var p payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode rate feed: %w", err)
	}
	return f.toSnapshot(p)
}

func (f *HTTPFeed) toSnapshot(p payload) (*apprate.FeedSnapshot, error) {
	base, err := valueobject.ParseCurrency(p.Base)
	if err != nil {
		return nil, fmt.Errorf("rate feed base: %w", err)
	}
	fetchedAt := f.now()
	if p.Date != "" {
		if day, err := time.Parse(time.DateOnly, p.Date); err == nil {
			fetchedAt = day
		}
	}
	snap := &apprate.FeedSnapshot{
		Base:      base,
		Rates:     make(map[valueobject.Currency]decimal.Decimal, len(p.Rates)),
		FetchedAt: fetchedAt,
	}
	for code, rate := range p.Rates {
		c, err := valueobject.ParseCurrency(code)
		if err != nil {
			f.logger.Debug("Ignoring unknown feed currency", zap.String("code", code))
			continue
		}
		snap.Rates[c] = rate
	}
	return snap, nil
}

var _ apprate.RateFeed = (*HTTPFeed)(nil)
