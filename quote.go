package tradejournal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoQuote is reported for a ticker the provider returned nothing for.
var ErrNoQuote = errors.New("no quote")

// Quote is the live price of a ticker for one refresh cycle.
type Quote struct {
	Ticker string
	Last   Money
	Closes []float64 // recent daily closes, oldest first; may be empty
	At     time.Time
}

// QuoteBatch is the outcome of a single batched quote request.
//
// A ticker is either in Quotes or in Failures, never both.
type QuoteBatch struct {
	Quotes   map[string]Quote
	Failures map[string]error
}

// NewQuoteBatch returns an empty batch.
func NewQuoteBatch() QuoteBatch {
	return QuoteBatch{Quotes: make(map[string]Quote), Failures: make(map[string]error)}
}

// Add records a quote. A non positive price is recorded as a failure.
func (b QuoteBatch) Add(q Quote) {
	q.Ticker = NormalizeTicker(q.Ticker)
	if !q.Last.IsPositive() {
		b.Fail(q.Ticker, fmt.Errorf("invalid price %v", q.Last.Decimal()))
		return
	}
	delete(b.Failures, q.Ticker)
	b.Quotes[q.Ticker] = q
}

// Fail records a failure for ticker.
func (b QuoteBatch) Fail(ticker string, err error) {
	ticker = NormalizeTicker(ticker)
	delete(b.Quotes, ticker)
	b.Failures[ticker] = err
}

// Get returns the quote for ticker, or the reason it is missing.
func (b QuoteBatch) Get(ticker string) (Quote, error) {
	ticker = NormalizeTicker(ticker)
	if q, ok := b.Quotes[ticker]; ok {
		return q, nil
	}
	if err, ok := b.Failures[ticker]; ok && err != nil {
		return Quote{}, err
	}
	return Quote{}, ErrNoQuote
}

// QuoteProvider returns the last price of a set of tickers in a single call.
//
// Implementations must tolerate partial failure: tickers that cannot be
// priced are reported in the batch Failures. A returned error means the
// whole batch failed.
type QuoteProvider interface {
	Quotes(ctx context.Context, tickers []string) (QuoteBatch, error)
}

// QuoteFailure reports a position left out of the market totals.
type QuoteFailure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// StaticQuotes is a QuoteProvider serving fixed quotes, for offline use and tests.
type StaticQuotes map[string]Quote

// Quotes implements QuoteProvider.
func (s StaticQuotes) Quotes(ctx context.Context, tickers []string) (QuoteBatch, error) {
	batch := NewQuoteBatch()
	if err := ctx.Err(); err != nil {
		return batch, err
	}
	for _, t := range tickers {
		q, ok := s[NormalizeTicker(t)]
		if !ok {
			batch.Fail(t, ErrNoQuote)
			continue
		}
		q.Ticker = t
		batch.Add(q)
	}
	return batch, nil
}

// StaticPrices is a convenient StaticQuotes constructor from last prices.
func StaticPrices(prices map[string]float64) StaticQuotes {
	s := make(StaticQuotes, len(prices))
	for t, p := range prices {
		s[NormalizeTicker(t)] = Quote{Ticker: NormalizeTicker(t), Last: M(p, "")}
	}
	return s
}
