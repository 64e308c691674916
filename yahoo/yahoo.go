// Package yahoo prices trade journal positions with Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/tradejournal"
	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/multi"
)

// DefaultPeriod covers more than 150 sessions of daily closes.
const DefaultPeriod = "1y"

// series holds the daily closes of each symbol, and the symbols that failed.
type series struct {
	closes map[string][]float64
	errors map[string]error
}

// Provider implements tradejournal.QuoteProvider with one batched download
// of daily bars. The last close of the series is the last price; during a
// session the current bar is still forming and carries the delayed live price.
type Provider struct {
	Period string
	// Aliases maps journal tickers to Yahoo symbols, e.g. "BRK.B" to "BRK-B".
	Aliases map[string]string

	download func(symbols []string, period string) (series, error)
	log      zerolog.Logger
}

// New returns a Provider downloading DefaultPeriod of history.
func New(log zerolog.Logger) *Provider {
	return &Provider{
		Period:   DefaultPeriod,
		Aliases:  make(map[string]string),
		download: download,
		log:      log.With().Str("component", "yahoo").Logger(),
	}
}

// download fetches daily bars of all symbols at once.
func download(symbols []string, period string) (series, error) {
	params := models.DefaultDownloadParams()
	params.Symbols = symbols
	params.Period = period
	params.Interval = "1d"

	result, err := multi.Download(symbols, &params)
	if err != nil {
		return series{}, fmt.Errorf("failed to download batch quotes: %w", err)
	}
	s := series{closes: make(map[string][]float64), errors: make(map[string]error)}
	for sym, bars := range result.Data {
		closes := make([]float64, 0, len(bars))
		for _, bar := range bars {
			if bar.Close > 0 {
				closes = append(closes, bar.Close)
			}
		}
		s.closes[sym] = closes
	}
	for sym, err := range result.Errors {
		s.errors[sym] = err
	}
	return s, nil
}

// symbol returns the Yahoo symbol of ticker. Yahoo uses dashes for share classes.
func (p *Provider) symbol(ticker string) string {
	if alias, ok := p.Aliases[ticker]; ok {
		return alias
	}
	return strings.ReplaceAll(ticker, ".", "-")
}

// Quotes implements tradejournal.QuoteProvider.
//
// The underlying client is not cancellable, so a cancelled ctx abandons
// the download rather than stopping it.
func (p *Provider) Quotes(ctx context.Context, tickers []string) (tradejournal.QuoteBatch, error) {
	batch := tradejournal.NewQuoteBatch()
	if len(tickers) == 0 {
		return batch, nil
	}
	bySymbol := make(map[string]string, len(tickers))
	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		s := p.symbol(t)
		bySymbol[s] = t
		symbols = append(symbols, s)
	}

	type answer struct {
		s   series
		err error
	}
	done := make(chan answer, 1)
	go func() {
		s, err := p.download(symbols, p.Period)
		done <- answer{s, err}
	}()

	var a answer
	select {
	case <-ctx.Done():
		return batch, ctx.Err()
	case a = <-done:
	}
	if a.err != nil {
		return batch, a.err
	}

	now := time.Now()
	for _, sym := range symbols {
		t := bySymbol[sym]
		closes := a.s.closes[sym]
		if len(closes) == 0 {
			err, ok := a.s.errors[sym]
			if !ok || err == nil {
				err = tradejournal.ErrNoQuote
			}
			p.log.Warn().Err(err).Str("symbol", sym).Msg("no quote")
			batch.Fail(t, err)
			continue
		}
		batch.Add(tradejournal.Quote{
			Ticker: t,
			Last:   tradejournal.M(closes[len(closes)-1], ""),
			Closes: closes,
			At:     now,
		})
	}
	return batch, nil
}
