// Package httpquote prices positions from any JSON quote endpoint, located
// with JSONPath expressions.
package httpquote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/wget"
	"github.com/rs/zerolog"
)

// Placeholders replaced in URL and paths.
const (
	SymbolsPlaceholder = "{symbols}" // comma separated tickers, in URL
	TickerPlaceholder  = "{ticker}"  // one ticker, in Price and Closes
)

// Provider implements tradejournal.QuoteProvider with a single GET of URL.
//
// For instance, with URL "https://example.com/quotes?s={symbols}" and
// Price `$.quotes["{ticker}"].last` the response
//
//	{"quotes": {"ABC": {"last": 11.5, "history": [10, 11]}}}
//
// prices ABC at 11.5.
type Provider struct {
	URL    string
	Price  string // JSONPath of the last price of {ticker}
	Closes string // optional JSONPath of the daily closes of {ticker}, oldest first

	client *http.Client
	log    zerolog.Logger
}

// New returns a Provider. Price is required.
func New(addr, price, closes string, log zerolog.Logger) (*Provider, error) {
	if !strings.Contains(addr, SymbolsPlaceholder) {
		return nil, fmt.Errorf("quote url %q has no %s placeholder", addr, SymbolsPlaceholder)
	}
	if !strings.Contains(price, TickerPlaceholder) {
		return nil, fmt.Errorf("price path %q has no %s placeholder", price, TickerPlaceholder)
	}
	return &Provider{
		URL:    addr,
		Price:  price,
		Closes: closes,
		client: wget.Client(),
		log:    log.With().Str("component", "httpquote").Logger(),
	}, nil
}

// Quotes implements tradejournal.QuoteProvider.
func (p *Provider) Quotes(ctx context.Context, tickers []string) (tradejournal.QuoteBatch, error) {
	batch := tradejournal.NewQuoteBatch()
	if len(tickers) == 0 {
		return batch, nil
	}
	escaped := make([]string, len(tickers))
	for i, t := range tickers {
		escaped[i] = url.QueryEscape(t)
	}
	addr := strings.ReplaceAll(p.URL, SymbolsPlaceholder, strings.Join(escaped, ","))

	content, err := wget.Get(ctx, p.client, addr)
	if err != nil {
		return batch, err
	}
	var jobj any
	if err := json.Unmarshal(content, &jobj); err != nil {
		return batch, fmt.Errorf("invalid quote response: %w", err)
	}

	now := time.Now()
	for _, t := range tickers {
		last, err := p.last(jobj, t)
		if err != nil {
			p.log.Warn().Err(err).Str("ticker", t).Msg("no quote")
			batch.Fail(t, err)
			continue
		}
		batch.Add(tradejournal.Quote{Ticker: t, Last: tradejournal.M(last, ""), Closes: p.closes(jobj, t), At: now})
	}
	return batch, nil
}

func (p *Provider) last(jobj any, ticker string) (float64, error) {
	path := strings.ReplaceAll(p.Price, TickerPlaceholder, ticker)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", tradejournal.ErrNoQuote, err)
	}
	// jsonpath is never clear about whether it returns a list of 1 answer
	// or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, err := number(jval)
	if err != nil {
		return 0, err
	}
	if val <= 0 {
		return 0, fmt.Errorf("empty price for %s", ticker)
	}
	return val, nil
}

func (p *Provider) closes(jobj any, ticker string) []float64 {
	if p.Closes == "" {
		return nil
	}
	path := strings.ReplaceAll(p.Closes, TickerPlaceholder, ticker)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		p.log.Debug().Err(err).Str("ticker", ticker).Msg("no price history")
		return nil
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil
	}
	closes := make([]float64, 0, len(jlist))
	for _, v := range jlist {
		if f, err := number(v); err == nil && f > 0 {
			closes = append(closes, f)
		}
	}
	return closes
}

var errEmpty = errors.New("empty value")

// number reads a JSON value as a float. Some APIs return numbers as
// strings, with a comma as decimal separator and "./." when empty.
func number(jval any) (float64, error) {
	switch v := jval.(type) {
	case float64:
		return v, nil
	case string:
		s := strings.ReplaceAll(v, ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		if s == "" || s == "./." {
			return 0, errEmpty
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("value is an invalid string %q: %w", v, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value is neither a float nor a string: %v", jval)
	}
}
