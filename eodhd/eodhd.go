// Package eodhd prices trade journal positions with the EOD Historical Data API.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/date"
	"github.com/etnz/tradejournal/wget"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultURL is the base url of the EODHD API.
const DefaultURL = "https://eodhd.com/api"

// Provider implements tradejournal.QuoteProvider.
//
// Last prices come from the real-time endpoint, queried once for all
// tickers. Daily closes for the moving average come from the end of day
// endpoint, cached on disk for the day.
type Provider struct {
	Key      string
	Exchange string // exchange code appended to bare tickers, "US" by default
	History  int    // number of daily closes to fetch, 0 to skip history
	BaseURL  string

	live  *http.Client
	daily *http.Client
	log   zerolog.Logger
}

// New returns a Provider using key, fetching enough history for a moving average of window sessions.
func New(key string, window int, log zerolog.Logger) *Provider {
	log = log.With().Str("component", "eodhd").Logger()
	return &Provider{
		Key:      key,
		Exchange: "US",
		History:  window,
		BaseURL:  DefaultURL,
		live:     wget.Client(),
		daily:    wget.Daily(log),
		log:      log,
	}
}

// symbol returns the EODHD code of ticker, "SYMBOL.EXCHANGE".
func (p *Provider) symbol(ticker string) string {
	if strings.Contains(ticker, ".") || p.Exchange == "" {
		return ticker
	}
	return ticker + "." + p.Exchange
}

// Quotes implements tradejournal.QuoteProvider.
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

	live, err := p.realTime(ctx, symbols)
	if err != nil {
		return batch, err
	}
	closes := p.history(ctx, symbols)

	for _, s := range symbols {
		t := bySymbol[s]
		rt, ok := live[s]
		if !ok {
			batch.Fail(t, tradejournal.ErrNoQuote)
			continue
		}
		if rt.Close <= 0 {
			batch.Fail(t, fmt.Errorf("no price for %s", s))
			continue
		}
		batch.Add(tradejournal.Quote{
			Ticker: t,
			Last:   tradejournal.M(float64(rt.Close), ""),
			Closes: closes[s],
			At:     time.Unix(int64(rt.Timestamp), 0),
		})
	}
	return batch, nil
}

// realTimeInfo is one item of the real-time endpoint response.
type realTimeInfo struct {
	Code      string `json:"code"`
	Timestamp price  `json:"timestamp"`
	Close     price  `json:"close"`
}

// price decodes EODHD numbers, which are "NA" when unknown.
type price float64

func (p *price) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "NA" || s == "null" || s == "" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", data, err)
	}
	*p = price(v)
	return nil
}

// realTime fetches the delayed live price of every symbol in a single request.
func (p *Provider) realTime(ctx context.Context, symbols []string) (map[string]realTimeInfo, error) {
	// https://eodhd.com/api/real-time/AAPL.US?s=VTI,EUR.FOREX&api_token=demo&fmt=json
	// a single symbol returns an object, several return a list.
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", p.Key)
	if len(symbols) > 1 {
		q.Set("s", strings.Join(symbols[1:], ","))
	}
	addr := fmt.Sprintf("%s/real-time/%s?%s", p.BaseURL, url.PathEscape(symbols[0]), q.Encode())

	content, err := wget.Get(ctx, p.live, addr)
	if err != nil {
		return nil, fmt.Errorf("eodhd real-time: %w", err)
	}
	var infos []realTimeInfo
	if trimmed := strings.TrimSpace(string(content)); strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(content, &infos)
	} else {
		var info realTimeInfo
		err = json.Unmarshal(content, &info)
		infos = append(infos, info)
	}
	if err != nil {
		return nil, fmt.Errorf("eodhd real-time: %w", err)
	}

	result := make(map[string]realTimeInfo, len(infos))
	for _, info := range infos {
		result[info.Code] = info
	}
	return result, nil
}

// history fetches daily closes of every symbol concurrently. Failures only
// cost the moving average, so they are logged and skipped.
func (p *Provider) history(ctx context.Context, symbols []string) map[string][]float64 {
	result := make(map[string][]float64, len(symbols))
	if p.History <= 0 {
		return result
	}
	// calendar days needed to cover History sessions, with weekends and holidays.
	to := date.Today()
	from := to.Add(-(p.History*7/5 + 15))

	series := make([][]float64, len(symbols))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, s := range symbols {
		g.Go(func() error {
			closes, err := p.fetchCloses(ctx, s, from, to)
			if err != nil {
				p.log.Warn().Err(err).Str("symbol", s).Msg("no price history")
				return nil
			}
			series[i] = closes
			return nil
		})
	}
	_ = g.Wait()

	for i, s := range symbols {
		if series[i] != nil {
			result[s] = series[i]
		}
	}
	return result
}

// fetchCloses returns the daily closes of symbol between from and to, oldest first.
func (p *Provider) fetchCloses(ctx context.Context, symbol string, from, to date.Date) ([]float64, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-01-01&to=2024-02-01
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", p.Key)
	q.Set("from", from.String())
	q.Set("to", to.String())
	addr := fmt.Sprintf("%s/eod/%s?%s", p.BaseURL, url.PathEscape(symbol), q.Encode())

	type Info struct {
		Date  date.Date `json:"date"`
		Close price     `json:"close"`
	}
	content := make([]Info, 0)
	if err := wget.JSON(ctx, p.daily, addr, &content); err != nil {
		return nil, err
	}
	closes := make([]float64, 0, len(content))
	for _, info := range content {
		if info.Close > 0 {
			closes = append(closes, float64(info.Close))
		}
	}
	return closes, nil
}
