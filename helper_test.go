package tradejournal

import (
	"testing"

	"github.com/etnz/tradejournal/date"
	"github.com/rs/zerolog"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// ptr returns a pointer to m.
func ptr(m Money) *Money { return &m }

// open is a helper to create an open record.
func open(ticker string, price, qty float64, on string) TradeRecord {
	return TradeRecord{Ticker: ticker, EntryPrice: USD(price), Quantity: Q(qty), EntryDate: date.MustParse(on)}
}

// closed is a helper to create a closed record.
func closed(ticker string, entry, exit, qty float64, on, off string) TradeRecord {
	r := open(ticker, entry, qty, on)
	r.ExitPrice = USD(exit)
	r.ExitDate = date.MustParse(off)
	return r
}

// newTestAggregator returns an aggregator over quotes with cfg tweaked by opts.
func newTestAggregator(t *testing.T, quotes QuoteProvider, opts ...func(*Config)) *Aggregator {
	t.Helper()
	cfg := DefaultConfig("USD")
	for _, o := range opts {
		o(&cfg)
	}
	a, err := NewAggregator(cfg, quotes, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}
	return a
}
