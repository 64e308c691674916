package tradejournal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// exampleLedger is the journal of the reference scenario.
func exampleLedger() []TradeRecord {
	a := open("ABC", 10, 100, "2026-01-05")
	a.StoredEntryCost = ptr(USD(1000))
	b := open("ABC", 12, 50, "2026-01-06")
	b.StoredEntryCost = ptr(USD(600))
	x := closed("XYZ", 20, 25, 10, "2026-01-02", "2026-01-20")
	x.StoredPnL = ptr(USD(46.50))
	return []TradeRecord{a, b, x}
}

func TestAggregatorExample(t *testing.T) {
	agg := newTestAggregator(t, StaticPrices(map[string]float64{"ABC": 11}))
	s, err := agg.ComputeRecords(context.Background(), exampleLedger())
	if err != nil {
		t.Fatalf("ComputeRecords() error = %v", err)
	}

	p, ok := s.Position("abc")
	if !ok {
		t.Fatalf("Position(ABC) not found")
	}
	if !p.Priced {
		t.Fatalf("Position(ABC) is not priced")
	}
	if got, want := p.MarketValue, USD(1650); !got.Equal(want) {
		t.Errorf("MarketValue = %v, want %v", got, want)
	}
	fee := DefaultFees("USD").Fee(Q(150))
	if got, want := s.UnrealizedPnL, USD(1650).Sub(USD(1600)).Sub(fee); !got.Equal(want) {
		t.Errorf("UnrealizedPnL = %v, want %v", got, want)
	}
	if got, want := s.UnrealizedPnL, USD(45.33); !got.Equal(want) {
		t.Errorf("UnrealizedPnL = %v, want %v", got, want)
	}
	if got, want := s.RealizedPnL, USD(46.50); !got.Equal(want) {
		t.Errorf("RealizedPnL = %v, want %v", got, want)
	}
	if got, want := s.MarketValue, USD(1650); !got.Equal(want) {
		t.Errorf("MarketValue = %v, want %v", got, want)
	}
	if got, want := p.Return.String(), "3.12%"; got != want {
		t.Errorf("Return = %q, want %q", got, want)
	}
	if got, want := s.Fees.Open, fee; !got.Equal(want) {
		t.Errorf("Fees.Open = %v, want %v", got, want)
	}
	if s.Cycle != 1 {
		t.Errorf("Cycle = %d, want 1", s.Cycle)
	}
}

func TestAggregatorEquityIdentity(t *testing.T) {
	quotes := StaticPrices(map[string]float64{"ABC": 11, "DEF": 3.25})
	strategies := []CashStrategy{
		StaticCash{Amount: USD(5000)},
		DerivedCash{Reference: USD(10000)},
		DerivedCash{Reference: USD(10000), Since: exampleLedger()[1].EntryDate},
	}
	ledger := append(exampleLedger(), open("DEF", 3, 1000, "2026-01-07"), open("GHI", 1, 1, "2026-01-07"))
	for _, cash := range strategies {
		t.Run(cash.Mode(), func(t *testing.T) {
			agg := newTestAggregator(t, quotes, func(c *Config) {
				c.Cash = cash
				c.ReferenceValue = USD(10000)
			})
			s, err := agg.ComputeRecords(context.Background(), ledger)
			if err != nil {
				t.Fatalf("ComputeRecords() error = %v", err)
			}
			if got, want := s.TotalEquity, s.MarketValue.Add(s.Cash); !got.Equal(want) {
				t.Errorf("TotalEquity = %v, want MarketValue + Cash = %v", got, want)
			}
			if got, want := s.EquityDelta, s.TotalEquity.Sub(USD(10000)); !got.Equal(want) {
				t.Errorf("EquityDelta = %v, want %v", got, want)
			}
		})
	}
}

func TestAggregatorPartialQuotes(t *testing.T) {
	ledger := []TradeRecord{
		open("ABC", 10, 100, "2026-01-05"),
		open("DEF", 3, 1000, "2026-01-05"),
		open("GHI", 50, 10, "2026-01-05"),
	}
	agg := newTestAggregator(t, StaticPrices(map[string]float64{"ABC": 11, "GHI": 55}))
	s, err := agg.ComputeRecords(context.Background(), ledger)
	if err != nil {
		t.Fatalf("ComputeRecords() error = %v", err)
	}
	if got, want := s.MarketValue, USD(1100+550); !got.Equal(want) {
		t.Errorf("MarketValue = %v, want %v", got, want)
	}
	if got, want := s.CostBasis, USD(1000+500); !got.Equal(want) {
		t.Errorf("CostBasis = %v, want %v", got, want)
	}
	if len(s.Unpriced) != 1 || s.Unpriced[0].Ticker != "DEF" {
		t.Fatalf("Unpriced = %v, want DEF", s.Unpriced)
	}
	def, _ := s.Position("DEF")
	if def.Priced {
		t.Errorf("Position(DEF).Priced = true, want false")
	}
	if len(s.Positions) != 3 {
		t.Errorf("len(Positions) = %d, want 3", len(s.Positions))
	}
}

// blockingQuotes never answers before the context is done.
type blockingQuotes struct{}

func (blockingQuotes) Quotes(ctx context.Context, tickers []string) (QuoteBatch, error) {
	<-ctx.Done()
	return QuoteBatch{}, ctx.Err()
}

func TestAggregatorQuoteTimeout(t *testing.T) {
	agg := newTestAggregator(t, blockingQuotes{}, func(c *Config) { c.QuoteTimeout = 10 * time.Millisecond })
	s, err := agg.ComputeRecords(context.Background(), exampleLedger())
	if err != nil {
		t.Fatalf("ComputeRecords() error = %v", err)
	}
	if len(s.Unpriced) != 1 {
		t.Fatalf("Unpriced = %v, want ABC", s.Unpriced)
	}
	if !strings.Contains(s.Unpriced[0].Reason, "deadline") {
		t.Errorf("Unpriced[0].Reason = %q, want a deadline error", s.Unpriced[0].Reason)
	}
	if !s.MarketValue.IsZero() {
		t.Errorf("MarketValue = %v, want 0", s.MarketValue)
	}
	if got, want := s.RealizedPnL, USD(46.50); !got.Equal(want) {
		t.Errorf("RealizedPnL = %v, want %v", got, want)
	}
}

func TestAggregatorRunLedgerCash(t *testing.T) {
	const csv = "Ticker,Entry Price,Qty,Exit Price,Cash\nABC,10,100,,9000\nXYZ,20,10,25,9246.42\nDEF,3,10,,\n"
	src := LedgerFunc(func(ctx context.Context) (Table, error) { return ReadTable(strings.NewReader(csv)) })
	agg := newTestAggregator(t, StaticPrices(map[string]float64{"ABC": 11, "DEF": 3}), func(c *Config) { c.Cash = LedgerCash{} })

	s, err := agg.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := s.Cash, USD(9246.42); !got.Equal(want) {
		t.Errorf("Cash = %v, want %v", got, want)
	}
	if got, want := s.CashMode, CashLedger; got != want {
		t.Errorf("CashMode = %q, want %q", got, want)
	}
	if got, want := s.TotalEquity, USD(1100+30+9246.42); !got.Equal(want) {
		t.Errorf("TotalEquity = %v, want %v", got, want)
	}
}

func TestAggregatorRunNoCashColumn(t *testing.T) {
	src := LedgerFunc(func(ctx context.Context) (Table, error) {
		return ReadTable(strings.NewReader("Ticker,Entry Price,Qty\nABC,10,100\n"))
	})
	agg := newTestAggregator(t, StaticQuotes{}, func(c *Config) { c.Cash = LedgerCash{} })

	_, err := agg.Run(context.Background(), src)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Run() error = %v, want *ConfigError", err)
	}
	if !errors.Is(err, ErrNoCashColumn) {
		t.Errorf("Run() error = %v, want ErrNoCashColumn", err)
	}
}

func TestAggregatorRunReadError(t *testing.T) {
	boom := errors.New("boom")
	src := LedgerFunc(func(ctx context.Context) (Table, error) { return Table{}, boom })
	agg := newTestAggregator(t, StaticQuotes{})
	if _, err := agg.Run(context.Background(), src); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestAggregatorAnnotations(t *testing.T) {
	const csv = "Ticker,Entry Price,Qty,Exit Price\nABC,10,100,\n,1,1,\nDEF,5,10,\nDEF,5,-10,\nGHI,abc,1,\n"
	agg := newTestAggregator(t, StaticPrices(map[string]float64{"ABC": 10, "GHI": 1}))
	s, err := agg.Compute(context.Background(), readJournal(t, csv))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got, want := len(s.Dropped), 1; got != want {
		t.Errorf("len(Dropped) = %d, want %d", got, want)
	}
	if got, want := len(s.Coerced), 1; got != want {
		t.Errorf("len(Coerced) = %d, want %d", got, want)
	}
	if len(s.Excluded) != 1 || s.Excluded[0].Ticker != "DEF" {
		t.Errorf("Excluded = %v, want DEF", s.Excluded)
	}
	if s.Complete() {
		t.Errorf("Complete() = true, want false")
	}
	if got, want := s.Ignored(), 2; got != want {
		t.Errorf("Ignored() = %d, want %d", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig("USD")
	cfg.Cash = nil
	cfg.QuoteTimeout = 0
	err := cfg.Validate()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Validate() error = %v, want *ConfigError", err)
	}
	if !strings.Contains(err.Error(), "cash") || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("Validate() error = %q, want both problems reported", err)
	}
	if err := DefaultConfig("USD").Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}
