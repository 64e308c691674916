package tradejournal

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds every constant the aggregation depends on.
type Config struct {
	Currency       string
	Schema         Schema
	Fees           FeeSchedule
	Cash           CashStrategy
	ReferenceValue Money         // starting portfolio value, for the equity delta
	MovingAverage  int           // window of the moving average, in sessions
	QuoteTimeout   time.Duration // bound on the quote request of one pass
	Tolerance      Money         // accepted difference between stored and derived P&L
}

// DefaultConfig returns the configuration of a USD journal with a static zero cash balance.
func DefaultConfig(currency string) Config {
	return Config{
		Currency:       currency,
		Schema:         DefaultSchema(currency),
		Fees:           DefaultFees(currency),
		Cash:           StaticCash{Amount: M(0, currency)},
		ReferenceValue: M(0, currency),
		MovingAverage:  DefaultMovingAverage,
		QuoteTimeout:   10 * time.Second,
		Tolerance:      M(0.01, currency),
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Cash == nil {
		errs = append(errs, &ConfigError{Setting: "cash", Err: errors.New("no cash strategy")})
	}
	if c.Fees.Base.IsNegative() || c.Fees.PerShare.IsNegative() {
		errs = append(errs, &ConfigError{Setting: "fees", Err: errors.New("fees must not be negative")})
	}
	if c.MovingAverage < 0 {
		errs = append(errs, &ConfigError{Setting: "moving average", Err: fmt.Errorf("window %d is negative", c.MovingAverage)})
	}
	if c.QuoteTimeout <= 0 {
		errs = append(errs, &ConfigError{Setting: "quotes", Err: fmt.Errorf("timeout %v must be positive", c.QuoteTimeout)})
	}
	if len(c.Schema.Required) == 0 {
		errs = append(errs, &ConfigError{Setting: "schema", Err: errors.New("no required column")})
	}
	return errors.Join(errs...)
}

// Aggregator turns a trade ledger and live quotes into Snapshots.
//
// An Aggregator holds no state between passes other than the pass counter;
// it is safe for concurrent use.
type Aggregator struct {
	cfg    Config
	quotes QuoteProvider
	log    zerolog.Logger
	cycle  atomic.Uint64
	now    func() time.Time
}

// NewAggregator validates cfg and returns an Aggregator pricing positions with quotes.
// quotes may be nil, in which case every position is unpriced.
func NewAggregator(cfg Config, quotes QuoteProvider, log zerolog.Logger) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Fees = FeeSchedule{
		Base:       cfg.Fees.Base.In(cfg.Currency),
		PerShare:   cfg.Fees.PerShare.In(cfg.Currency),
		ChargeExit: cfg.Fees.ChargeExit,
	}
	cfg.Schema.Currency = cfg.Currency
	return &Aggregator{
		cfg:    cfg,
		quotes: quotes,
		log:    log.With().Str("component", "aggregator").Logger(),
		now:    time.Now,
	}, nil
}

// Config returns the configuration in use.
func (a *Aggregator) Config() Config { return a.cfg }

// Run reads the ledger from src and computes a snapshot.
//
// Malformed rows, unpriced tickers and inconsistent positions are reported
// in the snapshot. Run only fails on a ledger read failure, a missing
// required column or a cash strategy that cannot be satisfied.
func (a *Aggregator) Run(ctx context.Context, src LedgerSource) (*Snapshot, error) {
	cycle := a.cycle.Add(1)
	t, err := src.Table(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return a.compute(ctx, cycle, t)
}

// Compute computes a snapshot from an already read ledger table.
func (a *Aggregator) Compute(ctx context.Context, t Table) (*Snapshot, error) {
	return a.compute(ctx, a.cycle.Add(1), t)
}

// ComputeRecords computes a snapshot from typed records.
func (a *Aggregator) ComputeRecords(ctx context.Context, records []TradeRecord) (*Snapshot, error) {
	return a.build(ctx, a.cycle.Add(1), ClassifyRecords(records))
}

func (a *Aggregator) compute(ctx context.Context, cycle uint64, t Table) (*Snapshot, error) {
	c, err := Classify(t, a.cfg.Schema)
	if err != nil {
		return nil, err
	}
	return a.build(ctx, cycle, c)
}

func (a *Aggregator) build(ctx context.Context, cycle uint64, c *Classification) (s *Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("aggregating ledger: %v", r)
		}
	}()
	start := a.now()
	cur := a.cfg.Currency

	cash, err := a.cfg.Cash.Cash(c, a.cfg.Fees, cur)
	if err != nil {
		return nil, err
	}

	s = &Snapshot{
		ID:             uuid.New(),
		Cycle:          cycle,
		At:             start,
		Currency:       cur,
		Cash:           cash,
		CashMode:       a.cfg.Cash.Mode(),
		MarketValue:    M(0, cur),
		CostBasis:      M(0, cur),
		UnrealizedPnL:  M(0, cur),
		RealizedPnL:    M(0, cur),
		Fees:           FeeBreakdown{Open: M(0, cur), Closed: M(0, cur), Total: M(0, cur)},
		ReferenceValue: a.cfg.ReferenceValue.In(cur),
		Dropped:        c.Dropped,
		Coerced:        c.Coerced,
	}

	positions, excluded := Consolidate(c.Open)
	s.Excluded = excluded

	batch := a.fetch(ctx, positions)
	for _, p := range positions {
		var quote *Quote
		if q, err := batch.Get(p.Ticker); err == nil {
			quote = &q
		} else {
			a.log.Warn().Str("ticker", p.Ticker).Err(err).Msg("position left unpriced")
			s.Unpriced = append(s.Unpriced, QuoteFailure{Ticker: p.Ticker, Reason: err.Error()})
		}
		v := Value(p, quote, a.cfg.Fees, a.cfg.MovingAverage)
		s.Positions = append(s.Positions, v)
		s.Fees.Open = s.Fees.Open.Add(v.EntryFee)
		if !v.Priced {
			continue
		}
		s.MarketValue = s.MarketValue.Add(v.MarketValue)
		s.CostBasis = s.CostBasis.Add(v.CostBasis)
		s.UnrealizedPnL = s.UnrealizedPnL.Add(v.UnrealizedPnL)
	}

	for _, r := range c.Closed {
		t := Close(r, a.cfg.Fees)
		s.Closed = append(s.Closed, t)
		s.RealizedPnL = s.RealizedPnL.Add(t.RealizedPnL)
		s.Fees.Closed = s.Fees.Closed.Add(t.Fees)
	}
	s.Fees.Total = s.Fees.Open.Add(s.Fees.Closed)

	s.TotalEquity = s.MarketValue.Add(s.Cash)
	s.EquityDelta = s.TotalEquity.Sub(s.ReferenceValue)

	s.Discrepancies = Reconcile(c.Closed, a.cfg.Fees, a.cfg.Tolerance)
	s.Stats = Stats(s.Closed, cur)
	s.Insights = Insights(s)

	a.log.Info().
		Uint64("cycle", cycle).
		Int("rows", c.Len()).
		Int("positions", len(s.Positions)).
		Int("closed", len(s.Closed)).
		Int("unpriced", len(s.Unpriced)).
		Int("ignored", s.Ignored()).
		Dur("elapsed", a.now().Sub(start)).
		Msg("snapshot computed")
	return s, nil
}

// fetch requests quotes for every position in a single call bounded by the quote timeout.
// A failed request is reported as a failure for every ticker.
func (a *Aggregator) fetch(ctx context.Context, positions []Position) QuoteBatch {
	batch := NewQuoteBatch()
	if len(positions) == 0 {
		return batch
	}
	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	if a.quotes == nil {
		for _, t := range tickers {
			batch.Fail(t, errors.New("no quote provider"))
		}
		return batch
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.QuoteTimeout)
	defer cancel()
	got, err := a.quotes.Quotes(ctx, tickers)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		a.log.Error().Err(err).Strs("tickers", tickers).Msg("quote request failed")
		for _, t := range tickers {
			batch.Fail(t, fmt.Errorf("quote request failed: %w", err))
		}
		return batch
	}
	for _, t := range tickers {
		q, err := got.Get(t)
		if err != nil {
			batch.Fail(t, err)
			continue
		}
		batch.Add(q)
	}
	return batch
}
