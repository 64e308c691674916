package tradejournal

import (
	"errors"
	"fmt"

	"github.com/etnz/tradejournal/date"
)

var (
	// ErrNoCashColumn is returned when a cash strategy needs a ledger cash column that is absent.
	ErrNoCashColumn = errors.New("ledger has no cash column")
	// ErrNoCashValue is returned when the ledger cash column is present but empty.
	ErrNoCashValue = errors.New("ledger cash column is empty")
)

// ConfigError is a user actionable configuration problem. The aggregator
// never replaces such a problem by a default value.
type ConfigError struct {
	Setting string
	Err     error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("invalid %s configuration: %v", e.Setting, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// Cash modes, as named in configuration files.
const (
	CashStatic  = "static"
	CashLedger  = "ledger"
	CashDerived = "derived"
)

// CashStrategy decides the available cash of a snapshot.
type CashStrategy interface {
	Mode() string
	Cash(c *Classification, fees FeeSchedule, currency string) (Money, error)
}

// StaticCash is a cash amount maintained by hand.
type StaticCash struct {
	Amount Money
}

func (s StaticCash) Mode() string { return CashStatic }

func (s StaticCash) Cash(c *Classification, fees FeeSchedule, currency string) (Money, error) {
	return s.Amount.In(currency), nil
}

// LedgerCash takes the running balance of the ledger cash column at face
// value: the last non-empty cell in ledger order.
type LedgerCash struct{}

func (LedgerCash) Mode() string { return CashLedger }

func (LedgerCash) Cash(c *Classification, fees FeeSchedule, currency string) (Money, error) {
	if !c.Has(FieldCash) {
		return Money{}, &ConfigError{Setting: "cash", Err: ErrNoCashColumn}
	}
	var last *TradeRecord
	for _, set := range [][]TradeRecord{c.Open, c.Closed} {
		for i := range set {
			if set[i].Cash != nil && (last == nil || set[i].Row > last.Row) {
				last = &set[i]
			}
		}
	}
	if last == nil {
		return Money{}, &ConfigError{Setting: "cash", Err: ErrNoCashValue}
	}
	return last.Cash.In(currency), nil
}

// DerivedCash computes cash from a reference amount and the trades:
//
//	Reference − Σ(entry cost + entry fee) over open positions + Σ(exit cost − exit fee) over closed legs
//
// When Since is set Reference is the cash on that date, and every cash
// movement dated on or after it counts: the entry of an open leg, and for a
// closed leg its entry (cost and entry fee) and its exit. A closed leg without
// an exit date is dated by its entry date.
type DerivedCash struct {
	Reference Money
	Since     date.Date
}

func (DerivedCash) Mode() string { return CashDerived }

func (d DerivedCash) Cash(c *Classification, fees FeeSchedule, currency string) (Money, error) {
	cash := d.Reference.In(currency)

	var open []TradeRecord
	for _, r := range c.Open {
		if d.counts(r.EntryDate) {
			open = append(open, r)
		}
	}
	positions, _ := Consolidate(open)
	for _, p := range positions {
		cash = cash.Sub(p.CostBasis.In(currency)).Sub(fees.EntryFee(p.Quantity).In(currency))
	}

	for _, r := range c.Closed {
		on := r.ExitDate
		if on.IsZero() {
			on = r.EntryDate
		}
		if !d.counts(on) {
			continue
		}
		if !d.Since.IsZero() && d.counts(r.EntryDate) {
			cash = cash.Sub(r.EntryCost().In(currency)).Sub(fees.EntryFee(r.Quantity).In(currency))
		}
		cash = cash.Add(r.ExitCost().In(currency)).Sub(fees.ExitFee(r.Quantity).In(currency))
	}
	return cash, nil
}

func (d DerivedCash) counts(on date.Date) bool {
	return d.Since.IsZero() || !on.Before(d.Since)
}
