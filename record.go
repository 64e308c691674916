package tradejournal

import (
	"strings"

	"github.com/etnz/tradejournal/date"
)

// TradeRecord is one row of the trade ledger.
//
// A record is open while its exit price is zero; it is closed otherwise.
// Stored values (entry cost, exit cost, P&L) are used when the ledger
// provides them, derived values otherwise.
type TradeRecord struct {
	Row         int // 1-based data row in the ledger, 0 if unknown
	Ticker      string
	EntryDate   date.Date
	ExitDate    date.Date
	EntryPrice  Money
	ExitPrice   Money
	Quantity    Quantity
	EntryReason string
	ExitReason  string

	StoredEntryCost *Money
	StoredExitCost  *Money
	StoredPnL       *Money
	Cash            *Money // running cash balance cell, if the ledger has one
}

// NormalizeTicker returns the canonical form of a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// IsOpen reports whether the record is an open leg.
func (r TradeRecord) IsOpen() bool { return r.ExitPrice.IsZero() }

// EntryCost returns the stored entry cost if any, or entry price × quantity.
func (r TradeRecord) EntryCost() Money {
	if r.StoredEntryCost != nil {
		return *r.StoredEntryCost
	}
	return r.EntryPrice.Mul(r.Quantity)
}

// ExitCost returns the stored exit cost if any, or exit price × quantity.
// It is zero for open records.
func (r TradeRecord) ExitCost() Money {
	if r.IsOpen() {
		return M(0, r.ExitPrice.Currency())
	}
	if r.StoredExitCost != nil {
		return *r.StoredExitCost
	}
	return r.ExitPrice.Mul(r.Quantity)
}

// DerivedPnL returns exit cost − entry cost − round trip fees, ignoring any stored P&L.
func (r TradeRecord) DerivedPnL(fees FeeSchedule) Money {
	return r.ExitCost().Sub(r.EntryCost()).Sub(fees.RecordFees(r))
}

// RealizedPnL returns the stored P&L if any, or DerivedPnL. It is zero for open records.
func (r TradeRecord) RealizedPnL(fees FeeSchedule) Money {
	if r.IsOpen() {
		return M(0, r.EntryPrice.Currency())
	}
	if r.StoredPnL != nil {
		return *r.StoredPnL
	}
	return r.DerivedPnL(fees)
}
