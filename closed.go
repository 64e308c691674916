package tradejournal

import "github.com/etnz/tradejournal/date"

// ClosedTrade is the journal view of a closed leg.
type ClosedTrade struct {
	Row         int       `json:"row"`
	Ticker      string    `json:"ticker"`
	EntryDate   date.Date `json:"entryDate"`
	ExitDate    date.Date `json:"exitDate"`
	Quantity    Quantity  `json:"quantity"`
	EntryPrice  Money     `json:"entryPrice"`
	ExitPrice   Money     `json:"exitPrice"`
	EntryCost   Money     `json:"entryCost"`
	ExitCost    Money     `json:"exitCost"`
	Fees        Money     `json:"fees"`
	RealizedPnL Money     `json:"realizedPnl"`
	Stored      bool      `json:"stored"` // RealizedPnL comes from the ledger
	Return      Percent   `json:"return"`
	HoldingDays int       `json:"holdingDays"` // 0 when a date is missing
	EntryReason string    `json:"entryReason,omitempty"`
	ExitReason  string    `json:"exitReason,omitempty"`
}

// Close builds the journal view of a closed record.
func Close(r TradeRecord, fees FeeSchedule) ClosedTrade {
	t := ClosedTrade{
		Row:         r.Row,
		Ticker:      r.Ticker,
		EntryDate:   r.EntryDate,
		ExitDate:    r.ExitDate,
		Quantity:    r.Quantity,
		EntryPrice:  r.EntryPrice,
		ExitPrice:   r.ExitPrice,
		EntryCost:   r.EntryCost(),
		ExitCost:    r.ExitCost(),
		Fees:        fees.RecordFees(r).In(r.EntryPrice.Currency()),
		RealizedPnL: r.RealizedPnL(fees),
		Stored:      r.StoredPnL != nil,
		EntryReason: r.EntryReason,
		ExitReason:  r.ExitReason,
	}
	t.Return = t.RealizedPnL.RatioTo(t.EntryCost)
	if !r.EntryDate.IsZero() && !r.ExitDate.IsZero() {
		t.HoldingDays = r.EntryDate.DaysTo(r.ExitDate)
	}
	return t
}

// Discrepancy is a closed leg whose stored P&L disagrees with the P&L
// recomputed from its costs and fees.
type Discrepancy struct {
	Row        int    `json:"row"`
	Ticker     string `json:"ticker"`
	Stored     Money  `json:"stored"`
	Derived    Money  `json:"derived"`
	Difference Money  `json:"difference"` // Stored − Derived
}

// Reconcile recomputes the P&L of every closed leg that stores one and
// reports those that differ by more than tolerance.
func Reconcile(closed []TradeRecord, fees FeeSchedule, tolerance Money) []Discrepancy {
	var out []Discrepancy
	for _, r := range closed {
		if r.IsOpen() || r.StoredPnL == nil {
			continue
		}
		derived := r.DerivedPnL(fees)
		diff := r.StoredPnL.Sub(derived)
		if diff.Abs().GreaterThan(tolerance.Abs()) {
			out = append(out, Discrepancy{
				Row:        r.Row,
				Ticker:     r.Ticker,
				Stored:     *r.StoredPnL,
				Derived:    derived,
				Difference: diff,
			})
		}
	}
	return out
}
