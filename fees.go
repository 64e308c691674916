package tradejournal

// FeeSchedule is a fixed-plus-variable brokerage fee.
//
// The entry fee of an open position is charged once, on the total quantity of
// the consolidated position. A closed leg is charged its entry fee and, when
// ChargeExit is set, an exit fee.
type FeeSchedule struct {
	Base       Money // charged once per order
	PerShare   Money // charged per share
	ChargeExit bool  // whether selling is charged like buying
}

// DefaultFees returns the schedule of the journal's broker in currency.
func DefaultFees(currency string) FeeSchedule {
	return FeeSchedule{
		Base:       M(3.50, currency),
		PerShare:   M(0.0078, currency),
		ChargeExit: true,
	}
}

// Fee returns Base + q × PerShare for a positive quantity, and zero otherwise.
func (f FeeSchedule) Fee(q Quantity) Money {
	if !q.IsPositive() {
		return M(0, f.Base.Currency())
	}
	return f.Base.Add(f.PerShare.Mul(q))
}

// EntryFee is the fee for buying q shares.
func (f FeeSchedule) EntryFee(q Quantity) Money { return f.Fee(q) }

// ExitFee is the fee for selling q shares, zero unless ChargeExit.
func (f FeeSchedule) ExitFee(q Quantity) Money {
	if !f.ChargeExit {
		return M(0, f.Base.Currency())
	}
	return f.Fee(q)
}

// RecordFees returns the fees accrued by a single ledger row: the entry fee
// for an open leg, entry and exit fees for a closed one.
func (f FeeSchedule) RecordFees(r TradeRecord) Money {
	fee := f.EntryFee(r.Quantity)
	if !r.IsOpen() {
		fee = fee.Add(f.ExitFee(r.Quantity))
	}
	return fee
}
