package tradejournal

import "github.com/shopspring/decimal"

// Sizing returns the number of whole shares at price that budget can buy
// once the entry fee is paid, and the total cost including that fee.
func Sizing(budget, price Money, fees FeeSchedule) (shares Quantity, cost Money) {
	cost = M(0, budget.Currency())
	if !price.IsPositive() || !budget.IsPositive() {
		return shares, cost
	}
	// budget ≥ q × price + Base + q × PerShare
	available := budget.Sub(fees.Base)
	unit := price.Add(fees.PerShare)
	q := available.DivPrice(unit).Decimal().Floor()
	if q.LessThanOrEqual(decimal.Zero) {
		return shares, cost
	}
	shares = Q(q)
	return shares, price.Mul(shares).Add(fees.EntryFee(shares))
}
