package tradejournal

// PositionValue is a Position merged with the quote of the current cycle.
type PositionValue struct {
	Position
	AveragePrice Money  `json:"averagePrice"` // weighted average entry price
	Reason       string `json:"reason,omitempty"`

	Priced        bool    `json:"priced"` // false when the quote provider could not price the ticker
	Last          Money   `json:"last"`
	MarketValue   Money   `json:"marketValue"` // Last × Quantity
	EntryFee      Money   `json:"entryFee"`    // fee for the whole position, charged once
	UnrealizedPnL Money   `json:"unrealizedPnl"`
	Return        Percent `json:"return"`

	MovingAverage Money `json:"movingAverage"` // zero when not enough history
	HasAverage    bool  `json:"hasAverage"`
	AboveAverage  bool  `json:"aboveAverage"`
}

// Value merges a quote onto p. A nil quote leaves the position unpriced.
func Value(p Position, q *Quote, fees FeeSchedule, window int) PositionValue {
	cur := p.CostBasis.Currency()
	v := PositionValue{
		Position:      p,
		AveragePrice:  p.AveragePrice(),
		Reason:        p.Reason(),
		Last:          M(0, cur),
		MarketValue:   M(0, cur),
		UnrealizedPnL: M(0, cur),
		MovingAverage: M(0, cur),
		EntryFee:      fees.EntryFee(p.Quantity).In(cur),
	}
	if q == nil || !q.Last.IsPositive() {
		return v
	}
	v.Priced = true
	v.Last = q.Last.In(cur)
	v.MarketValue = v.Last.Mul(p.Quantity)
	v.UnrealizedPnL = v.MarketValue.Sub(p.CostBasis).Sub(v.EntryFee)
	v.Return = v.Last.Sub(v.AveragePrice).RatioTo(v.AveragePrice)

	if sma, ok := MovingAverage(q.Closes, window); ok {
		v.HasAverage = true
		v.MovingAverage = M(sma, cur)
		v.AboveAverage = v.Last.GreaterThan(v.MovingAverage)
	}
	return v
}
