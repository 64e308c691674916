package tradejournal

import (
	"time"

	"github.com/google/uuid"
)

// FeeBreakdown splits the fees accrued by the ledger.
type FeeBreakdown struct {
	Open   Money `json:"open"`   // entry fees of open positions
	Closed Money `json:"closed"` // round trip fees of closed legs
	Total  Money `json:"total"`
}

// Snapshot is the portfolio view produced by one aggregation pass.
//
// All market figures come from the single quote batch fetched by that pass.
// A Snapshot is never modified once returned.
type Snapshot struct {
	ID       uuid.UUID `json:"id"`
	Cycle    uint64    `json:"cycle"` // pass sequence number, in start order
	At       time.Time `json:"at"`
	Currency string    `json:"currency"`

	Cash           Money        `json:"cash"`
	CashMode       string       `json:"cashMode"`
	MarketValue    Money        `json:"marketValue"` // priced positions only
	CostBasis      Money        `json:"costBasis"`   // priced positions only
	UnrealizedPnL  Money        `json:"unrealizedPnl"`
	RealizedPnL    Money        `json:"realizedPnl"`
	Fees           FeeBreakdown `json:"fees"`
	TotalEquity    Money        `json:"totalEquity"` // MarketValue + Cash
	ReferenceValue Money        `json:"referenceValue"`
	EquityDelta    Money        `json:"equityDelta"` // TotalEquity − ReferenceValue

	Positions []PositionValue `json:"positions"`
	Closed    []ClosedTrade   `json:"closed"`

	Dropped       []RowIssue         `json:"dropped,omitempty"`
	Coerced       []RowIssue         `json:"coerced,omitempty"`
	Excluded      []ExcludedPosition `json:"excluded,omitempty"`
	Unpriced      []QuoteFailure     `json:"unpriced,omitempty"`
	Discrepancies []Discrepancy      `json:"discrepancies,omitempty"`
	Insights      []Insight          `json:"insights,omitempty"`
	Stats         TradeStats         `json:"stats"`
}

// Position returns the valued position of ticker.
func (s *Snapshot) Position(ticker string) (PositionValue, bool) {
	ticker = NormalizeTicker(ticker)
	for _, p := range s.Positions {
		if p.Ticker == ticker {
			return p, true
		}
	}
	return PositionValue{}, false
}

// Complete reports whether every position was priced and every row used.
func (s *Snapshot) Complete() bool {
	return len(s.Unpriced) == 0 && len(s.Dropped) == 0 && len(s.Excluded) == 0
}

// Ignored returns the number of ledger rows and open tickers left out of the snapshot.
func (s *Snapshot) Ignored() int { return len(s.Dropped) + len(s.Excluded) }
