package tradejournal

import (
	"slices"
	"strings"

	"github.com/etnz/tradejournal/date"
)

// ReasonSeparator joins the distinct entry reasons of a position.
const ReasonSeparator = ", "

// Position consolidates all open legs of a ticker.
type Position struct {
	Ticker     string    `json:"ticker"`
	Quantity   Quantity  `json:"quantity"`
	CostBasis  Money     `json:"costBasis"`
	FirstEntry date.Date `json:"firstEntry"`
	Reasons    []string  `json:"reasons,omitempty"` // distinct non-empty entry reasons, sorted
	Legs       int       `json:"legs"`
}

// AveragePrice returns the weighted average entry price, CostBasis / Quantity.
func (p Position) AveragePrice() Money { return p.CostBasis.Div(p.Quantity) }

// Reason returns the entry reasons joined for display.
func (p Position) Reason() string { return strings.Join(p.Reasons, ReasonSeparator) }

// ExcludedPosition is a ticker tagged open whose legs do not add up to a position.
type ExcludedPosition struct {
	Ticker   string   `json:"ticker"`
	Quantity Quantity `json:"quantity"`
	Reason   string   `json:"reason"`
}

// Consolidate groups open legs by ticker.
//
// Tickers whose net quantity is not positive are reported as excluded
// rather than producing a position. Positions are sorted by ticker.
func Consolidate(open []TradeRecord) (positions []Position, excluded []ExcludedPosition) {
	index := make(map[string]*Position)
	var order []string
	reasons := make(map[string]map[string]bool)

	for _, r := range open {
		ticker := NormalizeTicker(r.Ticker)
		p, ok := index[ticker]
		if !ok {
			p = &Position{Ticker: ticker, CostBasis: M(0, r.EntryPrice.Currency())}
			index[ticker] = p
			order = append(order, ticker)
			reasons[ticker] = make(map[string]bool)
		}
		p.Quantity = p.Quantity.Add(r.Quantity)
		p.CostBasis = p.CostBasis.Add(r.EntryCost())
		p.FirstEntry = date.Min(p.FirstEntry, r.EntryDate)
		p.Legs++
		if reason := strings.TrimSpace(r.EntryReason); reason != "" {
			reasons[ticker][reason] = true
		}
	}

	slices.Sort(order)
	for _, ticker := range order {
		p := index[ticker]
		if !p.Quantity.IsPositive() {
			excluded = append(excluded, ExcludedPosition{Ticker: ticker, Quantity: p.Quantity, Reason: "net quantity is not positive"})
			continue
		}
		for reason := range reasons[ticker] {
			p.Reasons = append(p.Reasons, reason)
		}
		slices.Sort(p.Reasons)
		positions = append(positions, *p)
	}
	return positions, excluded
}
