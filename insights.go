package tradejournal

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Insight kinds.
const (
	InsightLosses       = "losses"
	InsightBelowAverage = "below-average"
	InsightWinRate      = "win-rate"
	InsightUnpriced     = "unpriced"
	InsightDropped      = "dropped"
	InsightExcluded     = "excluded"
	InsightDiscrepancy  = "discrepancy"
)

// Insight is a short lesson drawn from a snapshot.
type Insight struct {
	Kind    string   `json:"kind"`
	Tickers []string `json:"tickers,omitempty"`
	Message string   `json:"message"`
}

// maxLosers is the number of losing tickers named by the losses insight.
const maxLosers = 3

// Insights derives lessons from a snapshot.
func Insights(s *Snapshot) []Insight {
	var out []Insight

	if s.RealizedPnL.IsNegative() {
		losers := largestLosers(s.Closed, maxLosers)
		out = append(out, Insight{
			Kind:    InsightLosses,
			Tickers: losers,
			Message: fmt.Sprintf("Realized P&L is %s. Most losses came from %s: were they above their moving average when bought?", s.RealizedPnL.SignedString(), strings.Join(losers, ", ")),
		})
	}

	var below []string
	for _, p := range s.Positions {
		if p.Priced && p.HasAverage && !p.AboveAverage {
			below = append(below, p.Ticker)
		}
	}
	if len(below) > 0 {
		out = append(out, Insight{
			Kind:    InsightBelowAverage,
			Tickers: below,
			Message: fmt.Sprintf("%s trade below their moving average.", strings.Join(below, ", ")),
		})
	}

	if s.Stats.Trades >= 5 && s.Stats.WinRate < 50 {
		out = append(out, Insight{
			Kind:    InsightWinRate,
			Message: fmt.Sprintf("Win rate is %s over %d trades.", s.Stats.WinRate, s.Stats.Trades),
		})
	}

	if len(s.Unpriced) > 0 {
		var tickers []string
		for _, f := range s.Unpriced {
			tickers = append(tickers, f.Ticker)
		}
		out = append(out, Insight{
			Kind:    InsightUnpriced,
			Tickers: tickers,
			Message: fmt.Sprintf("%s could not be priced and are left out of the totals.", strings.Join(tickers, ", ")),
		})
	}

	if len(s.Dropped) > 0 {
		out = append(out, Insight{
			Kind:    InsightDropped,
			Message: fmt.Sprintf("%d ledger rows ignored.", len(s.Dropped)),
		})
	}

	if len(s.Excluded) > 0 {
		var tickers []string
		for _, e := range s.Excluded {
			tickers = append(tickers, e.Ticker)
		}
		out = append(out, Insight{
			Kind:    InsightExcluded,
			Tickers: tickers,
			Message: fmt.Sprintf("%s are tagged open with no net quantity.", strings.Join(tickers, ", ")),
		})
	}

	if len(s.Discrepancies) > 0 {
		out = append(out, Insight{
			Kind:    InsightDiscrepancy,
			Message: fmt.Sprintf("%d closed trades store a P&L that does not match their costs and fees.", len(s.Discrepancies)),
		})
	}
	return out
}

// largestLosers returns up to n tickers with the largest realized losses, worst first.
func largestLosers(closed []ClosedTrade, n int) []string {
	loss := make(map[string]Money)
	for _, t := range closed {
		if prev, ok := loss[t.Ticker]; ok {
			loss[t.Ticker] = prev.Add(t.RealizedPnL)
		} else {
			loss[t.Ticker] = t.RealizedPnL
		}
	}
	var tickers []string
	for ticker, pnl := range loss {
		if pnl.IsNegative() {
			tickers = append(tickers, ticker)
		}
	}
	slices.SortFunc(tickers, func(a, b string) int {
		if c := loss[a].Decimal().Cmp(loss[b].Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(tickers) > n {
		tickers = tickers[:n]
	}
	return tickers
}
