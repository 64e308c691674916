package tradejournal

import "gonum.org/v1/gonum/stat"

// TradeStats summarizes the realized performance of closed trades.
type TradeStats struct {
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      Percent `json:"winRate"`
	GrossProfit  Money   `json:"grossProfit"`
	GrossLoss    Money   `json:"grossLoss"` // negative or zero
	AverageWin   Money   `json:"averageWin"`
	AverageLoss  Money   `json:"averageLoss"`
	ProfitFactor float64 `json:"profitFactor"` // 0 when there is no loss
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"stdDev"`
	AverageDays  float64 `json:"averageDays"`
}

// Stats computes TradeStats over closed trades.
func Stats(closed []ClosedTrade, currency string) TradeStats {
	s := TradeStats{
		Trades:      len(closed),
		GrossProfit: M(0, currency),
		GrossLoss:   M(0, currency),
		AverageWin:  M(0, currency),
		AverageLoss: M(0, currency),
	}
	if len(closed) == 0 {
		return s
	}
	pnl := make([]float64, 0, len(closed))
	days := make([]float64, 0, len(closed))
	for _, t := range closed {
		p := t.RealizedPnL.In(currency)
		pnl = append(pnl, p.Float())
		if t.HoldingDays > 0 {
			days = append(days, float64(t.HoldingDays))
		}
		switch {
		case p.IsPositive():
			s.Wins++
			s.GrossProfit = s.GrossProfit.Add(p)
		case p.IsNegative():
			s.Losses++
			s.GrossLoss = s.GrossLoss.Add(p)
		}
	}
	s.WinRate = Percent(100 * float64(s.Wins) / float64(s.Trades))
	if s.Wins > 0 {
		s.AverageWin = s.GrossProfit.Div(Q(s.Wins))
	}
	if s.Losses > 0 {
		s.AverageLoss = s.GrossLoss.Div(Q(s.Losses))
		s.ProfitFactor = s.GrossProfit.Float() / -s.GrossLoss.Float()
	}
	if len(pnl) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(pnl, nil)
	} else {
		s.Mean = pnl[0]
	}
	if len(days) > 0 {
		s.AverageDays = stat.Mean(days, nil)
	}
	return s
}
