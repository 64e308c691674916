package tradejournal

import (
	"math"
	"testing"
)

func TestStats(t *testing.T) {
	trades := []ClosedTrade{
		{Ticker: "A", RealizedPnL: USD(100), HoldingDays: 10},
		{Ticker: "B", RealizedPnL: USD(-50), HoldingDays: 4},
		{Ticker: "C", RealizedPnL: USD(50)},
		{Ticker: "D", RealizedPnL: USD(-100), HoldingDays: 1},
	}
	s := Stats(trades, "USD")
	if s.Trades != 4 || s.Wins != 2 || s.Losses != 2 {
		t.Errorf("Stats() = %d trades %d wins %d losses, want 4, 2, 2", s.Trades, s.Wins, s.Losses)
	}
	if want := Percent(50); !s.WinRate.Equal(want) {
		t.Errorf("WinRate = %v, want %v", s.WinRate, want)
	}
	if want := USD(75); !s.AverageWin.Equal(want) {
		t.Errorf("AverageWin = %v, want %v", s.AverageWin, want)
	}
	if want := USD(-75); !s.AverageLoss.Equal(want) {
		t.Errorf("AverageLoss = %v, want %v", s.AverageLoss, want)
	}
	if s.ProfitFactor != 1 {
		t.Errorf("ProfitFactor = %v, want 1", s.ProfitFactor)
	}
	if s.Mean != 0 {
		t.Errorf("Mean = %v, want 0", s.Mean)
	}
	// sample standard deviation of 100, -50, 50, -100
	if want := math.Sqrt(25000.0 / 3); math.Abs(s.StdDev-want) > 1e-9 {
		t.Errorf("StdDev = %v, want %v", s.StdDev, want)
	}
	if s.AverageDays != 5 {
		t.Errorf("AverageDays = %v, want 5", s.AverageDays)
	}
}

func TestStatsEmpty(t *testing.T) {
	s := Stats(nil, "USD")
	if s.Trades != 0 || s.WinRate != 0 || s.ProfitFactor != 0 {
		t.Errorf("Stats(nil) = %+v, want zero", s)
	}
}
