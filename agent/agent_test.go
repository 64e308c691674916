package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func snapshot(t *testing.T) *tradejournal.Snapshot {
	t.Helper()
	win := tradejournal.TradeRecord{
		Ticker:     "AAA",
		EntryDate:  date.MustParse("2026-01-02"),
		ExitDate:   date.MustParse("2026-01-20"),
		EntryPrice: tradejournal.M(10, "USD"),
		ExitPrice:  tradejournal.M(12, "USD"),
		Quantity:   tradejournal.Q(100),
	}
	open := tradejournal.TradeRecord{
		Ticker:     "AAA",
		EntryDate:  date.MustParse("2026-02-02"),
		EntryPrice: tradejournal.M(11, "USD"),
		Quantity:   tradejournal.Q(50),
	}
	agg, err := tradejournal.NewAggregator(tradejournal.DefaultConfig("USD"), tradejournal.StaticPrices(map[string]float64{"AAA": 13}), zerolog.Nop())
	require.NoError(t, err)
	s, err := agg.ComputeRecords(context.Background(), []tradejournal.TradeRecord{win, open})
	require.NoError(t, err)
	return s
}

func call(lib Library, name string, args map[string]any) map[string]any {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args}).Response
}

func TestTools(t *testing.T) {
	s := snapshot(t)
	lib := NewLibrary(Tools(func() *tradejournal.Snapshot { return s }))

	report := call(lib, "Report", nil)
	assert.Contains(t, report["output"], "## Open Positions")

	out := call(lib, "Ticker", map[string]any{"ticker": " aaa "})
	require.Contains(t, out, "output")
	var got struct {
		Position struct {
			Ticker string `json:"ticker"`
			Priced bool   `json:"priced"`
		} `json:"position"`
		Closed []struct {
			Ticker string `json:"ticker"`
		} `json:"closed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out["output"].(string)), &got))
	assert.Equal(t, "AAA", got.Position.Ticker)
	assert.True(t, got.Position.Priced)
	assert.Len(t, got.Closed, 1)

	assert.Contains(t, call(lib, "Ticker", map[string]any{"ticker": "ZZZ"})["error"], "not in the trade journal")
	assert.Contains(t, call(lib, "Ticker", map[string]any{"ticker": 3})["error"], "not a string")

	stats := call(lib, "Statistics", nil)
	assert.Contains(t, stats["output"], `"trades":1`)

	assert.Contains(t, call(lib, "Nope", nil)["error"], "unknown function Nope")
}

func TestToolsWithoutSnapshot(t *testing.T) {
	lib := NewLibrary(Tools(func() *tradejournal.Snapshot { return nil }))
	assert.Contains(t, call(lib, "Report", nil)["error"], "no snapshot")
}

func TestReviewer(t *testing.T) {
	journalist := NewJournalist(DefaultModel, func() *tradejournal.Snapshot { return nil })
	reviewer := NewReviewer(DefaultModel, journalist, NewTrader(DefaultModel))

	decls := reviewer.Config.Tools[0].FunctionDeclarations
	require.Len(t, decls, 2)
	assert.Equal(t, "Journalist", decls[0].Name)
	assert.Equal(t, []string{"question"}, decls[1].Parameters.Required)

	// an expert without a chat cannot answer.
	resp := reviewer.Library(context.Background(), &genai.FunctionCall{Name: "Trader", Args: map[string]any{"question": "news?"}})
	assert.Contains(t, resp.Response["error"], "chat not started")
}
