package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/renderer"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// SnapshotFunc returns the snapshot the tools report on.
type SnapshotFunc func() *tradejournal.Snapshot

// Tools returns the functions reading the trade journal.
func Tools(current SnapshotFunc) []Function {
	snapshot := func() (*tradejournal.Snapshot, error) {
		if s := current(); s != nil {
			return s, nil
		}
		return nil, errors.New("no snapshot computed yet")
	}
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Report",
				Description: "Report returns the full trade journal report in markdown: cash, equity, open positions, closed trades, insights and data issues.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "The markdown report."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				s, err := snapshot()
				if err != nil {
					return "", err
				}
				return renderer.Render(s, renderer.Options{}), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Ticker",
				Description: "Ticker returns, in JSON, the open position of a ticker valued at the last quote, with its moving average, and every closed trade of that ticker.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ticker": {Type: genai.TypeString, Description: "The ticker symbol, like AAPL."},
					},
					Required: []string{"ticker"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "A JSON object with 'position' and 'closed' fields."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				s, err := snapshot()
				if err != nil {
					return "", err
				}
				ticker, ok := args["ticker"].(string)
				if !ok {
					return "", fmt.Errorf("argument 'ticker' is not a string as expected but %T", args["ticker"])
				}
				return tickerReport(s, ticker)
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Statistics",
				Description: "Statistics returns, in JSON, the statistics of closed trades: win rate, average win and loss, profit factor, mean and standard deviation of the realized P&L.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A JSON object."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				s, err := snapshot()
				if err != nil {
					return "", err
				}
				out, err := json.Marshal(s.Stats)
				return string(out), err
			},
		},
	}
}

// tickerReport returns the JSON view of ticker in s.
func tickerReport(s *tradejournal.Snapshot, ticker string) (string, error) {
	ticker = tradejournal.NormalizeTicker(ticker)
	var report struct {
		Position *tradejournal.PositionValue `json:"position,omitempty"`
		Closed   []tradejournal.ClosedTrade  `json:"closed,omitempty"`
	}
	if p, ok := s.Position(ticker); ok {
		report.Position = &p
	}
	for _, t := range s.Closed {
		if t.Ticker == ticker {
			report.Closed = append(report.Closed, t)
		}
	}
	if report.Position == nil && report.Closed == nil {
		return "", fmt.Errorf("%s is not in the trade journal", ticker)
	}
	out, err := json.Marshal(report)
	return string(out), err
}

// NewJournalist returns the expert reading the trade journal.
func NewJournalist(model string, current SnapshotFunc) *Expert {
	lib := Tools(current)
	return &Expert{
		Name: "Journalist",
		Description: `The Journalist keeps the user's trade journal: open positions, closed trades, cash and equity.
		Ask the Journalist for any figure about the user's trades.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You keep the user's swing trading journal. Use the tools to read positions,
			closed trades and statistics. Quote figures exactly as the tools return them,
			never estimate a price yourself.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// NewTrader returns the expert grounded on Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, aware of the latest news about companies and markets.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading. You leverage Google Search to ground your
			assertions and relate the latest news to the user's request.
			`}}},
		},
	}
}

// NewReviewer returns the facilitator conducting a trade review with experts.
func NewReviewer(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Reviewer",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You review the user's swing trades like a trading coach.
			Ask the experts from the Tools for figures and news; they keep the context of your previous questions.

			Point out losing patterns: buying below the moving average, holding losers too long,
			fees eating small trades. Be concrete, name tickers, and keep it short.
			`}}},
		},
		Library: NewLibrary(experts),
	}
}
