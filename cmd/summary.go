package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradejournal/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	json       bool
	skipClosed bool
	skipIssues bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the trade journal: equity, positions, closed trades" }
func (*summaryCmd) Usage() string {
	return `tj summary [-json] [-skip-closed] [-skip-issues]

  Reads the ledger, fetches live quotes for open positions and displays cash,
  total equity, open positions, closed trades, insights and data issues.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the snapshot in JSON")
	f.BoolVar(&c.skipClosed, "skip-closed", false, "Do not display closed trades")
	f.BoolVar(&c.skipIssues, "skip-issues", false, "Do not display data issues")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := snapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing snapshot: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.Render(s, renderer.Options{SkipClosed: c.skipClosed, SkipIssues: c.skipIssues}))
	return subcommands.ExitSuccess
}

// positionsCmd displays open positions only.
type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display open positions valued at live quotes" }
func (*positionsCmd) Usage() string {
	return `tj positions

  Displays open positions consolidated per ticker, with their last price,
  unrealized P&L net of entry fee, and moving average.
`
}
func (*positionsCmd) SetFlags(_ *flag.FlagSet) {}

func (*positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := snapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderPositions(s))
	return subcommands.ExitSuccess
}

// closedCmd displays the closed trades journal.
type closedCmd struct{}

func (*closedCmd) Name() string     { return "closed" }
func (*closedCmd) Synopsis() string { return "display closed trades and their statistics" }
func (*closedCmd) Usage() string {
	return `tj closed

  Displays every closed trade with its realized P&L, return and holding
  period, followed by win rate, average win and loss and profit factor.
`
}
func (*closedCmd) SetFlags(_ *flag.FlagSet) {}

func (*closedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := snapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderClosed(s) + "\n" + renderer.RenderInsights(s))
	return subcommands.ExitSuccess
}
