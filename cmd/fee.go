package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tradejournal"
	"github.com/google/subcommands"
)

// feeCmd computes the broker fee of an order.
type feeCmd struct {
	quantity float64
	price    float64
}

func (*feeCmd) Name() string     { return "fee" }
func (*feeCmd) Synopsis() string { return "compute the broker fee of an order" }
func (*feeCmd) Usage() string {
	return `tj fee -q <quantity> [-p <price>]

  Computes the entry fee, exit fee and round trip fee of an order of
  <quantity> shares with the configured fee schedule. With a price, also
  displays the order cost and the price move needed to break even.

Usage Examples:
$ tj fee -q 150
$ tj fee -q 150 -p 42.10
`
}

func (c *feeCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share (optional)")
}

func (c *feeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.quantity <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -q must be a positive number of shares")
		return subcommands.ExitUsageError
	}
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	agg, err := cfg.Aggregator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(feeReport(agg.Fees, tradejournal.Q(c.quantity), tradejournal.M(c.price, cfg.Currency)))
	return subcommands.ExitSuccess
}

// feeReport renders the fees of an order of q shares at price, which may be zero.
func feeReport(fees tradejournal.FeeSchedule, q tradejournal.Quantity, price tradejournal.Money) string {
	var b strings.Builder
	entry, exit := fees.EntryFee(q), fees.ExitFee(q)
	roundTrip := entry.Add(exit)

	fmt.Fprintf(&b, "# Fees for %s shares\n\n", q)
	fmt.Fprintln(&b, "| Fee | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Entry | %s |\n", entry)
	fmt.Fprintf(&b, "| Exit | %s |\n", exit)
	fmt.Fprintf(&b, "| **Round trip** | **%s** |\n", roundTrip)
	if price.IsPositive() {
		cost := price.Mul(q)
		breakEven := cost.Add(roundTrip).Div(q)
		fmt.Fprintf(&b, "\nOrder cost %s, fees are %s of it. Break even at %s per share.\n",
			cost, roundTrip.RatioTo(cost), breakEven)
	}
	return b.String()
}

// sizeCmd computes how many shares a budget buys.
type sizeCmd struct {
	budget float64
	price  float64
}

func (*sizeCmd) Name() string     { return "size" }
func (*sizeCmd) Synopsis() string { return "compute the number of shares a budget buys after fees" }
func (*sizeCmd) Usage() string {
	return `tj size -b <budget> -p <price>

  Computes the largest number of whole shares at <price> whose cost plus
  entry fee fits in <budget>.
`
}

func (c *sizeCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.budget, "b", 0, "Cash budget")
	f.Float64Var(&c.price, "p", 0, "Price per share")
}

func (c *sizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.budget <= 0 || c.price <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -b and -p must be positive")
		return subcommands.ExitUsageError
	}
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	agg, err := cfg.Aggregator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	budget, price := tradejournal.M(c.budget, cfg.Currency), tradejournal.M(c.price, cfg.Currency)
	printMarkdown(sizeReport(agg.Fees, budget, price))
	return subcommands.ExitSuccess
}

// sizeReport renders the position a budget buys at price.
func sizeReport(fees tradejournal.FeeSchedule, budget, price tradejournal.Money) string {
	shares, cost := tradejournal.Sizing(budget, price, fees)
	if shares.IsZero() {
		return fmt.Sprintf("%s does not buy a single share at %s after fees.\n", budget, price)
	}
	return fmt.Sprintf("%s buys **%s shares** at %s for %s including a %s fee, leaving %s.\n",
		budget, shares, price, cost, fees.EntryFee(shares), budget.Sub(cost))
}
