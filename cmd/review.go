package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// reviewCmd asks Gemini to review the journal.
type reviewCmd struct {
	interactive bool
	model       string
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "review the journal with Gemini" }
func (*reviewCmd) Usage() string {
	return `tj review [-i] [-model <name>] [question...]

  Computes the journal and asks Gemini to review it: what went well, what
  went wrong, what to change. With -i, starts an interactive session where
  the questions on the command line are asked first.

  Requires GEMINI_API_KEY in the environment.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.interactive, "i", false, "Start an interactive session")
	f.StringVar(&c.model, "model", "", "Gemini model, defaults to the configured one")
}

func (c *reviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.model == "" {
		c.model = cfg.Review.Model
	}
	r, err := newRefresher(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	s, err := r.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing snapshot: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(stdout, os.Stdin, c.model, func() *tradejournal.Snapshot { return s }, log)
	a.Print = func(_ io.Writer, md string) { printMarkdown(md) }

	question := strings.Join(f.Args(), " ")
	if c.interactive {
		if err := a.Run(ctx, client, question); err != nil {
			fmt.Fprintln(os.Stderr, "Agent failed:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if question != "" {
		// a single question replaces the default review.
		if err := a.Run(ctx, client, question, "bye"); err != nil {
			fmt.Fprintln(os.Stderr, "Agent failed:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	answer, err := a.Review(ctx, client)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}
