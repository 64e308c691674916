// Package cmd implements the tj command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/config"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", config.DefaultFile, "Path to the configuration file (TOML)")
	ledger     = flag.String("ledger", "", "Ledger location, a Google Sheets link or a CSV file. Overrides the configuration.")
	raw        = flag.Bool("raw", false, "Print raw markdown instead of rendering it for the terminal")
	width      = flag.Int("width", 120, "Word wrap width of the terminal rendering")
)

// stdout receives command output.
var stdout io.Writer = os.Stdout

// loadConfig loads and validates the configuration, applying global flags.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if *ledger != "" {
		cfg.Ledger.Location = *ledger
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, cfg.Logger(), nil
}

// newRefresher assembles the refresher of the configured ledger.
func newRefresher(cfg *config.Config, log zerolog.Logger) (*tradejournal.Refresher, error) {
	agg, err := cfg.NewAggregator(log)
	if err != nil {
		return nil, err
	}
	src, err := cfg.LedgerSource(log)
	if err != nil {
		return nil, err
	}
	return tradejournal.NewRefresher(agg, src, log), nil
}

// snapshot computes one snapshot of the configured ledger.
func snapshot(ctx context.Context) (*tradejournal.Snapshot, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	r, err := newRefresher(cfg, log)
	if err != nil {
		return nil, err
	}
	return r.Refresh(ctx)
}

// printMarkdown prints md rendered for the terminal, or raw with -raw.
func printMarkdown(md string) {
	if !*raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(*width))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				md = out
			}
		}
	}
	fmt.Fprint(stdout, md)
}
