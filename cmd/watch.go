package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/renderer"
	"github.com/etnz/tradejournal/scheduler"
	"github.com/etnz/tradejournal/server"
	"github.com/google/subcommands"
)

// watchCmd re-displays the journal on a schedule.
type watchCmd struct {
	schedule string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh and display the journal on a schedule" }
func (*watchCmd) Usage() string {
	return `tj watch [-s <schedule>]

  Computes the journal now, then again on every tick of the cron schedule,
  and redraws the summary. Stops on Ctrl+C.

Usage Examples:
$ tj watch -s "@every 30s"
$ tj watch -s "*/5 9-16 * * 1-5"
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "s", "", "Cron schedule, defaults to the configured one")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.schedule == "" {
		c.schedule = cfg.Refresh.Schedule
	}
	r, err := newRefresher(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	r.OnPublish(func(s *tradejournal.Snapshot) {
		fmt.Fprint(stdout, "\033[H\033[2J")
		printMarkdown(renderer.Render(s, renderer.Options{}))
	})

	sched := scheduler.New(log)
	if err := sched.AddJob(c.schedule, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error scheduling refresh: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := r.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error computing snapshot: %v\n", err)
	}
	sched.Start()
	<-ctx.Done()
	sched.Stop()
	return subcommands.ExitSuccess
}

// serveCmd serves the journal over HTTP.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the journal snapshot over HTTP" }
func (*serveCmd) Usage() string {
	return `tj serve [-addr <host:port>]

  Serves the journal refreshed on the configured schedule:

    GET  /api/snapshot           full snapshot (?format=markdown for the report)
    GET  /api/positions          open positions
    GET  /api/positions/{ticker} one open position
    GET  /api/closed             closed trades and statistics
    GET  /api/insights           insights
    POST /api/refresh            refresh now
    GET  /healthz                health
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, defaults to the configured one")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.addr == "" {
		c.addr = cfg.Server.Addr
	}
	r, err := newRefresher(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.Refresh.Schedule, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error scheduling refresh: %v\n", err)
		return subcommands.ExitFailure
	}
	srv := server.New(server.Config{Addr: c.addr, CORSOrigins: cfg.Server.CORSOrigins, Log: log, Journal: r})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.RunNow(r); err != nil {
		log.Warn().Err(err).Msg("first refresh failed, serving without snapshot")
	}
	sched.Start()
	defer sched.Stop()

	errs := make(chan error, 1)
	go func() { errs <- srv.Start() }()

	select {
	case err := <-errs:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error serving %s: %v\n", c.addr, err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
