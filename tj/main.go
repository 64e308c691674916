// Command tj displays a live view of a swing trading journal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tradejournal/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	cmd.Register(commander)

	// completes and exits when called by the shell completion.
	completion().Complete(name)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the subcommands and flags of tj for shell completion.
func completion() *complete.Command {
	c := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	for _, commands := range cmd.Commands {
		for _, sub := range commands {
			f := flag.NewFlagSet(sub.Name(), flag.ContinueOnError)
			sub.SetFlags(f)
			c.Sub[sub.Name()] = &complete.Command{Flags: flags(f)}
		}
	}
	for _, builtin := range []string{"help", "flags", "commands"} {
		c.Sub[builtin] = &complete.Command{}
	}
	return c
}

// flags predicts the values of every flag in f.
func flags(f *flag.FlagSet) map[string]complete.Predictor {
	m := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		switch fl.Name {
		case "config":
			m[fl.Name] = predict.Files("*.toml")
		case "ledger":
			m[fl.Name] = predict.Files("*.csv")
		default:
			if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				m[fl.Name] = predict.Nothing
			} else {
				m[fl.Name] = predict.Something
			}
		}
	})
	return m
}
