package cmd

import "github.com/google/subcommands"

// Commands lists every tj subcommand by group.
var Commands = map[string][]subcommands.Command{
	"journal":     {&summaryCmd{}, &positionsCmd{}, &closedCmd{}},
	"calculators": {&feeCmd{}, &sizeCmd{}},
	"live":        {&watchCmd{}, &serveCmd{}, &reviewCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	for group, commands := range Commands {
		for _, cmd := range commands {
			c.Register(cmd, group)
		}
	}
}
