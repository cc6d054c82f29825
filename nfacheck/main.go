package main

import (
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

type cliArgs struct {
	Concat  bool `help:"Concatenate fragments that no operator combined instead of keeping only the last one." env:"NFACHECK_CONCAT"`
	NoColor bool `help:"Disable coloured output."`

	Match matchCmd `cmd:"" help:"Check strings against a pattern."`
	Table tableCmd `cmd:"" help:"Print the transition table of a pattern."`
	Dot   dotCmd   `cmd:"" help:"Print a pattern's automaton in Graphviz format."`
	Grep  grepCmd  `cmd:"" help:"Print lines of files that a pattern accepts in full."`
	Check checkCmd `cmd:"" help:"Run checks files."`
}

func main() {
	var cli cliArgs
	ctx := kong.Parse(&cli,
		kong.Name("nfacheck"),
		kong.Description("Builds an NFA from a postfix pattern ('|' alternation, '*' closure) and checks strings against it."),
		kong.UsageOnError(),
	)

	if cli.NoColor {
		color.NoColor = true
	}

	env := &runEnv{
		in:     os.Stdin,
		out:    os.Stdout,
		concat: cli.Concat,
	}
	if err := ctx.Run(env); err != nil {
		log.Fatalf("%v", err)
	}
}
