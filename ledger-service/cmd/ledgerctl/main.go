// Command ledgerctl runs maintenance tasks against the configured ledger store.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/cli"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "ledgerctl")
	cli.Register(commander, cli.DefaultEnv())
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
