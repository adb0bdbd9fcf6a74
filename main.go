package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/clientledger/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	commands struct {
		Version kong.VersionFlag `help:"Show version information"`
		cli.Commands
	}
)

func main() {
	cli.Version = Version
	cli.CommitSHA = CommitSHA

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&commands,
		kong.Vars{
			"version": buildVersion(),
		},
		kong.Name("clientledger"),
		kong.Description("Apply a stream of client deposits and withdrawals and print the resulting account balances."),
		kong.UsageOnError(),
		kong.Bind(&commands.Globals),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	if err := kctx.Run(); err != nil {
		var cmdErr *cli.CommandError
		if !errors.As(err, &cmdErr) {
			kctx.FatalIfErrorf(err)
		}
		stop()
		os.Exit(cli.ExitCode(err))
	}
}

func buildVersion() string {
	if Version == "" {
		Version = "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitSHA)
}
