package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alexanderramin/crewplan/internal/app"
	"github.com/alexanderramin/crewplan/internal/cli"
	"github.com/alexanderramin/crewplan/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		return err
	}

	session, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	a := cli.NewApp(session)
	a.IsInteractive = func() bool {
		in, out := os.Stdin.Fd(), os.Stdout.Fd()
		return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
			(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
	}

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}

// configPath picks --config out of args before cobra runs; the session is
// opened before any command is built.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("crewplan", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}
