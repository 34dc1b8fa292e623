package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/teranos/wd/cmd/wd/commands"
	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := commands.Options{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: version.Load(os.Getenv),
	}
	if err := commands.Execute(ctx, opts, os.Args[1:]); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		if hint := errors.FlattenHints(err); hint != "" {
			pterm.Info.WithWriter(os.Stderr).Println(hint)
		}
		stop()
		os.Exit(1)
	}
}
