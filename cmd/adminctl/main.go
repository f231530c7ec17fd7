package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type cli struct {
	Config   string `short:"c" type:"path" env:"ADMIN_CONFIG" help:"Path to a YAML config file. ADMIN_* variables override it."`
	LogLevel string `name:"log-level" enum:",debug,info,warn,error" default:"" help:"Override the configured log level."`

	Serve    serveCmd    `cmd:"" help:"Serve the admin shell over HTTP."`
	TUI      tuiCmd      `cmd:"" name:"tui" help:"Run the admin shell in the terminal."`
	Orders   ordersCmd   `cmd:"" help:"Query the order table and print one page."`
	Fixtures fixturesCmd `cmd:"" help:"Dump the mock provider fixtures as YAML."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root cli
	kctx := kong.Parse(&root,
		kong.Name("adminctl"),
		kong.Description("Admin shell server, terminal client and fixture tools."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&root)
	kctx.FatalIfErrorf(err)
}
