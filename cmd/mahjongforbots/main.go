package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

var cli struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`

	Play     PlayCmd     `cmd:"" help:"Play a table against bots in the terminal"`
	Simulate SimulateCmd `cmd:"" help:"Run bot-vs-bot simulations and report statistics"`
	Serve    ServeCmd    `cmd:"" help:"Stream live bot games to WebSocket spectators"`
	Replay   ReplayCmd   `cmd:"" help:"Restore a saved game snapshot and inspect or finish it"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("mahjongforbots"),
		kong.Description("Four-player tile game engine for bot-vs-bot play"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run())
}
