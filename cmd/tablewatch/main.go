package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	wonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Replay  ReplayCmd        `cmd:"" help:"Replay a session script and print round snapshots"`
	Serve   ServeCmd         `cmd:"" help:"Replay a session script and broadcast snapshots over WebSocket"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tablewatch"),
		kong.Description("Single-table hold'em round tracker and replayer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func setupLogger(debug bool) *log.Logger {
	logger := log.New(os.Stderr)
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
