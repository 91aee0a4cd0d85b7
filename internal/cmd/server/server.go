package server

import (
	"github.com/urfave/cli/v3"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "server",
		Usage:           "Run and interact with a game server",
		HideHelpCommand: true,
		UsageText:       "game-server server <command> [options] [args]",
		Commands: []*cli.Command{
			runCommand(),
		},
	}
}
