package game

import (
	"github.com/urfave/cli/v3"
)

const (
	listCommandCLIErrorMsg = "failed to list game server games"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "game",
		Usage:           "Read the games the server can host",
		HideHelpCommand: true,
		UsageText:       "game-server game <command> [options] [args]",
		Commands: []*cli.Command{
			listCommand(),
		},
	}
}
