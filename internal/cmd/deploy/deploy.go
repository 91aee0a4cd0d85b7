package deploy

import (
	"github.com/urfave/cli/v3"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Deploy the game server to Cloud Run",
		Commands: []*cli.Command{
			runCommand(),
		},
	}
}
