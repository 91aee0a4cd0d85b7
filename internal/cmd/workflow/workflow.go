package workflow

import (
	"github.com/urfave/cli/v3"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "workflow",
		Usage: "Inspect and validate deployment workflow files",
		Commands: []*cli.Command{
			validateCommand(),
		},
	}
}
