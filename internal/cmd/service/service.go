package service

import (
	"github.com/urfave/cli/v3"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "service",
		Usage: "Interact with the deployed Cloud Run service",
		Commands: []*cli.Command{
			urlCommand(),
		},
	}
}
