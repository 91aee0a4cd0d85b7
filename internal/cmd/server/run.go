package server

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/internal/pkg/logger"
	"github.com/danielawaser/devops-project/internal/server"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:     "run",
		Category: "server",
		Usage:    "Run a game server",
		Flags:    append(logger.Flags(), server.Flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			defaultCfg := server.DefaultConfig()

			// Merge logger config from CLI
			defaultCfg.Log = defaultCfg.Log.Merge(logger.ConfigFromCLI(cmd))

			// Merge server config from CLI
			defaultCfg = defaultCfg.Merge(server.ConfigFromCLI(cmd))

			srv, err := server.NewServer(defaultCfg)
			if err != nil {
				return cli.Exit(helper.FormatError("failed to run a game server", err), 1)
			}
			srv.Start()
			srv.WaitForSignals()
			return nil
		},
	}
}
