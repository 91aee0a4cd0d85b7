package service

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	deployer "github.com/danielawaser/devops-project/internal/deploy"
	"github.com/danielawaser/devops-project/internal/deploy/cloudrun"
	"github.com/danielawaser/devops-project/internal/pkg/logger"
)

const urlCommandCLIErrorMsg = "failed to get service URL"

func urlCommand() *cli.Command {
	return &cli.Command{
		Name:      "url",
		Category:  "service",
		Usage:     "Print the serving URL of the deployed service",
		UsageText: "game-deploy service url [options]",
		Flags:     append(logger.Flags(), deployer.Flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(urlCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			cfg := deployer.DefaultConfig()
			cfg.Log = cfg.Log.Merge(logger.ConfigFromCLI(cmd))
			cfg = cfg.Merge(deployer.ConfigFromCLI(cmd))

			if err := cfg.Validate(); err != nil {
				return cli.Exit(helper.FormatError(urlCommandCLIErrorMsg, err), 1)
			}

			log, err := logger.NewZap(cfg.Log)
			if err != nil {
				return cli.Exit(helper.FormatError(urlCommandCLIErrorMsg, err), 1)
			}

			// Reads run on the caller's default credentials; the full
			// federation chain is only needed for deploys.
			client, err := cloudrun.NewDeployer(ctx, &cloudrun.DeployerReq{
				Logger:  log,
				Project: cfg.Run.Project,
				Region:  cfg.Run.Region,
				Service: cfg.Run.Service,
			})
			if err != nil {
				return cli.Exit(helper.FormatError(urlCommandCLIErrorMsg, err), 1)
			}
			defer client.Close()

			url, err := client.URL(ctx)
			if err != nil {
				return cli.Exit(helper.FormatError(urlCommandCLIErrorMsg, err), 1)
			}

			_, _ = fmt.Fprintln(cmd.Writer, url)
			return nil
		},
	}
}
