package session

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/pkg/api/v1"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Category:  "session",
		Usage:     "Create a new game session",
		UsageText: "game-server session create [options] [game-type]",
		Flags: append(helper.ClientFlags(),
			&cli.StringFlag{
				Name:  "word",
				Usage: "The word to guess when creating a hangman session",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed the game's random source for reproducible play",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(createCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			client := api.NewClient(helper.ClientConfigFromFlags(cmd))

			req := api.SessionCreateReq{
				GameType: cmd.Args().First(),
				Word:     cmd.String("word"),
				Seed:     cmd.Int64("seed"),
			}

			resp, _, err := client.Sessions().Create(ctx, &req)
			if err != nil {
				return cli.Exit(helper.FormatError(createCommandCLIErrorMsg, err), 1)
			}

			pterm.DefaultBasicText.Print(sessionHeader(resp.Session))
			return nil
		},
	}
}
