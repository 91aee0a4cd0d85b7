package game

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/pkg/api/v1"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "game",
		Usage:     "List the game types available on the server",
		UsageText: "game-server game list [options]",
		Flags:     helper.ClientFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			client := api.NewClient(helper.ClientConfigFromFlags(cmd))

			resp, _, err := client.Games().List(ctx, &api.GameListReq{})
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			outputGameList(cmd, resp.Games)
			return nil
		},
	}
}

func outputGameList(cmd *cli.Command, gameTypes []string) {
	if len(gameTypes) == 0 {
		_, _ = fmt.Fprint(cmd.Writer, "No games found\n")
		return
	}

	out := pterm.TableData{{"Name"}}

	for _, gameType := range gameTypes {
		out = append(out, []string{gameType})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(out).Render()
}
