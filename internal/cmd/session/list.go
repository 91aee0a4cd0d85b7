package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/pkg/api/v1"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "session",
		Usage:     "List game sessions",
		UsageText: "game-server session list [options]",
		Flags:     helper.ClientFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			client := api.NewClient(helper.ClientConfigFromFlags(cmd))

			resp, _, err := client.Sessions().List(ctx, &api.SessionListReq{})
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			outputSessionList(cmd, resp.Sessions)
			return nil
		},
	}
}

func outputSessionList(cmd *cli.Command, sessions []*api.Session) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprint(cmd.Writer, "No sessions found\n")
		return
	}

	out := pterm.TableData{{"ID", "Game", "Phase", "Players", "Active Player", "Create Time"}}

	for _, session := range sessions {
		out = append(out, []string{
			session.ID.String(),
			session.GameType,
			colouredSessionPhase(session.Phase),
			strconv.Itoa(session.Players),
			strconv.Itoa(session.ActivePlayer),
			helper.FormatTime(session.CreateTime),
		})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(out).Render()
}
