package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/pkg/api/v1"
)

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Category:  "session",
		Usage:     "Get the detail of a game session",
		UsageText: "game-server session get [options] [session-id]",
		Flags: append(helper.ClientFlags(),
			&cli.IntFlag{
				Name:  "player",
				Usage: "Show the session state as seen by this player index",
				Value: -1,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(getCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			id, err := ulid.Parse(cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(getCommandCLIErrorMsg, err), 1)
			}

			client := api.NewClient(helper.ClientConfigFromFlags(cmd))

			// Player views mask the information the caller must not see;
			// the unscoped get returns the full state.
			if player := cmd.Int("player"); player >= 0 {
				resp, _, err := client.Sessions().View(ctx, &api.SessionViewReq{ID: id, Player: int(player)})
				if err != nil {
					return cli.Exit(helper.FormatError(getCommandCLIErrorMsg, err), 1)
				}
				outputState(resp.State)
				return nil
			}

			resp, _, err := client.Sessions().Get(ctx, &api.SessionGetReq{ID: id})
			if err != nil {
				return cli.Exit(helper.FormatError(getCommandCLIErrorMsg, err), 1)
			}

			pterm.DefaultBasicText.Print(sessionHeader(resp.Session))
			pterm.DefaultSection.Print("State")
			outputState(resp.State)
			return nil
		},
	}
}

func outputState(state json.RawMessage) {
	var pretty json.RawMessage
	if indented, err := json.MarshalIndent(json.RawMessage(state), "", "  "); err == nil {
		pretty = indented
	} else {
		pretty = state
	}
	pterm.DefaultBasicText.Print(string(pretty) + "\n")
}
