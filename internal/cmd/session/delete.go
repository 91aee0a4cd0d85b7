package session

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/pkg/api/v1"
)

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Category:  "session",
		Usage:     "Delete a game session",
		UsageText: "game-server session delete [options] [session-id]",
		Flags:     helper.ClientFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			id, err := ulid.Parse(cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}

			client := api.NewClient(helper.ClientConfigFromFlags(cmd))

			if _, err := client.Sessions().Delete(ctx, &api.SessionDeleteReq{ID: id}); err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}

			_, _ = fmt.Fprintf(cmd.Writer, "Session %s deleted\n", id)
			return nil
		},
	}
}
