package session

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/pkg/api/v1"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Category:  "session",
		Usage:     "Autoplay a game session and monitor its progress",
		UsageText: "game-server session play [options] [session-id]",
		Flags: append(helper.ClientFlags(),
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "The time to wait between moves",
				Value: 500 * time.Millisecond,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(playCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			id, err := ulid.Parse(cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(playCommandCLIErrorMsg, err), 1)
			}

			client := api.NewClient(helper.ClientConfigFromFlags(cmd))

			resp, _, err := client.Sessions().Get(ctx, &api.SessionGetReq{ID: id})
			if err != nil {
				return cli.Exit(helper.FormatError(playCommandCLIErrorMsg, err), 1)
			}

			if resp.Session.Phase == api.SessionPhaseFinished {
				pterm.DefaultBasicText.Print(sessionHeader(resp.Session))
				return nil
			}

			playSession(ctx, client, id, cmd.Duration("interval"))
			return nil
		},
	}
}

func playSession(ctx context.Context, client *api.Client, id ulid.ULID, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	updater := &sessionUpdater{area: &pterm.AreaPrinter{}}
	updater.start()
	defer updater.stop()

	for {
		select {
		case <-ticker.C:
			resp, _, err := client.Sessions().Autoplay(ctx, &api.SessionAutoplayReq{ID: id})
			if err != nil {
				continue
			}

			updater.update(resp)

			if resp.Session.Phase == api.SessionPhaseFinished {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

type sessionUpdater struct {
	area *pterm.AreaPrinter
}

func (su *sessionUpdater) start() {
	_ = su.area.Stop()
}

func (su *sessionUpdater) stop() {
	_ = su.area.Stop()
}

func (su *sessionUpdater) update(resp *api.SessionAutoplayResp) {

	var out string
	out += pterm.DefaultBasicText.Sprint(sessionHeader(resp.Session))
	out += "\n"

	if len(resp.Action) > 0 {
		out += pterm.DefaultSection.Sprint("Last Move")
		out += pterm.DefaultBasicText.Sprint(string(resp.Action) + "\n")
	}

	su.area.Update(out)
}
