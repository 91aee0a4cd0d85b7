package session

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/pkg/api/v1"
)

const (
	createCommandCLIErrorMsg = "failed to create game session"
	deleteCommandCLIErrorMsg = "failed to delete game session"
	getCommandCLIErrorMsg    = "failed to get game session"
	listCommandCLIErrorMsg   = "failed to list game sessions"
	playCommandCLIErrorMsg   = "failed to play game session"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "session",
		Usage:           "Create, read, delete, and play game sessions",
		HideHelpCommand: true,
		UsageText:       "game-server session <command> [options] [args]",
		Commands: []*cli.Command{
			createCommand(),
			deleteCommand(),
			getCommand(),
			listCommand(),
			playCommand(),
		},
	}
}

func sessionHeader(session *api.Session) string {
	return helper.FormatKV([]string{
		fmt.Sprintf("ID|%s", session.ID),
		fmt.Sprintf("Game|%s", session.GameType),
		fmt.Sprintf("Phase|%v", colouredSessionPhase(session.Phase)),
		fmt.Sprintf("Players|%d", session.Players),
		fmt.Sprintf("Active Player|%d", session.ActivePlayer),
		fmt.Sprintf("Create Time|%s", helper.FormatTime(session.CreateTime)),
		fmt.Sprintf("Update Time|%s", helper.FormatTime(session.UpdateTime)),
	})
}

func colouredSessionPhase(phase string) string {
	switch phase {
	case api.SessionPhaseSetup:
		return pterm.Yellow(phase)
	case api.SessionPhaseRunning:
		return pterm.LightMagenta(phase)
	case api.SessionPhaseFinished:
		return pterm.Green(phase)
	default:
		return pterm.White(phase)
	}
}
