package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/game"
	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/internal/cmd/server"
	"github.com/danielawaser/devops-project/internal/cmd/session"
	_ "github.com/danielawaser/devops-project/internal/games/battleship"
	_ "github.com/danielawaser/devops-project/internal/games/dog"
	_ "github.com/danielawaser/devops-project/internal/games/hangman"
	"github.com/danielawaser/devops-project/internal/pkg/version"
)

func main() {

	cli.VersionPrinter = func(cmd *cli.Command) {
		_, _ = fmt.Fprint(cmd.Writer, helper.FormatKV([]string{
			fmt.Sprintf("Version|%s", cmd.Version),
			fmt.Sprintf("Build Time|%s", version.BuildTime),
			fmt.Sprintf("Build Commit|%s", version.BuildCommit),
		}))
		_, _ = fmt.Fprint(cmd.Writer, "\n")
	}

	cliApp := cli.Command{
		Commands: []*cli.Command{
			game.Command(),
			server.Command(),
			session.Command(),
		},
		Name:  "game-server",
		Usage: "A multi-game session server for battleship, dog, and hangman",
		Description: strings.TrimSpace(
			`Game Server hosts turn-based board and word games behind a small JSON
API. It runs as a stateless container, holds sessions in memory, and
ships with client commands for creating, inspecting, and playing games
from the terminal.`),
		Version:         version.Get(),
		HideHelpCommand: true,
	}

	if err := cliApp.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprint(os.Stderr, err.Error()+"\n")
		os.Exit(1)
	}
}
