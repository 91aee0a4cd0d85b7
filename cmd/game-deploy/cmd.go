package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/deploy"
	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/internal/cmd/service"
	"github.com/danielawaser/devops-project/internal/cmd/workflow"
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
			deploy.Command(),
			service.Command(),
			workflow.Command(),
		},
		Name:  "game-deploy",
		Usage: "Deploy the game server to Cloud Run",
		Description: strings.TrimSpace(
			`Game Deploy builds the game server container from source and rolls it
onto Cloud Run using workload identity federation, so no static cloud
credential is ever stored. It can also validate the declarative
workflow file that describes the same deployment.`),
		Version:         version.Get(),
		HideHelpCommand: true,
	}

	if err := cliApp.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprint(os.Stderr, err.Error()+"\n")
		os.Exit(1)
	}
}
