package workflow

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	"github.com/danielawaser/devops-project/internal/deploy/workflow"
)

const validateCommandCLIErrorMsg = "failed to validate workflow"

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Category:  "workflow",
		Usage:     "Validate a deployment workflow file",
		UsageText: "game-deploy workflow validate [options] [path]",
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(validateCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			def, err := workflow.ParseFile(cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(validateCommandCLIErrorMsg, err), 1)
			}

			params, err := def.Params()
			if err != nil {
				return cli.Exit(helper.FormatError(validateCommandCLIErrorMsg, err), 1)
			}

			outputParams(def, params)
			return nil
		},
	}
}

func outputParams(def *workflow.Definition, params *workflow.DeployParams) {

	pterm.DefaultBasicText.Print(helper.FormatKV([]string{
		fmt.Sprintf("Name|%s", def.Name),
		fmt.Sprintf("Project|%s", params.Project),
		fmt.Sprintf("Service|%s", params.Service),
		fmt.Sprintf("Region|%s", params.Region),
		fmt.Sprintf("Port|%s", strconv.Itoa(params.Port)),
		fmt.Sprintf("Unauthenticated Access|%s", strconv.FormatBool(params.AllowUnauthenticated)),
		fmt.Sprintf("Service Account|%s", params.ServiceAccount),
		fmt.Sprintf("Identity Provider|%s", params.WorkloadIdentityProvider),
	}))
	pterm.DefaultBasicText.Print("\n")
	pterm.Success.Println("workflow is valid")
}
