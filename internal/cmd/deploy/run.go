package deploy

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/cmd/helper"
	deployer "github.com/danielawaser/devops-project/internal/deploy"
	"github.com/danielawaser/devops-project/internal/deploy/pipeline"
	"github.com/danielawaser/devops-project/internal/deploy/workflow"
	"github.com/danielawaser/devops-project/internal/pkg/logger"
)

const runCommandCLIErrorMsg = "failed to run deployment"

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Category:  "deploy",
		Usage:     "Run the full deployment pipeline",
		UsageText: "game-deploy deploy run [options]",
		Flags: append(logger.Flags(), append(deployer.Flags(),
			&cli.StringFlag{
				Name:    "workflow",
				Usage:   "Validate the given workflow file and take the deploy parameters from it",
				Sources: cli.EnvVars("GAME_DEPLOY_WORKFLOW"),
			},
		)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(runCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			cfg := deployer.DefaultConfig()
			cfg.Log = cfg.Log.Merge(logger.ConfigFromCLI(cmd))
			cfg = cfg.Merge(deployer.ConfigFromCLI(cmd))

			if path := cmd.String("workflow"); path != "" {
				def, err := workflow.ParseFile(path)
				if err != nil {
					return cli.Exit(helper.FormatError(runCommandCLIErrorMsg, err), 1)
				}
				params, err := def.Params()
				if err != nil {
					return cli.Exit(helper.FormatError(runCommandCLIErrorMsg, err), 1)
				}
				cfg = cfg.Merge(configFromParams(params))
			}

			log, err := logger.NewZap(cfg.Log)
			if err != nil {
				return cli.Exit(helper.FormatError(runCommandCLIErrorMsg, err), 1)
			}

			updater := &pipelineUpdater{area: &pterm.AreaPrinter{}}
			updater.start()

			result, runErr := deployer.Run(ctx, &deployer.RunnerReq{
				Logger:   log,
				Config:   cfg,
				OnUpdate: updater.update,
			})
			updater.stop()

			if result != nil {
				outputResult(result)
			}
			if runErr != nil {
				return cli.Exit(helper.FormatError(runCommandCLIErrorMsg, runErr), 1)
			}
			return nil
		},
	}
}

// configFromParams maps validated workflow parameters onto the deploy
// configuration.
func configFromParams(params *workflow.DeployParams) *deployer.Config {
	return &deployer.Config{
		Auth: &deployer.AuthConfig{
			WorkloadIdentityProvider: params.WorkloadIdentityProvider,
			ServiceAccount:           params.ServiceAccount,
		},
		Run: &deployer.RunConfig{
			Project:              params.Project,
			Region:               params.Region,
			Service:              params.Service,
			Port:                 params.Port,
			AllowUnauthenticated: params.AllowUnauthenticated,
		},
	}
}

// outputResult prints the deployment summary; the step table is
// already on screen from the live monitor.
func outputResult(result *deployer.Result) {

	header := []string{
		fmt.Sprintf("Image|%s", result.Image),
		fmt.Sprintf("Service URL|%s", result.URL),
	}
	if result.Commit != "" {
		header = append([]string{fmt.Sprintf("Commit|%s", result.Commit)}, header...)
	}

	pterm.DefaultSection.Print("Deployment")
	pterm.DefaultBasicText.Print(helper.FormatKV(header) + "\n")
}

type pipelineUpdater struct {
	area *pterm.AreaPrinter
}

func (pu *pipelineUpdater) start() {
	_ = pu.area.Stop()
}

func (pu *pipelineUpdater) stop() {
	_ = pu.area.Stop()
}

func (pu *pipelineUpdater) update(steps []*pipeline.Step) {

	var out string
	out += pterm.DefaultSection.Sprint("Steps")
	out += pterm.DefaultBasicText.Sprint(stepTable(steps))

	pu.area.Update(out)
}

func stepTable(steps []*pipeline.Step) string {

	out := pterm.TableData{{"Step", "Status", "Start Time", "End Time"}}

	for _, step := range steps {
		out = append(out, []string{
			step.Name,
			colouredStepStatus(step.Status),
			helper.FormatTime(step.StartTime),
			helper.FormatTime(step.EndTime),
		})
	}

	body, _ := pterm.DefaultTable.WithHasHeader().WithData(out).Srender()
	return body
}

func colouredStepStatus(status string) string {
	switch status {
	case pipeline.StatusPending:
		return pterm.Yellow(status)
	case pipeline.StatusRunning:
		return pterm.LightMagenta(status)
	case pipeline.StatusSuccess:
		return pterm.Green(status)
	case pipeline.StatusFailed:
		return pterm.Red(status)
	case pipeline.StatusSkipped:
		return pterm.Gray(status)
	default:
		return pterm.White()
	}
}
