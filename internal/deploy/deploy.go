// Package deploy implements the native deployment pipeline: resolve
// the source, federate credentials, build the container image, roll
// the Cloud Run service, and report its serving URL.
package deploy

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/danielawaser/devops-project/internal/deploy/auth"
	"github.com/danielawaser/devops-project/internal/deploy/build"
	"github.com/danielawaser/devops-project/internal/deploy/cloudrun"
	"github.com/danielawaser/devops-project/internal/deploy/pipeline"
	"github.com/danielawaser/devops-project/internal/deploy/source"
)

const (
	StepResolveSource = "resolve-source"
	StepAuthenticate  = "authenticate"
	StepBuildImage    = "build-image"
	StepDeployService = "deploy-service"
	StepServiceURL    = "service-url"
)

type RunnerReq struct {
	Logger *zap.Logger
	Config *Config

	// OnUpdate receives step state transitions for progress rendering.
	OnUpdate pipeline.UpdateFunc
}

// Result is the outcome of a pipeline run. Steps always carries the
// per-step record, also when the run failed part way.
type Result struct {
	URL    string
	Image  string
	Commit string
	Steps  []*pipeline.Step
}

// Run executes the full deployment pipeline and blocks until it
// finishes or fails.
func Run(ctx context.Context, req *RunnerReq) (*Result, error) {

	cfg := req.Config

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deploy configuration: %w", err)
	}

	var (
		sourceInfo  *source.Info
		tokenSource oauth2.TokenSource
		buildResult *build.Result
		serviceURL  string
	)

	workspace := source.NewWorkspace(&source.WorkspaceReq{
		Logger: req.Logger,
		Path:   cfg.Source.Path,
		URL:    cfg.Source.URL,
	})

	p := pipeline.New(req.Logger, req.OnUpdate)

	p.Append(StepResolveSource, func(ctx context.Context) error {
		info, err := workspace.Resolve(ctx)
		if err != nil {
			return err
		}
		sourceInfo = info
		return nil
	})

	p.Append(StepAuthenticate, func(ctx context.Context) error {
		// Without a provider the pipeline runs on the ambient
		// application default credentials.
		if cfg.Auth.WorkloadIdentityProvider == "" {
			req.Logger.Info("no workload identity provider configured, using default credentials")
			return nil
		}

		exchanger := auth.NewExchanger(&auth.ExchangerReq{
			Logger:                   req.Logger,
			WorkloadIdentityProvider: cfg.Auth.WorkloadIdentityProvider,
			ServiceAccount:           cfg.Auth.ServiceAccount,
			IDTokenFile:              cfg.Auth.IDTokenFile,
		})

		ts, err := exchanger.TokenSource(ctx)
		if err != nil {
			return err
		}
		tokenSource = ts
		return nil
	})

	p.Append(StepBuildImage, func(ctx context.Context) error {

		builder, err := build.NewBuilder(ctx, &build.BuilderReq{
			Logger:      req.Logger,
			Project:     cfg.Run.Project,
			Bucket:      cfg.BuildBucket(),
			Image:       cfg.BuildImage(),
			TokenSource: tokenSource,
		})
		if err != nil {
			return err
		}
		defer builder.Close()

		archive, err := os.CreateTemp("", "game-deploy-*.tar.gz")
		if err != nil {
			return fmt.Errorf("failed to create archive file: %w", err)
		}
		defer func() {
			_ = archive.Close()
			_ = os.Remove(archive.Name())
		}()

		if err := workspace.Archive(sourceInfo, archive); err != nil {
			return err
		}
		if _, err := archive.Seek(0, 0); err != nil {
			return err
		}

		buildResult, err = builder.Run(ctx, archive, sourceInfo.Commit)
		return err
	})

	p.Append(StepDeployService, func(ctx context.Context) error {

		deployer, err := cloudrun.NewDeployer(ctx, &cloudrun.DeployerReq{
			Logger:               req.Logger,
			Project:              cfg.Run.Project,
			Region:               cfg.Run.Region,
			Service:              cfg.Run.Service,
			Port:                 cfg.Run.Port,
			AllowUnauthenticated: cfg.Run.AllowUnauthenticated,
			TokenSource:          tokenSource,
		})
		if err != nil {
			return err
		}
		defer deployer.Close()

		_, err = deployer.Deploy(ctx, buildResult.Image)
		return err
	})

	p.Append(StepServiceURL, func(ctx context.Context) error {

		deployer, err := cloudrun.NewDeployer(ctx, &cloudrun.DeployerReq{
			Logger:      req.Logger,
			Project:     cfg.Run.Project,
			Region:      cfg.Run.Region,
			Service:     cfg.Run.Service,
			TokenSource: tokenSource,
		})
		if err != nil {
			return err
		}
		defer deployer.Close()

		url, err := deployer.URL(ctx)
		if err != nil {
			return err
		}
		serviceURL = url
		return nil
	})

	runErr := p.Run(ctx)

	result := Result{
		URL:   serviceURL,
		Steps: p.Steps(),
	}
	if sourceInfo != nil {
		result.Commit = sourceInfo.Commit
	}
	if buildResult != nil {
		result.Image = buildResult.Image
	}

	return &result, runErr
}
