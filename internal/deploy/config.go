package deploy

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v3"

	"github.com/danielawaser/devops-project/internal/deploy/workflow"
	"github.com/danielawaser/devops-project/internal/pkg/logger"
)

type Config struct {
	Log    *logger.Config
	Auth   *AuthConfig
	Source *SourceConfig
	Build  *BuildConfig
	Run    *RunConfig
}

// AuthConfig describes the federated identity exchange. No static
// credential appears here; the ID token is minted by the environment.
type AuthConfig struct {
	WorkloadIdentityProvider string
	ServiceAccount           string
	IDTokenFile              string
}

type SourceConfig struct {
	Path string
	URL  string
}

type BuildConfig struct {
	Bucket string
	Image  string
}

type RunConfig struct {
	Project              string
	Region               string
	Service              string
	Port                 int
	AllowUnauthenticated bool
}

func DefaultConfig() *Config {
	return &Config{
		Log:    logger.DefaultDeployConfig(),
		Auth:   &AuthConfig{},
		Source: &SourceConfig{Path: "."},
		Build:  &BuildConfig{},
		Run: &RunConfig{
			Region:               workflow.RequiredRegion,
			Service:              workflow.RequiredService,
			Port:                 workflow.RequiredPort,
			AllowUnauthenticated: true,
		},
	}
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "project",
			Usage:   "The Google Cloud project to deploy into",
			Sources: cli.EnvVars("GAME_DEPLOY_PROJECT"),
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "The Cloud Run region to deploy into",
			Sources: cli.EnvVars("GAME_DEPLOY_REGION"),
		},
		&cli.StringFlag{
			Name:    "service",
			Usage:   "The Cloud Run service name",
			Sources: cli.EnvVars("GAME_DEPLOY_SERVICE"),
		},
		&cli.IntFlag{
			Name:    "port",
			Usage:   "The container port the service listens on",
			Sources: cli.EnvVars("GAME_DEPLOY_PORT"),
		},
		&cli.StringFlag{
			Name:    "workload-identity-provider",
			Usage:   "The workload identity provider resource to federate through",
			Sources: cli.EnvVars("GAME_DEPLOY_WORKLOAD_IDENTITY_PROVIDER"),
		},
		&cli.StringFlag{
			Name:    "service-account",
			Usage:   "The service account to impersonate for the deploy",
			Sources: cli.EnvVars("GAME_DEPLOY_SERVICE_ACCOUNT"),
		},
		&cli.StringFlag{
			Name:    "id-token-file",
			Usage:   "The file holding the ambient OIDC ID token",
			Sources: cli.EnvVars("GAME_DEPLOY_ID_TOKEN_FILE"),
		},
		&cli.StringFlag{
			Name:    "source-path",
			Usage:   "The local source directory to deploy",
			Sources: cli.EnvVars("GAME_DEPLOY_SOURCE_PATH"),
		},
		&cli.StringFlag{
			Name:    "source-url",
			Usage:   "A remote repository URL to clone and deploy instead of a local path",
			Sources: cli.EnvVars("GAME_DEPLOY_SOURCE_URL"),
		},
		&cli.StringFlag{
			Name:    "build-bucket",
			Usage:   "The storage bucket for staging build sources",
			Sources: cli.EnvVars("GAME_DEPLOY_BUILD_BUCKET"),
		},
		&cli.StringFlag{
			Name:    "build-image",
			Usage:   "The fully qualified image reference the build produces",
			Sources: cli.EnvVars("GAME_DEPLOY_BUILD_IMAGE"),
		},
	}
}

func ConfigFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Auth: &AuthConfig{
			WorkloadIdentityProvider: cmd.String("workload-identity-provider"),
			ServiceAccount:           cmd.String("service-account"),
			IDTokenFile:              cmd.String("id-token-file"),
		},
		Source: &SourceConfig{
			Path: cmd.String("source-path"),
			URL:  cmd.String("source-url"),
		},
		Build: &BuildConfig{
			Bucket: cmd.String("build-bucket"),
			Image:  cmd.String("build-image"),
		},
		Run: &RunConfig{
			Project: cmd.String("project"),
			Region:  cmd.String("region"),
			Service: cmd.String("service"),
			Port:    cmd.Int("port"),
		},
	}
}

func (c *Config) Merge(other *Config) *Config {
	if c == nil {
		return other
	}

	result := *c

	if other.Auth != nil {
		if result.Auth == nil {
			result.Auth = &AuthConfig{}
		}
		if other.Auth.WorkloadIdentityProvider != "" {
			result.Auth.WorkloadIdentityProvider = other.Auth.WorkloadIdentityProvider
		}
		if other.Auth.ServiceAccount != "" {
			result.Auth.ServiceAccount = other.Auth.ServiceAccount
		}
		if other.Auth.IDTokenFile != "" {
			result.Auth.IDTokenFile = other.Auth.IDTokenFile
		}
	}

	if other.Source != nil {
		if result.Source == nil {
			result.Source = &SourceConfig{}
		}
		if other.Source.Path != "" {
			result.Source.Path = other.Source.Path
		}
		if other.Source.URL != "" {
			result.Source.URL = other.Source.URL
		}
	}

	if other.Build != nil {
		if result.Build == nil {
			result.Build = &BuildConfig{}
		}
		if other.Build.Bucket != "" {
			result.Build.Bucket = other.Build.Bucket
		}
		if other.Build.Image != "" {
			result.Build.Image = other.Build.Image
		}
	}

	if other.Run != nil {
		if result.Run == nil {
			result.Run = &RunConfig{}
		}
		if other.Run.Project != "" {
			result.Run.Project = other.Run.Project
		}
		if other.Run.Region != "" {
			result.Run.Region = other.Run.Region
		}
		if other.Run.Service != "" {
			result.Run.Service = other.Run.Service
		}
		if other.Run.Port != 0 {
			result.Run.Port = other.Run.Port
		}
	}

	if other.Log != nil {
		result.Log = result.Log.Merge(other.Log)
	}

	return &result
}

func (c *Config) Validate() error {

	var mErr *multierror.Error

	if c.Run == nil || c.Run.Project == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("a project must be configured"))
	}
	if c.Run != nil && c.Run.Service == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("a service name must be configured"))
	}
	if c.Run != nil && c.Run.Region == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("a region must be configured"))
	}

	return mErr.ErrorOrNil()
}

// defaultBuildImage is where the built image lands when no explicit
// reference is configured; the region-local registry keeps the image
// next to the service.
func (c *Config) BuildImage() string {
	if c.Build != nil && c.Build.Image != "" {
		return c.Build.Image
	}
	return fmt.Sprintf("%s-docker.pkg.dev/%s/%s/%s:latest",
		c.Run.Region, c.Run.Project, c.Run.Service, c.Run.Service)
}

// BuildBucket returns the configured staging bucket, or the
// conventional per-project Cloud Build bucket.
func (c *Config) BuildBucket() string {
	if c.Build != nil && c.Build.Bucket != "" {
		return c.Build.Bucket
	}
	return fmt.Sprintf("%s_cloudbuild", c.Run.Project)
}
