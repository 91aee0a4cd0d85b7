package deploy

import (
	"strings"
	"testing"

	"github.com/danielawaser/devops-project/internal/deploy/workflow"
)

func TestDefaultConfig(t *testing.T) {

	cfg := DefaultConfig()

	if cfg.Run.Service != workflow.RequiredService {
		t.Errorf("service = %q, want %q", cfg.Run.Service, workflow.RequiredService)
	}
	if cfg.Run.Region != workflow.RequiredRegion {
		t.Errorf("region = %q, want %q", cfg.Run.Region, workflow.RequiredRegion)
	}
	if cfg.Run.Port != workflow.RequiredPort {
		t.Errorf("port = %d, want %d", cfg.Run.Port, workflow.RequiredPort)
	}
	if !cfg.Run.AllowUnauthenticated {
		t.Error("unauthenticated access not enabled by default")
	}
	if cfg.Source.Path != "." {
		t.Errorf("source path = %q, want .", cfg.Source.Path)
	}
}

func TestConfigMerge(t *testing.T) {

	cfg := DefaultConfig().Merge(&Config{
		Auth: &AuthConfig{
			WorkloadIdentityProvider: "projects/1/locations/global/workloadIdentityPools/p/providers/v",
			ServiceAccount:           "deployer@proj.iam.gserviceaccount.com",
		},
		Run: &RunConfig{Project: "proj"},
	})

	if cfg.Run.Project != "proj" {
		t.Errorf("project = %q", cfg.Run.Project)
	}
	if cfg.Run.Region != workflow.RequiredRegion {
		t.Errorf("merge clobbered default region: %q", cfg.Run.Region)
	}
	if cfg.Auth.ServiceAccount != "deployer@proj.iam.gserviceaccount.com" {
		t.Errorf("service account = %q", cfg.Auth.ServiceAccount)
	}
}

func TestConfigValidate(t *testing.T) {

	cfg := DefaultConfig()

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "project") {
		t.Errorf("Validate() = %v, want missing project error", err)
	}

	cfg.Run.Project = "proj"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestConfigBuildDefaults(t *testing.T) {

	cfg := DefaultConfig()
	cfg.Run.Project = "devops-project"

	wantImage := "europe-west6-docker.pkg.dev/devops-project/game-server-service/game-server-service:latest"
	if got := cfg.BuildImage(); got != wantImage {
		t.Errorf("BuildImage() = %q, want %q", got, wantImage)
	}
	if got := cfg.BuildBucket(); got != "devops-project_cloudbuild" {
		t.Errorf("BuildBucket() = %q", got)
	}

	cfg.Build.Image = "custom:tag"
	cfg.Build.Bucket = "custom-bucket"
	if cfg.BuildImage() != "custom:tag" || cfg.BuildBucket() != "custom-bucket" {
		t.Error("explicit build settings not honoured")
	}
}
