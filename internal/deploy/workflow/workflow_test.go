package workflow

import (
	"strings"
	"testing"
)

const deployWorkflowYAML = `
name: Deploy to Cloud Run

on:
  workflow_dispatch:

jobs:
  deploy:
    runs-on: ubuntu-latest
    permissions:
      contents: read
      id-token: write
    steps:
      - name: Checkout code
        uses: actions/checkout@v4

      - name: Authenticate with Google Cloud
        uses: google-github-actions/auth@v2
        with:
          workload_identity_provider: projects/123456/locations/global/workloadIdentityPools/github/providers/github
          service_account: deployer@devops-project.iam.gserviceaccount.com

      - name: Set up Cloud SDK
        uses: google-github-actions/setup-gcloud@v2

      - name: Deploy to Cloud Run
        run: |
          gcloud run deploy game-server-service \
            --source . \
            --port 8080 \
            --region europe-west6 \
            --allow-unauthenticated \
            --project devops-project

      - name: Show service URL
        run: |
          gcloud run services describe game-server-service \
            --region europe-west6 \
            --project devops-project \
            --format 'value(status.url)'
`

func TestParseDeployWorkflow(t *testing.T) {
	def, err := Parse([]byte(deployWorkflowYAML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if def.Name != "Deploy to Cloud Run" {
		t.Errorf("name = %q", def.Name)
	}
	if !def.On.WorkflowDispatch {
		t.Error("workflow_dispatch trigger not detected")
	}
	if def.On.Push || def.On.Schedule {
		t.Error("unexpected push/schedule trigger detected")
	}

	job, ok := def.Jobs["deploy"]
	if !ok {
		t.Fatal("deploy job missing")
	}
	if len(job.Steps) != 5 {
		t.Fatalf("steps = %d, want 5", len(job.Steps))
	}
	if job.Permissions["id-token"] != "write" {
		t.Errorf("id-token permission = %q, want write", job.Permissions["id-token"])
	}
}

func TestValidateAcceptsCanonicalWorkflow(t *testing.T) {
	def, err := Parse([]byte(deployWorkflowYAML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := def.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidateRejectsPushTrigger(t *testing.T) {
	yaml := strings.Replace(deployWorkflowYAML,
		"on:\n  workflow_dispatch:",
		"on:\n  workflow_dispatch:\n  push:\n    branches: [main]", 1)

	def, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := def.Validate(); err == nil || !strings.Contains(err.Error(), "push trigger") {
		t.Errorf("Validate() = %v, want push trigger rejection", err)
	}
}

func TestValidateRejectsMissingPermissions(t *testing.T) {
	yaml := strings.Replace(deployWorkflowYAML, "      id-token: write\n", "", 1)

	def, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := def.Validate(); err == nil || !strings.Contains(err.Error(), "id-token") {
		t.Errorf("Validate() = %v, want id-token permission rejection", err)
	}
}

func TestValidateRejectsWrongRegion(t *testing.T) {
	yaml := strings.ReplaceAll(deployWorkflowYAML, "europe-west6", "us-central1")

	def, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := def.Validate(); err == nil || !strings.Contains(err.Error(), "region") {
		t.Errorf("Validate() = %v, want region rejection", err)
	}
}

func TestValidateRejectsMissingUnauthenticated(t *testing.T) {
	yaml := strings.Replace(deployWorkflowYAML, "            --allow-unauthenticated \\\n", "", 1)

	def, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := def.Validate(); err == nil || !strings.Contains(err.Error(), "unauthenticated") {
		t.Errorf("Validate() = %v, want unauthenticated rejection", err)
	}
}

func TestValidateRejectsStepReordering(t *testing.T) {
	def, err := Parse([]byte(deployWorkflowYAML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	job := def.Jobs["deploy"]
	job.Steps[0], job.Steps[1] = job.Steps[1], job.Steps[0]

	if err := def.Validate(); err == nil {
		t.Error("Validate() accepted reordered steps, want error")
	}
}

func TestParamsExtraction(t *testing.T) {
	def, err := Parse([]byte(deployWorkflowYAML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	params, err := def.Params()
	if err != nil {
		t.Fatalf("Params() error: %v", err)
	}

	if params.Project != "devops-project" {
		t.Errorf("project = %q", params.Project)
	}
	if params.Service != RequiredService {
		t.Errorf("service = %q", params.Service)
	}
	if params.Region != RequiredRegion {
		t.Errorf("region = %q", params.Region)
	}
	if params.Port != RequiredPort {
		t.Errorf("port = %d", params.Port)
	}
	if !params.AllowUnauthenticated {
		t.Error("allow-unauthenticated not detected")
	}
	if params.ServiceAccount != "deployer@devops-project.iam.gserviceaccount.com" {
		t.Errorf("service account = %q", params.ServiceAccount)
	}
	if params.WorkloadIdentityProvider == "" {
		t.Error("workload identity provider missing")
	}
}
